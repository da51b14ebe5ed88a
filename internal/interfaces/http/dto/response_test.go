package dto

import (
	"testing"

	"github.com/findash/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]int{"rows": 3})

	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Equal(t, map[string]int{"rows": 3}, resp.Data)
}

func TestNewErrorResponse(t *testing.T) {
	t.Run("carries the domain error code", func(t *testing.T) {
		resp := NewErrorResponse(shared.ErrDataSource, "open data/orders.csv: no such file")

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, shared.ErrDataSource.Code, resp.Error.Code)
		assert.Equal(t, "open data/orders.csv: no such file", resp.Error.Message)
	})

	t.Run("falls back to the generic message", func(t *testing.T) {
		resp := NewErrorResponse(shared.ErrInternal, "")

		require.NotNil(t, resp.Error)
		assert.Equal(t, shared.ErrInternal.Code, resp.Error.Code)
		assert.Equal(t, shared.ErrInternal.Message, resp.Error.Message)
	})
}
