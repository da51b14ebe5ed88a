package dataset

import "fmt"

// DataSourceError reports a required input file that is missing or
// unreadable. It aborts the whole run; no partial output is produced.
type DataSourceError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *DataSourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data source %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("data source %s: missing or unreadable", e.Path)
}

// Unwrap returns the underlying cause
func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// NewDataSourceError creates a DataSourceError for the given file path
func NewDataSourceError(path string, err error) *DataSourceError {
	return &DataSourceError{Path: path, Err: err}
}
