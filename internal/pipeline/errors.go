package pipeline

import (
	"errors"
	"fmt"
)

// Error kinds for per-file failures. Match with errors.Is.
var (
	ErrDecode = errors.New("decode error")
	ErrEncode = errors.New("encode error")
	ErrIO     = errors.New("io error")
)

// FileError is a failure localized to one input file.
type FileError struct {
	Kind error
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%v: %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func fileErr(kind error, path string, err error) *FileError {
	return &FileError{Kind: kind, Path: path, Err: err}
}
