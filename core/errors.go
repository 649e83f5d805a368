package core

import "errors"

var (
	ErrRequestNotFound       = errors.New("request not found")
	ErrMemberNotFound        = errors.New("team member not found")
	ErrFileNotFound          = errors.New("file not found")
	ErrEvaluatorFileRequired = errors.New("cannot complete request without an evaluator file")
	ErrRequestCompleted      = errors.New("completed request is immutable")
	ErrInvalidStatus         = errors.New("unknown status value")
	ErrUnsupportedFileType   = errors.New("unsupported file type")
)
