package apperrors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrInvalidWindow = errors.New("window start is after window end")
	ErrEmptyBatch    = errors.New("answer batch is empty")
	ErrUnknownTag    = errors.New("unknown question tag")
)
