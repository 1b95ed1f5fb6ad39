package model

import "errors"

// Sentinel kinds for validation errors. Messages are surfaced verbatim
// in API error envelopes.
var (
	ErrTitleEmpty     = errors.New("title cannot be empty")
	ErrTitleTooLong   = errors.New("title cannot exceed 255 characters")
	ErrTitleNewlines  = errors.New("title cannot contain newlines")
	ErrContentTooLong = errors.New("content cannot exceed 10000 characters")
)

// IsValidation reports whether err is one of the field validation kinds.
func IsValidation(err error) bool {
	return errors.Is(err, ErrTitleEmpty) ||
		errors.Is(err, ErrTitleTooLong) ||
		errors.Is(err, ErrTitleNewlines) ||
		errors.Is(err, ErrContentTooLong)
}
