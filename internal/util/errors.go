package util

import "errors"

var (
	ErrEmptyClaim     = errors.New("claim is empty")
	ErrEmptyReport    = errors.New("generation returned an empty report")
	ErrEmptySummary   = errors.New("generation returned an empty summary")
	ErrInvalidPDF     = errors.New("rendered document is not a readable pdf")
	ErrRendererAbsent = errors.New("no renderer configured")

	ErrQuotaExhausted = errors.New("provider quota exhausted")
	ErrRateLimited    = errors.New("provider rate limited")
	ErrTransient      = errors.New("transient provider error")
	ErrPermanent      = errors.New("permanent provider error")
	ErrContextTooLong = errors.New("context too long")
)
