package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"factflow/internal/util"
)

type ErrorType string

const (
	ErrorQuota     ErrorType = "quota"
	ErrorRate      ErrorType = "rate"
	ErrorTransient ErrorType = "transient"
	ErrorPermanent ErrorType = "permanent"
	ErrorContext   ErrorType = "context"
)

// ClassifyError labels a provider failure for the audit log. It does not
// change retry behaviour.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, util.ErrQuotaExhausted):
		return ErrorQuota
	case errors.Is(err, util.ErrRateLimited):
		return ErrorRate
	case errors.Is(err, util.ErrContextTooLong):
		return ErrorContext
	case errors.Is(err, util.ErrTransient), errors.Is(err, context.DeadlineExceeded):
		return ErrorTransient
	case errors.Is(err, util.ErrPermanent):
		return ErrorPermanent
	}
	e := strings.ToLower(err.Error())
	switch {
	case strings.Contains(e, "quota"), strings.Contains(e, "credit"), strings.Contains(e, "insufficient_quota"):
		return ErrorQuota
	case strings.Contains(e, "rate limit"), strings.Contains(e, "rate_limit"), strings.Contains(e, "429"):
		return ErrorRate
	case strings.Contains(e, "context length"), strings.Contains(e, "context_length"), strings.Contains(e, "too long"):
		return ErrorContext
	case strings.Contains(e, "timeout"), strings.Contains(e, "temporarily"), strings.Contains(e, "unavailable"),
		strings.Contains(e, "502"), strings.Contains(e, "503"), strings.Contains(e, "504"):
		return ErrorTransient
	default:
		return ErrorPermanent
	}
}

// statusError wraps an HTTP error reply with the sentinel for its class. A
// quota message in the body wins over the status code, since providers answer
// exhausted credit with 429.
func statusError(name string, code int, body []byte) error {
	text := strings.TrimSpace(string(body))
	low := strings.ToLower(text)
	var kind error
	switch {
	case code == 402, strings.Contains(low, "quota"):
		kind = util.ErrQuotaExhausted
	case code == 429:
		kind = util.ErrRateLimited
	case code == 413, strings.Contains(low, "context_length"), strings.Contains(low, "context length"):
		kind = util.ErrContextTooLong
	case code >= 500:
		kind = util.ErrTransient
	default:
		kind = util.ErrPermanent
	}
	return fmt.Errorf("%s generate error %d: %s: %w", name, code, text, kind)
}
