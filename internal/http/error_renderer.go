package httpx

import (
	"context"
	"errors"
	"net/http"

	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/service"
)

// DetermineErrorStatus maps an error to a response status. Zero means the
// caller keeps its default (200 for htmx swaps).
func DetermineErrorStatus(err error) int {
	switch {
	case err == nil:
		return 0
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case apperrors.IsUpstream(err), apperrors.IsTimeout(err):
		return http.StatusBadGateway
	default:
		return 0
	}
}

// processError returns the general message for err and moves field-scoped
// validation errors into fieldErrors. Returns empty string if err is nil or
// was fully absorbed into field errors.
func processError(err error, fieldErrors *map[string]string) string {
	if err == nil {
		return ""
	}

	var fe service.FieldErrors
	if errors.As(err, &fe) {
		mergeFieldErrors(fieldErrors, fe)
		return ""
	}

	if apperrors.IsValidation(err) {
		if field := apperrors.GetField(err); field != "" {
			mergeFieldErrors(fieldErrors, map[string]string{field: userMessage(err, errMsgFixBelow)})
			return ""
		}
	}

	return userMessage(err, "An error occurred. Please try again.")
}

func mergeFieldErrors(dst *map[string]string, src map[string]string) {
	if dst == nil || len(src) == 0 {
		return
	}
	if *dst == nil {
		*dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		(*dst)[k] = v
	}
}

// userMessage distinguishes timeout and cancellation for better UX before
// deferring to the application error's own message.
func userMessage(err error, fallback string) string {
	if errors.Is(err, context.DeadlineExceeded) || apperrors.IsTimeout(err) {
		return "Request timed out. Please try again."
	}
	if errors.Is(err, context.Canceled) || apperrors.IsCanceled(err) {
		return "Request was canceled."
	}
	return apperrors.UserMessage(err, fallback)
}
