package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessError_FieldErrors(t *testing.T) {
	fields := map[string]string{}
	err := fmt.Errorf("submit: %w", service.FieldErrors{"productname": "Product Name is required."})

	assert.Empty(t, processError(err, &fields))
	assert.Equal(t, map[string]string{"productname": "Product Name is required."}, fields)
}

func TestProcessError_ValidationField(t *testing.T) {
	var fields map[string]string

	assert.Empty(t, processError(apperrors.ValidationField("email", "Invalid email or password"), &fields))
	require.NotNil(t, fields)
	assert.Equal(t, "Invalid email or password", fields["email"])
}

func TestProcessError_UpstreamIsGeneral(t *testing.T) {
	fields := map[string]string{}
	err := apperrors.Upstream(http.StatusInternalServerError, "Product could not be saved")

	assert.Equal(t, "Product could not be saved", processError(err, &fields))
	assert.Empty(t, fields)
	assert.Equal(t, http.StatusBadGateway, DetermineErrorStatus(err))
}

func TestProcessError_ContextErrors(t *testing.T) {
	assert.Equal(t, "Request timed out. Please try again.", processError(context.DeadlineExceeded, nil))
	assert.Equal(t, "Request was canceled.", processError(context.Canceled, nil))
	assert.Equal(t, "An error occurred. Please try again.", processError(errors.New("boom"), nil))
	assert.Empty(t, processError(nil, nil))
}

func TestDetermineErrorStatus(t *testing.T) {
	assert.Equal(t, 0, DetermineErrorStatus(nil))
	assert.Equal(t, http.StatusNotFound, DetermineErrorStatus(apperrors.NotFound("gone")))
	assert.Equal(t, http.StatusBadGateway, DetermineErrorStatus(apperrors.Upstream(503, "down")))
	assert.Equal(t, 0, DetermineErrorStatus(apperrors.Validation("bad")))
}
