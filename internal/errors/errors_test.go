package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"gomediate/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestGetCodeFromDomain(t *testing.T) {
	tests := []struct {
		err      error
		code     string
		status   int
		category string
	}{
		{core.NewConfigurationError("ci_level", "bad"), CodeConfigInvalid, http.StatusBadRequest, "configuration"},
		{core.NewExtractionError("m", "outcome"), CodeExtractionError, http.StatusUnprocessableEntity, "extraction"},
		{core.NewConvergenceError(5, 10, 0.1), CodeConvergenceError, http.StatusUnprocessableEntity, "convergence"},
		{core.NewRandomnessError(fmt.Errorf("x")), CodeInternalError, http.StatusInternalServerError, "randomness"},
		{fmt.Errorf("run: %w", context.Canceled), CodeCanceled, http.StatusRequestTimeout, "canceled"},
		{fmt.Errorf("%w: empty", core.ErrInsufficientData), CodeInvalidInput, http.StatusBadRequest, "configuration"},
		{fmt.Errorf("y: %w", core.ErrRefitFailed), CodeModelFitFailed, http.StatusUnprocessableEntity, "model_fit"},
		{ExternalServiceError("postgres", fmt.Errorf("refused")), CodeExternalService, http.StatusBadGateway, "internal"},
		{fmt.Errorf("something else"), CodeInternalError, http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.category, func(t *testing.T) {
			assert.Equal(t, tt.code, GetCode(tt.err))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.Equal(t, tt.category, Category(tt.err))
		})
	}
}

func TestWrapKeepsCodeAndCause(t *testing.T) {
	cause := core.NewConvergenceError(50, 100, 0.1)
	err := Wrap(cause, "bootstrap failed")

	assert.True(t, IsAppError(err))
	assert.Equal(t, CodeConvergenceError, GetCode(err))
	assert.True(t, core.IsConvergenceError(err))
	assert.Contains(t, err.Error(), "bootstrap failed")

	outer := Wrapf(ConfigInvalid("bad flag"), "loading %s", "config")
	assert.Equal(t, CodeConfigInvalid, GetCode(outer))

	assert.Nil(t, Wrap(nil, "x"))
	assert.Nil(t, Wrapf(nil, "x"))
}
