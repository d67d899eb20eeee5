// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/microblog/internal/platform/apperr"
	"github.com/taibuivan/microblog/internal/platform/migration"
	"github.com/taibuivan/microblog/internal/platform/revision"
)

/*
TestFromMigration verifies the status code chosen for each runner error.
*/
func TestFromMigration(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not_found", fmt.Errorf("%w: zzz", revision.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"ambiguous", fmt.Errorf("%w: a", revision.ErrAmbiguous), http.StatusConflict, "CONFLICT"},
		{"dirty", fmt.Errorf("%w at version 2", migration.ErrDirty), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"passthrough", apperr.ValidationError("bad"), http.StatusBadRequest, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appError := apperr.FromMigration(tt.err)
			assert.Equal(t, tt.status, appError.HTTPStatus)
			assert.Equal(t, tt.code, appError.Code)
		})
	}
}

/*
TestAppError_Unwrap keeps the cause reachable for logging.
*/
func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	appError := apperr.Internal(cause)

	assert.ErrorIs(t, appError, cause)
	assert.Equal(t, "An unexpected error occurred", appError.Error())
	assert.Nil(t, apperr.As(cause))
	assert.Same(t, appError, apperr.As(fmt.Errorf("wrapped: %w", appError)))
}
