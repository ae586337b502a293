package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cinelens-ai/cinelens-engine/pkg/apperrors"
	"github.com/cinelens-ai/cinelens-engine/pkg/llm"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not found",
			err:        apperrors.ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "wrapped not found",
			err:        fmt.Errorf("load project: %w", apperrors.ErrNotFound),
			wantStatus: http.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "precondition not met",
			err:        apperrors.ErrPreconditionNotMet,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "precondition_not_met",
		},
		{
			name:       "empty script",
			err:        apperrors.ErrEmptyScript,
			wantStatus: http.StatusBadRequest,
			wantCode:   "empty_script",
		},
		{
			name:       "conflict",
			err:        apperrors.ErrConflict,
			wantStatus: http.StatusConflict,
			wantCode:   "conflict",
		},
		{
			name:       "provider unavailable",
			err:        &llm.Error{Type: llm.ErrorTypeUnavailable, Message: "connection refused"},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "generation_unavailable",
		},
		{
			name:       "unclassified",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := MapError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}
