package llm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
	}{
		{
			name:     "unauthorized",
			err:      errors.New("API returned 401 Unauthorized"),
			wantType: ErrorTypeAuth,
		},
		{
			name:     "invalid api key",
			err:      errors.New("invalid api key provided"),
			wantType: ErrorTypeAuth,
		},
		{
			name:     "connection refused",
			err:      errors.New("dial tcp 127.0.0.1:8000: connection refused"),
			wantType: ErrorTypeUnavailable,
		},
		{
			name:     "unknown host",
			err:      errors.New("lookup api.example.com: no such host"),
			wantType: ErrorTypeUnavailable,
		},
		{
			name:     "timeout",
			err:      errors.New("context deadline exceeded"),
			wantType: ErrorTypeGeneration,
		},
		{
			name:     "rate limited",
			err:      errors.New("429 Too Many Requests"),
			wantType: ErrorTypeGeneration,
		},
		{
			name:     "server error",
			err:      errors.New("upstream returned 503"),
			wantType: ErrorTypeGeneration,
		},
		{
			name:     "anything else",
			err:      errors.New("something odd happened"),
			wantType: ErrorTypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyError(tt.err)
			require.NotNil(t, classified)
			assert.Equal(t, tt.wantType, classified.Type)
			assert.ErrorIs(t, classified, tt.err)
		})
	}
}

func TestClassifyError_PassesThroughStructured(t *testing.T) {
	original := NewError(ErrorTypeUnavailable, "openai provider is not configured", nil)
	wrapped := fmt.Errorf("create client: %w", original)

	classified := ClassifyError(wrapped)
	assert.Same(t, original, classified)
}

func TestClassifyError_Nil(t *testing.T) {
	assert.Nil(t, ClassifyError(nil))
}

func TestIsUnavailable(t *testing.T) {
	assert.True(t, IsUnavailable(NewError(ErrorTypeUnavailable, "x", nil)))
	assert.True(t, IsUnavailable(NewError(ErrorTypeAuth, "x", nil)))
	assert.False(t, IsUnavailable(NewError(ErrorTypeGeneration, "x", nil)))
	assert.False(t, IsUnavailable(errors.New("plain")))
}

func TestErrorString(t *testing.T) {
	err := &Error{
		Type:       ErrorTypeGeneration,
		Message:    "provider error",
		StatusCode: 503,
		Model:      "gpt-4o",
	}
	msg := err.Error()
	assert.Contains(t, msg, "generation_failed")
	assert.Contains(t, msg, "HTTP 503")
	assert.Contains(t, msg, "model=gpt-4o")
}
