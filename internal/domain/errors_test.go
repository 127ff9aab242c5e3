package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"unavailable", fmt.Errorf("fetch: %w", ErrRemoteUnavailable), true},
		{"malformed", fmt.Errorf("decode: %w", ErrMalformedResponse), true},
		{"unauthorized", fmt.Errorf("status 401: %w", ErrUnauthorized), false},
		{"not configured", ErrNotConfigured, false},
		{"unknown", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
