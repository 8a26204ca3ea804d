package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrAlreadyExists", ErrAlreadyExists},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
		{"ErrConfiguration", ErrConfiguration},
		{"ErrExtraction", ErrExtraction},
		{"ErrSinkWrite", ErrSinkWrite},
		{"ErrRelocation", ErrRelocation},
		{"ErrSchedulerRunning", ErrSchedulerRunning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrUnsupportedType,
		ErrConfiguration, ErrExtraction, ErrSinkWrite, ErrRelocation, ErrSchedulerRunning,
	}
	for i := range all {
		for j := range all {
			if i == j {
				continue
			}
			assert.False(t, errors.Is(all[i], all[j]), "%v should not match %v", all[i], all[j])
		}
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("persist chunks: %w", ErrSinkWrite)
	assert.ErrorIs(t, wrapped, ErrSinkWrite)
	assert.NotErrorIs(t, wrapped, ErrExtraction)
	assert.Contains(t, wrapped.Error(), "sink write failed")
}
