package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrMissingField", ErrMissingField},
		{"ErrMissingColumn", ErrMissingColumn},
		{"ErrEmbedding", ErrEmbedding},
		{"ErrEmptyIndex", ErrEmptyIndex},
		{"ErrInvalidK", ErrInvalidK},
		{"ErrAlreadyBuilt", ErrAlreadyBuilt},
		{"ErrBuildInProgress", ErrBuildInProgress},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrUnsupportedType", ErrUnsupportedType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Distinct(t *testing.T) {
	assert.False(t, errors.Is(ErrEmptyIndex, ErrInvalidK))
	assert.False(t, errors.Is(ErrEmbedding, ErrEmptyIndex))
	assert.False(t, errors.Is(ErrMissingField, ErrMissingColumn))
}

func TestMissingFieldError(t *testing.T) {
	err := &MissingFieldError{Row: 4, Field: ColumnTorque}

	assert.Equal(t, "row 4: missing field Torque", err.Error())
	assert.True(t, errors.Is(err, ErrMissingField))
	assert.False(t, errors.Is(err, ErrMissingColumn))
}

func TestMissingFieldError_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("format record: %w", &MissingFieldError{Row: 1, Field: ColumnPrice})

	assert.True(t, errors.Is(wrapped, ErrMissingField))

	var mfe *MissingFieldError
	assert.True(t, errors.As(wrapped, &mfe))
	assert.Equal(t, ColumnPrice, mfe.Field)
	assert.Equal(t, 1, mfe.Row)
}
