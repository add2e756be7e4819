package validation

import (
	"errors"
	"testing"

	fterrors "github.com/vnykmshr/fractile/pkg/common/errors"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"positive", 1, false},
		{"large", 1 << 20, false},
		{"zero", 0, true},
		{"negative", -5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePositive("test", "field", tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePositive(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, fterrors.ErrInvalidConfiguration) {
				t.Error("validation errors should match ErrInvalidConfiguration")
			}
		})
	}
}

func TestValidateNonNegative(t *testing.T) {
	if err := ValidateNonNegative("test", "field", 0); err != nil {
		t.Errorf("zero should be valid, got %v", err)
	}
	if err := ValidateNonNegative("test", "field", -1); err == nil {
		t.Error("expected error for negative value")
	}
}

func TestValidateNotNil(t *testing.T) {
	if err := ValidateNotNil("test", "field", struct{}{}); err != nil {
		t.Errorf("non-nil should be valid, got %v", err)
	}
	if err := ValidateNotNil("test", "field", nil); err == nil {
		t.Error("expected error for nil value")
	}
}
