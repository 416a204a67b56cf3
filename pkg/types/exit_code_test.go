// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "success", value: ExitSuccess, wantValid: true},
		{name: "failure", value: ExitFailure, wantValid: true},
		{name: "usage", value: ExitUsage, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "negative is invalid", value: -1, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Errorf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCode_IsSuccessAndString(t *testing.T) {
	t.Parallel()

	if !ExitSuccess.IsSuccess() || ExitFailure.IsSuccess() {
		t.Error("IsSuccess() should hold only for ExitSuccess")
	}
	if ExitUsage.String() != "2" {
		t.Errorf("ExitUsage.String() = %q, want %q", ExitUsage.String(), "2")
	}
}
