package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidPhase, "unknown phase: %s", "sideways")

	if err.Code != ErrCodeInvalidPhase {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidPhase)
	}
	if err.Message != "unknown phase: sideways" {
		t.Errorf("Message = %v, want %v", err.Message, "unknown phase: sideways")
	}

	expected := "INVALID_PHASE: unknown phase: sideways"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeInternal, cause, "apply move")

	if err.Code != ErrCodeInternal {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInternal)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidGaps, "gap matrix not symmetric")

	if !Is(err, ErrCodeInvalidGaps) {
		t.Error("Is(err, ErrCodeInvalidGaps) = false, want true")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is(err, ErrCodeInternal) = true, want false")
	}
	if Is(errors.New("plain"), ErrCodeInvalidGaps) {
		t.Error("Is(plain error) = true, want false")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidDegree, "bad shape")); got != ErrCodeInvalidDegree {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeInvalidDegree)
	}
	if got := GetCode(errors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %v, want empty", got)
	}
}

func TestCategories(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantConfig   bool
		wantInternal bool
	}{
		{"config error", New(ErrCodeInvalidTargets, "target out of range"), true, false},
		{"invariant violation", New(ErrCodeInvariant, "cycle after accepted move"), false, true},
		{"internal error", New(ErrCodeInternal, "boom"), false, true},
		{"not found", New(ErrCodeFileNotFound, "missing"), false, false},
		{"plain error", errors.New("plain"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsConfig(tt.err); got != tt.wantConfig {
				t.Errorf("IsConfig() = %v, want %v", got, tt.wantConfig)
			}
			if got := IsInternal(tt.err); got != tt.wantInternal {
				t.Errorf("IsInternal() = %v, want %v", got, tt.wantInternal)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidConfig, "bad config")); got != "bad config" {
		t.Errorf("UserMessage() = %q, want %q", got, "bad config")
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q, want %q", got, "plain")
	}
}
