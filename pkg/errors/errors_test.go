package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidManifest, "switch %q has no keys", "verbose")

	if err.Code != ErrCodeInvalidManifest {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidManifest)
	}
	if err.Message != `switch "verbose" has no keys` {
		t.Errorf("Message = %q", err.Message)
	}
	want := `INVALID_MANIFEST: switch "verbose" has no keys`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := Wrap(ErrCodeWrite, cause, "failed to write %s", "app.bash")

	if err.Cause != cause {
		t.Error("Cause not preserved")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	want := "WRITE_FAILED: failed to write app.bash: permission denied"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"matching code", New(ErrCodeDuplicateCredit, "x"), ErrCodeDuplicateCredit, true},
		{"different code", New(ErrCodeDuplicateCredit, "x"), ErrCodeInvalidGraph, false},
		{"wrapped in fmt", fmt.Errorf("ctx: %w", New(ErrCodeInvalidSection, "x")), ErrCodeInvalidSection, true},
		{"plain error", stderrors.New("plain"), ErrCodeInternal, false},
		{"nil error", nil, ErrCodeInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeUnknownSubcommand, "x")); got != ErrCodeUnknownSubcommand {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeUnknownSubcommand)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidFlag, "no keys")); got != "no keys" {
		t.Errorf("UserMessage() = %q, want %q", got, "no keys")
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain")
	}
}
