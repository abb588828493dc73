package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	plain := errors.New("open shelfplan.toml: permission denied")
	inner := New(ErrCodeInvalidInput, "level_height must be positive")

	tests := []struct {
		name string
		err  *Error
		want string
		user string
	}{
		{
			name: "new",
			err:  New(ErrCodeLayoutInfeasible, "only %d row fits", 1),
			want: "LAYOUT_INFEASIBLE: only 1 row fits",
			user: "only 1 row fits",
		},
		{
			name: "wrapped plain",
			err:  Wrap(ErrCodeFileNotFound, plain, "read site"),
			want: "FILE_NOT_FOUND: read site: open shelfplan.toml: permission denied",
			user: "read site: open shelfplan.toml: permission denied",
		},
		{
			name: "wrapped coded",
			err:  Wrap(ErrCodeInvalidSite, inner, "shelving"),
			want: "INVALID_SITE: shelving: INVALID_INPUT: level_height must be positive",
			user: "shelving: level_height must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if got := UserMessage(tt.err); got != tt.user {
				t.Errorf("UserMessage() = %q, want %q", got, tt.user)
			}
		})
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "write plan")

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
}

func TestCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"coded", New(ErrCodeZoneNotFound, "zone %q", "dock"), ErrCodeZoneNotFound},
		{"outer code wins", Wrap(ErrCodeInvalidSite, New(ErrCodeInvalidInput, "x"), "y"), ErrCodeInvalidSite},
		{"behind fmt", fmt.Errorf("layout: %w", New(ErrCodeLayoutInfeasible, "x")), ErrCodeLayoutInfeasible},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
			if tt.want != "" && !Is(tt.err, tt.want) {
				t.Errorf("Is(err, %s) = false", tt.want)
			}
			if Is(tt.err, ErrCodeUnsupported) {
				t.Error("Is(err, UNSUPPORTED) = true")
			}
		})
	}
}

func TestUserMessagePlain(t *testing.T) {
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(nil); got != "" {
		t.Errorf("UserMessage(nil) = %q", got)
	}
}

func TestWarning(t *testing.T) {
	w := Warn(ErrCodeConstraintViolation, "shelf width %.1f below minimum %.1f", 0.5, 1.0)

	if w.Code != ErrCodeConstraintViolation {
		t.Errorf("Code = %v", w.Code)
	}
	if want := "CONSTRAINT_VIOLATION: shelf width 0.5 below minimum 1.0"; w.String() != want {
		t.Errorf("String() = %q, want %q", w.String(), want)
	}
}
