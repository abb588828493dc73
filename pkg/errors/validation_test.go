package errors

import (
	"math"
	"strings"
	"testing"
)

func TestValidators(t *testing.T) {
	dim := func(v float64) func() error { return func() error { return ValidateDimension("width", v) } }
	nonNeg := func(v float64) func() error { return func() error { return ValidateNonNegative("x", v) } }
	zone := func(s string) func() error { return func() error { return ValidateZoneName(s) } }
	id := func(s string) func() error { return func() error { return ValidatePlanID(s) } }
	color := func(s string) func() error { return func() error { return ValidateColor(s) } }

	tests := []struct {
		name string
		fn   func() error
		code Code // "" means valid
	}{
		{"dimension positive", dim(2.5), ""},
		{"dimension tiny", dim(1e-9), ""},
		{"dimension zero", dim(0), ErrCodeInvalidInput},
		{"dimension negative", dim(-1), ErrCodeInvalidInput},
		{"dimension NaN", dim(math.NaN()), ErrCodeInvalidInput},
		{"dimension +Inf", dim(math.Inf(1)), ErrCodeInvalidInput},
		{"dimension -Inf", dim(math.Inf(-1)), ErrCodeInvalidInput},

		{"non-negative zero", nonNeg(0), ""},
		{"non-negative positive", nonNeg(3), ""},
		{"non-negative below zero", nonNeg(-0.1), ErrCodeInvalidInput},
		{"non-negative NaN", nonNeg(math.NaN()), ErrCodeInvalidInput},

		{"zone simple", zone("storage"), ""},
		{"zone spaces", zone("Loading area"), ""},
		{"zone cyrillic", zone("Зона складирования"), ""},
		{"zone empty", zone(""), ErrCodeInvalidSite},
		{"zone blank", zone("   "), ErrCodeInvalidSite},
		{"zone too long", zone(strings.Repeat("a", 129)), ErrCodeInvalidSite},
		{"zone newline", zone("foo\nbar"), ErrCodeInvalidSite},
		{"zone null byte", zone("foo\x00bar"), ErrCodeInvalidSite},

		{"id uuid", id("7d444840-9dc0-11d1-b245-5ffdce74fad2"), ""},
		{"id short", id("abc123"), ""},
		{"id empty", id(""), ErrCodeInvalidInput},
		{"id too long", id(strings.Repeat("a", 65)), ErrCodeInvalidInput},
		{"id slash", id("a/b"), ErrCodeInvalidInput},
		{"id traversal", id(".."), ErrCodeInvalidInput},
		{"id backslash", id("a\\b"), ErrCodeInvalidInput},
		{"id control", id("a\x01b"), ErrCodeInvalidInput},

		{"color lower", color("#0000ff"), ""},
		{"color upper", color("#FFEB04"), ""},
		{"color empty", color(""), ErrCodeInvalidSite},
		{"color no hash", color("0000ff"), ErrCodeInvalidSite},
		{"color short form", color("#00f"), ErrCodeInvalidSite},
		{"color bad digit", color("#00zz00"), ErrCodeInvalidSite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			if tt.code == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}
