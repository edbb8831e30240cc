package mvx_test

import (
	"errors"
	"math"
	"testing"

	"mvx/internal/mvx"
	"mvx/internal/testutil"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		expr    string
		want    uint64
		wantErr error
	}{
		{expr: "", want: 0},
		{expr: "0", want: 0},
		{expr: "100", want: 100},
		{expr: "+7", want: 7},
		{expr: "-0", want: 0},
		{expr: "12B", want: 12},

		{expr: "1k", want: 1000},
		{expr: "1kB", want: 1000},
		{expr: "3M", want: 3_000_000},
		{expr: "2GB", want: 2_000_000_000},
		{expr: "1T", want: 1_000_000_000_000},
		{expr: "1PB", want: 1_000_000_000_000_000},
		{expr: "1E", want: 1_000_000_000_000_000_000},

		{expr: "1Ki", want: 1024},
		{expr: "1KiB", want: 1024},
		{expr: "5Mi", want: 5 << 20},
		{expr: "1GiB", want: 1 << 30},
		{expr: "1Ti", want: 1 << 40},
		{expr: "1PiB", want: 1 << 50},
		{expr: "15Ei", want: 15 << 60},

		{expr: "1K", want: 1024},
		{expr: "2KB", want: 2048},

		{expr: "18446744073709551615", want: math.MaxUint64},

		{expr: "-5", wantErr: mvx.ErrNegativeAmount},
		{expr: "-5Zz", wantErr: mvx.ErrNegativeAmount},
		{expr: "-99999999999999999999", wantErr: mvx.ErrNegativeAmount},
		{expr: "5Zz", wantErr: mvx.ErrUnknownUnit},
		{expr: "5kb", wantErr: mvx.ErrUnknownUnit},
		{expr: "5 k", wantErr: mvx.ErrUnknownUnit},
		{expr: "5KIB", wantErr: mvx.ErrUnknownUnit},
		{expr: "1.5k", wantErr: mvx.ErrUnknownUnit},
		{expr: "k", wantErr: mvx.ErrMalformedNumber},
		{expr: "-", wantErr: mvx.ErrMalformedNumber},
		{expr: " 5", wantErr: mvx.ErrMalformedNumber},
		{expr: "18446744073709551616", wantErr: mvx.ErrOutOfRange},
		{expr: "16Ei", wantErr: mvx.ErrOutOfRange},
		{expr: "19E", wantErr: mvx.ErrOutOfRange},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.expr, func(t *testing.T) {
			t.Parallel()
			got, err := mvx.ParseSize(tt.expr, mvx.NewNopLogger())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseSize(%q) error = %v, want %v", tt.expr, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.expr, got, tt.want)
			}
		})
	}
}

func TestParseSize_LegacyUnitWarning(t *testing.T) {
	for _, expr := range []string{"1K", "1KB"} {
		t.Run(expr, func(t *testing.T) {
			logger := testutil.NewRecordingLogger()

			got, err := mvx.ParseSize(expr, logger)
			if err != nil {
				t.Fatalf("ParseSize(%q) error = %v", expr, err)
			}
			if got != 1024 {
				t.Errorf("ParseSize(%q) = %d, want 1024", expr, got)
			}

			warnings := logger.Entries("WARN")
			if len(warnings) != 1 {
				t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
			}
		})
	}

	t.Run("binary and decimal units do not warn", func(t *testing.T) {
		logger := testutil.NewRecordingLogger()
		for _, expr := range []string{"1Ki", "1k", "1kB", "1KiB"} {
			if _, err := mvx.ParseSize(expr, logger); err != nil {
				t.Fatalf("ParseSize(%q) error = %v", expr, err)
			}
		}
		if d := logger.Diagnostics(); len(d) != 0 {
			t.Errorf("unexpected diagnostics: %v", d)
		}
	})

	t.Run("warns on every use", func(t *testing.T) {
		logger := testutil.NewRecordingLogger()
		mvx.ParseSize("1K", logger)
		mvx.ParseSize("2K", logger)
		if n := len(logger.Entries("WARN")); n != 2 {
			t.Errorf("got %d warnings, want 2", n)
		}
	})
}

func TestParseSize_UnknownUnitNamesSuffix(t *testing.T) {
	_, err := mvx.ParseSize("5Zz", mvx.NewNopLogger())
	if err == nil {
		t.Fatal("ParseSize() expected error")
	}
	if got, want := err.Error(), `unknown unit "Zz"`; got != want {
		t.Errorf("error = %q, want %q", got, want)
	}
}
