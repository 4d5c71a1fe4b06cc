package diagnostics

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/toyz/axonresolve/internal/errors"
)

func newTestPrinter(level Level) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return NewPrinterTo(level, &out, &errOut, false), &out, &errOut
}

func TestPrinter_Levels(t *testing.T) {
	tests := []struct {
		level      Level
		wantOut    string
		wantErrOut string
	}{
		{Silent, "", ""},
		{ErrorLevel, "", "[ERROR] e\n"},
		{WarnLevel, "", "[ERROR] e\n[WARN] w\n"},
		{InfoLevel, "[INFO] i\n[OK] s\n", "[ERROR] e\n[WARN] w\n"},
		{VerboseLevel, "[INFO] i\n[OK] s\n[VERBOSE] v\n", "[ERROR] e\n[WARN] w\n"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.level), func(t *testing.T) {
			p, out, errOut := newTestPrinter(tt.level)
			p.Error("e")
			p.Warn("w")
			p.Info("i")
			p.Success("s")
			p.Verbose("v")

			assert.Equal(t, tt.wantOut, out.String())
			assert.Equal(t, tt.wantErrOut, errOut.String())
		})
	}
}

func TestPrinter_Summary(t *testing.T) {
	p, out, _ := newTestPrinter(InfoLevel)
	p.Summary("Registry", map[string]interface{}{"resolvers": 2, "markers": 2})

	assert.Equal(t, "\nRegistry\n   markers: 2\n   resolvers: 2\n", out.String())
}

func TestPrinter_ReportError(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		p, _, errOut := newTestPrinter(ErrorLevel)
		p.ReportError(fmt.Errorf("boom"))
		assert.Equal(t, "error: boom\n", errOut.String())
	})

	t.Run("coded with hint", func(t *testing.T) {
		p, _, errOut := newTestPrinter(ErrorLevel)
		err := errors.New(errors.ConfigurationErrorCode, "bad adapter").
			WithContext("adapter", "chi").
			WithSuggestion("use gin, echo or fiber")
		p.ReportError(err)

		assert.Equal(t, "[ConfigurationError] bad adapter\n  hint: use gin, echo or fiber\n", errOut.String())
	})

	t.Run("coded verbose shows context", func(t *testing.T) {
		p, _, errOut := newTestPrinter(VerboseLevel)
		err := errors.Wrap(errors.ConfigurationErrorCode, "bad adapter", fmt.Errorf("unknown")).
			WithContext("adapter", "chi")
		p.ReportError(err)

		assert.Contains(t, errOut.String(), "  adapter: chi\n")
		assert.Contains(t, errOut.String(), "  cause: unknown\n")
	})

	t.Run("aggregate", func(t *testing.T) {
		p, _, errOut := newTestPrinter(ErrorLevel)
		multi := errors.NewMultipleErrors()
		multi.Add(errors.New(errors.DeclarationErrorCode, "first"))
		multi.Add(errors.New(errors.RegistrationErrorCode, "second"))
		p.ReportError(fmt.Errorf("bind: %w", multi))

		assert.Equal(t, "2 errors:\n\n1) [DeclarationError] first\n\n2) [RegistrationError] second\n", errOut.String())
	})

	t.Run("silent", func(t *testing.T) {
		p, _, errOut := newTestPrinter(Silent)
		p.ReportError(fmt.Errorf("boom"))
		assert.Empty(t, errOut.String())
	})
}
