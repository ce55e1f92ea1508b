package utils

import (
	"bytes"
	"strings"
	"testing"
)

func newTestDiagnostics(level DiagnosticLevel) (*DiagnosticSystem, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	d := NewDiagnosticSystemTo(level, &out, &errOut)
	d.SetColors(false)
	d.SetShowTime(false)
	return d, &out, &errOut
}

func TestDiagnosticLevels(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticInfo)

	d.Info("scanning %s", "plugins")
	d.Verbose("hidden")
	d.Debug("hidden")
	d.Error("broken %d", 1)

	if got := out.String(); got != "[INFO] scanning plugins\n" {
		t.Errorf("unexpected output %q", got)
	}
	if got := errOut.String(); got != "[ERROR] broken 1\n" {
		t.Errorf("unexpected error output %q", got)
	}
}

func TestQuietSuppressesInfo(t *testing.T) {
	d, out, errOut := newTestDiagnostics(DiagnosticError)

	d.Info("hidden")
	d.Header("hidden")
	d.List("hidden")
	d.Summary("hidden", map[string]interface{}{"a": 1})
	d.Error("shown")

	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "shown") {
		t.Errorf("expected error output, got %q", errOut.String())
	}
}

func TestIndentAndSummary(t *testing.T) {
	d, out, _ := newTestDiagnostics(DiagnosticInfo)

	d.Indent()
	d.List("nested")
	d.Unindent()
	d.Unindent()
	d.List("top")
	d.Summary("Totals", map[string]interface{}{"b": 2, "a": 1})

	want := "  - nested\n- top\n\nTotals\n   a: 1\n   b: 2\n"
	if got := out.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestParseDiagnosticLevel(t *testing.T) {
	cases := map[string]DiagnosticLevel{
		"":        DiagnosticInfo,
		"INFO":    DiagnosticInfo,
		"debug":   DiagnosticDebug,
		"warning": DiagnosticWarn,
		"silent":  DiagnosticSilent,
	}
	for name, want := range cases {
		got, err := ParseDiagnosticLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseDiagnosticLevel(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseDiagnosticLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
