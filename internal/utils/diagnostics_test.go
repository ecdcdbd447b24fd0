package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestDiagnosticCounters(t *testing.T) {
	var buf bytes.Buffer
	d := NewTestDiagnostics(&buf)

	d.Error("first error")
	d.ErrorAt("svc.go:10", "second error")
	d.Warn("a warning")

	if d.ErrorCount() != 2 {
		t.Errorf("expected 2 errors, got %d", d.ErrorCount())
	}
	if d.WarningCount() != 1 {
		t.Errorf("expected 1 warning, got %d", d.WarningCount())
	}
}

func TestDiagnosticLocationAnchors(t *testing.T) {
	var buf bytes.Buffer
	d := NewTestDiagnostics(&buf)

	d.ErrorAt("svc.go:10:4", "bad usage of %q", "log")
	d.WarnAt("svc.go:12", "suspicious %s", "thing")

	output := buf.String()
	if !strings.Contains(output, "svc.go:10:4: bad usage of \"log\"") {
		t.Errorf("expected the anchored error, got: %s", output)
	}
	if !strings.Contains(output, "svc.go:12: suspicious thing") {
		t.Errorf("expected the anchored warning, got: %s", output)
	}
}

func TestQuietDiagnosticsSuppressesInfo(t *testing.T) {
	d := NewQuietDiagnostics()
	var buf bytes.Buffer
	d.output = &buf
	d.errorOut = &buf

	d.Info("hidden")
	d.Verbose("hidden")
	d.Warn("hidden")
	if buf.Len() != 0 {
		t.Errorf("quiet mode must only show errors, got: %s", buf.String())
	}

	d.Error("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("errors must always be shown")
	}
	if d.WarningCount() != 1 {
		t.Error("suppressed warnings are still counted")
	}
}

func TestDiagnosticLevels(t *testing.T) {
	var buf bytes.Buffer
	d := NewTestDiagnostics(&buf)

	d.Error("e")
	d.Warn("w")
	d.Info("i")
	d.Success("s")
	d.Verbose("v")
	d.Debug("d")

	output := buf.String()
	for _, label := range []string{"[ERROR]", "[WARN]", "[INFO]", "[SUCCESS]", "[VERBOSE]", "[DEBUG]"} {
		if !strings.Contains(output, label) {
			t.Errorf("expected %s in output, got: %s", label, output)
		}
	}
}
