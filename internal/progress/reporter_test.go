package progress

import (
	"bytes"
	"testing"
)

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	r := NewReporter("Exporting")
	ci, ok := r.(*CIReporter)
	if !ok {
		t.Fatalf("NewReporter() = %T, want *CIReporter", r)
	}
	if ci.Label != "Exporting" {
		t.Errorf("Label = %q, want %q", ci.Label, "Exporting")
	}
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if r := NewReporter("Exporting"); r == nil {
		t.Fatal("NewReporter returned nil")
	} else if _, ok := r.(*TerminalReporter); !ok {
		t.Errorf("NewReporter() = %T, want *TerminalReporter", r)
	}
}

func TestCIReporterOutput(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Label: "Exporting", Out: &buf}

	r.Start(3)
	r.Update(1, "pages 1")
	r.Update(2, "pages 3-4")
	r.Finish()

	want := "Exporting: 3 spreads\n[1/3] pages 1\n[2/3] pages 3-4\nExporting: done\n"
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}
