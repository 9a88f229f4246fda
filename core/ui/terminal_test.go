package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestWriterNoColor(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	w.Field("Instance", "i-1")
	w.Warning("Status: %s", "low")

	want := "Instance: i-1\nStatus: low\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestWriterColor(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	w.Success("ok")
	if !strings.HasPrefix(buf.String(), Green) || !strings.Contains(buf.String(), Reset) {
		t.Errorf("expected colored output, got %q", buf.String())
	}
}

func TestSpinnerStop(t *testing.T) {
	var buf bytes.Buffer
	s := NewWriter(&buf, true).NewSpinner("Querying")
	s.Start()
	s.Stop(false)
	s.Stop(true)

	out := buf.String()
	if !strings.HasSuffix(out, "\r✗ Querying\n") {
		t.Errorf("expected failure mark, got %q", out)
	}
	if strings.Count(out, "Querying\n") != 1 {
		t.Errorf("expected a single final line, got %q", out)
	}
}
