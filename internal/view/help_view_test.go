package view

import (
	"strings"
	"testing"
)

func TestHelpView_New(t *testing.T) {
	hv := NewHelpView()

	if hv == nil {
		t.Fatal("NewHelpView() returned nil")
	}
	if hv.ViewString() != LoadingMessage {
		t.Error("help should show the loading message before it is sized")
	}
}

func TestHelpView_Content(t *testing.T) {
	hv := NewHelpView()
	hv.SetSize(100, 60)

	out := hv.ViewString()
	for _, want := range []string{"Search", "Refresh", "Export", "Sign out"} {
		if !strings.Contains(out, want) {
			t.Errorf("help should mention %q", want)
		}
	}
}

func TestHelpView_StatusLine(t *testing.T) {
	hv := NewHelpView()

	status := hv.StatusLine()
	if status == "" {
		t.Error("StatusLine() should not be empty")
	}
}
