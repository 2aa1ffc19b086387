package pathutil

import (
	"path/filepath"
	"testing"
)

func TestLayout(t *testing.T) {
	root := filepath.Join("some", "project")
	if got := Dir(root); got != filepath.Join(root, ".polsweep") {
		t.Errorf("Dir = %q", got)
	}
	if got := ConfigPath(root); got != filepath.Join(root, ".polsweep", "config.yaml") {
		t.Errorf("ConfigPath = %q", got)
	}
	if got := DBPath(root); got != filepath.Join(root, ".polsweep", "results.db") {
		t.Errorf("DBPath = %q", got)
	}
	if got := PlotsDir(root); got != filepath.Join(root, ".polsweep", "plots") {
		t.Errorf("PlotsDir = %q", got)
	}
}

func TestRedactPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"", ""},
		{"config.yaml", "config.yaml"},
		{filepath.Join("home", "user", ".polsweep", "config.yaml"), ".../.polsweep/config.yaml"},
	}
	for _, tt := range tests {
		if got := RedactPath(tt.path); got != tt.want {
			t.Errorf("RedactPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
