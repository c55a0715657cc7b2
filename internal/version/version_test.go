package version

import (
	"strings"
	"testing"
)

func TestBuildInfo(t *testing.T) {
	if Version == "" || BuildTime == "" || GitCommit == "" {
		t.Error("build metadata must be initialized")
	}
}

func TestString(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "faqindex ") {
		t.Errorf("unexpected version line: %s", s)
	}
	if !strings.Contains(s, "commit "+GitCommit) {
		t.Errorf("version line lacks commit: %s", s)
	}
}
