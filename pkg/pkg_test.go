package pkg

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestIdentity(t *testing.T) {
	if Name != "aspl" {
		t.Errorf("Name = %q", Name)
	}

	if Description == "" || len(Author) == 0 {
		t.Error("project metadata is incomplete")
	}

	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestVersion(t *testing.T) {
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("read VERSION: %v", err)
	}

	if want := strings.TrimSpace(string(buf)); Version() != want {
		t.Errorf("Version() = %q, want %q", Version(), want)
	}
}

func TestPrefixOf(t *testing.T) {
	tests := []struct {
		exe  string
		want string
	}{
		{"/usr/local/bin/aspl", "aspl"},
		{`aspl.exe`, "aspl"},
		{"/tmp/__debug_bin3920", Name},
		{"/opt/.hidden", "hidden"},
		{"...", Name},
	}

	for _, tt := range tests {
		if got := prefixOf(tt.exe); got != tt.want {
			t.Errorf("prefixOf(%q) = %q, want %q", tt.exe, got, tt.want)
		}
	}
}

func TestConfigPath(t *testing.T) {
	got := ConfigPath("config")

	if filepath.Base(got) != "config" || filepath.Dir(got) != ConfigDir() {
		t.Errorf("ConfigPath(config) = %q, ConfigDir() = %q", got, ConfigDir())
	}
}
