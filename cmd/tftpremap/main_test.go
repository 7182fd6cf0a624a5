package main

import (
	"os"
	"path/filepath"
	"testing"

	"tftpremap/internal/domain"
)

func TestParseMode(t *testing.T) {
	cases := map[string]domain.Mode{
		"rrq":   domain.ModeRead,
		"read":  domain.ModeRead,
		"get":   domain.ModeRead,
		"wrq":   domain.ModeWrite,
		"write": domain.ModeWrite,
		"put":   domain.ModeWrite,
	}
	for in, want := range cases {
		got, err := parseMode(in)
		if err != nil {
			t.Fatalf("parseMode(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("parseMode(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseMode("bogus"); err == nil {
		t.Error("parseMode(\"bogus\") expected error")
	}
}

func TestParseFamily(t *testing.T) {
	cases := map[string]domain.Family{
		"v4":   domain.FamilyV4,
		"4":    domain.FamilyV4,
		"ipv4": domain.FamilyV4,
		"v6":   domain.FamilyV6,
		"6":    domain.FamilyV6,
		"ipv6": domain.FamilyV6,
	}
	for in, want := range cases {
		got, err := parseFamily(in)
		if err != nil {
			t.Fatalf("parseFamily(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("parseFamily(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := parseFamily("bogus"); err == nil {
		t.Error("parseFamily(\"bogus\") expected error")
	}
}

func TestRunWithNoArgsPrintsUsage(t *testing.T) {
	if got := run(nil); got != 2 {
		t.Errorf("run(nil) = %d, want 2", got)
	}
}

func TestRunWithUnknownSubcommand(t *testing.T) {
	if got := run([]string{"frobnicate"}); got != 2 {
		t.Errorf("run([\"frobnicate\"]) = %d, want 2", got)
	}
}

func TestRunCheckAcceptsWellFormedRulesFile(t *testing.T) {
	path := writeRulesFile(t, "r ^foo bar\n")
	if got := run([]string{"check", path}); got != 0 {
		t.Errorf("run([\"check\", %q]) = %d, want 0", path, got)
	}
}

func TestRunCheckRejectsMalformedRulesFile(t *testing.T) {
	path := writeRulesFile(t, "zz bad\n")
	if got := run([]string{"check", path}); got != 1 {
		t.Errorf("run([\"check\", %q]) = %d, want 1", path, got)
	}
}

func TestRunCheckRequiresExactlyOneArg(t *testing.T) {
	if got := run([]string{"check"}); got != 2 {
		t.Errorf("run([\"check\"]) = %d, want 2", got)
	}
}

func TestRunApplyRewritesFilename(t *testing.T) {
	path := writeRulesFile(t, "r ^foo bar\n")
	if got := run([]string{"apply", path, "foo/img"}); got != 0 {
		t.Errorf("run(apply) = %d, want 0", got)
	}
}

func TestRunApplyRejectsBadModeFlag(t *testing.T) {
	path := writeRulesFile(t, "r ^foo bar\n")
	if got := run([]string{"apply", "-mode", "bogus", path, "foo/img"}); got != 2 {
		t.Errorf("run(apply with bad -mode) = %d, want 2", got)
	}
}

func writeRulesFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.remap")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}
