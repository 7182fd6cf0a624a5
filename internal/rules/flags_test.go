package rules

import "testing"

func TestParseFlags(t *testing.T) {
	cases := []struct {
		token string
		want  Flag
	}{
		{"r", FlagRewrite},
		{"rg", FlagRewrite | FlagGlobal},
		{"rgg", FlagRewrite | FlagGlobal | FlagSedg},
		{"e", FlagExit},
		{"riE", FlagRewrite | FlagICase | FlagHasFile},
		{"a", FlagAbort},
		{"~4", FlagInverse | FlagIPv4},
		{"GP", FlagRRQ | FlagWRQ},
	}
	for _, c := range cases {
		got, err := ParseFlags(c.token)
		if err != nil {
			t.Fatalf("ParseFlags(%q): unexpected error: %v", c.token, err)
		}
		if got != c.want {
			t.Errorf("ParseFlags(%q) = %v, want %v", c.token, got, c.want)
		}
	}
}

func TestParseFlagsInvalidCharacter(t *testing.T) {
	if _, err := ParseFlags("rz"); err == nil {
		t.Fatal("expected error for invalid flag character 'z'")
	}
}

func TestFlagStringRoundTrip(t *testing.T) {
	cases := []string{"r", "rg", "rgg", "rE", "a", "~i4", "rsei"}
	for _, token := range cases {
		f, err := ParseFlags(token)
		if err != nil {
			t.Fatalf("ParseFlags(%q): %v", token, err)
		}
		f2, err := ParseFlags(f.String())
		if err != nil {
			t.Fatalf("ParseFlags(%q) [round trip of %q]: %v", f.String(), token, err)
		}
		if f2 != f {
			t.Errorf("round trip of %q via %q produced %v, want %v", token, f.String(), f2, f)
		}
	}
}

func TestValidateRejectsRewriteWithInverse(t *testing.T) {
	f, err := ParseFlags("r~")
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if err := f.validate(); err == nil {
		t.Fatal("expected validate() to reject 'r' combined with '~'")
	}
}

func TestValidateRejectsPlainGlobalWithHasFile(t *testing.T) {
	f, err := ParseFlags("rgE")
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if err := f.validate(); err == nil {
		t.Fatal("expected validate() to reject 'E' combined with plain 'g'")
	}
}

func TestValidateAllowsSedgWithHasFile(t *testing.T) {
	f, err := ParseFlags("rggE")
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	if err := f.validate(); err != nil {
		t.Fatalf("expected 'gg' with 'E' to be allowed, got: %v", err)
	}
}

func TestNormalizeClearsGlobalWithoutRewrite(t *testing.T) {
	f, err := ParseFlags("gge")
	if err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}
	got := f.normalize()
	if got&(FlagGlobal|FlagSedg) != 0 {
		t.Errorf("normalize() left global/sedg set without 'r': %v", got)
	}
	if got&FlagExit == 0 {
		t.Errorf("normalize() dropped unrelated flag 'e': %v", got)
	}
}
