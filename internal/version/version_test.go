package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	v, c, d := Info()
	switch {
	case v == "":
		t.Error("version should not be empty")
	case c == "":
		t.Error("commit should not be empty")
	case d == "":
		t.Error("date should not be empty")
	}
}

func TestGetters_MatchInfo(t *testing.T) {
	v, c, d := Info()
	if got := GetVersion(); got != v {
		t.Errorf("GetVersion = %q, want %q", got, v)
	}
	if got := GetCommit(); got != c {
		t.Errorf("GetCommit = %q, want %q", got, c)
	}
	if got := GetDate(); got != d {
		t.Errorf("GetDate = %q, want %q", got, d)
	}
}

func TestString_Markethub(t *testing.T) {
	s := String()
	if !strings.HasPrefix(s, "markethub ") {
		t.Fatalf("String should start with the binary family name, got %q", s)
	}
	for _, field := range []string{"version=" + GetVersion(), "commit=" + GetCommit(), "date=" + GetDate()} {
		if !strings.Contains(s, field) {
			t.Errorf("String %q should contain %q", s, field)
		}
	}
}

func TestString_LdflagsOverride(t *testing.T) {
	oldVersion, oldCommit, oldDate := version, commit, date
	t.Cleanup(func() { version, commit, date = oldVersion, oldCommit, oldDate })

	version, commit, date = "v1.4.0", "abc1234", "2026-10-01"
	want := "markethub version=v1.4.0 commit=abc1234 date=2026-10-01"
	if got := String(); got != want {
		t.Fatalf("String = %q, want %q", got, want)
	}
}
