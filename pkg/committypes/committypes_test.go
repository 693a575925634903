package committypes

import "testing"

func TestIsValidCommitType(t *testing.T) {
	for _, vt := range AllTypes() {
		if !IsValidCommitType(vt) {
			t.Errorf("expected %q to be valid", vt)
		}
	}
	if IsValidCommitType("banana") {
		t.Error("expected unknown type to be invalid")
	}
}

func TestBuildRegexPattern(t *testing.T) {
	p := BuildRegexPattern()

	cases := map[string]bool{
		"feat: add thing":           true,
		"fix(console): clamp index": true,
		"revert: previous change":   true,
		"update stuff":              false,
		"featx: not a type":         false,
	}
	for msg, want := range cases {
		if got := p.MatchString(msg); got != want {
			t.Errorf("MatchString(%q) = %v, want %v", msg, got, want)
		}
	}
}

func TestGuessCommitType(t *testing.T) {
	cases := []struct {
		msg  string
		want string
	}{
		{"fix null pointer in renderer", "fix"},
		{"add retry logic", "feat"},
		{"update docs for config", "docs"},
		{"refactor session loop", "refactor"},
		{"something else entirely", ""},
	}
	for _, tc := range cases {
		if got := GuessCommitType(tc.msg); got != tc.want {
			t.Errorf("GuessCommitType(%q) = %q, want %q", tc.msg, got, tc.want)
		}
	}
}

func TestScopeFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"pkg/console/session.go", "pkg"},
		{"docs/api.md", "docs"},
		{"README.md", ""},
		{"/abs", ""},
	}
	for _, tc := range cases {
		if got := ScopeFromPath(tc.path); got != tc.want {
			t.Errorf("ScopeFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
