package utils

import "testing"

func TestIsValidName(t *testing.T) {
	cases := []struct {
		name  string
		valid bool
	}{
		{"app", true},
		{"app.core", true},
		{"app.db.pool", true},
		{"_private.helpers", true},
		{"répertoire.données", true},
		{"", false},
		{".", false},
		{"app.", false},
		{".app", false},
		{"app..core", false},
		{"app.1core", false},
		{"app core", false},
		{"app-core", false},
	}
	for _, tc := range cases {
		if got := IsValidName(tc.name); got != tc.valid {
			t.Errorf("IsValidName(%q): got %v, want %v", tc.name, got, tc.valid)
		}
	}
}

func TestParentAndShortName(t *testing.T) {
	if got := ParentName("app.db.pool"); got != "app.db" {
		t.Errorf("ParentName: got %q, want %q", got, "app.db")
	}
	if got := ParentName("app"); got != "" {
		t.Errorf("ParentName of root: got %q, want empty", got)
	}
	if got := ShortName("app.db.pool"); got != "pool" {
		t.Errorf("ShortName: got %q, want %q", got, "pool")
	}
	if got := ShortName("app"); got != "app" {
		t.Errorf("ShortName of root: got %q, want %q", got, "app")
	}
}

func TestSplitName(t *testing.T) {
	segs := SplitName("a.b.c")
	if len(segs) != 3 || segs[0] != "a" || segs[2] != "c" {
		t.Errorf("SplitName: got %v", segs)
	}
}
