package locale

import (
	"errors"
	"testing"
)

func testSet(t *testing.T) *Set {
	t.Helper()
	s, err := NewSet([]string{"es", "en"}, "es")
	if err != nil {
		t.Fatalf("NewSet() error = %v", err)
	}
	return s
}

func TestNewSet_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		supported []string
		def       string
	}{
		{"empty list", nil, "es"},
		{"default not supported", []string{"es", "en"}, "fr"},
		{"unparseable tag", []string{"es", "not a tag!"}, "es"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSet(tt.supported, tt.def)
			if !errors.Is(err, ErrInvalidSet) {
				t.Errorf("NewSet() error = %v, want ErrInvalidSet", err)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	s := testSet(t)

	tests := []struct {
		path string
		want Locale
	}{
		{"/en/about", "en"},
		{"/es/team", "es"},
		{"/en", "en"},
		{"/EN/about", "en"},
		{"/en?ref=footer", "en"},
		{"/about", "es"},
		{"/", "es"},
		{"", "es"},
		{"//en", "es"},
		{"/fr/about", "es"},
		{"/english/about", "es"},
		{"/team/en", "es"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := s.Resolve(tt.path); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	s := testSet(t)

	tests := []struct {
		path     string
		wantLoc  Locale
		wantRest string
		prefixed bool
	}{
		{"/en/about", "en", "/about", true},
		{"/en", "en", "/", true},
		{"/es/team/a?x=1", "es", "/team/a?x=1", true},
		{"/about", "es", "/about", false},
		{"about", "es", "/about", false},
		{"", "es", "/", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			loc, rest, prefixed := s.Split(tt.path)
			if loc != tt.wantLoc || rest != tt.wantRest || prefixed != tt.prefixed {
				t.Errorf("Split(%q) = (%q, %q, %v), want (%q, %q, %v)",
					tt.path, loc, rest, prefixed, tt.wantLoc, tt.wantRest, tt.prefixed)
			}
		})
	}
}

func TestRewrite(t *testing.T) {
	s := testSet(t)

	tests := []struct {
		name   string
		path   string
		target Locale
		want   string
	}{
		{"swap prefix", "/es/team", "en", "/en/team"},
		{"deep path", "/en/a/b/c", "es", "/es/a/b/c"},
		{"root with prefix", "/es", "en", "/en"},
		{"prefix with trailing slash", "/es/", "en", "/en/"},
		{"trailing slash kept", "/es/team/", "en", "/en/team/"},
		{"keeps query", "/es/team?tab=values", "en", "/en/team?tab=values"},
		{"keeps fragment", "/es#contact", "en", "/en#contact"},
		{"inserts missing prefix", "/about", "en", "/en/about"},
		{"root", "/", "en", "/en"},
		{"empty", "", "en", "/en"},
		{"same locale", "/en/team", "en", "/en/team"},
		{"unsupported target", "/en/team", "fr", "/es/team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Rewrite(tt.path, tt.target); got != tt.want {
				t.Errorf("Rewrite(%q, %q) = %q, want %q", tt.path, tt.target, got, tt.want)
			}
		})
	}
}

func TestRewrite_OnlyFirstSegmentChanges(t *testing.T) {
	s := testSet(t)

	paths := []string{"/es/en/es", "/en/es", "/es/team/en?lang=es"}
	for _, p := range paths {
		_, before, _ := s.Split(p)
		_, after, _ := s.Split(s.Rewrite(p, "en"))
		if before != after {
			t.Errorf("Rewrite(%q) changed rest: %q -> %q", p, before, after)
		}
	}
}

func TestNegotiate(t *testing.T) {
	s := testSet(t)

	tests := []struct {
		header string
		want   Locale
	}{
		{"", "es"},
		{"en-US,en;q=0.9", "en"},
		{"es-AR,es;q=0.9,en;q=0.8", "es"},
		{"fr-FR", "es"},
		{"de;q=0.9,en;q=0.5", "en"},
		{";;;garbage", "es"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			if got := s.Negotiate(tt.header); got != tt.want {
				t.Errorf("Negotiate(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestParseAndOrDefault(t *testing.T) {
	s := testSet(t)

	if l, ok := s.Parse(" EN "); !ok || l != "en" {
		t.Errorf("Parse(EN) = (%q, %v)", l, ok)
	}
	if _, ok := s.Parse("pt"); ok {
		t.Error("Parse(pt) should not be supported")
	}
	if got := s.OrDefault(""); got != "es" {
		t.Errorf("OrDefault(\"\") = %q, want es", got)
	}
	if got := s.Supported(); len(got) != 2 || got[0] != "es" || got[1] != "en" {
		t.Errorf("Supported() = %v", got)
	}
}
