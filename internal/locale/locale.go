// Package locale resolves the active site locale from request paths and
// rewrites paths when a visitor switches language.
package locale

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Locale is a language identifier from the site's fixed allow-list.
type Locale string

func (l Locale) String() string { return string(l) }

var ErrInvalidSet = errors.New("locale: invalid locale set")

// Set is the fixed allow-list of locales plus the designated default.
// It is immutable after construction and safe for concurrent use.
type Set struct {
	supported []Locale
	def       Locale
	matcher   language.Matcher
}

func NewSet(supported []string, def string) (*Set, error) {
	if len(supported) == 0 {
		return nil, fmt.Errorf("%w: no locales", ErrInvalidSet)
	}

	s := &Set{}
	tags := make([]language.Tag, 0, len(supported)+1)
	seen := make(map[Locale]bool, len(supported))

	def = strings.ToLower(strings.TrimSpace(def))
	for _, raw := range supported {
		l := Locale(strings.ToLower(strings.TrimSpace(raw)))
		if l == "" || seen[l] {
			continue
		}
		tag, err := language.Parse(string(l))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSet, raw, err)
		}
		seen[l] = true
		s.supported = append(s.supported, l)
		tags = append(tags, tag)
	}
	if !seen[Locale(def)] {
		return nil, fmt.Errorf("%w: default %q not in %v", ErrInvalidSet, def, supported)
	}
	s.def = Locale(def)

	// The matcher picks the first tag on a poor match, so the default goes first.
	ordered := make([]language.Tag, 0, len(tags))
	ordered = append(ordered, language.Make(def))
	for i, l := range s.supported {
		if l != s.def {
			ordered = append(ordered, tags[i])
		}
	}
	s.matcher = language.NewMatcher(ordered)

	return s, nil
}

// MustNewSet is NewSet for package-level fixtures and tests.
func MustNewSet(supported []string, def string) *Set {
	s, err := NewSet(supported, def)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Set) Default() Locale { return s.def }

// Supported returns a copy of the allow-list in configured order.
func (s *Set) Supported() []Locale {
	out := make([]Locale, len(s.supported))
	copy(out, s.supported)
	return out
}

// Parse reports whether v names a supported locale.
func (s *Set) Parse(v string) (Locale, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for _, l := range s.supported {
		if string(l) == v {
			return l, true
		}
	}
	return "", false
}

// OrDefault returns the supported locale named by v, or the default.
func (s *Set) OrDefault(v string) Locale {
	if l, ok := s.Parse(v); ok {
		return l
	}
	return s.def
}

// Resolve returns the locale named by the first path segment, or the default
// when the path carries no recognized prefix. It never fails.
func (s *Set) Resolve(path string) Locale {
	l, _, _ := s.Split(path)
	return l
}

// Split separates a recognized locale prefix from the rest of the path.
// rest always starts with "/" and keeps any query or fragment.
func (s *Set) Split(path string) (l Locale, rest string, prefixed bool) {
	p, suffix := splitSuffix(path)
	trimmed := strings.TrimPrefix(p, "/")

	first, remainder, hasMore := strings.Cut(trimmed, "/")
	if loc, ok := s.Parse(first); ok && first != "" {
		if hasMore {
			rest = "/" + remainder
		} else {
			rest = "/"
		}
		return loc, rest + suffix, true
	}

	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	return s.def, p + suffix, false
}

// Rewrite returns path with its locale segment replaced by target. Only the
// first segment changes; paths without a locale prefix get one inserted.
// An unsupported target is treated as the default locale.
func (s *Set) Rewrite(path string, target Locale) string {
	t, ok := s.Parse(string(target))
	if !ok {
		t = s.def
	}

	p, suffix := splitSuffix(path)
	_, rest, prefixed := s.Split(p)
	switch {
	case prefixed && !strings.Contains(strings.TrimPrefix(p, "/"), "/"):
		// bare "/es"; "/es/" keeps its slash
		rest = ""
	case !prefixed && rest == "/":
		rest = ""
	}
	return "/" + string(t) + rest + suffix
}

// Negotiate picks the best supported locale for an Accept-Language header.
func (s *Set) Negotiate(acceptLanguage string) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return s.def
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return s.def
	}
	_, idx, conf := s.matcher.Match(tags...)
	if conf == language.No {
		return s.def
	}
	if idx == 0 {
		return s.def
	}
	// idx indexes the matcher order: default first, then the others in configured order.
	i := 0
	for _, l := range s.supported {
		if l == s.def {
			continue
		}
		i++
		if i == idx {
			return l
		}
	}
	return s.def
}

// splitSuffix separates "?query" and "#fragment" from the path part.
func splitSuffix(path string) (string, string) {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		return path[:i], path[i:]
	}
	return path, ""
}
