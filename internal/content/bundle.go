package content

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/llante/llante_site/internal/locale"
)

// Missing is returned by Get when a key has no content and the caller gave no
// fallback. It is distinguishable from an intentionally blank string.
type Missing struct {
	Key string
}

func (m Missing) String() string { return "[missing: " + m.Key + "]" }

// IsMissing reports whether v is the Missing sentinel.
func IsMissing(v any) bool {
	_, ok := v.(Missing)
	return ok
}

// Bundle is the merged content of every namespace for one locale, addressed
// as "namespace.dotted.key". A Bundle is never modified after loading.
type Bundle struct {
	locale     locale.Locale
	namespaces map[string]map[string]any
	// fallbacks records namespaces served from the default locale.
	fallbacks []string
}

func newBundle(loc locale.Locale) *Bundle {
	return &Bundle{locale: loc, namespaces: make(map[string]map[string]any)}
}

func (b *Bundle) Locale() locale.Locale { return b.locale }

// Fallbacks lists the namespaces that came from the default locale.
func (b *Bundle) Fallbacks() []string { return slices.Clone(b.fallbacks) }

// NamespaceNames returns the loaded namespace names, sorted.
func (b *Bundle) NamespaceNames() []string {
	return slices.Sorted(maps.Keys(b.namespaces))
}

// Namespace returns a copy of one namespace.
func (b *Bundle) Namespace(name string) (map[string]any, bool) {
	ns, ok := b.namespaces[name]
	if !ok {
		return nil, false
	}
	return deepCopy(ns).(map[string]any), true
}

// Messages returns a copy of every namespace keyed by name, the shape the
// rendering layer consumes.
func (b *Bundle) Messages() map[string]any {
	out := make(map[string]any, len(b.namespaces))
	for name, ns := range b.namespaces {
		out[name] = deepCopy(ns)
	}
	return out
}

// Get walks a dotted key through the bundle. Numeric segments index lists.
// A missing key yields fallback[0] when given, otherwise Missing{key}.
// Lists and records come back as structured copies, never flattened.
func (b *Bundle) Get(key string, fallback ...any) any {
	v, ok := b.lookup(key)
	if !ok {
		if len(fallback) > 0 {
			return fallback[0]
		}
		return Missing{Key: key}
	}
	return deepCopy(v)
}

// Raw returns the structured value at key.
func (b *Bundle) Raw(key string) (any, bool) {
	v, ok := b.lookup(key)
	if !ok {
		return nil, false
	}
	return deepCopy(v), true
}

// Has reports whether key resolves to any value, including "".
func (b *Bundle) Has(key string) bool {
	_, ok := b.lookup(key)
	return ok
}

// String returns the text at key. Scalars are formatted; a missing key or a
// structured value yields fallback[0] or the Missing marker.
func (b *Bundle) String(key string, fallback ...string) string {
	v, ok := b.lookup(key)
	if ok {
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(t)
		}
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return Missing{Key: key}.String()
}

// Strings returns the list of strings at key, skipping non-string items.
func (b *Bundle) Strings(key string) ([]string, bool) {
	v, ok := b.lookup(key)
	if !ok {
		return nil, false
	}
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out, true
}

// Format is String with {name} placeholders replaced from vars. Unknown
// placeholders are left as written.
func (b *Bundle) Format(key string, vars map[string]any, fallback ...string) string {
	return interpolate(b.String(key, fallback...), vars)
}

// Flatten returns every leaf keyed by its full dotted path.
func (b *Bundle) Flatten() map[string]any {
	out := make(map[string]any)
	for name, ns := range b.namespaces {
		flatten(name, ns, out)
	}
	return out
}

func (b *Bundle) lookup(key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	nsName, rest, hasRest := strings.Cut(key, ".")
	ns, ok := b.namespaces[nsName]
	if !ok {
		return nil, false
	}
	if !hasRest {
		return ns, true
	}
	return walk(ns, rest)
}

func walk(node any, dotted string) (any, bool) {
	cur := node
	for seg := range strings.SplitSeq(dotted, ".") {
		switch t := cur.(type) {
		case map[string]any:
			next, ok := t[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			cur = t[i]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

func flatten(prefix string, node any, out map[string]any) {
	switch t := node.(type) {
	case map[string]any:
		for k, v := range t {
			flatten(prefix+"."+k, v, out)
		}
	case []any:
		for i, v := range t {
			flatten(prefix+"."+strconv.Itoa(i), v, out)
		}
	default:
		out[prefix] = t
	}
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = deepCopy(val)
		}
		return m
	case []any:
		l := make([]any, len(t))
		for i, val := range t {
			l[i] = deepCopy(val)
		}
		return l
	default:
		return t
	}
}

func interpolate(s string, vars map[string]any) string {
	if len(vars) == 0 || !strings.Contains(s, "{") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for {
		open := strings.IndexByte(s, '{')
		if open < 0 {
			break
		}
		end := strings.IndexByte(s[open:], '}')
		if end < 0 {
			break
		}
		name := s[open+1 : open+end]
		sb.WriteString(s[:open])
		if v, ok := vars[name]; ok {
			fmt.Fprint(&sb, v)
		} else {
			sb.WriteString(s[open : open+end+1])
		}
		s = s[open+end+1:]
	}
	sb.WriteString(s)
	return sb.String()
}

// Section is one heading/body block of a legal document.
type Section struct {
	Heading string `json:"heading,omitempty"`
	Body    string `json:"body"`
}

// Document is an informational page kept in the legal namespace.
type Document struct {
	Title    string    `json:"title,omitempty"`
	Intro    string    `json:"intro,omitempty"`
	Sections []Section `json:"sections,omitempty"`
	List     []string  `json:"list,omitempty"`
	Note     string    `json:"note,omitempty"`
}

const (
	legalNamespace      = "legal"
	documentNotFoundKey = "legal.notFound"
	documentNotFound    = "No se encontró el documento."
)

// Document returns legal.<kind>. Unknown kinds yield a single-section
// "not found" document in the bundle's language.
func (b *Bundle) Document(kind string) (Document, bool) {
	notFound := Document{Sections: []Section{{Body: b.String(documentNotFoundKey, documentNotFound)}}}
	if kind == "" || strings.Contains(kind, ".") {
		return notFound, false
	}

	v, ok := b.lookup(legalNamespace + "." + kind)
	if !ok {
		return notFound, false
	}
	m, ok := v.(map[string]any)
	if !ok {
		return notFound, false
	}

	raw, err := json.Marshal(m)
	if err != nil {
		return notFound, false
	}
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return notFound, false
	}
	return doc, true
}
