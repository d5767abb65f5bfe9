package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/llante/llante_site/internal/locale"
)

// ErrDefaultMissing means a namespace of the default locale could not be
// loaded. That is a build error, reported by Preload at startup.
var ErrDefaultMissing = errors.New("content: default locale namespace missing")

// Loader builds per-locale bundles from a Source and caches them for the
// process lifetime. Content only changes with a redeploy, so there is no
// invalidation.
type Loader struct {
	src        Source
	set        *locale.Set
	namespaces []string
	logger     *slog.Logger

	cache sync.Map // locale.Locale -> *Bundle
}

func NewLoader(src Source, set *locale.Set, namespaces []string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		src:        src,
		set:        set,
		namespaces: slices.Clone(namespaces),
		logger:     logger.With("component", "content"),
	}
}

func (l *Loader) Locales() *locale.Set { return l.set }

func (l *Loader) Namespaces() []string { return slices.Clone(l.namespaces) }

// Load returns the bundle for loc. Unsupported locales load the default.
// A namespace missing for loc falls back to the default locale's copy of the
// same namespace; if that is missing too the namespace is simply absent and
// lookups return the Missing sentinel. Only context cancellation is an error.
func (l *Loader) Load(ctx context.Context, loc locale.Locale) (*Bundle, error) {
	loc = l.set.OrDefault(string(loc))

	if b, ok := l.cache.Load(loc); ok {
		return b.(*Bundle), nil
	}

	b, transient, err := l.build(ctx, loc)
	if err != nil {
		return nil, err
	}
	if transient {
		// Source trouble rather than missing files: serve it, retry next time.
		return b, nil
	}

	// Concurrent first loads may both build; the first stored bundle wins and
	// both are identical.
	actual, _ := l.cache.LoadOrStore(loc, b)
	return actual.(*Bundle), nil
}

// MustLoad is Load for callers that cannot propagate errors.
func (l *Loader) MustLoad(ctx context.Context, loc locale.Locale) *Bundle {
	b, err := l.Load(ctx, loc)
	if err != nil {
		return newBundle(l.set.OrDefault(string(loc)))
	}
	return b
}

// Preload verifies every default-locale namespace and warms the cache for all
// supported locales.
func (l *Loader) Preload(ctx context.Context) error {
	def := l.set.Default()
	var errs []error
	for _, ns := range l.namespaces {
		if _, err := l.readNamespace(ctx, def, ns); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s/%s: %v", ErrDefaultMissing, def, ns, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return err
	}

	for _, loc := range l.set.Supported() {
		b, err := l.Load(ctx, loc)
		if err != nil {
			return err
		}
		if fb := b.Fallbacks(); len(fb) > 0 && loc != def {
			l.logger.Warn("namespaces served from default locale",
				"locale", loc, "default", def, "namespaces", fb)
		}
	}
	return nil
}

func (l *Loader) build(ctx context.Context, loc locale.Locale) (*Bundle, bool, error) {
	def := l.set.Default()
	b := newBundle(loc)
	transient := false

	for _, ns := range l.namespaces {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		data, err := l.readNamespace(ctx, loc, ns)
		if err == nil {
			b.namespaces[ns] = data
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			transient = true
		}
		if loc == def {
			l.logger.Error("default locale namespace unavailable", "locale", loc, "namespace", ns, "error", err)
			continue
		}

		l.logger.Debug("namespace falls back to default locale", "locale", loc, "namespace", ns, "error", err)
		data, derr := l.readNamespace(ctx, def, ns)
		if derr != nil {
			if !errors.Is(derr, ErrNotFound) {
				transient = true
			}
			l.logger.Error("namespace unavailable in any locale", "locale", loc, "namespace", ns, "error", derr)
			continue
		}
		b.namespaces[ns] = data
		b.fallbacks = append(b.fallbacks, ns)
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	return b, transient, nil
}

func (l *Loader) readNamespace(ctx context.Context, loc locale.Locale, ns string) (map[string]any, error) {
	raw, err := l.src.Read(ctx, string(loc), ns)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		// A file that does not parse is treated like a missing one.
		return nil, fmt.Errorf("%w: %s/%s: %v", ErrNotFound, loc, ns, err)
	}
	if data == nil {
		return nil, fmt.Errorf("%w: %s/%s: empty document", ErrNotFound, loc, ns)
	}
	return data, nil
}

// Gap lists content present for the default locale but absent for another.
type Gap struct {
	Locale            locale.Locale `json:"locale"`
	MissingNamespaces []string      `json:"missing_namespaces,omitempty"`
	MissingKeys       []string      `json:"missing_keys,omitempty"`
}

func (g Gap) Empty() bool { return len(g.MissingNamespaces) == 0 && len(g.MissingKeys) == 0 }

// Check compares every non-default locale against the default, key by key,
// without applying fallback.
func (l *Loader) Check(ctx context.Context) ([]Gap, error) {
	def := l.set.Default()
	reference := newBundle(def)
	for _, ns := range l.namespaces {
		data, err := l.readNamespace(ctx, def, ns)
		if err != nil {
			return nil, fmt.Errorf("%w: %s/%s: %v", ErrDefaultMissing, def, ns, err)
		}
		reference.namespaces[ns] = data
	}
	refKeys := reference.Flatten()

	var gaps []Gap
	for _, loc := range l.set.Supported() {
		if loc == def {
			continue
		}
		gap := Gap{Locale: loc}
		candidate := newBundle(loc)
		for _, ns := range l.namespaces {
			data, err := l.readNamespace(ctx, loc, ns)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return nil, ctxErr
				}
				gap.MissingNamespaces = append(gap.MissingNamespaces, ns)
				continue
			}
			candidate.namespaces[ns] = data
		}
		have := candidate.Flatten()
		for key := range refKeys {
			ns, _, _ := strings.Cut(key, ".")
			if slices.Contains(gap.MissingNamespaces, ns) {
				continue
			}
			if _, ok := have[key]; !ok {
				gap.MissingKeys = append(gap.MissingKeys, key)
			}
		}
		slices.Sort(gap.MissingKeys)
		gaps = append(gaps, gap)
	}
	return gaps, nil
}
