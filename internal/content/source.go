package content

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	s3pkg "github.com/llante/llante_site/pkg/s3"
)

// ErrNotFound is returned by a Source when (locale, namespace) has no file.
var ErrNotFound = errors.New("content: namespace not found")

// Source reads the raw JSON of one namespace for one locale.
type Source interface {
	Read(ctx context.Context, locale, namespace string) ([]byte, error)
}

//go:embed locales/*/*.json
var embedded embed.FS

// FSSource reads <locale>/<namespace>.json from a file system.
type FSSource struct {
	fsys fs.FS
}

func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// NewEmbedSource serves the namespaces compiled into the binary.
func NewEmbedSource() *FSSource {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		panic(err)
	}
	return NewFSSource(sub)
}

// NewDirSource serves namespaces from a directory on disk.
func NewDirSource(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

func (s *FSSource) Read(_ context.Context, locale, namespace string) ([]byte, error) {
	name, err := fileName(locale, namespace)
	if err != nil {
		return nil, err
	}
	b, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return b, err
}

// Walk calls fn for every <locale>/<namespace>.json file in the source.
func (s *FSSource) Walk(fn func(locale, namespace string, data []byte) error) error {
	return fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".json" {
			return nil
		}
		loc, file, ok := strings.Cut(p, "/")
		if !ok || strings.Contains(file, "/") {
			return nil
		}
		data, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			return err
		}
		return fn(loc, strings.TrimSuffix(file, ".json"), data)
	})
}

// ObjectKey is where S3Source expects (locale, namespace) under prefix.
func ObjectKey(prefix, locale, namespace string) string {
	name := path.Join(locale, namespace+".json")
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		return prefix + "/" + name
	}
	return name
}

// objectStore is the subset of pkg/s3 the loader needs.
type objectStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
}

// S3Source reads namespaces from <prefix>/<locale>/<namespace>.json in a bucket.
type S3Source struct {
	store  objectStore
	prefix string
}

func NewS3Source(store objectStore, prefix string) *S3Source {
	return &S3Source{store: store, prefix: strings.Trim(prefix, "/")}
}

func (s *S3Source) Read(ctx context.Context, locale, namespace string) ([]byte, error) {
	if _, err := fileName(locale, namespace); err != nil {
		return nil, err
	}
	key := ObjectKey(s.prefix, locale, namespace)
	b, err := s.store.Get(ctx, key)
	if errors.Is(err, s3pkg.ErrNoSuchKey) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return b, err
}

// fileName keeps lookups inside the content root.
func fileName(locale, namespace string) (string, error) {
	for _, part := range []string{locale, namespace} {
		if part == "" || strings.ContainsAny(part, `/\.`) {
			return "", fmt.Errorf("%w: invalid name %q", ErrNotFound, part)
		}
	}
	return path.Join(locale, namespace+".json"), nil
}
