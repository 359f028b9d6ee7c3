package views

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Extension is appended to a module name to form its file name.
const Extension = ".html"

var (
	// ErrModuleNotFound is returned when a source has no such module.
	ErrModuleNotFound = errors.New("views: module not found")

	// ErrInvalidModule is returned for module names that are not a single
	// path element.
	ErrInvalidModule = errors.New("views: invalid module name")

	// ErrInvalidTemplate is returned when a module does not parse.
	ErrInvalidTemplate = errors.New("views: invalid template")
)

// Source opens view modules by name.
type Source interface {
	// Open returns the raw template text of module.
	Open(ctx context.Context, module string) ([]byte, error)
}

//go:embed templates/*.html
var embedded embed.FS

// FSSource reads modules from an fs.FS.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a Source reading "<module>.html" from fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Embedded returns the built-in view modules.
func Embedded() *FSSource {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(err)
	}
	return NewFSSource(sub)
}

// Dir returns a Source reading modules from a directory on disk.
func Dir(dir string) *FSSource {
	return NewFSSource(os.DirFS(dir))
}

// Open implements Source.
func (s *FSSource) Open(ctx context.Context, module string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkModule(module); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fsys, module+Extension)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, module)
		}
		return nil, fmt.Errorf("views: open %s: %w", module, err)
	}
	return data, nil
}

func checkModule(module string) error {
	if module == "" || strings.ContainsAny(module, `/\`) || module == "." || module == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidModule, module)
	}
	return nil
}
