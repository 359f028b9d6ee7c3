package views

import (
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/vango-dev/viewroute/pkg/router"
)

// TemplateView is a view module compiled to an html/template.
type TemplateView struct {
	module string
	tmpl   *template.Template
}

// Parse compiles src as the template of module.
func Parse(module string, src []byte) (*TemplateView, error) {
	tmpl, err := template.New(module).Option("missingkey=zero").Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidTemplate, module, err)
	}
	return &TemplateView{module: module, tmpl: tmpl}, nil
}

// Module implements router.View.
func (v *TemplateView) Module() string {
	return v.module
}

// Render executes the view with data.
func (v *TemplateView) Render(w io.Writer, data any) error {
	return v.tmpl.Execute(w, data)
}

// Open reads and parses module from src.
func Open(ctx context.Context, src Source, module string) (*TemplateView, error) {
	data, err := src.Open(ctx, module)
	if err != nil {
		return nil, err
	}
	return Parse(module, data)
}

// LoadFunc returns a router.LoadFunc that opens module from src.
func LoadFunc(src Source, module string) router.LoadFunc {
	return func(ctx context.Context) (router.View, error) {
		return Open(ctx, src, module)
	}
}

// Eager opens module now and returns a loader that always yields it.
func Eager(ctx context.Context, src Source, module string) (router.Loader, error) {
	view, err := Open(ctx, src, module)
	if err != nil {
		return nil, err
	}
	return router.Eager(view), nil
}

// Lazy returns a loader that opens module on first use.
func Lazy(src Source, module string, opts ...router.LazyOption) router.Loader {
	return router.Lazy(module, LoadFunc(src, module), opts...)
}
