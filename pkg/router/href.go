package router

import (
	"fmt"
	"strings"

	"github.com/vango-dev/viewroute/pkg/routepath"
)

// Href builds the URL of a named route.
//
// Captures are filled from params and percent-escaped; the router base is
// prefixed. Extra params are ignored.
//
//	r.Href("Update", map[string]string{"id": "42"}) // "/update/42"
func (r *Router) Href(name string, params map[string]string) (string, error) {
	i, ok := r.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}
	p := r.routes[i].pattern

	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		if !seg.isParam {
			b.WriteString(seg.literal)
			continue
		}
		value, ok := params[seg.paramName]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: route %q needs %q", ErrMissingParam, name, seg.paramName)
		}
		if err := ValidateParam(value, seg.paramType); err != nil {
			return "", fmt.Errorf("%w: route %q: %v", ErrInvalidParam, name, err)
		}
		b.WriteString(routepath.EscapeSegment(value))
	}

	path := b.String()
	if path == "" {
		path = "/"
	}
	return routepath.JoinBase(r.base, path), nil
}

// MustHref is like Href but panics on error.
func (r *Router) MustHref(name string, params map[string]string) string {
	href, err := r.Href(name, params)
	if err != nil {
		panic(err)
	}
	return href
}

// Params returns the capture names of a named route, in path order.
func (r *Router) Params(name string) ([]string, bool) {
	i, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.routes[i].pattern.params(), true
}
