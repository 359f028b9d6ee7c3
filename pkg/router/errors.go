package router

import (
	"errors"
	"fmt"

	"github.com/vango-dev/viewroute/pkg/routepath"
)

// Navigation errors.
var (
	// ErrNotFound is returned when no route matches a path.
	ErrNotFound = errors.New("router: route not found")

	// ErrLoadFailure is returned when a lazy view fails to load.
	ErrLoadFailure = errors.New("router: view load failed")

	// ErrInvalidPath is returned for paths that cannot be matched at all.
	ErrInvalidPath = routepath.ErrInvalidPath
)

// Route table errors.
var (
	ErrDuplicateName  = errors.New("router: duplicate route name")
	ErrInvalidPattern = errors.New("router: invalid route pattern")
	ErrInvalidRoute   = errors.New("router: invalid route")
)

// Named navigation errors.
var (
	ErrUnknownRoute = errors.New("router: unknown route name")
	ErrMissingParam = errors.New("router: missing route param")
	ErrInvalidParam = errors.New("router: invalid route param")
)

// NotFoundError reports a path that matched no route.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("router: no route matches %q", e.Path)
}

// Is makes errors.Is(err, ErrNotFound) true.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// LoadError reports a failed lazy view load.
type LoadError struct {
	// Route is the name of the route being navigated to.
	Route string

	// Module is the view module that failed to load.
	Module string

	// Err is the loader's error.
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("router: loading view %q for route %q: %v", e.Module, e.Route, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrLoadFailure) true.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoadFailure
}
