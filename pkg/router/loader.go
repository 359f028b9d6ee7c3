package router

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

var errNilView = errors.New("loader returned nil view")

// eagerLoader holds a view constructed at startup.
type eagerLoader struct {
	view View
}

// Eager returns a loader for an already constructed view.
func Eager(view View) Loader {
	return eagerLoader{view: view}
}

func (l eagerLoader) Load(context.Context) (View, error) {
	if l.view == nil {
		return nil, errNilView
	}
	return l.view, nil
}

func (l eagerLoader) Loaded() bool { return l.view != nil }

func (l eagerLoader) Module() string {
	if l.view == nil {
		return ""
	}
	return l.view.Module()
}

// LoadObserver is notified after every actual invocation of a LoadFunc.
// Memoized and shared results are not reported.
type LoadObserver func(module string, d time.Duration, err error)

// LazyOption configures a lazy loader.
type LazyOption func(*lazyLoader)

// WithLoadObserver registers an observer for load invocations.
func WithLoadObserver(fn LoadObserver) LazyOption {
	return func(l *lazyLoader) {
		l.observers = append(l.observers, fn)
	}
}

// WithLoadTimeout bounds a single load invocation.
// The timeout applies to the shared load, not to individual callers.
func WithLoadTimeout(d time.Duration) LazyOption {
	return func(l *lazyLoader) {
		l.timeout = d
	}
}

// lazyLoader loads its view on first use and memoizes it.
//
// A successful result is cached for the lifetime of the loader. Failed loads
// are not cached: the error is returned to every caller that shared the
// attempt, and the next Load starts a fresh one.
type lazyLoader struct {
	module    string
	fn        LoadFunc
	timeout   time.Duration
	observers []LoadObserver

	group singleflight.Group
	view  atomic.Pointer[loadedView]
}

type loadedView struct {
	view View
}

// Lazy returns a loader that calls fn on first use and caches its view.
// Concurrent calls to Load while a load is in flight wait for that load
// instead of starting another one.
func Lazy(module string, fn LoadFunc, opts ...LazyOption) Loader {
	l := &lazyLoader{module: module, fn: fn}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lazyLoader) Module() string { return l.module }

func (l *lazyLoader) Loaded() bool { return l.view.Load() != nil }

// Load returns the cached view or waits for a shared load.
//
// If ctx is done before the load completes, Load returns ctx.Err(). The load
// itself is detached from ctx's cancellation and still populates the cache.
func (l *lazyLoader) Load(ctx context.Context) (View, error) {
	if lv := l.view.Load(); lv != nil {
		return lv.view, nil
	}

	ch := l.group.DoChan(l.module, func() (any, error) {
		// A load may have finished between the check above and DoChan.
		if lv := l.view.Load(); lv != nil {
			return lv.view, nil
		}
		view, err := l.invoke(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		l.view.Store(&loadedView{view: view})
		return view, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(View), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// invoke calls the LoadFunc once, converting panics into errors.
func (l *lazyLoader) invoke(ctx context.Context) (view View, err error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			view, err = nil, fmt.Errorf("loader panicked: %v", r)
		}
		if err == nil && view == nil {
			err = errNilView
		}
		for _, observe := range l.observers {
			observe(l.module, time.Since(start), err)
		}
	}()

	return l.fn(ctx)
}
