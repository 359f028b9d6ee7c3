package router

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestEagerLoader(t *testing.T) {
	v := &testView{module: "HomeView"}
	l := Eager(v)

	if !l.Loaded() {
		t.Error("eager loader should report Loaded")
	}
	if l.Module() != "HomeView" {
		t.Errorf("Module() = %q", l.Module())
	}
	got, err := l.Load(context.Background())
	if err != nil || got != v {
		t.Errorf("Load() = %v, %v", got, err)
	}

	if _, err := Eager(nil).Load(context.Background()); err == nil {
		t.Error("Eager(nil).Load should fail")
	}
}

func TestResolveViewConcurrentSingleLoad(t *testing.T) {
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	view := &testView{module: "FormView"}

	form := Lazy("FormView", func(ctx context.Context) (View, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return view, nil
	})

	r, err := New([]RouteEntry{{Path: "/create", Name: "Create", Loader: form}})
	if err != nil {
		t.Fatal(err)
	}
	entry, _ := r.Lookup("Create")

	var wg sync.WaitGroup
	results := make([]View, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = r.ResolveView(context.Background(), entry)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = r.ResolveView(context.Background(), entry)
	}()

	// Give the second caller time to join the in-flight load.
	time.Sleep(20 * time.Millisecond)
	if form.Loaded() {
		t.Fatal("view should not be loaded before release")
	}
	close(release)
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("caller %d error: %v", i, errs[i])
		}
		if results[i] != view {
			t.Errorf("caller %d got %p, want %p", i, results[i], view)
		}
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("loader called %d times, want 1", got)
	}

	// Later calls hit the cache.
	if _, err := r.ResolveView(context.Background(), entry); err != nil {
		t.Fatal(err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("loader called %d times after cache hit, want 1", got)
	}
}

func TestLazyLoaderManyConcurrentCallers(t *testing.T) {
	var calls atomic.Int32
	gate := make(chan struct{})
	l := Lazy("FormView", func(ctx context.Context) (View, error) {
		calls.Add(1)
		<-gate
		return &testView{module: "FormView"}, nil
	})

	const n = 50
	var wg sync.WaitGroup
	views := make([]View, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := l.Load(context.Background())
			if err != nil {
				t.Errorf("Load error: %v", err)
			}
			views[i] = v
		}(i)
	}
	time.Sleep(10 * time.Millisecond)
	close(gate)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("loader called %d times, want 1", got)
	}
	for i := 1; i < n; i++ {
		if views[i] != views[0] {
			t.Fatalf("caller %d received a different view instance", i)
		}
	}
}

func TestLazyLoaderSharedAcrossRoutes(t *testing.T) {
	var calls atomic.Int32
	form := Lazy("FormView", func(context.Context) (View, error) {
		calls.Add(1)
		return &testView{module: "FormView"}, nil
	})
	r, err := New([]RouteEntry{
		{Path: "/create", Name: "Create", Loader: form},
		{Path: "/update/:id", Name: "Update", Loader: form},
	})
	if err != nil {
		t.Fatal(err)
	}

	a, err := r.Navigate(context.Background(), "/create")
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Navigate(context.Background(), "/update/1")
	if err != nil {
		t.Fatal(err)
	}
	if a.View != b.View {
		t.Error("Create and Update should share the FormView instance")
	}
	if calls.Load() != 1 {
		t.Errorf("loader called %d times, want 1", calls.Load())
	}
}

func TestLazyLoaderFailureNotCached(t *testing.T) {
	var calls atomic.Int32
	boom := errors.New("network down")
	l := Lazy("FormView", func(context.Context) (View, error) {
		if calls.Add(1) == 1 {
			return nil, boom
		}
		return &testView{module: "FormView"}, nil
	})

	if _, err := l.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("first Load error = %v, want %v", err, boom)
	}
	if l.Loaded() {
		t.Error("failed load must not be cached")
	}

	v, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load error: %v", err)
	}
	if v.Module() != "FormView" {
		t.Errorf("Module() = %q", v.Module())
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestLazyLoaderPanicAndNilView(t *testing.T) {
	panicking := Lazy("Bad", func(context.Context) (View, error) {
		panic("kaboom")
	})
	if _, err := panicking.Load(context.Background()); err == nil {
		t.Error("panicking loader should return an error")
	}

	nilView := Lazy("Nil", func(context.Context) (View, error) {
		return nil, nil
	})
	if _, err := nilView.Load(context.Background()); !errors.Is(err, errNilView) {
		t.Errorf("nil view error = %v, want errNilView", err)
	}
}

func TestLazyLoaderCallerCancellation(t *testing.T) {
	release := make(chan struct{})
	done := make(chan struct{})
	l := Lazy("FormView", func(ctx context.Context) (View, error) {
		defer close(done)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &testView{module: "FormView"}, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := l.Load(ctx)
		errc <- err
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := <-errc; !errors.Is(err, context.Canceled) {
		t.Fatalf("Load error = %v, want context.Canceled", err)
	}

	// The superseded load keeps running and still fills the cache.
	close(release)
	<-done
	deadline := time.Now().Add(time.Second)
	for !l.Loaded() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !l.Loaded() {
		t.Fatal("detached load should populate the cache")
	}
}

func TestResolveViewCancelledIsNotLoadError(t *testing.T) {
	l := Lazy("FormView", func(ctx context.Context) (View, error) {
		time.Sleep(50 * time.Millisecond)
		return &testView{module: "FormView"}, nil
	})
	r := MustNew([]RouteEntry{{Path: "/create", Name: "Create", Loader: l}})
	entry, _ := r.Lookup("Create")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.ResolveView(ctx, entry)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrLoadFailure) {
		t.Error("cancellation must not be reported as a load failure")
	}
}

func TestLazyLoaderTimeoutAndObserver(t *testing.T) {
	type observation struct {
		module string
		err    error
	}
	var mu sync.Mutex
	var seen []observation

	l := Lazy("Slow", func(ctx context.Context) (View, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	},
		WithLoadTimeout(10*time.Millisecond),
		WithLoadObserver(func(module string, d time.Duration, err error) {
			mu.Lock()
			seen = append(seen, observation{module, err})
			mu.Unlock()
		}),
	)

	r := MustNew([]RouteEntry{{Path: "/slow", Name: "Slow", Loader: l}})
	_, err := r.Navigate(context.Background(), "/slow")
	if !errors.Is(err, ErrLoadFailure) {
		t.Fatalf("error = %v, want ErrLoadFailure", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error should wrap DeadlineExceeded: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 {
		t.Fatalf("observer called %d times, want 1", len(seen))
	}
	if seen[0].module != "Slow" || !errors.Is(seen[0].err, context.DeadlineExceeded) {
		t.Errorf("observation = %+v", seen[0])
	}
}
