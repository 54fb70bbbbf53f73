package weather

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/store/memory"
)

// fakeProvider returns a fixed response and counts calls.
type fakeProvider struct {
	mu    sync.Mutex
	resp  Response
	err   error
	calls int
	last  Query
}

func (f *fakeProvider) Forecast(_ context.Context, q Query) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.last = q
	return f.resp, f.err
}

var now = time.Date(2026, 6, 10, 9, 0, 0, 0, time.UTC)

func at(d domain.Date, hour int) int64 {
	return d.Unix() + int64(hour)*3600
}

func newEngine(p Provider) (*Engine, *memory.Forecasts) {
	st := memory.New()
	fs := st.Forecasts.(*memory.Forecasts)
	return NewEngine(p, fs, Options{APIKey: "k", Now: func() time.Time { return now }}), fs
}

func TestForecastMissThenHit(t *testing.T) {
	ctx := context.Background()
	today := domain.DateOf(now)
	p := &fakeProvider{resp: Response{Samples: []Sample{
		{Timestamp: at(today.AddDays(-1), 21), Temperature: 1},
		{Timestamp: at(today, 12), Temperature: 18.5, Humidity: 70, WindSpeed: 3.2, Descriptions: []string{"light rain", "mist"}},
		{Timestamp: at(today, 15), Temperature: 19},
	}}}
	e, _ := newEngine(p)

	first, err := e.Forecast(ctx, today, "Aveiro")
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == 0 || first.Temperature != 18.5 || first.Description != "light rain" || first.Humidity != 70 ||
		first.WindSpeed != 3.2 || first.Timestamp != at(today, 12) || first.Location != "Aveiro" || !first.Date.Equal(today) {
		t.Fatalf("first = %+v", first)
	}
	if p.last.Units != "metric" || p.last.APIKey != "k" || p.last.Location != "Aveiro" {
		t.Fatalf("provider query = %+v", p.last)
	}

	second, err := e.Forecast(ctx, today, "Aveiro")
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Fatalf("second = %+v, want cached %+v", second, first)
	}
	if p.calls != 1 {
		t.Fatalf("provider calls = %d, want 1", p.calls)
	}

	want := Stats{TotalRequests: 2, CacheHits: 1, CacheMisses: 1, HitRate: 0.5}
	if got := e.Stats(); got != want {
		t.Fatalf("stats = %+v, want %+v", got, want)
	}
}

func TestForecastBeyondWindow(t *testing.T) {
	p := &fakeProvider{}
	e, fs := newEngine(p)
	date := domain.DateOf(now).AddDays(6)

	f, err := e.Forecast(context.Background(), date, "Porto,PT")
	if err != nil {
		t.Fatal(err)
	}
	if !f.Date.Equal(date) || f.Location != "Porto,PT" || f.Temperature != 20.0 || f.Description != "Partly cloudy" ||
		f.Humidity != 65.0 || f.WindSpeed != 5.0 || f.Timestamp != now.Unix() {
		t.Fatalf("default = %+v", f)
	}
	if p.calls != 0 {
		t.Fatal("provider was called")
	}
	all, _ := fs.FindAll(context.Background())
	if len(all) != 0 {
		t.Fatal("cache was written")
	}
	if got := e.Stats(); got != (Stats{TotalRequests: 1}) {
		t.Fatalf("stats = %+v", got)
	}
}

func TestForecastFifthDayIsInWindow(t *testing.T) {
	date := domain.DateOf(now).AddDays(5)
	p := &fakeProvider{resp: Response{Samples: []Sample{{Timestamp: at(date, 0), Temperature: 9}}}}
	e, _ := newEngine(p)

	f, err := e.Forecast(context.Background(), date, "Aveiro,PT")
	if err != nil {
		t.Fatal(err)
	}
	if f.Temperature != 9 || p.calls != 1 {
		t.Fatalf("got %+v after %d calls", f, p.calls)
	}
}

func TestForecastNoMatchingSample(t *testing.T) {
	today := domain.DateOf(now)
	p := &fakeProvider{resp: Response{Samples: []Sample{{Timestamp: at(today.AddDays(1), 3)}}}}
	e, fs := newEngine(p)

	f, err := e.Forecast(context.Background(), today, "Aveiro")
	if err != nil {
		t.Fatal(err)
	}
	if f.ID != 0 || f.Description != "Partly cloudy" || !f.Date.Equal(today) || f.Location != "Aveiro" {
		t.Fatalf("got %+v", f)
	}
	all, _ := fs.FindAll(context.Background())
	if len(all) != 0 {
		t.Fatal("default forecast was cached")
	}
	if got := e.Stats(); got.CacheMisses != 1 || got.TotalRequests != 1 {
		t.Fatalf("stats = %+v", got)
	}
}

func TestForecastProviderErrorPropagates(t *testing.T) {
	p := &fakeProvider{err: errors.New("boom")}
	e, _ := newEngine(p)

	_, err := e.Forecast(context.Background(), domain.DateOf(now), "Aveiro")
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("got %v, want ErrFetch", err)
	}
}

func TestCurrent(t *testing.T) {
	ctx := context.Background()

	t.Run("first sample", func(t *testing.T) {
		p := &fakeProvider{resp: Response{Samples: []Sample{{Timestamp: at(domain.DateOf(now), 12), Temperature: 22, Descriptions: []string{"clear sky"}}}}}
		e, _ := newEngine(p)
		f := e.Current(ctx, "Test Location")
		if f.Location != "Aveiro,PT" || p.last.Location != "Aveiro,PT" || f.Temperature != 22 || f.Description != "clear sky" {
			t.Fatalf("got %+v", f)
		}
		if got := e.Stats(); got != (Stats{}) {
			t.Fatalf("counters moved: %+v", got)
		}
	})

	for name, p := range map[string]*fakeProvider{
		"error": {err: errors.New("down")},
		"empty": {},
	} {
		t.Run(name, func(t *testing.T) {
			e, _ := newEngine(p)
			f := e.Current(ctx, "Lisbon,PT")
			if f != e.Default() {
				t.Fatalf("got %+v, want default", f)
			}
		})
	}
}

func TestConcurrentCountersStayConsistent(t *testing.T) {
	today := domain.DateOf(now)
	p := &fakeProvider{resp: Response{Samples: []Sample{{Timestamp: at(today, 6)}}}}
	e, _ := newEngine(p)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.Forecast(context.Background(), today, "Aveiro")
			st := e.Stats()
			if st.CacheHits+st.CacheMisses > st.TotalRequests {
				t.Errorf("hits+misses > total: %+v", st)
			}
		}()
	}
	wg.Wait()

	st := e.Stats()
	if st.TotalRequests != 50 || st.CacheHits+st.CacheMisses != 50 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestPrefetchLeavesCountersAlone(t *testing.T) {
	ctx := context.Background()
	today := domain.DateOf(now)
	p := &fakeProvider{resp: Response{Samples: []Sample{{Timestamp: at(today, 6), Temperature: 11}}}}
	e, fs := newEngine(p)

	wrote, err := e.Prefetch(ctx, today, "Aveiro,PT")
	if err != nil || !wrote {
		t.Fatalf("prefetch = %v, %v", wrote, err)
	}
	wrote, _ = e.Prefetch(ctx, today, "Aveiro,PT")
	if wrote || p.calls != 1 {
		t.Fatalf("second prefetch wrote=%v calls=%d", wrote, p.calls)
	}
	if got := e.Stats(); got != (Stats{}) {
		t.Fatalf("counters moved: %+v", got)
	}
	if _, err := fs.FindByDateAndLocation(ctx, today, "Aveiro,PT"); err != nil {
		t.Fatalf("cache entry missing: %v", err)
	}
}

func TestPrefetcherTickWarmsEachLocationOnce(t *testing.T) {
	ctx := context.Background()
	today := domain.DateOf(now)
	st := memory.New()
	st.Restaurants.Save(ctx, domain.Restaurant{Name: "a", Location: "Porto,PT"})
	st.Restaurants.Save(ctx, domain.Restaurant{Name: "b", Location: "Porto,PT"})
	st.Restaurants.Save(ctx, domain.Restaurant{Name: "c"})

	p := &fakeProvider{resp: Response{Samples: []Sample{{Timestamp: at(today, 6)}, {Timestamp: at(today.AddDays(1), 6)}}}}
	e := NewEngine(p, st.Forecasts, Options{Now: func() time.Time { return now }})
	pf := &Prefetcher{Engine: e, Restaurants: st.Restaurants, Interval: time.Hour, Days: 1}

	pf.tick(ctx)

	all, _ := st.Forecasts.FindAll(ctx)
	if len(all) != 4 {
		t.Fatalf("cached %d forecasts, want 4", len(all))
	}
}
