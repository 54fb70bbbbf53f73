package weather

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/store"
)

// MaxDaysAhead is how far past today the provider has data.
const MaxDaysAhead = 5

// ErrFetch wraps provider failures on the dated forecast path.
var ErrFetch = errors.New("weather forecast not available")

var errNoSamples = errors.New("provider returned no samples")

// Units is the provider unit system. Cached forecasts are keyed by date and
// location only, so it is fixed.
const Units = "metric"

type Options struct {
	APIKey string
	Now    func() time.Time
}

// Engine answers forecast requests from the cache first and the provider on
// a miss. Counters live for the lifetime of the Engine.
type Engine struct {
	provider  Provider
	forecasts store.ForecastStore
	apiKey    string
	now       func() time.Time

	total  atomic.Int64
	hits   atomic.Int64
	misses atomic.Int64
}

func NewEngine(p Provider, forecasts store.ForecastStore, opts Options) *Engine {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{provider: p, forecasts: forecasts, apiKey: opts.APIKey, now: opts.Now}
}

// Today is the current UTC date.
func (e *Engine) Today() domain.Date {
	return domain.DateOf(e.now())
}

// Default returns the sentinel forecast served when no real data exists.
func (e *Engine) Default() domain.Forecast {
	return domain.Forecast{
		Date:        e.Today(),
		Location:    domain.DefaultLocation,
		Temperature: 20.0,
		Description: "Partly cloudy",
		Humidity:    65.0,
		WindSpeed:   5.0,
		Timestamp:   e.now().Unix(),
	}
}

func (e *Engine) defaultFor(date domain.Date, location string) domain.Forecast {
	f := e.Default()
	f.Date = date
	f.Location = location
	return f
}

// Forecast resolves the forecast for date at location. Dates beyond the
// provider window and dates with no matching sample get the default
// forecast, which is never cached. Provider failures are returned wrapped
// in ErrFetch.
func (e *Engine) Forecast(ctx context.Context, date domain.Date, location string) (domain.Forecast, error) {
	e.total.Add(1)

	if date.After(e.Today().AddDays(MaxDaysAhead)) {
		log.Printf("weather: %s is beyond the %d day window, serving default", date, MaxDaysAhead)
		return e.defaultFor(date, location), nil
	}

	cached, err := e.forecasts.FindByDateAndLocation(ctx, date, location)
	if err == nil {
		e.hits.Add(1)
		return cached, nil
	}
	if !store.IsNotFound(err) {
		return domain.Forecast{}, fmt.Errorf("forecast cache lookup: %w", err)
	}

	e.misses.Add(1)
	f, ok, err := e.fetch(ctx, date, location)
	if err != nil {
		return domain.Forecast{}, err
	}
	if !ok {
		log.Printf("weather: no sample for %s at %q, serving default", date, location)
		return e.defaultFor(date, location), nil
	}
	return f, nil
}

// Prefetch warms the cache for (date, location) without touching the
// counters. It reports whether a new entry was written.
func (e *Engine) Prefetch(ctx context.Context, date domain.Date, location string) (bool, error) {
	if date.After(e.Today().AddDays(MaxDaysAhead)) {
		return false, nil
	}
	_, err := e.forecasts.FindByDateAndLocation(ctx, date, location)
	if err == nil {
		return false, nil
	}
	if !store.IsNotFound(err) {
		return false, fmt.Errorf("forecast cache lookup: %w", err)
	}
	_, ok, err := e.fetch(ctx, date, location)
	return ok, err
}

// fetch asks the provider and persists the first sample falling on date.
func (e *Engine) fetch(ctx context.Context, date domain.Date, location string) (domain.Forecast, bool, error) {
	resp, err := e.provider.Forecast(ctx, Query{Location: location, APIKey: e.apiKey, Units: Units})
	if err != nil {
		return domain.Forecast{}, false, fmt.Errorf("%w for %q: %w", ErrFetch, location, err)
	}

	day := date.EpochDay()
	for _, s := range resp.Samples {
		if s.Timestamp/86400 != day {
			continue
		}
		saved, err := e.forecasts.Save(ctx, fromSample(s, location))
		if err != nil {
			return domain.Forecast{}, false, fmt.Errorf("forecast cache write: %w", err)
		}
		return saved, true, nil
	}
	return domain.Forecast{}, false, nil
}

// Current returns the provider's first sample for location without caching
// or counting. Every failure yields the default forecast.
func (e *Engine) Current(ctx context.Context, location string) domain.Forecast {
	location = domain.NormalizeLocation(location)
	f, err := e.current(ctx, location)
	if err != nil {
		log.Printf("weather: current forecast for %q: %v", location, err)
		return e.Default()
	}
	return f
}

func (e *Engine) current(ctx context.Context, location string) (domain.Forecast, error) {
	resp, err := e.provider.Forecast(ctx, Query{Location: location, APIKey: e.apiKey, Units: Units})
	if err != nil {
		return domain.Forecast{}, err
	}
	if len(resp.Samples) == 0 {
		return domain.Forecast{}, errNoSamples
	}
	return fromSample(resp.Samples[0], location), nil
}

func fromSample(s Sample, location string) domain.Forecast {
	return domain.Forecast{
		Date:        domain.DateOfEpochDay(s.Timestamp / 86400),
		Location:    location,
		Temperature: s.Temperature,
		Description: s.description(),
		Humidity:    s.Humidity,
		WindSpeed:   s.WindSpeed,
		Timestamp:   s.Timestamp,
	}
}

type Stats struct {
	TotalRequests int64   `json:"totalRequests"`
	CacheHits     int64   `json:"cacheHits"`
	CacheMisses   int64   `json:"cacheMisses"`
	HitRate       float64 `json:"hitRate"`
}

func (e *Engine) Stats() Stats {
	// total is read last so hits+misses never exceeds it
	hits := e.hits.Load()
	misses := e.misses.Load()
	total := e.total.Load()

	st := Stats{TotalRequests: total, CacheHits: hits, CacheMisses: misses}
	if total > 0 {
		st.HitRate = float64(hits) / float64(total)
	}
	return st
}
