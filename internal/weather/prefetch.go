package weather

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/example/meal-reservations/internal/domain"
	"github.com/example/meal-reservations/internal/store"
)

// Prefetcher periodically warms the forecast cache for every restaurant
// location, today through today+Days.
type Prefetcher struct {
	Engine      *Engine
	Restaurants store.RestaurantStore
	Interval    time.Duration
	Days        int

	wg sync.WaitGroup
}

func (p *Prefetcher) Run(ctx context.Context) error {
	t := time.NewTicker(p.Interval)
	defer t.Stop()

	// kick immediately
	p.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			p.wg.Wait()
			return ctx.Err()
		case <-t.C:
			p.tick(ctx)
		}
	}
}

func (p *Prefetcher) tick(ctx context.Context) {
	rs, err := p.Restaurants.FindAll(ctx)
	if err != nil {
		log.Printf("weather: prefetch restaurant query failed: %v", err)
		return
	}

	seen := map[string]bool{}
	for _, r := range rs {
		loc := domain.NormalizeLocation(r.Location)
		if seen[loc] {
			continue
		}
		seen[loc] = true

		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.warm(ctx, loc)
		}()
	}
	p.wg.Wait()
}

func (p *Prefetcher) warm(ctx context.Context, location string) {
	days := p.Days
	if days > MaxDaysAhead {
		days = MaxDaysAhead
	}
	today := p.Engine.Today()
	for i := 0; i <= days; i++ {
		date := today.AddDays(i)
		wrote, err := p.Engine.Prefetch(ctx, date, location)
		if err != nil {
			log.Printf("weather: prefetch %s %q failed: %v", date, location, err)
			// provider is down or rejecting the location; try again next tick
			return
		}
		if wrote {
			log.Printf("weather: prefetched %s %q", date, location)
		}
	}
}
