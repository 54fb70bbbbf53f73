// Package weather resolves forecasts for a (date, location) pair through a
// persistent cache in front of an external provider, and counts how often
// the cache answers.
package weather

import "context"

// Sample is one point of a provider's forecast time series.
type Sample struct {
	Timestamp    int64 // unix seconds
	Temperature  float64
	Humidity     float64
	WindSpeed    float64
	Descriptions []string
}

func (s Sample) description() string {
	if len(s.Descriptions) == 0 {
		return ""
	}
	return s.Descriptions[0]
}

type Query struct {
	Location string
	APIKey   string
	Units    string
}

type Response struct {
	Samples []Sample
}

// Provider fetches a forecast time series for a location.
type Provider interface {
	Forecast(ctx context.Context, q Query) (Response, error)
}
