package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client calls the OpenWeatherMap 5 day / 3 hour forecast endpoint.
type Client struct {
	hc      *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		hc:      &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	} `json:"list"`
}

func (c *Client) Forecast(ctx context.Context, q Query) (Response, error) {
	params := url.Values{}
	params.Set("q", q.Location)
	params.Set("appid", q.APIKey)
	params.Set("units", q.Units)

	status, body, err := c.do(ctx, c.baseURL+"/forecast", params)
	if err != nil {
		return Response{}, err
	}
	if status != http.StatusOK {
		var r struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &r)
		if r.Message != "" {
			return Response{}, fmt.Errorf("weather provider: %s (status=%d)", r.Message, status)
		}
		return Response{}, fmt.Errorf("weather provider failed (status=%d)", status)
	}

	var fr forecastResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return Response{}, fmt.Errorf("decode forecast: %w", err)
	}

	out := Response{Samples: make([]Sample, 0, len(fr.List))}
	for _, it := range fr.List {
		s := Sample{
			Timestamp:   it.Dt,
			Temperature: it.Main.Temp,
			Humidity:    it.Main.Humidity,
			WindSpeed:   it.Wind.Speed,
		}
		for _, w := range it.Weather {
			s.Descriptions = append(s.Descriptions, w.Description)
		}
		out.Samples = append(out.Samples, s)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, rawURL string, query url.Values) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Add("accept", "application/json")
	req.URL.RawQuery = query.Encode()

	res, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return res.StatusCode, nil, err
	}
	return res.StatusCode, b, nil
}
