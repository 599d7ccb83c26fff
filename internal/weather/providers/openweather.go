package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/i474232898/area-weather/internal/weather"
	"github.com/sony/gobreaker"
)

// DefaultOpenWeatherURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider implements weather.ProviderClient for OpenWeatherMap using
// the current weather endpoint for points and the box/city endpoint for areas.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey, baseURL string) *OpenWeatherProvider {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}
	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// FetchPoint looks up the current weather for a location name. The provider reports
// temperatures in Kelvin since no units parameter is sent.
func (p *OpenWeatherProvider) FetchPoint(ctx context.Context, name string) (weather.PointReading, error) {
	const op = "point"

	values := url.Values{}
	values.Set("q", name)

	var payload struct {
		Coord *struct {
			Lon float64 `json:"lon"`
			Lat float64 `json:"lat"`
		} `json:"coord"`
		Main *struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
	}

	if err := p.get(ctx, "weather", values, &payload); err != nil {
		if errors.Is(err, errNotFoundStatus) {
			return weather.PointReading{}, weather.ErrNotFound
		}
		return weather.PointReading{}, p.fail(op, err)
	}

	if payload.Main == nil || payload.Coord == nil {
		return weather.PointReading{}, p.fail(op, fmt.Errorf("response for %q lacks main.temp or coord", name))
	}

	return weather.PointReading{
		TemperatureC: weather.KelvinToCelsius(payload.Main.Temp),
		Coordinates: weather.Coordinates{
			Lon: payload.Coord.Lon,
			Lat: payload.Coord.Lat,
		},
	}, nil
}

// FetchBox returns the stations inside box, at most weather.StationLimit of them.
func (p *OpenWeatherProvider) FetchBox(ctx context.Context, box weather.BoundingBox) ([]weather.StationReading, error) {
	const op = "box"

	values := url.Values{}
	values.Set("bbox", box.String()+","+strconv.Itoa(weather.StationLimit))

	var payload struct {
		List []struct {
			Main struct {
				Temp float64 `json:"temp"`
			} `json:"main"`
		} `json:"list"`
	}

	if err := p.get(ctx, "box/city", values, &payload); err != nil {
		if errors.Is(err, errNotFoundStatus) {
			return nil, weather.ErrEmpty
		}
		return nil, p.fail(op, err)
	}

	if len(payload.List) == 0 {
		return nil, weather.ErrEmpty
	}

	items := payload.List
	if len(items) > weather.StationLimit {
		items = items[:weather.StationLimit]
	}

	readings := make([]weather.StationReading, 0, len(items))
	for _, item := range items {
		readings = append(readings, weather.StationReading{
			TemperatureC: weather.StationCelsius(item.Main.Temp),
		})
	}
	return readings, nil
}

func (p *OpenWeatherProvider) get(ctx context.Context, path string, values url.Values, out any) error {
	if p.apiKey == "" {
		return fmt.Errorf("openweather api key is not configured")
	}
	values.Set("appid", p.apiKey)

	u := fmt.Sprintf("%s/%s?%s", p.baseURL, path, values.Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	resp, err := doRequest(ctx, p.client, p.circuit, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (p *OpenWeatherProvider) fail(op string, err error) error {
	return &weather.ProviderError{Provider: p.name, Op: op, Err: err}
}
