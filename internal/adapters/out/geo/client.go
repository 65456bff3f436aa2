// Package geo wraps the external routing and geocoding providers.
// Routing goes through an OSRM-compatible endpoint, geocoding through a
// Nominatim-compatible one. All responses are passed through rather than
// reinterpreted; provider failures surface as ExternalServiceError.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const requestTimeout = 10 * time.Second

// Client implements the GeoService port against external providers.
type Client struct {
	routingURL   string
	geocodingURL string
	client       *http.Client
}

// NewClient creates a geo client. routingURL is the OSRM base URL,
// geocodingURL the Nominatim base URL.
func NewClient(routingURL, geocodingURL string) *Client {
	return &Client{
		routingURL:   routingURL,
		geocodingURL: geocodingURL,
		client:       &http.Client{Timeout: requestTimeout},
	}
}

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
	} `json:"routes"`
}

// Route returns the driving route between two points.
func (c *Client) Route(ctx context.Context, from, to kernel.GeoPoint) (ports.DrivingRoute, error) {
	// OSRM takes coordinates as lng,lat pairs.
	endpoint := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full",
		c.routingURL, from.Lng(), from.Lat(), to.Lng(), to.Lat())

	var parsed osrmResponse
	if err := c.getJSON(ctx, endpoint, &parsed); err != nil {
		return ports.DrivingRoute{}, errs.NewExternalServiceError("routing", err)
	}

	if parsed.Code != "Ok" || len(parsed.Routes) == 0 {
		return ports.DrivingRoute{}, errs.NewExternalServiceError("routing",
			fmt.Errorf("no route found (code %q)", parsed.Code))
	}

	route := parsed.Routes[0]
	return ports.DrivingRoute{
		DistanceMeters:  route.Distance,
		DurationSeconds: route.Duration,
		Geometry:        route.Geometry,
	}, nil
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode resolves a free-text address to a coordinate.
func (c *Client) Geocode(ctx context.Context, address string) (kernel.GeoPoint, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&limit=1&q=%s",
		c.geocodingURL, url.QueryEscape(address))

	var results []nominatimResult
	if err := c.getJSON(ctx, endpoint, &results); err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError("geocoding", err)
	}

	if len(results) == 0 {
		return kernel.GeoPoint{}, errs.NewObjectNotFoundError("address", address)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError("geocoding", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return kernel.GeoPoint{}, errs.NewExternalServiceError("geocoding", err)
	}

	return kernel.NewGeoPoint(lat, lng)
}

// ReverseGeocode resolves a coordinate to a display address.
func (c *Client) ReverseGeocode(ctx context.Context, point kernel.GeoPoint) (string, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=json&lat=%f&lon=%f",
		c.geocodingURL, point.Lat(), point.Lng())

	var result nominatimResult
	if err := c.getJSON(ctx, endpoint, &result); err != nil {
		return "", errs.NewExternalServiceError("geocoding", err)
	}

	if result.DisplayName == "" {
		return "", errs.NewObjectNotFoundError("location",
			fmt.Sprintf("%f,%f", point.Lat(), point.Lng()))
	}

	return result.DisplayName, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	response, err := c.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return errors.New("provider returned status " + strconv.Itoa(response.StatusCode))
	}

	return json.NewDecoder(response.Body).Decode(out)
}
