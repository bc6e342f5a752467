package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"meetup_bot/internal/config"
	"meetup_bot/internal/util"
	"meetup_bot/pkg/logger"

	"go.uber.org/zap"
)

// GeocodingService resolves free-text addresses through a Nominatim-style
// endpoint. Resolution is best effort: any failure surfaces as
// util.ErrAddressNotFound so the dialog re-prompts instead of crashing.
type GeocodingService struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

func NewGeocodingService(cfg config.GeocoderConfig) *GeocodingService {
	return &GeocodingService{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Resolve geocodes the address to a coordinate pair plus the formatted
// address the provider matched, for the confirmation prompt.
func (s *GeocodingService) Resolve(ctx context.Context, address string) (lat, lon float64, display string, err error) {
	endpoint := fmt.Sprintf("%s/search?%s", s.baseURL, url.Values{
		"q":      {address},
		"format": {"json"},
		"limit":  {"1"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, 0, "", err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Warn("geocoding request failed", zap.String("address", address), zap.Error(err))
		return 0, 0, "", util.ErrAddressNotFound
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Warn("geocoding returned non-200", zap.Int("status", resp.StatusCode))
		return 0, 0, "", util.ErrAddressNotFound
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil || len(results) == 0 {
		return 0, 0, "", util.ErrAddressNotFound
	}

	lat, err1 := strconv.ParseFloat(results[0].Lat, 64)
	lon, err2 := strconv.ParseFloat(results[0].Lon, 64)
	if err1 != nil || err2 != nil || !util.ValidCoordinates(lat, lon) {
		return 0, 0, "", util.ErrAddressNotFound
	}
	return lat, lon, results[0].DisplayName, nil
}
