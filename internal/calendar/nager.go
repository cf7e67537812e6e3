package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"
)

const (
	DefaultNagerURL    = "https://date.nager.at/api/v3"
	DefaultCountryCode = "RO"
	defaultHTTPTimeout = 10 * time.Second
	defaultCacheTTL    = 24 * time.Hour
)

// NagerCalendar implements Calendar using the Nager.Date public holiday API
type NagerCalendar struct {
	baseURL    string
	country    string
	httpClient *http.Client
	logger     *zap.Logger
	cache      map[int]*cachedYear
	cacheMu    sync.RWMutex
	cacheTTL   time.Duration
}

type cachedYear struct {
	data      []Holiday
	fetchedAt time.Time
}

// nagerHoliday represents one element of the /PublicHolidays response
type nagerHoliday struct {
	Date        string   `json:"date"` // YYYY-MM-DD
	LocalName   string   `json:"localName"`
	Name        string   `json:"name"`
	CountryCode string   `json:"countryCode"`
	Fixed       bool     `json:"fixed"`
	Global      bool     `json:"global"`
	Types       []string `json:"types"`
}

// NewNagerCalendar creates a new NagerCalendar instance
func NewNagerCalendar(baseURL, country string, timeout, cacheTTL time.Duration, logger *zap.Logger) *NagerCalendar {
	if baseURL == "" {
		baseURL = DefaultNagerURL
	}
	if country == "" {
		country = DefaultCountryCode
	}
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	if cacheTTL == 0 {
		cacheTTL = defaultCacheTTL
	}

	return &NagerCalendar{
		baseURL: strings.TrimRight(baseURL, "/"),
		country: strings.ToUpper(country),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:   logger,
		cache:    make(map[int]*cachedYear),
		cacheTTL: cacheTTL,
	}
}

// PublicHolidays returns the statutory holidays of year, cached per year
func (c *NagerCalendar) PublicHolidays(ctx context.Context, year int) ([]Holiday, error) {
	c.cacheMu.RLock()
	if cached, ok := c.cache[year]; ok {
		if time.Since(cached.fetchedAt) < c.cacheTTL {
			c.cacheMu.RUnlock()
			c.logger.Debug("Using cached holidays",
				zap.Int("year", year))
			return cached.data, nil
		}
	}
	c.cacheMu.RUnlock()

	holidays, err := c.fetchYear(ctx, year)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	c.cache[year] = &cachedYear{
		data:      holidays,
		fetchedAt: time.Now(),
	}
	c.cacheMu.Unlock()

	return holidays, nil
}

// fetchYear downloads the holiday list of one year
func (c *NagerCalendar) fetchYear(ctx context.Context, year int) ([]Holiday, error) {
	// https://date.nager.at/api/v3/PublicHolidays/2025/RO
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", c.baseURL, year, c.country)

	c.logger.Debug("Fetching public holidays",
		zap.String("url", url),
		zap.Int("year", year))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	holidays, err := parseNagerResponse(year, body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse holidays: %w", err)
	}

	c.logger.Info("Holidays fetched from API",
		zap.Int("year", year),
		zap.String("country", c.country),
		zap.Int("count", len(holidays)))

	return holidays, nil
}

// parseNagerResponse decodes the JSON array and keeps entries of the requested year
func parseNagerResponse(year int, body []byte) ([]Holiday, error) {
	var raw []nagerHoliday
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	holidays := make([]Holiday, 0, len(raw))
	for _, h := range raw {
		date, err := civil.ParseDate(h.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date %q: %w", h.Date, err)
		}
		if date.Year != year {
			continue
		}
		holidays = append(holidays, Holiday{
			Date:      date,
			Name:      h.Name,
			LocalName: h.LocalName,
		})
	}

	return holidays, nil
}

// ClearCache clears the cache
func (c *NagerCalendar) ClearCache() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[int]*cachedYear)
	c.logger.Info("Holiday cache cleared")
}
