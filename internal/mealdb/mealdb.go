// Package mealdb is the client for the upstream TheMealDB HTTP API, the sole
// source of recipe and category data.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/danzh-dev/mealdex/internal/cache"
	mhttp "github.com/danzh-dev/mealdex/internal/http"
)

const (
	searchTTL     = 10 * time.Minute
	categoriesTTL = time.Hour
)

type Client struct {
	baseURL string
	http    *mhttp.Client
	cache   *cache.Cache
	logger  *slog.Logger
}

// New creates an upstream client. cache may be nil to disable the
// read-through cache of raw upstream payloads. Only raw payloads are ever
// cached; per-user annotations are recomputed on every request.
func New(baseURL string, httpClient *mhttp.Client, c *cache.Cache, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    httpClient,
		cache:   c,
		logger:  logger,
	}
}

// SearchByName queries search.php. An empty name returns the full upstream
// corpus, which callers rely on.
func (c *Client) SearchByName(ctx context.Context, name string) ([]Meal, error) {
	key := "mealdb:search:" + name

	var payloads []mealPayload
	if !c.cached(ctx, key, &payloads) {
		var body struct {
			Meals []mealPayload `json:"meals"`
		}
		if err := c.get(ctx, "search.php", url.Values{"s": {name}}, &body); err != nil {
			return nil, err
		}
		payloads = body.Meals
		c.store(ctx, key, payloads, searchTTL)
	}

	meals := make([]Meal, 0, len(payloads))
	for _, p := range payloads {
		meals = append(meals, p.meal())
	}
	return meals, nil
}

// FilterByCategory queries filter.php, which returns minimal stubs rather
// than full records.
func (c *Client) FilterByCategory(ctx context.Context, category string) ([]MealStub, error) {
	key := "mealdb:filter:" + category

	var stubs []MealStub
	if c.cached(ctx, key, &stubs) {
		return stubs, nil
	}

	var body struct {
		Meals []MealStub `json:"meals"`
	}
	if err := c.get(ctx, "filter.php", url.Values{"c": {category}}, &body); err != nil {
		return nil, err
	}
	c.store(ctx, key, body.Meals, searchTTL)
	return body.Meals, nil
}

// LookupByID queries lookup.php. Returns nil when the ID is unknown
// upstream.
func (c *Client) LookupByID(ctx context.Context, id string) (*Meal, error) {
	key := "mealdb:lookup:" + id

	var payloads []mealPayload
	if !c.cached(ctx, key, &payloads) {
		var body struct {
			Meals []mealPayload `json:"meals"`
		}
		if err := c.get(ctx, "lookup.php", url.Values{"i": {id}}, &body); err != nil {
			return nil, err
		}
		payloads = body.Meals
		c.store(ctx, key, payloads, searchTTL)
	}

	if len(payloads) == 0 {
		return nil, nil
	}
	meal := payloads[0].meal()
	return &meal, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	key := "mealdb:categories"

	var categories []Category
	if c.cached(ctx, key, &categories) {
		return categories, nil
	}

	var body struct {
		Categories []categoryPayload `json:"categories"`
	}
	if err := c.get(ctx, "categories.php", nil, &body); err != nil {
		return nil, err
	}

	categories = make([]Category, 0, len(body.Categories))
	for _, p := range body.Categories {
		categories = append(categories, p.category())
	}
	c.store(ctx, key, categories, categoriesTTL)
	return categories, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values, dst any) error {
	u := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building upstream request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("calling upstream %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := mhttp.ExpectStatus2xx(resp); err != nil {
		return fmt.Errorf("upstream %s: %w", endpoint, err)
	}

	// "meals": null is the upstream's empty result; decoding into a slice
	// field yields nil, which is what callers expect.
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding upstream %s response: %w", endpoint, err)
	}
	return nil
}

// cached reports whether key was found. Cache failures degrade to a miss.
func (c *Client) cached(ctx context.Context, key string, dst any) bool {
	hit, err := c.cache.GetJSON(ctx, key, dst)
	if err != nil {
		c.logger.WarnContext(ctx, "upstream cache read failed", slog.Any("error", err))
		return false
	}
	return hit
}

func (c *Client) store(ctx context.Context, key string, v any, ttl time.Duration) {
	if err := c.cache.SetJSON(ctx, key, v, ttl); err != nil {
		c.logger.WarnContext(ctx, "upstream cache write failed", slog.Any("error", err))
	}
}
