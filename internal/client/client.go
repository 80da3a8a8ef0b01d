// Package client is a typed HTTP client for the mealdex API, used by the
// terminal client. Session state lives in the cookie jar.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/danzh-dev/mealdex/internal/api/response"
	"github.com/danzh-dev/mealdex/internal/mealdb"
	"github.com/danzh-dev/mealdex/internal/recipes"
)

const requestTimeout = 15 * time.Second

// APIError is a structured error from the server envelope. Callers branch on
// Code, never on Message.
type APIError struct {
	Code       response.ErrorCode
	Message    string
	HTTPStatus int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: requestTimeout,
		},
	}, nil
}

type RegisterParams struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type User struct {
	ID                int64    `json:"id"`
	Username          string   `json:"username"`
	Email             string   `json:"email"`
	FirstName         string   `json:"firstName"`
	LastName          string   `json:"lastName"`
	FavoriteRecipeIDs []string `json:"favoriteRecipeIds"`
}

func (c *Client) Register(ctx context.Context, params RegisterParams) error {
	_, err := do[any](ctx, c, http.MethodPost, "/api/user/register", params, nil)
	return err
}

func (c *Client) Login(ctx context.Context, username, password string) (User, error) {
	body := map[string]string{"username": username, "password": password}
	return do[User](ctx, c, http.MethodPost, "/api/user/login", body, nil)
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := do[any](ctx, c, http.MethodPost, "/api/user/logout", nil, nil)
	return err
}

func (c *Client) Me(ctx context.Context) (User, error) {
	return do[User](ctx, c, http.MethodGet, "/api/user/me", nil, nil)
}

func (c *Client) Recipes(ctx context.Context, name, category string) ([]recipes.Recipe, error) {
	query := url.Values{}
	if name != "" {
		query.Set("name", name)
	}
	if category != "" {
		query.Set("category", category)
	}
	return do[[]recipes.Recipe](ctx, c, http.MethodGet, "/api/recipes", nil, query)
}

func (c *Client) Categories(ctx context.Context) ([]mealdb.Category, error) {
	data, err := do[struct {
		Categories []mealdb.Category `json:"categories"`
	}](ctx, c, http.MethodGet, "/api/recipes/category", nil, nil)
	if err != nil {
		return nil, err
	}
	return data.Categories, nil
}

func (c *Client) Favorites(ctx context.Context) ([]recipes.Recipe, error) {
	return do[[]recipes.Recipe](ctx, c, http.MethodGet, "/api/user/favorite-recipes", nil, nil)
}

func (c *Client) SetFavorite(ctx context.Context, recipeID string, isFavorite bool) error {
	body := map[string]any{"recipeId": recipeID, "isFavorite": isFavorite}
	_, err := do[any](ctx, c, http.MethodPatch, "/api/user/favorite-recipes", body, nil)
	return err
}

func do[T any](ctx context.Context, c *Client, method, path string, body any, query url.Values) (T, error) {
	var zero T

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return zero, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("calling %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope struct {
		Status  string              `json:"status"`
		Message string              `json:"message"`
		Data    T                   `json:"data"`
		Error   *response.ErrorBody `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return zero, fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}

	if envelope.Status == response.StatusError {
		apiErr := &APIError{
			Message:    envelope.Message,
			HTTPStatus: resp.StatusCode,
		}
		if envelope.Error != nil {
			apiErr.Code = envelope.Error.Code
		}
		return zero, apiErr
	}
	return envelope.Data, nil
}
