package bookingapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zatekoja/staybook/internal/adapters/wire"
	"github.com/zatekoja/staybook/internal/domain/entities"
	"github.com/zatekoja/staybook/internal/domain/providers"
	"github.com/zatekoja/staybook/internal/infrastructure/observability"
	"github.com/zatekoja/staybook/pkg/config"
	apperrors "github.com/zatekoja/staybook/pkg/errors"
	"github.com/zatekoja/staybook/pkg/retry"
)

var _ providers.DataAccessAPI = (*HTTPClient)(nil)

// HTTPClient talks to the Data Access API over HTTP/JSON.
// Every failure is reported as a NETWORK_FAILURE AppError.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	readRetry  retry.Config
}

// NewClient creates a client from configuration
func NewClient(cfg *config.APIClientConfig) *HTTPClient {
	timeout := cfg.Timeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return NewClientWithHTTP(cfg.BaseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTP creates a client using the given http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *HTTPClient {
	readRetry := retry.RequestConfig()
	readRetry.Retryable = isTransient
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		readRetry:  readRetry,
	}
}

// WithReadRetry replaces the retry schedule used for GET requests
func (c *HTTPClient) WithReadRetry(cfg retry.Config) *HTTPClient {
	if cfg.Retryable == nil {
		cfg.Retryable = isTransient
	}
	c.readRetry = cfg
	return c
}

func (c *HTTPClient) ListAccommodations(ctx context.Context) ([]entities.Accommodation, error) {
	return list(ctx, c, "/accommodations", wire.DecodeAccommodations)
}

func (c *HTTPClient) ListFacilities(ctx context.Context) ([]entities.Facility, error) {
	return list(ctx, c, "/facilities", wire.DecodeFacilities)
}

func (c *HTTPClient) ListFavorites(ctx context.Context) ([]entities.Favorite, error) {
	return list(ctx, c, "/favorites", wire.DecodeFavorites)
}

func (c *HTTPClient) CreateFavorite(ctx context.Context, userID, accommodationID string) (*entities.Favorite, error) {
	body := entities.Favorite{UserID: userID, AccommodationID: accommodationID}
	return create(ctx, c, "/favorites", body, wire.DecodeFavorite)
}

func (c *HTTPClient) DeleteFavorite(ctx context.Context, id string) error {
	return c.delete(ctx, "/favorites/"+url.PathEscape(id))
}

func (c *HTTPClient) ListBookings(ctx context.Context) ([]entities.Booking, error) {
	return list(ctx, c, "/bookings", wire.DecodeBookings)
}

func (c *HTTPClient) CreateBooking(ctx context.Context, booking *entities.Booking) (*entities.Booking, error) {
	return create(ctx, c, "/bookings", booking, wire.DecodeBooking)
}

func (c *HTTPClient) DeleteBooking(ctx context.Context, id string) error {
	return c.delete(ctx, "/bookings/"+url.PathEscape(id))
}

func (c *HTTPClient) ListComments(ctx context.Context) ([]entities.Comment, error) {
	return list(ctx, c, "/comments", wire.DecodeComments)
}

func (c *HTTPClient) CreateComment(ctx context.Context, comment *entities.Comment) (*entities.Comment, error) {
	return create(ctx, c, "/comments", comment, wire.DecodeComment)
}

func (c *HTTPClient) ListUsers(ctx context.Context) ([]entities.User, error) {
	return list(ctx, c, "/users", wire.DecodeUsers)
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (*entities.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperrors.NewInvalidInputError("user id is required")
	}
	data, err := c.read(ctx, "/users/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}
	return decoded(http.MethodGet, "/users/"+id, data, wire.DecodeUser)
}

// UpdateUser replaces the full user record
func (c *HTTPClient) UpdateUser(ctx context.Context, user *entities.User) (*entities.User, error) {
	if user == nil || user.ID == "" {
		return nil, apperrors.NewInvalidInputError("user id is required")
	}
	path := "/users/" + url.PathEscape(user.ID)
	data, err := c.write(ctx, http.MethodPut, path, user)
	if err != nil {
		return nil, err
	}
	return decoded(http.MethodPut, path, data, wire.DecodeUser)
}

func list[T any](ctx context.Context, c *HTTPClient, path string, decode func([]byte) ([]T, error)) ([]T, error) {
	data, err := c.read(ctx, path)
	if err != nil {
		return nil, err
	}
	out, err := decode(data)
	if err != nil {
		return nil, apperrors.NewNetworkError("GET "+path+": malformed response", err)
	}
	return out, nil
}

func create[T any](ctx context.Context, c *HTTPClient, path string, body any, decode func([]byte) (T, error)) (*T, error) {
	data, err := c.write(ctx, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}
	return decoded(http.MethodPost, path, data, decode)
}

func decoded[T any](method, path string, data []byte, decode func([]byte) (T, error)) (*T, error) {
	out, err := decode(data)
	if err != nil {
		return nil, apperrors.NewNetworkError(method+" "+path+": malformed response", err)
	}
	return &out, nil
}

// read performs an idempotent GET, retrying transient failures
func (c *HTTPClient) read(ctx context.Context, path string) ([]byte, error) {
	var data []byte
	err := retry.DoWithLog(ctx, c.readRetry, "GET "+path, func() error {
		var err error
		data, err = c.do(ctx, http.MethodGet, path, nil)
		return err
	}, func(attempt int, err error, nextDelay time.Duration) {
		observability.LoggerFromContext(ctx).Debug().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("retrying api read")
	})
	if err != nil {
		if apperrors.TypeOf(err) == "" {
			return nil, apperrors.NewNetworkError("GET "+path, err)
		}
		return nil, err
	}
	return data, nil
}

func (c *HTTPClient) write(ctx context.Context, method, path string, body any) ([]byte, error) {
	payload, err := wire.Encode(body)
	if err != nil {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("encode %s body: %v", path, err))
	}
	return c.do(ctx, method, path, bytes.NewReader(payload))
}

func (c *HTTPClient) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body io.Reader) ([]byte, error) {
	op := method + " " + path

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, apperrors.NewNetworkError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewNetworkError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewNetworkError(op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewStatusError(op, resp.StatusCode)
	}
	return data, nil
}

// isTransient reports whether a failed read is worth repeating
func isTransient(err error) bool {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return true
	}
	if appErr.StatusCode == 0 {
		return true
	}
	return appErr.StatusCode >= 500 || appErr.StatusCode == http.StatusTooManyRequests
}
