package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/spudcatalog/internal/client/models"
	"github.com/dmitrijs2005/spudcatalog/internal/logging"
	"github.com/google/uuid"
)

const (
	AppIDHeaderName     = "X-App-ID"
	RequestIDHeaderName = "X-Request-ID"

	// UsersEntity is the authenticable entity slug.
	UsersEntity = "users"
	// VarietiesCollection is the catalog collection slug.
	VarietiesCollection = "potato-varieties"

	maxErrorBody = 64 << 10
)

// errUndecodable marks a 2xx reply whose body could not be decoded.
var errUndecodable = errors.New("decode response")

// HTTPClient talks to the backend's REST API.
type HTTPClient struct {
	baseURL *url.URL
	appID   string
	http    *http.Client
	log     logging.Logger
}

// NewHTTPClient builds a client for baseURL (scheme and host required).
// A zero timeout leaves requests bounded only by their context.
func NewHTTPClient(baseURL, appID string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("backend url %q must include scheme and host", baseURL)
	}

	return &HTTPClient{
		baseURL: u,
		appID:   appID,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        16,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		log: log.With("component", "http_client"),
	}, nil
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

type healthResponse struct {
	Status string `json:"status"`
}

func (c *HTTPClient) Health(ctx context.Context) error {
	var resp healthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, "", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "" && !strings.EqualFold(resp.Status, "ok") {
		return fmt.Errorf("%w: health status %q", ErrUnavailable, resp.Status)
	}
	return nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/"+UsersEntity+"/login", nil, "application/json", body, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: login response carries no token", ErrTransport)
	}
	return resp.Token, nil
}

func (c *HTTPClient) Me(ctx context.Context) (models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/"+UsersEntity+"/me", nil, "", nil, &u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/"+UsersEntity+"/logout", nil, "", nil, nil)
}

func (c *HTTPClient) ListVarieties(ctx context.Context, q ListQuery) (*VarietyPage, error) {
	params := url.Values{}
	if len(q.Relations) > 0 {
		params.Set("relations", strings.Join(q.Relations, ","))
	}
	if q.OrderBy != "" {
		params.Set("orderBy", q.OrderBy)
		order := q.Order
		if order == "" {
			order = SortAsc
		}
		params.Set("order", string(order))
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.PerPage > 0 {
		params.Set("perPage", strconv.Itoa(q.PerPage))
	}

	var page VarietyPage
	if err := c.do(ctx, http.MethodGet, "/api/collections/"+VarietiesCollection, params, "", nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// createdVariety is the create reply. Relations and media may come back
// unresolved (bare ids, plain strings), so they are decoded leniently.
type createdVariety struct {
	ID models.ID `json:"id"`
	models.VarietyFields
	Contributor json.RawMessage `json:"contributor"`
	Image       json.RawMessage `json:"image"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// CreateVariety posts a new record. Once the server answered 2xx the record
// exists, so a reply body that cannot be decoded yields a partial record
// rather than an error.
func (c *HTTPClient) CreateVariety(ctx context.Context, contentType string, body []byte) (*models.Variety, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/collections/"+VarietiesCollection, nil, contentType, body, &raw); err != nil {
		if errors.Is(err, errUndecodable) {
			c.log.Warn(ctx, "created record reply unreadable", "error", err)
			return &models.Variety{}, nil
		}
		return nil, err
	}

	var dto createdVariety
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &dto); err != nil {
			c.log.Warn(ctx, "created record reply not decodable", "error", err)
			return &models.Variety{}, nil
		}
	}

	return &models.Variety{
		ID:            dto.ID,
		VarietyFields: dto.VarietyFields,
		Contributor:   contributorRef(dto.Contributor),
		Image:         imageRef(dto.Image),
		CreatedAt:     dto.CreatedAt,
	}, nil
}

// contributorRef accepts a hydrated user object or a bare id.
func contributorRef(raw json.RawMessage) *models.User {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var u models.User
	if err := json.Unmarshal(raw, &u); err == nil {
		return &u
	}
	var id models.ID
	if err := json.Unmarshal(raw, &id); err == nil && id != "" {
		return &models.User{ID: id}
	}
	return nil
}

// imageRef accepts the resolved size map; anything else is dropped.
func imageRef(raw json.RawMessage) models.Image {
	var img models.Image
	if len(raw) == 0 || json.Unmarshal(raw, &img) != nil {
		return nil
	}
	return img
}

func (c *HTTPClient) endpoint(path string, params url.Values) string {
	u := *c.baseURL
	u.Path = c.baseURL.Path + path
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

// do sends one request and decodes a 2xx JSON reply into out (if non-nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, contentType string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, params), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeaderName, requestID)
	if c.appID != "" {
		req.Header.Set(AppIDHeaderName, c.appID)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := BearerFrom(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug(ctx, "request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return mapError(err)
	}
	defer resp.Body.Close()

	c.log.Debug(ctx, "request done", "method", method, "path", path, "request_id", requestID,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{Status: resp.StatusCode, Message: errorMessage(raw), Err: mapStatus(resp.StatusCode)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %w: %w", ErrTransport, errUndecodable, err)
	}
	return nil
}

// errorMessage extracts "message" from an error body. The backend sends it
// either as a string or as a list of validation messages.
func errorMessage(raw []byte) string {
	var body struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || len(body.Message) == 0 {
		return strings.TrimSpace(string(raw))
	}

	var s string
	if err := json.Unmarshal(body.Message, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(body.Message, &list); err == nil {
		return strings.Join(list, "; ")
	}
	return string(body.Message)
}
