// Package storeclient provides a client for the FitByte storefront API: the
// catalog, the live stock feed, the cart and the waitlist.
package storeclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

// MessageStockSnapshot is the websocket message type carrying a StockSnapshot
const MessageStockSnapshot = "stock_snapshot"

// Client defines the storefront operations used by a shopping session
type Client interface {
	// FetchProduct retrieves one product by slug
	FetchProduct(ctx context.Context, slug string) (*models.Product, error)
	// SearchProducts runs a catalog search
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	// FetchStock retrieves the current stock snapshot of a product
	FetchStock(ctx context.Context, productID int) ([]models.StockItem, error)
	// SubscribeStock streams stock snapshots until ctx is done
	SubscribeStock(ctx context.Context, productID int) (<-chan []models.StockItem, error)
	// AddItem adds an entry to the shopper's cart
	AddItem(ctx context.Context, entry models.CartEntry, opts models.AddOptions) error
	// FetchCart retrieves the shopper's cart
	FetchCart(ctx context.Context) (*models.Cart, error)
	// TogglePreorder joins (or, for a logged-in shopper, leaves) a waitlist
	TogglePreorder(ctx context.Context, productID int, email, guestID string) (*models.PreorderResult, error)
	// CheckPreorderStatus reports waitlist membership for an identity
	CheckPreorderStatus(ctx context.Context, productID int, email, guestID string) (bool, error)
	// CheckoutURL returns where checkout happens
	CheckoutURL(ctx context.Context) (string, error)
	// GoToCheckout resolves the checkout URL and hands it to the opener
	GoToCheckout(ctx context.Context) error
	// Login authenticates a customer; the session cookie is kept for later calls
	Login(ctx context.Context, email, password string) error
	// Authenticated reports whether Login succeeded
	Authenticated() bool
	// BaseURL returns the configured server URL
	BaseURL() string
}

// HTTPClient is a real HTTP client for the storefront
type HTTPClient struct {
	baseURL       string
	httpClient    *http.Client
	dialer        *websocket.Dialer
	log           logger.Logger
	opener        func(url string) error
	authenticated atomic.Bool

	// feeds counts the goroutines of open stock feeds
	feeds sync.WaitGroup
}

// Option configures an HTTPClient
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying http.Client. Its cookie jar, if
// any, carries the cart and customer sessions.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithOpener sets what GoToCheckout does with the checkout URL.
func WithOpener(open func(url string) error) Option {
	return func(c *HTTPClient) { c.opener = open }
}

// NewHTTPClient creates a storefront client with cookie support
func NewHTTPClient(baseURL string, log logger.Logger, opts ...Option) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		dialer: &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		log:    log,
	}
	c.opener = func(u string) error {
		c.log.Info("Checkout ready", "url", u)
		return nil
	}
	for _, opt := range opts {
		opt(c)
	}
	c.dialer.Jar = c.httpClient.Jar
	return c
}

// BaseURL returns the configured server URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Authenticated reports whether a customer is logged in
func (c *HTTPClient) Authenticated() bool {
	return c.authenticated.Load()
}

// apiError is the error body returned by the server
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

var codeKinds = map[string]errors.Kind{
	"NOT_FOUND":            errors.ErrNotFound,
	"VALIDATION_ERROR":     errors.ErrValidation,
	"BAD_REQUEST":          errors.ErrInvalidInput,
	"CONFLICT":             errors.ErrConflict,
	"UNAUTHORIZED":         errors.ErrUnauthorized,
	"OUT_OF_STOCK":         errors.ErrOutOfStock,
	"INCOMPLETE_SELECTION": errors.ErrIncompleteSelection,
}

// doRequest sends a JSON request and decodes a JSON response into out.
// Classified server errors come back as *errors.Error; transport failures and
// unexpected statuses come back as plain errors.
func (c *HTTPClient) doRequest(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	reqURL := c.baseURL + path
	c.log.Debug("Storefront request", "method", method, "url", reqURL)

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to storefront: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Storefront response", "status", resp.StatusCode, "bytes", len(data))

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if json.Unmarshal(data, &apiErr) == nil {
			if kind, ok := codeKinds[apiErr.Code]; ok {
				return &errors.Error{Kind: kind, Message: apiErr.Message}
			}
		}
		return fmt.Errorf("storefront returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// FetchProduct retrieves one product by slug
func (c *HTTPClient) FetchProduct(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := c.doRequest(ctx, http.MethodGet, "/api/products/"+url.PathEscape(slug), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// SearchProducts runs a catalog search
func (c *HTTPClient) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	if err := c.doRequest(ctx, http.MethodGet, "/api/search?q="+url.QueryEscape(query), nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// FetchStock retrieves the current stock snapshot of a product
func (c *HTTPClient) FetchStock(ctx context.Context, productID int) ([]models.StockItem, error) {
	var snapshot models.StockSnapshot
	if err := c.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/stock/%d", productID), nil, &snapshot); err != nil {
		return nil, err
	}
	return snapshot.Items, nil
}

type addItemRequest struct {
	models.CartEntry
	Options models.AddOptions `json:"options"`
}

// AddItem adds an entry to the shopper's cart
func (c *HTTPClient) AddItem(ctx context.Context, entry models.CartEntry, opts models.AddOptions) error {
	var cart models.Cart
	if err := c.doRequest(ctx, http.MethodPost, "/api/cart/items", addItemRequest{CartEntry: entry, Options: opts}, &cart); err != nil {
		return err
	}
	c.log.Debug("Cart updated", "lines", len(cart.Lines), "total", cart.Total)
	return nil
}

// FetchCart retrieves the shopper's cart
func (c *HTTPClient) FetchCart(ctx context.Context) (*models.Cart, error) {
	var cart models.Cart
	if err := c.doRequest(ctx, http.MethodGet, "/api/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

type toggleRequest struct {
	ProductID int    `json:"product_id"`
	Email     string `json:"email,omitempty"`
	GuestID   string `json:"guest_id,omitempty"`
}

// TogglePreorder joins or leaves a waitlist. A request the server refuses
// comes back as a result with Error set rather than as an error.
func (c *HTTPClient) TogglePreorder(ctx context.Context, productID int, email, guestID string) (*models.PreorderResult, error) {
	var result models.PreorderResult
	err := c.doRequest(ctx, http.MethodPost, "/api/preorders/toggle", toggleRequest{productID, email, guestID}, &result)
	if errors.IsKind(err, errors.ErrValidation) || errors.IsKind(err, errors.ErrInvalidInput) {
		return &models.PreorderResult{Error: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// CheckPreorderStatus reports waitlist membership for an identity
func (c *HTTPClient) CheckPreorderStatus(ctx context.Context, productID int, email, guestID string) (bool, error) {
	q := url.Values{}
	q.Set("product_id", strconv.Itoa(productID))
	if email != "" {
		q.Set("email", email)
	}
	if guestID != "" {
		q.Set("guest_id", guestID)
	}

	var status struct {
		Joined bool `json:"joined"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/preorders/status?"+q.Encode(), nil, &status); err != nil {
		return false, err
	}
	return status.Joined, nil
}

// CheckoutURL returns where checkout happens
func (c *HTTPClient) CheckoutURL(ctx context.Context) (string, error) {
	var checkout struct {
		URL string `json:"url"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/api/checkout", nil, &checkout); err != nil {
		return "", err
	}
	return checkout.URL, nil
}

// GoToCheckout resolves the checkout URL and hands it to the opener
func (c *HTTPClient) GoToCheckout(ctx context.Context) error {
	u, err := c.CheckoutURL(ctx)
	if err != nil {
		return err
	}
	return c.opener(u)
}

// Login authenticates a customer
func (c *HTTPClient) Login(ctx context.Context, email, password string) error {
	creds := map[string]string{"email": email, "password": password}
	var customer models.Customer
	if err := c.doRequest(ctx, http.MethodPost, "/api/account/login", creds, &customer); err != nil {
		c.authenticated.Store(false)
		return err
	}
	c.authenticated.Store(true)
	c.log.Info("Storefront login successful", "email", customer.Email)
	return nil
}

// wsEnvelope is a WSMessage with the payload left raw
type wsEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SubscribeStock opens the stock socket for a product. Snapshots are
// delivered in arrival order. The channel closes when ctx is done or the
// connection drops.
func (c *HTTPClient) SubscribeStock(ctx context.Context, productID int) (<-chan []models.StockItem, error) {
	wsURL, err := c.socketURL(fmt.Sprintf("/ws/stock/%d", productID))
	if err != nil {
		return nil, err
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open stock feed: %w", err)
	}
	c.log.Debug("Stock feed connected", "product_id", productID)

	out := make(chan []models.StockItem)
	done := make(chan struct{})
	c.feeds.Add(2)
	go func() {
		defer c.feeds.Done()
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()
	go func() {
		defer c.feeds.Done()
		defer close(out)
		defer close(done)
		defer conn.Close()
		for {
			var msg wsEnvelope
			if err := conn.ReadJSON(&msg); err != nil {
				if ctx.Err() == nil {
					c.log.Warn("Stock feed closed", "product_id", productID, "error", err)
				}
				return
			}
			if msg.Type != MessageStockSnapshot {
				continue
			}
			var snapshot models.StockSnapshot
			if err := json.Unmarshal(msg.Payload, &snapshot); err != nil {
				c.log.Warn("Bad stock snapshot", "error", err)
				continue
			}
			if snapshot.ProductID != productID {
				continue
			}
			select {
			case out <- snapshot.Items:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (c *HTTPClient) socketURL(path string) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid server url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported server scheme %q", u.Scheme)
	}
	return u.String(), nil
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
