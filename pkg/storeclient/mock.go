package storeclient

import (
	"context"
	"sync"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

// ToggleCall records one TogglePreorder or CheckPreorderStatus call
type ToggleCall struct {
	ProductID int
	Email     string
	GuestID   string
}

// MockClient is an in-memory storefront client for testing. Waitlist
// membership follows the server's toggle rules.
type MockClient struct {
	mu sync.Mutex

	products      map[string]models.Product
	stock         map[int][]models.StockItem
	feeds         map[int]chan []models.StockItem
	members       map[ToggleCall]bool
	authenticated bool
	baseURL       string
	checkoutURL   string

	fetchErr     error
	stockErr     error
	subscribeErr error
	addErr       error
	toggleErr    error
	statusErr    error
	checkoutErr  error
	loginErr     error

	added      []models.CartEntry
	addOptions []models.AddOptions
	toggles    []ToggleCall
	checks     []ToggleCall
	checkouts  int
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithProducts sets the products to return
func WithProducts(products ...models.Product) MockOption {
	return func(m *MockClient) {
		for _, p := range products {
			m.products[p.Slug] = p
		}
	}
}

// WithStock sets the stock snapshot of a product
func WithStock(productID int, items []models.StockItem) MockOption {
	return func(m *MockClient) {
		m.stock[productID] = items
	}
}

// WithMembership marks an identity as already on a product's waitlist
func WithMembership(productID int, email, guestID string) MockOption {
	return func(m *MockClient) {
		m.members[identityKey(ToggleCall{productID, email, guestID})] = true
	}
}

// WithAuthenticated starts the mock logged in
func WithAuthenticated() MockOption {
	return func(m *MockClient) {
		m.authenticated = true
	}
}

// WithFetchError sets an error to return from FetchProduct and SearchProducts
func WithFetchError(err error) MockOption {
	return func(m *MockClient) { m.fetchErr = err }
}

// WithStockError sets an error to return from FetchStock
func WithStockError(err error) MockOption {
	return func(m *MockClient) { m.stockErr = err }
}

// WithSubscribeError sets an error to return from SubscribeStock
func WithSubscribeError(err error) MockOption {
	return func(m *MockClient) { m.subscribeErr = err }
}

// WithAddError sets an error to return from AddItem
func WithAddError(err error) MockOption {
	return func(m *MockClient) { m.addErr = err }
}

// WithToggleError sets an error to return from TogglePreorder
func WithToggleError(err error) MockOption {
	return func(m *MockClient) { m.toggleErr = err }
}

// WithStatusError sets an error to return from CheckPreorderStatus
func WithStatusError(err error) MockOption {
	return func(m *MockClient) { m.statusErr = err }
}

// WithCheckoutError sets an error to return from GoToCheckout
func WithCheckoutError(err error) MockOption {
	return func(m *MockClient) { m.checkoutErr = err }
}

// WithLoginError sets an error to return from Login
func WithLoginError(err error) MockOption {
	return func(m *MockClient) { m.loginErr = err }
}

// NewMockClient creates a new mock storefront client
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		products:    make(map[string]models.Product),
		stock:       make(map[int][]models.StockItem),
		feeds:       make(map[int]chan []models.StockItem),
		members:     make(map[ToggleCall]bool),
		baseURL:     "http://mock-storefront.local",
		checkoutURL: "http://mock-storefront.local/checkout",
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	return m.baseURL
}

// Authenticated reports whether the mock is logged in
func (m *MockClient) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

// Login succeeds unless an error is set
func (m *MockClient) Login(ctx context.Context, email, password string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loginErr != nil {
		return m.loginErr
	}
	m.authenticated = true
	return nil
}

// FetchProduct returns the configured product or a not-found error
func (m *MockClient) FetchProduct(ctx context.Context, slug string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	p, ok := m.products[slug]
	if !ok {
		return nil, errors.NotFound("product not found")
	}
	return &p, nil
}

// SearchProducts returns every configured product
func (m *MockClient) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

// FetchStock returns the configured snapshot or error
func (m *MockClient) FetchStock(ctx context.Context, productID int) ([]models.StockItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stockErr != nil {
		return nil, m.stockErr
	}
	return append([]models.StockItem(nil), m.stock[productID]...), nil
}

// SubscribeStock returns a feed that PushStock writes to
func (m *MockClient) SubscribeStock(ctx context.Context, productID int) (<-chan []models.StockItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subscribeErr != nil {
		return nil, m.subscribeErr
	}
	ch, ok := m.feeds[productID]
	if !ok {
		ch = make(chan []models.StockItem, 16)
		m.feeds[productID] = ch
	}
	return ch, nil
}

// PushStock replaces a product's stock and delivers it to subscribers
func (m *MockClient) PushStock(productID int, items []models.StockItem) {
	m.mu.Lock()
	m.stock[productID] = items
	ch, ok := m.feeds[productID]
	m.mu.Unlock()
	if ok {
		ch <- items
	}
}

// CloseFeed ends a product's stock feed
func (m *MockClient) CloseFeed(productID int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ch, ok := m.feeds[productID]; ok {
		close(ch)
		delete(m.feeds, productID)
	}
}

// AddItem records the entry unless an error is set
func (m *MockClient) AddItem(ctx context.Context, entry models.CartEntry, opts models.AddOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.addErr != nil {
		return m.addErr
	}
	m.added = append(m.added, entry)
	m.addOptions = append(m.addOptions, opts)
	return nil
}

// FetchCart builds a cart from the recorded entries
func (m *MockClient) FetchCart(ctx context.Context) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := &models.Cart{ID: "mock-cart"}
	for i, e := range m.added {
		cart.Lines = append(cart.Lines, models.CartLine{
			ID: i + 1, CartID: cart.ID, ProductID: e.ProductID, Slug: e.Slug, Size: e.Size, Color: e.Color,
			Quantity: e.Quantity, MaxQuantity: e.MaxQuantity, Price: e.Price, Image: e.Image, CategoryID: e.CategoryID,
		})
		cart.Total += e.Price * e.Quantity
	}
	return cart, nil
}

// TogglePreorder applies the server's toggle rules: a logged-in shopper
// toggles membership, a guest or email identity only ever joins.
func (m *MockClient) TogglePreorder(ctx context.Context, productID int, email, guestID string) (*models.PreorderResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := ToggleCall{productID, email, guestID}
	m.toggles = append(m.toggles, call)
	if m.toggleErr != nil {
		return nil, m.toggleErr
	}

	if m.authenticated {
		key := ToggleCall{ProductID: productID}
		if m.members[key] {
			delete(m.members, key)
			return &models.PreorderResult{Status: models.PreorderRemoved}, nil
		}
		m.members[key] = true
		return &models.PreorderResult{Status: models.PreorderAdded}, nil
	}

	key := identityKey(call)
	if key == (ToggleCall{ProductID: productID}) {
		return &models.PreorderResult{Error: "an email or guest id is required"}, nil
	}
	if m.members[key] {
		return &models.PreorderResult{Status: models.PreorderAlreadyJoined}, nil
	}
	m.members[key] = true
	return &models.PreorderResult{Status: models.PreorderAdded}, nil
}

// CheckPreorderStatus reports membership for the identity
func (m *MockClient) CheckPreorderStatus(ctx context.Context, productID int, email, guestID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := ToggleCall{productID, email, guestID}
	m.checks = append(m.checks, call)
	if m.statusErr != nil {
		return false, m.statusErr
	}
	if m.authenticated {
		return m.members[ToggleCall{ProductID: productID}], nil
	}
	return m.members[identityKey(call)], nil
}

// identityKey keeps the strongest identity: email over guest id.
func identityKey(c ToggleCall) ToggleCall {
	if c.Email != "" {
		return ToggleCall{ProductID: c.ProductID, Email: c.Email}
	}
	return ToggleCall{ProductID: c.ProductID, GuestID: c.GuestID}
}

// CheckoutURL returns the mock checkout URL
func (m *MockClient) CheckoutURL(ctx context.Context) (string, error) {
	return m.checkoutURL, nil
}

// GoToCheckout records the navigation unless an error is set
func (m *MockClient) GoToCheckout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.checkoutErr != nil {
		return m.checkoutErr
	}
	m.checkouts++
	return nil
}

// Added returns the entries passed to AddItem (for testing)
func (m *MockClient) Added() []models.CartEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.CartEntry(nil), m.added...)
}

// AddOptions returns the options passed to AddItem (for testing)
func (m *MockClient) AddOptions() []models.AddOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.AddOptions(nil), m.addOptions...)
}

// Toggles returns the TogglePreorder calls (for testing)
func (m *MockClient) Toggles() []ToggleCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ToggleCall(nil), m.toggles...)
}

// Checks returns the CheckPreorderStatus calls (for testing)
func (m *MockClient) Checks() []ToggleCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ToggleCall(nil), m.checks...)
}

// Checkouts returns how many times GoToCheckout succeeded (for testing)
func (m *MockClient) Checkouts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkouts
}

// SetToggleError changes the TogglePreorder error after construction
func (m *MockClient) SetToggleError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggleErr = err
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
