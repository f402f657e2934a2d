package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	CustomerCookieName    = "fitbyte_customer"
	CustomerSessionExpiry = 30 * 24 * time.Hour

	CartCookieName = "fitbyte_cart"
	CartExpiry     = 90 * 24 * time.Hour
)

type contextKey int

const customerKey contextKey = iota

// Customers tracks logged-in shopper sessions
type Customers struct {
	sessions *sessionStore
}

// NewCustomers creates an empty customer session registry
func NewCustomers() *Customers {
	return &Customers{sessions: newSessionStore(CustomerSessionExpiry)}
}

// Start opens a session for a customer and returns its token
func (c *Customers) Start(customerID int) string {
	return c.sessions.start(customerID)
}

// End closes a session
func (c *Customers) End(token string) {
	c.sessions.end(token)
}

// Lookup returns the customer behind a token
func (c *Customers) Lookup(token string) (int, bool) {
	return c.sessions.lookup(token)
}

// FromRequest returns the customer behind the request's session cookie
func (c *Customers) FromRequest(r *http.Request) (int, bool) {
	cookie, err := r.Cookie(CustomerCookieName)
	if err != nil {
		return 0, false
	}
	return c.Lookup(cookie.Value)
}

// Identify middleware stores the logged-in customer, if any, in the request context
func (c *Customers) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := c.FromRequest(r); ok {
			r = r.WithContext(WithCustomer(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireCustomer middleware rejects requests without a customer session (401)
func (c *Customers) RequireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := c.FromRequest(r)
		if !ok {
			writeUnauthorized(w, "please log in")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithCustomer(r.Context(), id)))
	})
}

// WithCustomer returns a context carrying the customer ID
func WithCustomer(ctx context.Context, customerID int) context.Context {
	return context.WithValue(ctx, customerKey, customerID)
}

// CustomerID returns the customer stored by Identify or RequireCustomer
func CustomerID(ctx context.Context) (int, bool) {
	id, ok := ctx.Value(customerKey).(int)
	return id, ok
}

// SetCustomerCookie sets the customer session cookie on the response
func SetCustomerCookie(w http.ResponseWriter, token string) {
	setCookie(w, CustomerCookieName, token, CustomerSessionExpiry)
}

// ClearCustomerCookie removes the customer session cookie
func ClearCustomerCookie(w http.ResponseWriter) {
	clearCookie(w, CustomerCookieName)
}

// CartID returns the request's cart ID, issuing a new one in a cookie when
// the request has none or carries a malformed one
func CartID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(CartCookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	setCookie(w, CartCookieName, id, CartExpiry)
	return id
}
