// Package waitlist tracks one product's waitlist membership for one shopper.
// The server is the source of truth; the local cache only seeds the initial
// state and is reconciled against the server.
package waitlist

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/kvstore"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

// State of a waitlist membership
type State int

const (
	NotJoined State = iota
	Joining
	Joined
	Leaving
)

func (s State) String() string {
	switch s {
	case Joining:
		return "joining"
	case Joined:
		return "joined"
	case Leaving:
		return "leaving"
	default:
		return "not_joined"
	}
}

// ErrClosed is returned by a call whose result arrived after Close. The
// result was discarded.
var ErrClosed = stderrors.New("waitlist: machine closed")

// Client is the server side of the waitlist.
type Client interface {
	TogglePreorder(ctx context.Context, productID int, email, guestID string) (*models.PreorderResult, error)
	CheckPreorderStatus(ctx context.Context, productID int, email, guestID string) (bool, error)
}

// Machine is the waitlist state machine for one product. Calls may come from
// any goroutine; the lock is never held across a server call.
type Machine struct {
	productID     int
	client        Client
	store         kvstore.Store
	ids           *Identities
	authenticated func() bool
	log           logger.Logger

	mu     sync.Mutex
	state  State
	closed bool
	// gen counts finished join and leave calls
	gen uint64
}

// MachineOption configures a Machine
type MachineOption func(*Machine)

// WithAuthenticated tells the machine how to learn whether the shopper is
// logged in. Without it the shopper is treated as a guest.
func WithAuthenticated(fn func() bool) MachineOption {
	return func(m *Machine) { m.authenticated = fn }
}

// NewMachine creates a machine in NotJoined. Call Load to seed it from the cache.
func NewMachine(log logger.Logger, productID int, client Client, store kvstore.Store, ids *Identities, opts ...MachineOption) *Machine {
	m := &Machine{
		productID:     productID,
		client:        client,
		store:         store,
		ids:           ids,
		authenticated: func() bool { return false },
		log:           log.With("product_id", productID),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load seeds the state from the local cache.
func (m *Machine) Load(ctx context.Context) error {
	v, ok, err := m.store.Get(ctx, CacheKey(m.productID))
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "read waitlist cache")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == NotJoined && ok && v == cachedJoined {
		m.state = Joined
	}
	return nil
}

// State returns the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Member reports what the shopper should see. A pending leave already shows
// as not joined.
func (m *Machine) Member() bool {
	return m.State() == Joined
}

// Close discards the results of calls still in flight.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

// begin moves from allowed into next.
func (m *Machine) begin(next State, allowed State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	switch m.state {
	case allowed:
		m.state = next
		return nil
	case Joining, Leaving:
		return errors.Conflict("a waitlist request is already in progress")
	default:
		return errors.Conflictf("waitlist membership is already %s", m.state)
	}
}

// finish applies the outcome of a server call. It returns ErrClosed when the
// machine was closed in the meantime.
func (m *Machine) finish(state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.state = state
	m.gen++
	return nil
}

// Join asks the server to add the shopper. email is optional; when empty the
// remembered preference is used. It returns the message to show.
func (m *Machine) Join(ctx context.Context, email string) (string, error) {
	if m.State() == Joined {
		return "You are already on the waitlist", nil
	}
	if err := m.begin(Joining, NotJoined); err != nil {
		return "", err
	}

	guestID, err := m.ids.GuestID(ctx)
	if err != nil {
		if ferr := m.finish(NotJoined); ferr != nil {
			return "", ferr
		}
		return "", errors.Wrap(err, errors.ErrInternal, "guest identity unavailable")
	}
	if email == "" {
		if email, err = m.ids.Email(ctx); err != nil {
			m.log.Warn("Failed to read remembered email, joining without it", "error", err)
			email = ""
		}
	}

	res, err := m.client.TogglePreorder(ctx, m.productID, email, guestID)
	if err == nil && res != nil && res.Error != "" {
		err = errors.Validation(res.Error)
	}
	if err == nil && res == nil {
		err = errors.Internalf("empty waitlist response")
	}
	if err != nil {
		if ferr := m.finish(NotJoined); ferr != nil {
			return "", ferr
		}
		m.log.Warn("Waitlist join failed", "error", err)
		return "", classify("join waitlist", err)
	}

	switch res.Status {
	case models.PreorderAdded, models.PreorderAlreadyJoined:
		if err := m.finish(Joined); err != nil {
			return "", err
		}
		m.writeCache(ctx, true)
		if err := m.ids.RememberEmail(ctx, email); err != nil {
			m.log.Warn("Failed to remember waitlist email", "error", err)
		}
		m.log.Info("Joined waitlist", "status", res.Status)
		return messageOr(res, "You're on the waitlist. We'll let you know when it's back."), nil

	case models.PreorderRemoved:
		// An authenticated toggle found an existing membership and removed it.
		if err := m.finish(NotJoined); err != nil {
			return "", err
		}
		m.writeCache(ctx, false)
		return messageOr(res, "You have been removed from the waitlist"), nil

	default:
		if err := m.finish(NotJoined); err != nil {
			return "", err
		}
		return "", errors.Internalf("unexpected waitlist status %q", res.Status)
	}
}

// Leave removes an authenticated shopper from the waitlist. Guests get an
// informational error and no server call is made. On failure the membership
// is restored and the cache is left alone.
func (m *Machine) Leave(ctx context.Context) (string, error) {
	switch m.State() {
	case NotJoined:
		return "You are not on the waitlist", nil
	case Joining, Leaving:
		return "", errors.Conflict("a waitlist request is already in progress")
	}
	if !m.authenticated() {
		return "", errors.Unauthorized("log in to leave the waitlist")
	}
	if err := m.begin(Leaving, Joined); err != nil {
		return "", err
	}

	res, err := m.client.TogglePreorder(ctx, m.productID, "", "")
	if err == nil && res != nil && res.Error != "" {
		err = errors.Validation(res.Error)
	}
	if err == nil && (res == nil || res.Status != models.PreorderRemoved) {
		status := ""
		if res != nil {
			status = res.Status
		}
		err = errors.Conflictf("waitlist was not left (status %q)", status)
	}
	if err != nil {
		if ferr := m.finish(Joined); ferr != nil {
			return "", ferr
		}
		m.log.Warn("Waitlist leave failed, membership restored", "error", err)
		return "", classify("leave waitlist", err)
	}

	if err := m.finish(NotJoined); err != nil {
		return "", err
	}
	m.writeCache(ctx, false)
	m.log.Info("Left waitlist")
	return messageOr(res, "You have left the waitlist"), nil
}

// Reconcile replaces the cached membership with the server's answer when the
// product is out of stock everywhere. A join or leave that is in flight, or
// that finished while the check was out, wins over the check.
func (m *Machine) Reconcile(ctx context.Context, globalOutOfStock bool) error {
	if !globalOutOfStock {
		return nil
	}
	m.mu.Lock()
	state, gen := m.state, m.gen
	m.mu.Unlock()
	if state == Joining || state == Leaving {
		return nil
	}

	email, guestID, err := m.identity(ctx)
	if err != nil {
		return err
	}

	joined, err := m.client.CheckPreorderStatus(ctx, m.productID, email, guestID)
	if err != nil {
		m.log.Warn("Waitlist status check failed", "error", err)
		return classify("check waitlist status", err)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.state == Joining || m.state == Leaving || m.gen != gen {
		m.mu.Unlock()
		m.log.Debug("Waitlist status check superseded", "joined", joined)
		return nil
	}
	if joined {
		m.state = Joined
	} else {
		m.state = NotJoined
	}
	m.mu.Unlock()

	m.writeCache(ctx, joined)
	m.log.Debug("Waitlist reconciled", "joined", joined)
	return nil
}

// identity picks the identity for a status check: the logged-in session, else
// the remembered email, else the guest id.
func (m *Machine) identity(ctx context.Context) (email, guestID string, err error) {
	if m.authenticated() {
		return "", "", nil
	}
	if email, err = m.ids.Email(ctx); err != nil {
		return "", "", errors.Wrap(err, errors.ErrInternal, "read email preference")
	}
	if email != "" {
		return email, "", nil
	}
	guestID, err = m.ids.GuestID(ctx)
	if err != nil {
		return "", "", errors.Wrap(err, errors.ErrInternal, "guest identity unavailable")
	}
	return "", guestID, nil
}

func (m *Machine) writeCache(ctx context.Context, joined bool) {
	key := CacheKey(m.productID)
	var err error
	if joined {
		err = m.store.Set(ctx, key, cachedJoined)
	} else {
		err = m.store.Remove(ctx, key)
	}
	if err != nil {
		m.log.Warn("Failed to update waitlist cache", "error", err)
	}
}

func messageOr(res *models.PreorderResult, fallback string) string {
	if res.Message != "" {
		return res.Message
	}
	return fallback
}

func classify(op string, err error) error {
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.Network(op, err)
}
