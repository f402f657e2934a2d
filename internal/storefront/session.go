// Package storefront runs a product detail session: the variant resolver fed
// by the live stock feed, purchase actions, and the product's waitlist.
package storefront

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/kvstore"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/logger"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/variant"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/waitlist"
)

// StockFeed supplies stock snapshots for a product.
type StockFeed interface {
	FetchStock(ctx context.Context, productID int) ([]models.StockItem, error)
	SubscribeStock(ctx context.Context, productID int) (<-chan []models.StockItem, error)
}

// Deps are the collaborators of a session
type Deps struct {
	Stock    StockFeed
	Cart     variant.Cart
	Nav      variant.Navigator
	Waitlist waitlist.Client
	Store    kvstore.Store
	Notifier Notifier
	// Authenticated reports whether the shopper is logged in. Nil means guest.
	Authenticated func() bool
	Policy        variant.ReclampPolicy
}

// View is the rendered state of a session
type View struct {
	variant.View
	Waitlist       string `json:"waitlist"`
	OnWaitlist     bool   `json:"on_waitlist"`
	WaitlistActive bool   `json:"waitlist_active"`
}

// Session is one shopper's view of one product. All methods are safe for
// concurrent use. Collaborator calls are made without holding the lock.
type Session struct {
	log  logger.Logger
	deps Deps

	machine *waitlist.Machine

	mu     sync.Mutex
	res    *variant.Resolver
	closed bool
}

// NewSession creates a session for product. Call Mount before use.
func NewSession(log logger.Logger, product models.Product, deps Deps) *Session {
	if deps.Notifier == nil {
		deps.Notifier = NotifierFunc(func(Notice) {})
	}
	if deps.Authenticated == nil {
		deps.Authenticated = func() bool { return false }
	}
	log = log.With("product", product.Slug)

	ids := waitlist.NewIdentities(deps.Store, nil)
	return &Session{
		log:  log,
		deps: deps,
		res:  variant.New(product, variant.WithPolicy(deps.Policy)),
		machine: waitlist.NewMachine(log, product.ID, deps.Waitlist, deps.Store, ids,
			waitlist.WithAuthenticated(deps.Authenticated)),
	}
}

// Mount seeds the waitlist from the cache, loads the first stock snapshot and
// reconciles the waitlist with the server when the product is sold out.
func (s *Session) Mount(ctx context.Context) error {
	if err := s.machine.Load(ctx); err != nil {
		s.log.Warn("Failed to read waitlist cache", "error", err)
	}

	items, err := s.deps.Stock.FetchStock(ctx, s.productID())
	if err != nil {
		err = errors.Network("load stock", err)
		s.notify(errorNotice(err))
		return err
	}
	s.ApplyStock(items)

	if err := s.reconcile(ctx); err != nil {
		s.notify(errorNotice(err))
		return err
	}
	return nil
}

func (s *Session) reconcile(ctx context.Context) error {
	s.mu.Lock()
	soldOut := s.res.GlobalOutOfStock()
	s.mu.Unlock()

	err := s.machine.Reconcile(ctx, soldOut)
	if err != nil && !stderrors.Is(err, waitlist.ErrClosed) {
		s.log.Warn("Waitlist reconcile failed", "error", err)
		return err
	}
	return nil
}

// ApplyStock replaces the stock snapshot. Ignored after Close.
func (s *Session) ApplyStock(items []models.StockItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.res.ApplyStock(items)
}

// Watch applies every snapshot from the live feed in arrival order until ctx
// is done, the feed ends or the session closes. onUpdate, when set, receives
// the view derived from each snapshot.
func (s *Session) Watch(ctx context.Context, onUpdate func(View)) error {
	feed, err := s.deps.Stock.SubscribeStock(ctx, s.productID())
	if err != nil {
		return errors.Network("subscribe to stock", err)
	}

	wasSoldOut := s.View().GlobalOutOfStock
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case items, ok := <-feed:
			if !ok {
				return nil
			}
			if s.isClosed() {
				return nil
			}
			s.ApplyStock(items)
			view := s.View()
			s.log.Debug("Stock snapshot applied", "total", view.TotalStock)

			if view.GlobalOutOfStock && !wasSoldOut {
				if err := s.reconcile(ctx); err != nil {
					s.notify(errorNotice(err))
				}
				view = s.View()
			}
			wasSoldOut = view.GlobalOutOfStock
			if onUpdate != nil {
				onUpdate(view)
			}
		}
	}
}

// View returns the state derived from the latest snapshot.
func (s *Session) View() View {
	s.mu.Lock()
	v := s.res.View()
	s.mu.Unlock()

	state := s.machine.State()
	return View{
		View:           v,
		Waitlist:       state.String(),
		OnWaitlist:     state == waitlist.Joined,
		WaitlistActive: v.GlobalOutOfStock || v.SelectionOutOfStock,
	}
}

// SelectSize chooses a size.
func (s *Session) SelectSize(size string) {
	s.withResolver(func(r *variant.Resolver) { r.SelectSize(size) })
}

// SelectColor chooses a color.
func (s *Session) SelectColor(color string) {
	s.withResolver(func(r *variant.Resolver) { r.SelectColor(color) })
}

// Increment raises the quantity by one.
func (s *Session) Increment() {
	s.withResolver(func(r *variant.Resolver) { r.Increment() })
}

// Decrement lowers the quantity by one.
func (s *Session) Decrement() {
	s.withResolver(func(r *variant.Resolver) { r.Decrement() })
}

// SetQuantity sets the quantity, clamped to stock.
func (s *Session) SetQuantity(q int) {
	s.withResolver(func(r *variant.Resolver) { r.SetQuantity(q) })
}

// AddToCart validates the selection and adds it to the cart, opening the
// cart with a toast on success.
func (s *Session) AddToCart(ctx context.Context) error {
	entry, err := s.cartEntry()
	if err != nil {
		s.notify(errorNotice(err))
		return err
	}

	if err := variant.Submit(ctx, s.deps.Cart, entry, models.AddOptions{OpenCart: true, ShowToast: true}); err != nil {
		s.log.Warn("Add to cart failed", "error", err)
		s.notify(errorNotice(err))
		return err
	}
	s.log.Info("Added to cart", "size", entry.Size, "color", entry.Color, "quantity", entry.Quantity)
	s.notify(Notice{Level: LevelSuccess, Message: "Added to cart"})
	return nil
}

// BuyNow adds the selection to the cart and goes to checkout. No navigation
// happens when the add fails.
func (s *Session) BuyNow(ctx context.Context) error {
	entry, err := s.cartEntry()
	if err != nil {
		s.notify(errorNotice(err))
		return err
	}

	if err := variant.Checkout(ctx, s.deps.Cart, s.deps.Nav, entry); err != nil {
		s.log.Warn("Buy now failed", "error", err)
		s.notify(errorNotice(err))
		return err
	}
	s.log.Info("Proceeding to checkout", "size", entry.Size, "color", entry.Color)
	return nil
}

// JoinWaitlist adds the shopper to the product's waitlist. email is optional.
func (s *Session) JoinWaitlist(ctx context.Context, email string) error {
	msg, err := s.machine.Join(ctx, email)
	return s.waitlistOutcome(msg, err)
}

// LeaveWaitlist removes a logged-in shopper from the waitlist.
func (s *Session) LeaveWaitlist(ctx context.Context) error {
	msg, err := s.machine.Leave(ctx)
	return s.waitlistOutcome(msg, err)
}

// RefreshWaitlist asks the server for the current membership when the
// product is sold out.
func (s *Session) RefreshWaitlist(ctx context.Context) error {
	if err := s.reconcile(ctx); err != nil {
		s.notify(errorNotice(err))
		return err
	}
	return nil
}

func (s *Session) waitlistOutcome(msg string, err error) error {
	if stderrors.Is(err, waitlist.ErrClosed) {
		return nil
	}
	if err != nil {
		s.notify(errorNotice(err))
		return err
	}
	s.notify(Notice{Level: LevelSuccess, Message: msg})
	return nil
}

// Close tears the session down. Results of calls still in flight are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.machine.Close()
}

func (s *Session) cartEntry() (models.CartEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.res.CartEntry()
}

func (s *Session) withResolver(fn func(*variant.Resolver)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn(s.res)
}

func (s *Session) productID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.res.Product().ID
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) notify(n Notice) {
	if s.isClosed() {
		return
	}
	s.deps.Notifier.Notify(n)
}
