package variant

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/rjsanjaymandal/fitByte-sub000/internal/errors"
	"github.com/rjsanjaymandal/fitByte-sub000/internal/models"
)

// ReclampPolicy decides what happens to the chosen quantity when a new stock
// snapshot lowers the ceiling.
type ReclampPolicy int

const (
	// ReclampOnStockUpdate clamps the visible quantity as soon as the snapshot lands.
	ReclampOnStockUpdate ReclampPolicy = iota
	// CapFutureIncrements keeps the visible quantity until the shopper next
	// changes it; the next change (and any cart entry) is clamped.
	CapFutureIncrements
)

func (p ReclampPolicy) String() string {
	if p == CapFutureIncrements {
		return "cap-future-increments"
	}
	return "reclamp-on-stock-update"
}

// Cart receives purchase intents.
type Cart interface {
	AddItem(ctx context.Context, entry models.CartEntry, opts models.AddOptions) error
}

// Navigator moves the shopper to checkout.
type Navigator interface {
	GoToCheckout(ctx context.Context) error
}

// Option configures a Resolver
type Option func(*Resolver)

// WithPolicy sets the quantity reclamp policy.
func WithPolicy(p ReclampPolicy) Option {
	return func(r *Resolver) { r.policy = p }
}

// WithSelection seeds the initial selection. It is normalized and clamped
// like any other selection change.
func WithSelection(sel models.Selection) Option {
	return func(r *Resolver) { r.sel = sel }
}

// Resolver derives option sets, availability and the quantity ceiling for one
// product from its declared options and the latest stock snapshot. It holds
// the shopper's selection. It is not safe for concurrent use.
type Resolver struct {
	product models.Product
	policy  ReclampPolicy

	stock  StockMap
	sizes  []string
	colors []string
	sel    models.Selection

	// set when the current value was filled in because it was the sole option
	autoSize  bool
	autoColor bool
}

// New creates a resolver with no stock loaded yet.
func New(product models.Product, opts ...Option) *Resolver {
	r := &Resolver{product: product, sel: models.Selection{Quantity: 1}}
	for _, opt := range opts {
		opt(r)
	}
	r.sel.Size = strings.TrimSpace(r.sel.Size)
	r.sel.Color = NormalizeColor(r.sel.Color)
	r.recompute(nil)
	r.sel.Quantity = ClampQuantity(r.sel.Quantity, r.StockForSelection())
	return r
}

// Product returns the product the resolver was built for.
func (r *Resolver) Product() models.Product {
	return r.product
}

// Policy returns the reclamp policy in use.
func (r *Resolver) Policy() ReclampPolicy {
	return r.policy
}

// ApplyStock replaces the stock snapshot. Applying the same snapshot twice
// leaves the resolver unchanged.
func (r *Resolver) ApplyStock(items []models.StockItem) {
	r.stock = NewStockMap(items)
	r.recompute(items)
	if r.policy == ReclampOnStockUpdate {
		r.reclamp()
	}
}

// recompute rebuilds option lists and applies auto-selection.
func (r *Resolver) recompute(items []models.StockItem) {
	r.sizes = ComputeSizeOptions(r.product, items)
	r.colors = ComputeColorOptions(r.product, items)
	r.sel.Size, r.autoSize = autoSelect(r.sizes, r.sel.Size, r.autoSize)
	r.sel.Color, r.autoColor = autoSelect(r.colors, r.sel.Color, r.autoColor)
}

// autoSelect fills a sole option. An auto-filled value that stops being an
// option is dropped; a value the shopper chose is never reset.
func autoSelect(options []string, current string, auto bool) (string, bool) {
	if len(options) == 1 {
		return options[0], current != options[0] || auto
	}
	if auto && !contains(options, current) {
		return "", false
	}
	return current, auto
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func (r *Resolver) reclamp() {
	r.sel.Quantity = ClampQuantity(r.sel.Quantity, r.StockForSelection())
}

// SelectSize chooses a size. An empty value clears the choice unless the
// size is the only option.
func (r *Resolver) SelectSize(size string) {
	r.sel.Size, r.autoSize = strings.TrimSpace(size), false
	if len(r.sizes) == 1 {
		r.sel.Size, r.autoSize = r.sizes[0], r.sel.Size != r.sizes[0]
	}
	r.reclamp()
}

// SelectColor chooses a color by any spelling that normalizes to an option.
func (r *Resolver) SelectColor(color string) {
	r.sel.Color, r.autoColor = NormalizeColor(color), false
	if len(r.colors) == 1 {
		r.sel.Color, r.autoColor = r.colors[0], r.sel.Color != r.colors[0]
	}
	r.reclamp()
}

// Increment raises the quantity by one, never past the ceiling.
func (r *Resolver) Increment() {
	r.SetQuantity(r.sel.Quantity + 1)
}

// Decrement lowers the quantity by one, never below 1.
func (r *Resolver) Decrement() {
	r.SetQuantity(r.sel.Quantity - 1)
}

// SetQuantity sets a clamped quantity.
func (r *Resolver) SetQuantity(q int) {
	r.sel.Quantity = ClampQuantity(q, r.StockForSelection())
}

// Selection returns the current selection.
func (r *Resolver) Selection() models.Selection {
	return r.sel
}

// SizeOptions returns the size options in display order.
func (r *Resolver) SizeOptions() []string {
	return append([]string(nil), r.sizes...)
}

// ColorOptions returns the normalized color options.
func (r *Resolver) ColorOptions() []string {
	return append([]string(nil), r.colors...)
}

// Stock returns the current stock map.
func (r *Resolver) Stock() StockMap {
	return r.stock
}

// GetStock looks up the stock for a pair in the current snapshot.
func (r *Resolver) GetStock(size, color string) int {
	return r.stock.Get(size, color)
}

// IsSizeAvailable is true when no color is chosen or the pair has stock.
func (r *Resolver) IsSizeAvailable(size string) bool {
	return Availability(size, r.sel.Color, r.stock.BySize())
}

// IsColorAvailable is true when no size is chosen or the pair has stock.
func (r *Resolver) IsColorAvailable(color string) bool {
	return Availability(color, r.sel.Size, r.stock.ByColor())
}

// StockForSelection is the stock of the selected pair, 0 when either
// dimension is unchosen.
func (r *Resolver) StockForSelection() int {
	if r.sel.Size == "" || r.sel.Color == "" {
		return 0
	}
	return r.stock.Get(r.sel.Size, r.sel.Color)
}

// GlobalOutOfStock is true once a snapshot has loaded and it sums to zero.
func (r *Resolver) GlobalOutOfStock() bool {
	return r.stock.Loaded() && r.stock.Total() == 0
}

// SelectionOutOfStock is true when both dimensions are chosen and the pair
// has no stock.
func (r *Resolver) SelectionOutOfStock() bool {
	return r.sel.Size != "" && r.sel.Color != "" && r.StockForSelection() == 0
}

// IsOutOfStock combines the global and selection checks.
func (r *Resolver) IsOutOfStock() bool {
	return r.GlobalOutOfStock() || r.SelectionOutOfStock()
}

// CartEntry validates the selection for purchase and returns the entry to
// submit. A missing dimension with a sole option falls back to it first.
// MaxQuantity carries the stock seen now; it is not re-validated later.
func (r *Resolver) CartEntry() (models.CartEntry, error) {
	if r.sel.Size == "" && len(r.sizes) == 1 {
		r.sel.Size = r.sizes[0]
	}
	if r.sel.Color == "" && len(r.colors) == 1 {
		r.sel.Color = r.colors[0]
	}

	var missing []string
	if r.sel.Size == "" {
		missing = append(missing, "size")
	}
	if r.sel.Color == "" {
		missing = append(missing, "color")
	}
	if len(missing) > 0 {
		return models.CartEntry{}, errors.IncompleteSelection(missing...)
	}

	stock := r.StockForSelection()
	if stock <= 0 {
		return models.CartEntry{}, errors.OutOfStock(r.sel.Size, r.sel.Color)
	}

	return models.CartEntry{
		ProductID:   r.product.ID,
		Size:        r.sel.Size,
		Color:       r.sel.Color,
		Quantity:    ClampQuantity(r.sel.Quantity, stock),
		MaxQuantity: stock,
		Price:       r.product.Price,
		Image:       r.product.Image,
		Slug:        r.product.Slug,
		CategoryID:  r.product.CategoryID,
	}, nil
}

// AddToCart validates the selection and submits one cart mutation.
func (r *Resolver) AddToCart(ctx context.Context, cart Cart, opts models.AddOptions) error {
	entry, err := r.CartEntry()
	if err != nil {
		return err
	}
	return Submit(ctx, cart, entry, opts)
}

// BuyNow adds to the cart and then navigates to checkout. Nothing navigates
// when the add fails.
func (r *Resolver) BuyNow(ctx context.Context, cart Cart, nav Navigator) error {
	entry, err := r.CartEntry()
	if err != nil {
		return err
	}
	return Checkout(ctx, cart, nav, entry)
}

// Submit sends an already validated entry to the cart. Failures that are not
// already classified become network errors.
func Submit(ctx context.Context, cart Cart, entry models.CartEntry, opts models.AddOptions) error {
	if err := cart.AddItem(ctx, entry, opts); err != nil {
		return classify("add to cart", err)
	}
	return nil
}

// Checkout submits entry without opening the cart and navigates on success.
func Checkout(ctx context.Context, cart Cart, nav Navigator, entry models.CartEntry) error {
	if err := Submit(ctx, cart, entry, models.AddOptions{}); err != nil {
		return err
	}
	if err := nav.GoToCheckout(ctx); err != nil {
		return classify("checkout", err)
	}
	return nil
}

func classify(op string, err error) error {
	var appErr *errors.Error
	if stderrors.As(err, &appErr) {
		return err
	}
	return errors.Network(op, err)
}
