package models

// Product is a catalog entry. Price is in cents. Sizes and Colors are the
// explicitly declared option lists; either may be empty, in which case the
// options are derived from stock.
type Product struct {
	ID          int      `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       int      `json:"price"`
	Image       string   `json:"image"`
	CategoryID  int      `json:"category_id"`
	Sizes       []string `json:"sizes,omitempty"`
	Colors      []string `json:"colors,omitempty"`
	Active      bool     `json:"active"`
}

// StockItem is one row of a product's live stock feed
type StockItem struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

// StockSnapshot is the full stock of one product at a point in time.
// Version grows by one with every stored replacement.
type StockSnapshot struct {
	ProductID int         `json:"product_id"`
	Version   int64       `json:"version"`
	Items     []StockItem `json:"items"`
}

// Selection is the shopper's current variant choice
type Selection struct {
	Size     string `json:"size"`
	Color    string `json:"color"`
	Quantity int    `json:"quantity"`
}

// CartEntry is what the product page sends to the cart. MaxQuantity is the
// stock observed when the entry was created.
type CartEntry struct {
	ProductID   int    `json:"product_id"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
	MaxQuantity int    `json:"max_quantity"`
	Price       int    `json:"price"`
	Image       string `json:"image"`
	Slug        string `json:"slug"`
	CategoryID  int    `json:"category_id"`
}

// AddOptions controls the cart UI after an add
type AddOptions struct {
	OpenCart  bool `json:"open_cart"`
	ShowToast bool `json:"show_toast"`
}

// CartLine is a stored cart row
type CartLine struct {
	ID          int    `json:"id"`
	CartID      string `json:"cart_id"`
	ProductID   int    `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Slug        string `json:"slug"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
	MaxQuantity int    `json:"max_quantity"`
	Price       int    `json:"price"`
	Image       string `json:"image"`
	CategoryID  int    `json:"category_id"`
}

// Cart is a cart with its lines and total in cents
type Cart struct {
	ID    string     `json:"id"`
	Lines []CartLine `json:"lines"`
	Total int        `json:"total"`
}

// Preorder status values returned by a waitlist toggle
const (
	PreorderAdded         = "added"
	PreorderAlreadyJoined = "already_joined"
	PreorderRemoved       = "removed"
)

// Preorder is one waitlist membership. Exactly one identity field is set.
type Preorder struct {
	ID         int    `json:"id"`
	ProductID  int    `json:"product_id"`
	CustomerID *int   `json:"customer_id,omitempty"`
	Email      string `json:"email,omitempty"`
	GuestID    string `json:"guest_id,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// PreorderResult is the answer to a waitlist toggle. Error is set when the
// server refused the request; otherwise Status is one of the Preorder* values.
type PreorderResult struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Customer is a registered shopper
type Customer struct {
	ID           int    `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"created_at"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
