package dmodel

import "time"

// collection names in the document store
const (
	CollectionProducts = "product"
	CollectionOrders   = "order"
)

type Product struct {
	ID          string  `json:"id,omitempty" bson:"_id,omitempty"`
	Title       string  `json:"title" bson:"title"`
	Description string  `json:"description" bson:"description"`
	Price       float64 `json:"price" bson:"price"`
	Category    string  `json:"category" bson:"category"`
	InStock     bool    `json:"in_stock" bson:"in_stock"`
	SKU         string  `json:"sku" bson:"sku"`
	Image       string  `json:"image" bson:"image"`
	Badge       string  `json:"badge,omitempty" bson:"badge,omitempty"`
}

type OrderLineItem struct {
	ProductID string  `json:"product_id" bson:"product_id"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Price     float64 `json:"price" bson:"price"`
	Title     string  `json:"title" bson:"title"`
}

type Order struct {
	ID            string          `json:"id,omitempty" bson:"_id,omitempty"`
	Items         []OrderLineItem `json:"items" bson:"items"`
	Subtotal      float64         `json:"subtotal" bson:"subtotal"`
	BuyerEmail    string          `json:"buyer_email,omitempty" bson:"buyer_email,omitempty"`
	BuyerUsername string          `json:"buyer_username,omitempty" bson:"buyer_username,omitempty"`
	Note          string          `json:"note,omitempty" bson:"note,omitempty"`
	CreatedAt     time.Time       `json:"created_at,omitempty" bson:"created_at,omitempty"`
}

// Document flattens the order into the generic shape the store collaborator
// accepts. The store assigns _id and created_at on insert.
func (o *Order) Document() map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"quantity":   item.Quantity,
			"price":      item.Price,
			"title":      item.Title,
		})
	}
	return map[string]any{
		"items":          items,
		"subtotal":       o.Subtotal,
		"buyer_email":    o.BuyerEmail,
		"buyer_username": o.BuyerUsername,
		"note":           o.Note,
	}
}

// CreateOrderRequest
// raw line items stay untyped maps so lenient per-item coercion can run
type CreateOrderRequest struct {
	Items         []map[string]any `json:"items"`
	BuyerEmail    string           `json:"buyer_email,omitempty"`
	BuyerUsername string           `json:"buyer_username,omitempty"`
	Note          string           `json:"note,omitempty"`
}

// OrderPlaced is the event emitted after a successful order write.
type OrderPlaced struct {
	OrderID       string          `json:"order_id"`
	Items         []OrderLineItem `json:"items"`
	Subtotal      float64         `json:"subtotal"`
	BuyerUsername string          `json:"buyer_username,omitempty"`
	CreatedAt     string          `json:"created_at"`
}

// DefaultProducts is the seed catalog written when the product collection
// is found empty.
func DefaultProducts() []*Product {
	return []*Product{
		{
			Title:       "VIP Rank",
			Description: "Purple tag, daily crate, /fly, and more perks.",
			Price:       9.99,
			Category:    "ranks",
			InStock:     true,
			SKU:         "RANK_VIP",
			Image:       "https://i.imgur.com/7gW5a8W.png",
			Badge:       "Popular",
		},
		{
			Title:       "MVP Rank",
			Description: "All VIP perks plus extra kits and boosters.",
			Price:       19.99,
			Category:    "ranks",
			InStock:     true,
			SKU:         "RANK_MVP",
			Image:       "https://i.imgur.com/3wM3q6B.png",
			Badge:       "Best Value",
		},
		{
			Title:       "Legend Rank",
			Description: "Ultimate status, cosmetics, and exclusive features.",
			Price:       39.99,
			Category:    "ranks",
			InStock:     true,
			SKU:         "RANK_LEGEND",
			Image:       "https://i.imgur.com/8F9mTnE.png",
			Badge:       "Premium",
		},
		{
			Title:       "Keys Bundle",
			Description: "10x Galaxy Crate Keys.",
			Price:       7.99,
			Category:    "keys",
			InStock:     true,
			SKU:         "KEYS_GALAXY_10",
			Image:       "https://i.imgur.com/0kCqf3L.png",
		},
	}
}

// Document flattens the product for the store collaborator. The badge key
// is always present, null when the product has none, so clients keying on
// field presence see a stable shape.
func (p *Product) Document() map[string]any {
	var badge any
	if p.Badge != "" {
		badge = p.Badge
	}
	return map[string]any{
		"title":       p.Title,
		"description": p.Description,
		"price":       p.Price,
		"category":    p.Category,
		"in_stock":    p.InStock,
		"sku":         p.SKU,
		"image":       p.Image,
		"badge":       badge,
	}
}
