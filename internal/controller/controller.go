package storefront_controller

import (
	"context"
	"log"
	"math"
	"strconv"
	"strings"
	"time"

	internal "storefront-service/internal"
	dmodel "storefront-service/pkg"
)

type if_repo_store interface {
	Count_Documents(ctx context.Context, collection string) (int64, error)
	Insert_Document(ctx context.Context, collection string, doc map[string]any) (string, error)
	Find_Documents(ctx context.Context, collection string) ([]map[string]any, error)
	List_Collections(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

type Controller_Store struct {
	repo if_repo_store
}

func New(repo if_repo_store) *Controller_Store {
	return &Controller_Store{
		repo: repo,
	}
}

// -------------------------------------------------------------------
// product catalog
// -------------------------------------------------------------------

// Get_Products returns every product document with the internal identifier
// renamed to a string "id" and timestamps stringified. An empty collection
// is seeded with the default catalog first; individual seed failures are
// logged and skipped, never surfaced.
func (c *Controller_Store) Get_Products(ctx context.Context) ([]map[string]any, error) {
	count, err := c.repo.Count_Documents(ctx, dmodel.CollectionProducts)
	if err != nil {
		return nil, err
	}

	if count == 0 {
		seeded := 0
		for _, product := range dmodel.DefaultProducts() {
			if _, err := c.repo.Insert_Document(ctx, dmodel.CollectionProducts, product.Document()); err != nil {
				log.Printf("Failed to seed product %s: %v", product.SKU, err)
				continue
			}
			seeded++
		}
		if seeded < len(dmodel.DefaultProducts()) {
			log.Printf("Seeded %d of %d default products", seeded, len(dmodel.DefaultProducts()))
		}
	}

	docs, err := c.repo.Find_Documents(ctx, dmodel.CollectionProducts)
	if err != nil {
		return nil, err
	}

	items := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		if id, ok := doc["_id"]; ok {
			delete(doc, "_id")
			doc["id"] = stringValue(id)
		}
		for _, key := range []string{"created_at", "updated_at"} {
			if ts, ok := doc[key]; ok {
				doc[key] = stringValue(ts)
			}
		}
		items = append(items, doc)
	}

	return items, nil
}

// -------------------------------------------------------------------

// -------------------------------------------------------------------
// order building
// -------------------------------------------------------------------

// Create_Order validates and normalizes the raw line items, computes the
// subtotal over the accepted ones and persists the order as a single
// document. Malformed items are dropped, not rejected: the drop count is
// returned so callers can log it. Both empty input and all-items-dropped
// fail, with distinct sentinels. A reachable store is a precondition and
// is checked before the payload is examined at all.
func (c *Controller_Store) Create_Order(ctx context.Context, req *dmodel.CreateOrderRequest) (string, *dmodel.Order, int, error) {
	if err := c.repo.Ping(ctx); err != nil {
		return "", nil, 0, internal.ErrStoreUnavailable
	}

	if len(req.Items) == 0 {
		return "", nil, 0, internal.ErrNoItems
	}

	var items []dmodel.OrderLineItem
	var subtotal float64

	for _, raw := range req.Items {
		item, ok := coerceLineItem(raw)
		if !ok {
			continue
		}
		subtotal += float64(item.Quantity) * item.Price
		items = append(items, item)
	}

	if len(items) == 0 {
		return "", nil, len(req.Items), internal.ErrInvalidItems
	}

	order := &dmodel.Order{
		Items:         items,
		Subtotal:      round2(subtotal),
		BuyerEmail:    req.BuyerEmail,
		BuyerUsername: req.BuyerUsername,
		Note:          req.Note,
	}

	orderID, err := c.repo.Insert_Document(ctx, dmodel.CollectionOrders, order.Document())
	if err != nil {
		return "", nil, 0, err
	}
	order.ID = orderID

	return orderID, order, len(req.Items) - len(items), nil
}

// -------------------------------------------------------------------

// -------------------------------------------------------------------
// store diagnostics pass-throughs
// -------------------------------------------------------------------

func (c *Controller_Store) List_Collections(ctx context.Context) ([]string, error) {
	return c.repo.List_Collections(ctx)
}

func (c *Controller_Store) Ping(ctx context.Context) error {
	return c.repo.Ping(ctx)
}

// -------------------------------------------------------------------

// coerceLineItem applies the lenient per-item policy: quantity defaults
// to 1, title to "Item", product_id to ""; a missing or unparsable price,
// a non-positive quantity or a negative price reject the item.
func coerceLineItem(raw map[string]any) (dmodel.OrderLineItem, bool) {
	qty := 1
	if v, ok := raw["quantity"]; ok {
		parsed, ok := parseInt(v)
		if !ok {
			return dmodel.OrderLineItem{}, false
		}
		qty = parsed
	}

	price, ok := parseFloat(raw["price"])
	if !ok {
		return dmodel.OrderLineItem{}, false
	}

	if qty <= 0 || price < 0 {
		return dmodel.OrderLineItem{}, false
	}

	title, _ := raw["title"].(string)
	if title == "" {
		title = "Item"
	}

	return dmodel.OrderLineItem{
		ProductID: stringValue(raw["product_id"]),
		Quantity:  qty,
		Price:     price,
		Title:     title,
	}, true
}

// parseInt accepts the scalar shapes a JSON body can carry for a quantity.
// Fractional parts truncate toward zero; fractional strings do not parse.
func parseInt(v any) (int, bool) {
	switch val := v.(type) {
	case float64:
		return int(math.Trunc(val)), true
	case int:
		return val, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

func parseFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case int:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// stringValue renders a document value for transport. Falsy values become
// the empty string, whole numbers print without a fraction.
func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if !val {
			return ""
		}
		return "true"
	case float64:
		if val == 0 {
			return ""
		}
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'g', -1, 64)
	case time.Time:
		return val.Format("2006-01-02 15:04:05.999999+00:00")
	default:
		return ""
	}
}

// round2 rounds half-to-even to two decimal places.
func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
