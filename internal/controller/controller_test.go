package storefront_controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal "storefront-service/internal"
	storefront_repository "storefront-service/internal/repository"
	dmodel "storefront-service/pkg"
)

func newTestController() (*Controller_Store, *storefront_repository.DataRepo_Memory) {
	repo := storefront_repository.NewMemory()
	return New(repo), repo
}

func TestCreateOrder_ComputesSubtotal(t *testing.T) {
	ctx := context.Background()
	controller, repo := newTestController()

	orderID, order, rejected, err := controller.Create_Order(ctx, &dmodel.CreateOrderRequest{
		Items: []map[string]any{
			{"quantity": float64(2), "price": 9.99, "title": "VIP Rank", "product_id": "abc"},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, orderID)
	assert.Zero(t, rejected)
	assert.InDelta(t, 19.98, order.Subtotal, 1e-9)

	docs, err := repo.Find_Documents(ctx, dmodel.CollectionOrders)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.InDelta(t, 19.98, docs[0]["subtotal"].(float64), 1e-9)
}

func TestCreateOrder_EmptyItems(t *testing.T) {
	controller, _ := newTestController()

	_, _, _, err := controller.Create_Order(context.Background(), &dmodel.CreateOrderRequest{})
	assert.ErrorIs(t, err, internal.ErrNoItems)
}

func TestCreateOrder_AllItemsRejected(t *testing.T) {
	controller, repo := newTestController()

	_, _, rejected, err := controller.Create_Order(context.Background(), &dmodel.CreateOrderRequest{
		Items: []map[string]any{
			{"quantity": float64(-1), "price": float64(5)},
		},
	})
	assert.ErrorIs(t, err, internal.ErrInvalidItems)
	assert.Equal(t, 1, rejected)

	docs, err := repo.Find_Documents(context.Background(), dmodel.CollectionOrders)
	require.NoError(t, err)
	assert.Empty(t, docs, "rejected order must not be persisted")
}

func TestCreateOrder_DropsMalformedItems(t *testing.T) {
	ctx := context.Background()
	controller, _ := newTestController()

	_, order, rejected, err := controller.Create_Order(ctx, &dmodel.CreateOrderRequest{
		Items: []map[string]any{
			{"quantity": float64(1), "price": 4.5},
			{"quantity": float64(0), "price": float64(10)},     // zero quantity
			{"quantity": float64(2), "price": float64(-1)},     // negative price
			{"quantity": "two", "price": float64(3)},           // unparsable quantity
			{"quantity": float64(3), "title": "Priceless"},     // missing price
			{"quantity": float64(2), "price": "oops"},          // unparsable price
			{"quantity": float64(3), "price": float64(2)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 5, rejected)
	require.Len(t, order.Items, 2)
	assert.InDelta(t, 10.5, order.Subtotal, 1e-9)
}

func TestCreateOrder_ItemDefaults(t *testing.T) {
	controller, _ := newTestController()

	_, order, _, err := controller.Create_Order(context.Background(), &dmodel.CreateOrderRequest{
		Items: []map[string]any{
			{"price": 2.5},
			{"price": float64(1), "quantity": "3", "title": "", "product_id": float64(42)},
		},
	})
	require.NoError(t, err)
	require.Len(t, order.Items, 2)

	assert.Equal(t, 1, order.Items[0].Quantity, "quantity defaults to 1")
	assert.Equal(t, "Item", order.Items[0].Title)
	assert.Equal(t, "", order.Items[0].ProductID)

	assert.Equal(t, 3, order.Items[1].Quantity, "numeric string quantity parses")
	assert.Equal(t, "Item", order.Items[1].Title, "empty title falls back")
	assert.Equal(t, "42", order.Items[1].ProductID, "numeric product_id stringifies")
}

func TestCreateOrder_BuyerMetadata(t *testing.T) {
	ctx := context.Background()
	controller, repo := newTestController()

	_, _, _, err := controller.Create_Order(ctx, &dmodel.CreateOrderRequest{
		Items:         []map[string]any{{"quantity": float64(1), "price": 9.99}},
		BuyerEmail:    "steve@example.com",
		BuyerUsername: "steve",
		Note:          "deliver to spawn",
	})
	require.NoError(t, err)

	docs, err := repo.Find_Documents(ctx, dmodel.CollectionOrders)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "steve@example.com", docs[0]["buyer_email"])
	assert.Equal(t, "steve", docs[0]["buyer_username"])
	assert.Equal(t, "deliver to spawn", docs[0]["note"])
	assert.Contains(t, docs[0], "created_at", "store assigns the creation stamp")
}

func TestCreateOrder_StoreUnavailable(t *testing.T) {
	controller := New(storefront_repository.New(nil))

	_, _, _, err := controller.Create_Order(context.Background(), &dmodel.CreateOrderRequest{
		Items: []map[string]any{{"quantity": float64(1), "price": float64(1)}},
	})
	assert.ErrorIs(t, err, internal.ErrStoreUnavailable)
}

func TestCreateOrder_StoreUnavailablePrecedesValidation(t *testing.T) {
	controller := New(storefront_repository.New(nil))

	// empty payload on a store-less service still reports the store
	_, _, _, err := controller.Create_Order(context.Background(), &dmodel.CreateOrderRequest{})
	assert.ErrorIs(t, err, internal.ErrStoreUnavailable)

	// same for a payload whose items would all be rejected
	_, _, _, err = controller.Create_Order(context.Background(), &dmodel.CreateOrderRequest{
		Items: []map[string]any{{"quantity": float64(-1), "price": float64(5)}},
	})
	assert.ErrorIs(t, err, internal.ErrStoreUnavailable)
}

func TestGetProducts_SeedsEmptyCatalogOnce(t *testing.T) {
	ctx := context.Background()
	controller, _ := newTestController()

	items, err := controller.Get_Products(ctx)
	require.NoError(t, err)
	require.Len(t, items, 4)

	skus := make(map[string]bool)
	for _, item := range items {
		skus[item["sku"].(string)] = true
		assert.NotEmpty(t, item["id"], "public id must be set")
		assert.IsType(t, "", item["id"])
		assert.NotContains(t, item, "_id", "internal id must not leak")
		assert.IsType(t, "", item["created_at"], "timestamps stringified")
		assert.Contains(t, item, "badge", "badge key present even when unset")
	}
	for _, sku := range []string{"RANK_VIP", "RANK_MVP", "RANK_LEGEND", "KEYS_GALAXY_10"} {
		assert.True(t, skus[sku], "missing seed product %s", sku)
	}

	// second read must not re-seed
	items, err = controller.Get_Products(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 4)
}

func TestGetProducts_StoreUnavailable(t *testing.T) {
	controller := New(storefront_repository.New(nil))

	_, err := controller.Get_Products(context.Background())
	assert.ErrorIs(t, err, internal.ErrStoreUnavailable)
}

func TestRound2_HalfToEven(t *testing.T) {
	// .125 and .375 are exact in binary, so the tie-break is observable
	assert.InDelta(t, 0.12, round2(0.125), 1e-12)
	assert.InDelta(t, 0.38, round2(0.375), 1e-12)
	assert.InDelta(t, 19.98, round2(19.98), 1e-12)
}

func TestParseInt(t *testing.T) {
	n, ok := parseInt(float64(2.7))
	assert.True(t, ok)
	assert.Equal(t, 2, n, "fractional quantity truncates toward zero")

	n, ok = parseInt(" 3 ")
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = parseInt("2.5")
	assert.False(t, ok, "fractional string does not parse")

	_, ok = parseInt(map[string]any{})
	assert.False(t, ok)
}

func TestParseFloat(t *testing.T) {
	f, ok := parseFloat("9.99")
	assert.True(t, ok)
	assert.InDelta(t, 9.99, f, 1e-12)

	_, ok = parseFloat(nil)
	assert.False(t, ok, "missing price rejects the item")

	_, ok = parseFloat([]any{})
	assert.False(t, ok)
}
