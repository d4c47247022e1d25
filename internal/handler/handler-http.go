package storefront_handler_http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	internal "storefront-service/internal"
	storefront_controller "storefront-service/internal/controller"
	"storefront-service/internal/events"
	dmodel "storefront-service/pkg"
)

func AddCORSHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// CORS preflight request (OPTIONS) handling
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type Handler_Store struct {
	controller *storefront_controller.Controller_Store
	publisher  *events.Publisher
}

func New(controller *storefront_controller.Controller_Store, publisher *events.Publisher) *Handler_Store {
	return &Handler_Store{
		controller: controller,
		publisher:  publisher,
	}
}

// writeDetail writes the error payload shape the storefront clients expect.
func writeDetail(w http.ResponseWriter, status int, detail string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}

func (h *Handler_Store) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Victus MC Store Backend Running"})
}

func (h *Handler_Store) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Hello from the backend API!"})
}

// Test_Database reports store connectivity and configuration presence for
// deploy-time debugging.
func (h *Handler_Store) Test_Database(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	w.Header().Set("Content-Type", "application/json")

	response := map[string]any{
		"backend":           "✅ Running",
		"database":          "❌ Not Available",
		"connection_status": "Not Connected",
		"collections":       []string{},
	}

	err := h.controller.Ping(ctx)
	switch {
	case err == nil:
		response["connection_status"] = "Connected"
		collections, err := h.controller.List_Collections(ctx)
		if err != nil {
			response["database"] = "⚠️  Connected but Error: " + truncate(err.Error(), 50)
		} else {
			if len(collections) > 10 {
				collections = collections[:10]
			}
			response["database"] = "✅ Connected & Working"
			response["collections"] = collections
		}
	case errors.Is(err, internal.ErrStoreUnavailable):
		response["database"] = "⚠️  Available but not initialized"
	default:
		response["database"] = "❌ Error: " + truncate(err.Error(), 50)
	}

	response["database_url"] = envStatus("DATABASE_URL")
	response["database_name"] = envStatus("DATABASE_NAME")

	json.NewEncoder(w).Encode(response)
}

func (h *Handler_Store) Get_Products(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	w.Header().Set("Content-Type", "application/json")

	items, err := h.controller.Get_Products(ctx)
	if err != nil {
		if errors.Is(err, internal.ErrStoreUnavailable) {
			writeDetail(w, http.StatusInternalServerError, "Database not configured")
			return
		}
		log.Printf("Error reading products: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	err = json.NewEncoder(w).Encode(map[string]any{"items": items})
	if err != nil {
		log.Printf("Error encoding products to JSON: %v", err)
	}
}

func (h *Handler_Store) Create_Order(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	w.Header().Set("Content-Type", "application/json")

	var req dmodel.CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	orderID, order, rejected, err := h.controller.Create_Order(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, internal.ErrNoItems):
			writeDetail(w, http.StatusBadRequest, "No items in order")
		case errors.Is(err, internal.ErrInvalidItems):
			writeDetail(w, http.StatusBadRequest, "Invalid items")
		case errors.Is(err, internal.ErrStoreUnavailable):
			writeDetail(w, http.StatusInternalServerError, "Database not configured")
		default:
			log.Printf("Error creating order: %v", err)
			writeDetail(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if rejected > 0 {
		log.Printf("Order %s: dropped %d malformed line item(s)", orderID, rejected)
	}

	if err := h.publisher.PublishOrderPlaced(ctx, dmodel.OrderPlaced{
		OrderID:       orderID,
		Items:         order.Items,
		Subtotal:      order.Subtotal,
		BuyerUsername: order.BuyerUsername,
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("Error publishing order %s: %v", orderID, err)
	}

	err = json.NewEncoder(w).Encode(map[string]any{"ok": true, "order_id": orderID})
	if err != nil {
		log.Printf("Error encoding order response to JSON: %v", err)
	}
}

func envStatus(key string) string {
	if os.Getenv(key) != "" {
		return "✅ Set"
	}
	return "❌ Not Set"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
