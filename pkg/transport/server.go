package transport

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	cartmodel "github.com/Rifaiiii04/ims-inventory-sub001/pkg/cart/domain/model"
	cartservice "github.com/Rifaiiii04/ims-inventory-sub001/pkg/cart/domain/service"
	catalogservice "github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/application/service"
	catalogmodel "github.com/Rifaiiii04/ims-inventory-sub001/pkg/catalog/domain/model"
	orderservice "github.com/Rifaiiii04/ims-inventory-sub001/pkg/order/application/service"
	ordermodel "github.com/Rifaiiii04/ims-inventory-sub001/pkg/order/domain/model"
)

type handler struct {
	catalog catalogservice.Reader
	cart    cartservice.Cart
	orders  orderservice.OrderService
}

// Router exposes the cart, catalog and checkout operations as a JSON API. It
// carries no business logic of its own.
func Router(catalog catalogservice.Reader, cart cartservice.Cart, orders orderservice.OrderService) http.Handler {
	h := &handler{catalog: catalog, cart: cart, orders: orders}

	r := mux.NewRouter()
	s := r.PathPrefix("/api/v1").Subrouter()
	s.HandleFunc("/catalog", h.getCatalog).Methods(http.MethodGet)
	s.HandleFunc("/cart", h.getCart).Methods(http.MethodGet)
	s.HandleFunc("/cart", h.clearCart).Methods(http.MethodDelete)
	s.HandleFunc("/cart/items", h.addItem).Methods(http.MethodPost)
	s.HandleFunc("/cart/items/{variantID}", h.updateItem).Methods(http.MethodPatch)
	s.HandleFunc("/cart/items/{variantID}", h.removeItem).Methods(http.MethodDelete)
	s.HandleFunc("/orders", h.submitOrder).Methods(http.MethodPost)
	return logMiddleware(r)
}

type Server struct {
	srv *http.Server
}

func NewServer(addr string, catalog catalogservice.Reader, cart cartservice.Cart, orders orderservice.OrderService) *Server {
	return &Server{srv: &http.Server{Addr: addr, Handler: Router(catalog, cart, orders)}}
}

func (s *Server) Start() error { return s.srv.ListenAndServe() }

func (s *Server) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }

func (h *handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "true"
	products, err := h.catalog.Load(r.Context(), force)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": products})
}

func (h *handler) getCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"lines": h.cart.Lines(),
			"total": h.cart.Total(),
		},
	})
}

func (h *handler) clearCart(w http.ResponseWriter, _ *http.Request) {
	h.cart.Clear()
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	VariantID string  `json:"variantId"`
	Quantity  float64 `json:"quantity"`
}

func (h *handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	products, err := h.catalog.Load(r.Context(), false)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	variant, product, err := findVariant(products, req.VariantID)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err := h.cart.Add(variant, int(math.Floor(req.Quantity)), product); err != nil {
		writeCartError(w, err)
		return
	}
	h.getCart(w, r)
}

type updateItemRequest struct {
	Quantity float64 `json:"quantity"`
}

func (h *handler) updateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	variantID := mux.Vars(r)["variantID"]
	if err := h.cart.UpdateQuantity(variantID, int(math.Floor(req.Quantity))); err != nil {
		writeCartError(w, err)
		return
	}
	h.getCart(w, r)
}

func (h *handler) removeItem(w http.ResponseWriter, r *http.Request) {
	h.cart.Remove(mux.Vars(r)["variantID"])
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) submitOrder(w http.ResponseWriter, r *http.Request) {
	var payment ordermodel.PaymentDetails
	if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	record, err := h.orders.Submit(r.Context(), payment)
	if err != nil {
		switch {
		case errors.Is(err, ordermodel.ErrInvalidPayment), errors.Is(err, ordermodel.ErrEmptyOrder):
			writeError(w, http.StatusUnprocessableEntity, err)
		default:
			writeError(w, http.StatusBadGateway, err)
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": record})
}

func findVariant(products []catalogmodel.Product, variantID string) (catalogmodel.Variant, *catalogmodel.Product, error) {
	for i := range products {
		for _, variant := range products[i].Variants {
			if variant.ID == variantID {
				return variant, &products[i], nil
			}
		}
	}
	return catalogmodel.Variant{}, nil, catalogmodel.ErrVariantNotFound
}

func writeCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cartmodel.ErrBlockedByIngredient), errors.Is(err, cartmodel.ErrInsufficientStock):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, cartmodel.ErrLineNotFound):
		writeError(w, http.StatusNotFound, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.WithError(err).Error("write response")
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"success": false, "message": err.Error()})
}

func logMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.WithFields(log.Fields{
			"method":     r.Method,
			"url":        r.URL,
			"remoteAddr": r.RemoteAddr,
			"userAgent":  r.UserAgent(),
		}).Info("got a new request")
		h.ServeHTTP(w, r)
	})
}
