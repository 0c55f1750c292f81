package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecofinds/marketplace/internal/cart"
)

type CartStore interface {
	Add(ctx context.Context, userID, listingID string, qty int) error
	Update(ctx context.Context, userID, listingID string, qty int) error
	Remove(ctx context.Context, userID, listingID string) error
	View(ctx context.Context, userID string) (*cart.View, error)
}

type CartHandler struct {
	Carts CartStore
}

func (h *CartHandler) Register(r *chi.Mux, auth func(http.Handler) http.Handler) {
	r.Group(func(g chi.Router) {
		g.Use(auth)
		g.Get("/cart", h.view)
		g.Post("/cart/items", h.add)
		g.Put("/cart/items/{listingID}", h.update)
		g.Delete("/cart/items/{listingID}", h.remove)
	})
}

func (h *CartHandler) view(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	v, err := h.Carts.View(ctx, UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *CartHandler) add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID string `json:"listing_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := UserID(r.Context())
	if err := h.Carts.Add(ctx, userID, req.ListingID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(ctx, w, userID, http.StatusCreated)
}

func (h *CartHandler) update(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := UserID(r.Context())
	if err := h.Carts.Update(ctx, userID, listingID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(ctx, w, userID, http.StatusOK)
}

func (h *CartHandler) remove(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID := UserID(r.Context())
	if err := h.Carts.Remove(ctx, userID, listingID); err != nil {
		writeError(w, err)
		return
	}
	h.respondView(ctx, w, userID, http.StatusOK)
}

func (h *CartHandler) respondView(ctx context.Context, w http.ResponseWriter, userID string, code int) {
	v, err := h.Carts.View(ctx, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, code, v)
}
