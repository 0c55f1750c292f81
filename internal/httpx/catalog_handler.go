package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ecofinds/marketplace/internal/catalog"
)

type ListingStore interface {
	Create(ctx context.Context, sellerID string, f catalog.Fields) (*catalog.Listing, error)
	Get(ctx context.Context, id string) (*catalog.Listing, error)
	Update(ctx context.Context, id, callerID string, f catalog.Fields) (*catalog.Listing, error)
	Delete(ctx context.Context, id, callerID string) error
	Search(ctx context.Context, f catalog.Filter) ([]catalog.Listing, error)
	BySeller(ctx context.Context, sellerID string) ([]catalog.Listing, error)
}

// ListingCache is the optional redis read cache for listing detail
// responses. A nil cache disables caching.
type ListingCache interface {
	Get(ctx context.Context, id string) ([]byte, bool)
	Set(ctx context.Context, id string, body []byte)
	Del(ctx context.Context, ids ...string)
}

type CatalogHandler struct {
	Listings ListingStore
	Cache    ListingCache
}

func (h *CatalogHandler) Register(r *chi.Mux, auth func(http.Handler) http.Handler) {
	r.Get("/listings", h.search)
	r.Get("/listings/{id}", h.get)
	r.Group(func(g chi.Router) {
		g.Use(auth)
		g.Post("/listings", h.create)
		g.Put("/listings/{id}", h.update)
		g.Delete("/listings/{id}", h.delete)
		g.Get("/me/listings", h.mine)
	})
}

func (h *CatalogHandler) search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	q := r.URL.Query()
	f := catalog.Filter{
		Keyword:  q.Get("q"),
		Category: q.Get("category"),
		Sort:     catalog.SortKey(q.Get("sort")),
	}
	ls, err := h.Listings.Search(ctx, f)
	if err != nil {
		writeError(w, err)
		return
	}
	if ls == nil {
		ls = []catalog.Listing{}
	}
	writeJSON(w, http.StatusOK, ls)
}

func (h *CatalogHandler) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if h.Cache != nil {
		if b, ok := h.Cache.Get(ctx, id); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(b)
			return
		}
	}

	l, err := h.Listings.Get(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	b, _ := json.Marshal(l)
	if h.Cache != nil {
		h.Cache.Set(ctx, id, b)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var f catalog.Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.Create(ctx, UserID(r.Context()), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, l)
}

func (h *CatalogHandler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var f catalog.Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	l, err := h.Listings.Update(ctx, id, UserID(r.Context()), f)
	if err != nil {
		writeError(w, err)
		return
	}
	if h.Cache != nil {
		h.Cache.Del(ctx, id)
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *CatalogHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Listings.Delete(ctx, id, UserID(r.Context())); err != nil {
		writeError(w, err)
		return
	}
	if h.Cache != nil {
		h.Cache.Del(ctx, id)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) mine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ls, err := h.Listings.BySeller(ctx, UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if ls == nil {
		ls = []catalog.Listing{}
	}
	writeJSON(w, http.StatusOK, ls)
}
