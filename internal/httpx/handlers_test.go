package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ecofinds/marketplace/internal/cart"
	"github.com/ecofinds/marketplace/internal/catalog"
	"github.com/ecofinds/marketplace/internal/checkout"
)

type fakeEngine struct {
	order *checkout.Order
	err   error
	calls int
}

func (f *fakeEngine) Commit(ctx context.Context, buyerID string) (*checkout.Order, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	o := *f.order
	o.BuyerID = buyerID
	return &o, nil
}

type fakeHistory struct{ orders []checkout.Order }

func (f *fakeHistory) List(ctx context.Context, buyerID string) ([]checkout.Order, error) {
	return f.orders, nil
}

type fakePublisher struct{ messages [][]byte }

func (f *fakePublisher) Publish(key, value []byte, headers ...kafkago.Header) {
	f.messages = append(f.messages, value)
}

type fakeCache struct{ deleted []string }

func (f *fakeCache) Get(ctx context.Context, id string) ([]byte, bool) { return nil, false }
func (f *fakeCache) Set(ctx context.Context, id string, body []byte)   {}
func (f *fakeCache) Del(ctx context.Context, ids ...string)            { f.deleted = append(f.deleted, ids...) }

func authedRequest(t *testing.T, secret []byte, method, target, body string) *http.Request {
	t.Helper()
	token, err := IssueToken(secret, "buyer-1", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.Header.Set("Authorization", "Bearer "+token)
	return r
}

func TestAuthenticator(t *testing.T) {
	secret := []byte("test-secret")
	mux := NewRouter()
	mux.Group(func(g chi.Router) {
		g.Use(Authenticator(secret))
		g.Get("/whoami", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"user_id": UserID(r.Context())})
		})
	})

	t.Run("rejects missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/whoami", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got %d, want 401", rec.Code)
		}
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := authedRequest(t, []byte("wrong-secret"), http.MethodGet, "/whoami", "")
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("got %d, want 401", rec.Code)
		}
	})

	t.Run("threads subject through context", func(t *testing.T) {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, authedRequest(t, secret, http.MethodGet, "/whoami", ""))
		if rec.Code != http.StatusOK {
			t.Fatalf("got %d, want 200", rec.Code)
		}
		var resp map[string]string
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp["user_id"] != "buyer-1" {
			t.Errorf("user_id = %q, want buyer-1", resp["user_id"])
		}
	})
}

func TestCheckoutHandlerCommit(t *testing.T) {
	secret := []byte("test-secret")
	auth := Authenticator(secret)

	newMux := func(h *CheckoutHandler) http.Handler {
		mux := NewRouter()
		h.Register(mux, auth)
		return mux
	}

	t.Run("success returns order, clears cache, publishes events", func(t *testing.T) {
		order := &checkout.Order{
			ID:         "order-1",
			TotalCents: 5000,
			Items: []checkout.OrderItem{
				{ListingID: "bike", Title: "Bike", PriceCents: 5000, Quantity: 1},
			},
			CreatedAt: time.Now().UTC(),
		}
		orderPub := &fakePublisher{}
		soldPub := &fakePublisher{}
		cache := &fakeCache{}
		h := &CheckoutHandler{
			Engine:        &fakeEngine{order: order},
			History:       &fakeHistory{},
			OrderProducer: orderPub,
			SoldProducer:  soldPub,
			Cache:         cache,
			Service:       "test",
		}
		rec := httptest.NewRecorder()
		newMux(h).ServeHTTP(rec, authedRequest(t, secret, http.MethodPost, "/checkout", ""))

		if rec.Code != http.StatusCreated {
			t.Fatalf("got %d, want 201: %s", rec.Code, rec.Body.String())
		}
		var got checkout.Order
		_ = json.Unmarshal(rec.Body.Bytes(), &got)
		if got.ID != "order-1" || got.BuyerID != "buyer-1" || got.TotalCents != 5000 {
			t.Errorf("unexpected order: %+v", got)
		}
		if len(cache.deleted) != 1 || cache.deleted[0] != "bike" {
			t.Errorf("cache invalidations = %v, want [bike]", cache.deleted)
		}
		if len(orderPub.messages) != 1 {
			t.Errorf("order.completed events = %d, want 1", len(orderPub.messages))
		}
		if len(soldPub.messages) != 1 {
			t.Errorf("listing.sold events = %d, want 1", len(soldPub.messages))
		}
	})

	t.Run("conflict reports offending listing ids and publishes nothing", func(t *testing.T) {
		orderPub := &fakePublisher{}
		h := &CheckoutHandler{
			Engine:        &fakeEngine{err: &checkout.ConflictError{ListingIDs: []string{"bike", "lamp"}}},
			History:       &fakeHistory{},
			OrderProducer: orderPub,
		}
		rec := httptest.NewRecorder()
		newMux(h).ServeHTTP(rec, authedRequest(t, secret, http.MethodPost, "/checkout", ""))

		if rec.Code != http.StatusConflict {
			t.Fatalf("got %d, want 409", rec.Code)
		}
		var resp struct {
			Conflicts []string `json:"conflicts"`
		}
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if len(resp.Conflicts) != 2 || resp.Conflicts[0] != "bike" {
			t.Errorf("conflicts = %v, want [bike lamp]", resp.Conflicts)
		}
		if len(orderPub.messages) != 0 {
			t.Errorf("no events expected on conflict, got %d", len(orderPub.messages))
		}
	})

	t.Run("empty cart is unprocessable", func(t *testing.T) {
		h := &CheckoutHandler{Engine: &fakeEngine{err: checkout.ErrEmptyCart}, History: &fakeHistory{}}
		rec := httptest.NewRecorder()
		newMux(h).ServeHTTP(rec, authedRequest(t, secret, http.MethodPost, "/checkout", ""))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("got %d, want 422", rec.Code)
		}
	})

	t.Run("invalid quantity is unprocessable", func(t *testing.T) {
		h := &CheckoutHandler{
			Engine:  &fakeEngine{err: &checkout.InvalidQuantityError{ListingID: "bike", Quantity: 3}},
			History: &fakeHistory{},
		}
		rec := httptest.NewRecorder()
		newMux(h).ServeHTTP(rec, authedRequest(t, secret, http.MethodPost, "/checkout", ""))
		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("got %d, want 422", rec.Code)
		}
	})
}

type fakeCarts struct {
	addErr error
	view   cart.View
	added  int
}

func (f *fakeCarts) Add(ctx context.Context, userID, listingID string, qty int) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added++
	return nil
}
func (f *fakeCarts) Update(ctx context.Context, userID, listingID string, qty int) error { return nil }
func (f *fakeCarts) Remove(ctx context.Context, userID, listingID string) error          { return nil }
func (f *fakeCarts) View(ctx context.Context, userID string) (*cart.View, error) {
	v := f.view
	return &v, nil
}

func TestCartHandlerAdd(t *testing.T) {
	secret := []byte("test-secret")
	auth := Authenticator(secret)

	t.Run("stale listing reference is not found, cart unchanged", func(t *testing.T) {
		carts := &fakeCarts{addErr: catalog.ErrNotFound}
		h := &CartHandler{Carts: carts}
		mux := NewRouter()
		h.Register(mux, auth)

		rec := httptest.NewRecorder()
		req := authedRequest(t, secret, http.MethodPost, "/cart/items", `{"listing_id":"gone","quantity":1}`)
		mux.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("got %d, want 404", rec.Code)
		}
		if carts.added != 0 {
			t.Errorf("cart mutated on failed add")
		}
	})

	t.Run("sold listing cannot be added", func(t *testing.T) {
		h := &CartHandler{Carts: &fakeCarts{addErr: catalog.ErrInvalidState}}
		mux := NewRouter()
		h.Register(mux, auth)

		rec := httptest.NewRecorder()
		req := authedRequest(t, secret, http.MethodPost, "/cart/items", `{"listing_id":"sold-one","quantity":1}`)
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Errorf("got %d, want 409", rec.Code)
		}
	})
}
