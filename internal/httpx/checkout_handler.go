package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ecofinds/marketplace/internal/checkout"
	"github.com/ecofinds/marketplace/internal/events"
	kafkax "github.com/ecofinds/marketplace/internal/kafka"
)

type CommitEngine interface {
	Commit(ctx context.Context, buyerID string) (*checkout.Order, error)
}

type HistoryStore interface {
	List(ctx context.Context, buyerID string) ([]checkout.Order, error)
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type CheckoutHandler struct {
	Engine        CommitEngine
	History       HistoryStore
	OrderProducer Publisher // marketplace.order.completed
	SoldProducer  Publisher // marketplace.listing.sold
	Cache         ListingCache
	Service       string
}

func (h *CheckoutHandler) Register(r *chi.Mux, auth func(http.Handler) http.Handler) {
	r.Group(func(g chi.Router) {
		g.Use(auth)
		g.Post("/checkout", h.commit)
		g.Get("/purchases", h.purchases)
	})
}

func (h *CheckoutHandler) commit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Engine.Commit(ctx, UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	// sold listings must not be served from stale cache entries
	if h.Cache != nil {
		ids := make([]string, 0, len(order.Items))
		for _, it := range order.Items {
			ids = append(ids, it.ListingID)
		}
		h.Cache.Del(ctx, ids...)
	}

	h.publishCompleted(order, r.Header.Get("X-Request-Id"))
	writeJSON(w, http.StatusCreated, order)
}

func (h *CheckoutHandler) purchases(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	orders, err := h.History.List(ctx, UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []checkout.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// publishCompleted emits the post-commit events: one order.completed plus
// one listing.sold per item. Events are best-effort; the order is already
// durable in Postgres.
func (h *CheckoutHandler) publishCompleted(order *checkout.Order, traceID string) {
	if h.OrderProducer == nil {
		return
	}
	sold := make([]events.SoldItem, 0, len(order.Items))
	for _, it := range order.Items {
		sold = append(sold, events.SoldItem{
			ListingID:  it.ListingID,
			Title:      it.Title,
			PriceCents: it.PriceCents,
		})
	}
	ev := events.Envelope{
		EventID:       uuid.NewString(),
		EventType:     events.EventOrderCompleted,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       traceID,
		CorrelationID: order.ID,
		Payload: kafkax.MustMarshal(events.OrderCompletedPayload{
			OrderID:    order.ID,
			BuyerID:    order.BuyerID,
			Items:      sold,
			TotalCents: order.TotalCents,
		}),
	}
	h.OrderProducer.Publish(events.PartitionKey(order.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(events.EventOrderCompleted)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	if h.SoldProducer == nil {
		return
	}
	for _, it := range sold {
		sev := events.Envelope{
			EventID:       uuid.NewString(),
			EventType:     events.EventListingSold,
			EventVersion:  1,
			OccurredAt:    time.Now().UTC(),
			Producer:      h.Service,
			TraceID:       traceID,
			CorrelationID: order.ID,
			Payload: kafkax.MustMarshal(events.ListingSoldPayload{
				ListingID:  it.ListingID,
				OrderID:    order.ID,
				Title:      it.Title,
				PriceCents: it.PriceCents,
			}),
		}
		h.SoldProducer.Publish(events.PartitionKey(order.ID), kafkax.MustMarshal(sev),
			kafkago.Header{Key: "x-event-type", Value: []byte(events.EventListingSold)},
			kafkago.Header{Key: "x-event-version", Value: []byte("1")},
		)
	}
}
