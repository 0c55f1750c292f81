// Package notifier consumes order-completed events and fans them out to
// buyers: a log line standing in for email, plus a rolling recent-sales
// feed kept in redis.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/ecofinds/marketplace/internal/events"
	kafkax "github.com/ecofinds/marketplace/internal/kafka"
	"github.com/ecofinds/marketplace/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleOrderCompleted is wired as the consumer handler. Processing is
// idempotent: redeliveries dedup on event_id.
func (s *Service) HandleOrderCompleted(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != events.EventOrderCompleted {
		return nil // ignore
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	exists, _ := redisx.Exists(ctx, s.Redis, dkey)
	if exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[events.OrderCompletedPayload](env.Payload)
	if err != nil {
		return err
	}

	log.Printf("notify buyer=%s order=%s items=%d total_cents=%d",
		p.BuyerID, p.OrderID, len(p.Items), p.TotalCents)

	for _, it := range p.Items {
		entry := kafkax.MustMarshal(map[string]any{
			"listing_id":  it.ListingID,
			"title":       it.Title,
			"price_cents": it.PriceCents,
			"order_id":    p.OrderID,
		})
		pipe := s.Redis.Pipeline()
		pipe.LPush(ctx, redisx.KeyRecentSales, entry)
		pipe.LTrim(ctx, redisx.KeyRecentSales, 0, redisx.RecentSalesMax-1)
		if _, err := pipe.Exec(ctx); err != nil {
			log.Printf("recent sales feed: %v", err)
		}
	}
	return nil
}
