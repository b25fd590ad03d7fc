// Package cleanup reaps abandoned checkouts: Pending orders whose
// payment never arrived are removed after a fixed idle window so stale
// redirect sessions don't accumulate forever.
package cleanup

import (
	"context"
	"log"
	"time"

	database "github.com/abanoubmamdouhhanna/cfc/config"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var orderCollection *mongo.Collection = database.OpenCollection(database.Client, "order")

// IdleTimeout is how long a Pending order may sit unpaid before the
// sweep removes it.
const IdleTimeout = 30 * time.Minute

// CancelIdlePendingOrders deletes unpaid Pending orders older than the
// idle timeout. Coupon usage on swept orders is intentionally not
// released; only explicit cancellation frees a coupon.
func CancelIdlePendingOrders(ctx context.Context) {
	cutoff := time.Now().Add(-IdleTimeout)

	result, err := orderCollection.DeleteMany(ctx, bson.M{
		"status":         models.StatusPending,
		"payment_status": models.PaymentPending,
		"created_at":     bson.M{"$lt": cutoff},
	})
	if err != nil {
		log.Printf("idle order sweep failed: %v", err)
		return
	}
	if result.DeletedCount > 0 {
		log.Printf("idle order sweep removed %d abandoned orders", result.DeletedCount)
	}
}

// StartSweep schedules the sweep on a periodic timer, decoupled from
// request handling. The returned cron can be stopped on shutdown.
func StartSweep() *cron.Cron {
	c := cron.New()
	_, err := c.AddFunc("*/30 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
		defer cancel()
		CancelIdlePendingOrders(ctx)
	})
	if err != nil {
		log.Fatalf("failed to schedule idle order sweep: %v", err)
	}
	c.Start()
	return c
}
