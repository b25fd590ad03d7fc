// Package notify handles outbound notifications: best-effort realtime
// order events over Redis pub/sub, and durable email via a mongo-backed
// outbox drained by a worker.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/go-redis/redis/v8"
)

var rdb *redis.Client

// InitRedis connects the realtime publisher. Without REDIS_ADDR the
// publisher stays disabled and order notifications are skipped.
func InitRedis() {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		log.Println("REDIS_ADDR not set, realtime order notifications disabled")
		return
	}
	rdb = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
	})
}

type orderEvent struct {
	Order_id    string    `json:"order_id"`
	Address     string    `json:"address"`
	Total_price float64   `json:"total_price"`
	Created_at  time.Time `json:"created_at"`
}

// PublishOrder emits an order summary on the fulfilling location's channel.
// Best-effort: failures are logged and never fail the caller.
func PublishOrder(order models.Order) {
	if rdb == nil {
		return
	}
	payload, err := json.Marshal(orderEvent{
		Order_id:    order.Order_id,
		Address:     order.Address,
		Total_price: order.Total_price,
		Created_at:  time.Now(),
	})
	if err != nil {
		log.Printf("Failed to encode order notification: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Publish(ctx, "orders:"+order.Location_id, payload).Err(); err != nil {
		log.Printf("Failed to send order notification: %v", err)
	}
}
