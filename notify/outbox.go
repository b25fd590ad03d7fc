package notify

import (
	"context"
	"log"
	"time"

	database "github.com/abanoubmamdouhhanna/cfc/config"
	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var notificationCollection *mongo.Collection = database.OpenCollection(database.Client, "notification")

const (
	maxDeliveryAttempts = 5

	// staleClaimAge bounds how long a record may sit in sending before
	// another worker may assume its claimant died and take it over.
	staleClaimAge = 5 * time.Minute
)

// Enqueue records a notification for later delivery. Enqueuing is the only
// thing request handlers do; the worker owns actual sending.
func Enqueue(ctx context.Context, notificationType, to, subject, body, attachmentURL string) error {
	n := models.Notification{
		Notification_id: uuid.NewString(),
		Type:            notificationType,
		To:              to,
		Subject:         subject,
		Body:            body,
		Attachment_url:  attachmentURL,
		Status:          models.NotifyPending,
		Created_at:      time.Now(),
		Updated_at:      time.Now(),
	}
	_, err := notificationCollection.InsertOne(ctx, n)
	return err
}

// Sender delivers one notification.
type Sender interface {
	Send(n models.Notification) error
}

// Worker drains the outbox on an interval.
type Worker struct {
	Sender   Sender
	Interval time.Duration
}

// Run blocks until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	interval := w.Interval
	if interval == 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.drain(ctx)
		}
	}
}

// claimFilter selects records a worker may take: pending ones, plus
// sending ones whose claim has gone stale (claimant died mid-send).
func claimFilter(now time.Time) bson.M {
	return bson.M{
		"attempts": bson.M{"$lt": maxDeliveryAttempts},
		"$or": []bson.M{
			{"status": models.NotifyPending},
			{"status": models.NotifySending, "updated_at": bson.M{"$lt": now.Add(-staleClaimAge)}},
		},
	}
}

// claimUpdate moves a record into sending so no other worker re-claims it
// while delivery is in flight.
func claimUpdate(now time.Time) bson.M {
	return bson.M{
		"$inc": bson.M{"attempts": 1},
		"$set": bson.M{"status": models.NotifySending, "updated_at": now},
	}
}

func (w *Worker) drain(ctx context.Context) {
	for {
		// Claim one record at a time; the sending status keeps concurrent
		// workers off it until the claim goes stale.
		var n models.Notification
		err := notificationCollection.FindOneAndUpdate(ctx,
			claimFilter(time.Now()),
			claimUpdate(time.Now()),
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&n)
		if err != nil {
			return // nothing claimable, or store unavailable; next tick retries
		}

		if sendErr := w.Sender.Send(n); sendErr != nil {
			log.Printf("Notification %s delivery failed (attempt %d): %v", n.Notification_id, n.Attempts, sendErr)
			status := models.NotifyPending
			if n.Attempts >= maxDeliveryAttempts {
				status = models.NotifyFailed
			}
			_, _ = notificationCollection.UpdateOne(ctx,
				bson.M{"notification_id": n.Notification_id},
				bson.M{"$set": bson.M{"status": status, "last_error": sendErr.Error(), "updated_at": time.Now()}})
			continue
		}

		_, _ = notificationCollection.UpdateOne(ctx,
			bson.M{"notification_id": n.Notification_id},
			bson.M{"$set": bson.M{"status": models.NotifySent, "updated_at": time.Now()}})
	}
}
