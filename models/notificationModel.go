package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification delivery states for the outbox. Sending marks a record
// claimed by a worker so a concurrent worker can't re-claim it mid-send.
const (
	NotifyPending = "pending"
	NotifySending = "sending"
	NotifySent    = "sent"
	NotifyFailed  = "failed"
)

// Notification is an outbox record. Workflows enqueue these instead of
// sending mail inline; a worker drains the collection and delivers.
type Notification struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	Notification_id string             `bson:"notification_id" json:"notification_id"`
	Type            string             `bson:"type" json:"type"`
	To              string             `bson:"to" json:"to" validate:"required,email"`
	Subject         string             `bson:"subject" json:"subject"`
	Body            string             `bson:"body" json:"body"`
	Attachment_url  string             `bson:"attachment_url,omitempty" json:"attachment_url,omitempty"`
	Status          string             `bson:"status" json:"status"`
	Attempts        int                `bson:"attempts" json:"attempts"`
	Last_error      string             `bson:"last_error,omitempty" json:"last_error,omitempty"`
	Created_at      time.Time          `bson:"created_at" json:"created_at"`
	Updated_at      time.Time          `bson:"updated_at" json:"updated_at"`
}
