package notify

import (
	"testing"
	"time"

	"github.com/abanoubmamdouhhanna/cfc/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestClaimMarksRecordSending(t *testing.T) {
	now := time.Now()

	update := claimUpdate(now)
	set, ok := update["$set"].(bson.M)
	require.True(t, ok)

	// A claimed record must leave the pending pool immediately, otherwise
	// a second worker could re-claim it mid-send.
	assert.Equal(t, models.NotifySending, set["status"])
	assert.Equal(t, bson.M{"attempts": 1}, update["$inc"])
}

func TestClaimFilterTakesPendingAndStaleSending(t *testing.T) {
	now := time.Now()

	filter := claimFilter(now)
	assert.Equal(t, bson.M{"$lt": maxDeliveryAttempts}, filter["attempts"])

	branches, ok := filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, branches, 2)

	assert.Equal(t, bson.M{"status": models.NotifyPending}, branches[0])

	// In-flight records are only reclaimable once the claim has gone
	// stale; a fresh sending record stays with its worker.
	assert.Equal(t, models.NotifySending, branches[1]["status"])
	stale, ok := branches[1]["updated_at"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, now.Add(-staleClaimAge), stale["$lt"])
}
