package notify

import (
	"context"
	"encoding/json"
	"time"

	"reservation-engine/internal/infra"
	"reservation-engine/internal/pkg/clock"
	"reservation-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// QueueEmails is the Redis list the mailer worker consumes.
const QueueEmails = "worker:emails"

// job is the envelope pushed onto the list. The worker renders the
// template named by the notification and sends the mail.
type job struct {
	ID        string    `json:"id"`
	Template  string    `json:"template"`
	Subject   string    `json:"subject"`
	Reason    string    `json:"reason,omitempty"`
	EventID   string    `json:"event_id"`
	Recipient string    `json:"recipient"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue publishes notification jobs to Redis. It implements
// commands.Notifier.
type Queue struct {
	client *redis.Client
	clock  clock.Clock
}

func NewQueue(client *redis.Client, clock clock.Clock) *Queue {
	return &Queue{client: client, clock: clock}
}

func (q *Queue) Publish(ctx context.Context, n commands.Notification) error {
	payload, err := json.Marshal(job{
		ID:        uuid.NewString(),
		Template:  n.Template,
		Subject:   n.Subject,
		Reason:    n.Reason,
		EventID:   n.EventID,
		Recipient: n.Recipient,
		CreatedAt: q.clock.Now(),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to encode notification job", err, infra.KindExternalFailure)
	}
	if err := q.client.LPush(ctx, QueueEmails, payload).Err(); err != nil {
		return infra.WrapRepoErr("failed to enqueue notification job", err, infra.KindExternalFailure)
	}
	return nil
}
