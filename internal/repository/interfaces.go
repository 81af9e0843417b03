package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medex/marketplace-api/internal/model"
)

// Core marketplace state (organizations, patients, records, listings,
// purchases, balances) lives in the in-memory store under a single lock;
// see repository/memory. Postgres is used only for the event outbox
// journal below.

// OutboxRepository journals domain events until the relay worker has
// published them to the broker.
type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	MarkProcessed(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string, retryAt time.Time) error
	DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
}
