package event

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository"
	"github.com/medex/marketplace-api/pkg/messaging"
)

const (
	maxRetries = 3
	retryDelay = 5 * time.Second
)

// Service journals domain events to the outbox and attempts immediate
// publication to the broker. The relay worker picks up whatever the
// immediate attempt missed.
type Service struct {
	outboxRepo repository.OutboxRepository
	broker     messaging.Broker
	logger     *zerolog.Logger
}

func NewService(outboxRepo repository.OutboxRepository, broker messaging.Broker, logger *zerolog.Logger) *Service {
	return &Service{
		outboxRepo: outboxRepo,
		broker:     broker,
		logger:     logger,
	}
}

// Emit journals the event. The caller's state change has already
// committed, so journal failures are logged and swallowed.
func (s *Service) Emit(ctx context.Context, eventType string, payload interface{}) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		return
	}

	evt := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   payloadJSON,
	}

	if err := s.outboxRepo.Create(ctx, evt); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("failed to journal event")
		return
	}

	go s.tryPublish(evt)
}

func (s *Service) tryPublish(evt *model.OutboxEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.broker.Publish(ctx, evt.EventType, evt.Payload); err != nil {
		s.logger.Warn().Err(err).Str("event_type", evt.EventType).Msg("immediate publish failed, leaving for relay worker")
		return
	}

	if err := s.outboxRepo.MarkProcessed(ctx, evt.ID); err != nil {
		s.logger.Error().Err(err).Stringer("event_id", evt.ID).Msg("failed to mark event processed")
	}
}

// ProcessPendingEvents drains the outbox once; the relay worker calls this
// on a ticker.
func (s *Service) ProcessPendingEvents(ctx context.Context) error {
	events, err := s.outboxRepo.GetPendingEvents(ctx, 100)
	if err != nil {
		return err
	}

	for _, evt := range events {
		if err := s.broker.Publish(ctx, evt.EventType, evt.Payload); err != nil {
			retryAt := time.Now().Add(retryDelay * time.Duration(evt.RetryCount+1))
			if evt.RetryCount+1 >= maxRetries {
				s.logger.Error().Err(err).Stringer("event_id", evt.ID).Msg("event exhausted retries")
			}
			if markErr := s.outboxRepo.MarkFailed(ctx, evt.ID, err.Error(), retryAt); markErr != nil {
				s.logger.Error().Err(markErr).Stringer("event_id", evt.ID).Msg("failed to mark event failed")
			}
			continue
		}
		if err := s.outboxRepo.MarkProcessed(ctx, evt.ID); err != nil {
			s.logger.Error().Err(err).Stringer("event_id", evt.ID).Msg("failed to mark event processed")
		}
	}

	return nil
}

// CleanupProcessedEvents removes processed events older than the cutoff.
func (s *Service) CleanupProcessedEvents(ctx context.Context, olderThan time.Duration) error {
	count, err := s.outboxRepo.DeleteProcessedBefore(ctx, time.Now().Add(-olderThan))
	if err != nil {
		return err
	}
	if count > 0 {
		s.logger.Debug().Int64("deleted", count).Msg("cleaned up processed events")
	}
	return nil
}
