package consumers

import (
	"context"
	"fmt"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/service"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/logger"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/messaging"
)

const movementQueueName = "rotation-service.inventory-movements"

// RotationRefresher triggers a report refresh
type RotationRefresher interface {
	Refresh(ctx context.Context) (*service.RotationReport, error)
}

// MovementEventConsumer refreshes the rotation report when inventory moves,
// so operators see changes without waiting for the next timer tick.
type MovementEventConsumer struct {
	consumer *messaging.Consumer
	service  RotationRefresher
	logger   *logger.Logger
}

// NewMovementEventConsumer creates a consumer bound to inventory movement events
func NewMovementEventConsumer(rmq *messaging.RabbitMQ, svc RotationRefresher, log *logger.Logger) (*MovementEventConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, movementQueueName, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create movement consumer: %w", err)
	}

	if err := consumer.Subscribe(messaging.ExchangeInventoryEvents, "inventory.movement.*"); err != nil {
		return nil, fmt.Errorf("failed to subscribe to inventory events: %w", err)
	}

	c := &MovementEventConsumer{
		consumer: consumer,
		service:  svc,
		logger:   log,
	}

	consumer.RegisterHandler(messaging.EventMovementRecorded, c.handleMovementRecorded)

	return c, nil
}

// Start starts consuming movement events
func (c *MovementEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *MovementEventConsumer) handleMovementRecorded(ctx context.Context, event *messaging.Event) error {
	var movement messaging.MovementRecordedEvent
	if err := event.UnmarshalData(&movement); err != nil {
		return fmt.Errorf("failed to unmarshal movement event: %w", err)
	}

	c.logger.Debug().
		Str("movement_id", movement.MovementID).
		Str("product_id", movement.ProductID).
		Str("movement_type", movement.MovementType).
		Msg("inventory movement received, refreshing rotation report")

	if _, err := c.service.Refresh(ctx); err != nil {
		// Ack anyway: the report is derived data and the next scheduled
		// refresh recomputes it from scratch, so requeueing buys nothing.
		c.logger.Error().Err(err).
			Str("movement_id", movement.MovementID).
			Msg("rotation refresh after movement failed")
	}

	return nil
}
