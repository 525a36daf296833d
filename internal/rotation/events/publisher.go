package events

import (
	"context"
	"fmt"
	"time"

	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/internal/rotation/service"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/logger"
	"github.com/trueblue-gooms-cmyk/gooms-inventory-sub001/pkg/messaging"
)

// RotationEventPublisher publishes rotation events. It is the notification
// sink for critical expiry alerts and the audit channel for accepted actions.
type RotationEventPublisher struct {
	publisher *messaging.Publisher
	logger    *logger.Logger
}

// NewRotationEventPublisher creates a new rotation event publisher
func NewRotationEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*RotationEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeRotationEvents, "rotation-service", log)
	if err != nil {
		return nil, err
	}

	return &RotationEventPublisher{
		publisher: publisher,
		logger:    log,
	}, nil
}

// EnqueueCriticalAlerts publishes one notification per critical alert.
// Publishing continues past individual failures; the last error is returned
// so the caller can log it.
func (p *RotationEventPublisher) EnqueueCriticalAlerts(ctx context.Context, alerts []service.ExpiryAlert) error {
	var lastErr error

	for _, alert := range alerts {
		payload := messaging.ExpiryAlertPayload{
			Type:    "expiry_alert",
			Title:   "Producto próximo a vencer",
			Message: alertMessage(alert),
			Data: messaging.ExpiryAlertData{
				ProductID:       alert.ProductID,
				LocationName:    alert.LocationName,
				DaysUntilExpiry: alert.DaysUntilExpiry,
			},
			CreatedAt: time.Now().UTC(),
		}

		if err := p.publisher.Publish(ctx, messaging.EventExpiryAlert, payload); err != nil {
			p.logger.Error().Err(err).
				Str("product_id", alert.ProductID).
				Msg("failed to publish expiry alert")
			lastErr = err
		}
	}

	return lastErr
}

func alertMessage(alert service.ExpiryAlert) string {
	if alert.DaysUntilExpiry < 0 {
		return fmt.Sprintf("%s venció hace %d días (%d unidades en %s)",
			alert.ProductName, -alert.DaysUntilExpiry, alert.CurrentQuantity, alert.LocationName)
	}
	return fmt.Sprintf("%s vence en %d días (%d unidades en %s)",
		alert.ProductName, alert.DaysUntilExpiry, alert.CurrentQuantity, alert.LocationName)
}

// AcknowledgeAction publishes an audit event for an accepted suggestion
func (p *RotationEventPublisher) AcknowledgeAction(ctx context.Context, suggestion service.RotationSuggestion) error {
	data := messaging.ActionAcknowledgedEvent{
		ProductID:       suggestion.ProductID,
		ProductName:     suggestion.ProductName,
		LocationID:      suggestion.LocationID,
		Action:          string(suggestion.Action),
		Priority:        string(suggestion.Priority),
		Quantity:        suggestion.Quantity,
		FinancialImpact: suggestion.FinancialImpact.StringFixed(2),
		Reason:          suggestion.Reason,
	}

	return p.publisher.Publish(ctx, messaging.EventActionAcknowledged, data)
}

// PublishRestockSuggested publishes a restock advisory event
func (p *RotationEventPublisher) PublishRestockSuggested(ctx context.Context, s service.RestockSuggestion) {
	data := messaging.RestockSuggestedEvent{
		ProductID:      s.ProductID,
		ProductName:    s.ProductName,
		CurrentStock:   s.CurrentStock,
		MinStock:       s.MinStockUnits,
		SuggestedUnits: s.SuggestedUnits,
		Priority:       string(s.Priority),
	}

	if err := p.publisher.Publish(ctx, messaging.EventRestockSuggested, data); err != nil {
		p.logger.Error().Err(err).
			Str("product_id", s.ProductID).
			Msg("failed to publish restock suggestion")
	}
}
