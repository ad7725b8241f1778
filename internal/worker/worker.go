package worker

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/broker"
	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// OrderArchiver persists placed orders
type OrderArchiver interface {
	ArchiveOrder(ctx context.Context, sessionID string, order *models.Order) (bool, error)
}

// EventDeduper remembers which events were already handled
type EventDeduper interface {
	MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	UnmarkEventProcessed(ctx context.Context, eventID string) error
}

// ArchiveWorker copies OrderPlaced events into the order archive
type ArchiveWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	archiver     OrderArchiver
	deduper      EventDeduper
	dedupTTL     time.Duration
	logger       *zap.Logger
}

// NewArchiveWorker creates a new archive worker
func NewArchiveWorker(
	consumer *broker.Consumer,
	archiver OrderArchiver,
	deduper EventDeduper,
	dedupTTL time.Duration,
) *ArchiveWorker {
	w := &ArchiveWorker{
		consumer:     consumer,
		eventHandler: broker.NewEventHandler(),
		archiver:     archiver,
		deduper:      deduper,
		dedupTTL:     dedupTTL,
		logger:       util.GetLogger(),
	}
	w.eventHandler.OnOrderPlaced(w.HandleOrderPlaced)
	return w
}

// Start consumes events until ctx is cancelled
func (w *ArchiveWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting archive worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *ArchiveWorker) Stop() error {
	w.logger.Info("Stopping archive worker")
	return w.consumer.Close()
}

// HandleOrderPlaced archives one order. Redelivered events are skipped.
func (w *ArchiveWorker) HandleOrderPlaced(ctx context.Context, event *models.OrderPlacedEvent) error {
	ctx, span := util.StartSpan(ctx, "ArchiveWorker.HandleOrderPlaced")
	defer span.End()

	first, err := w.deduper.MarkEventProcessed(ctx, event.EventID, w.dedupTTL)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if !first {
		util.OrdersArchiveSkippedTotal.WithLabelValues("duplicate_event").Inc()
		w.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	start := time.Now()
	inserted, err := w.archiver.ArchiveOrder(ctx, event.SessionID, &event.Order)
	util.ArchiveLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		if uerr := w.deduper.UnmarkEventProcessed(ctx, event.EventID); uerr != nil {
			w.logger.Error("Failed to unmark event", zap.String("event_id", event.EventID), zap.Error(uerr))
		}
		return fmt.Errorf("failed to archive order %s: %w", event.Order.OrderID, err)
	}

	if !inserted {
		util.OrdersArchiveSkippedTotal.WithLabelValues("already_archived").Inc()
		return nil
	}

	util.OrdersArchivedTotal.Inc()
	w.logger.Info("Order archived",
		zap.String("session_id", event.SessionID),
		zap.String("order_id", event.Order.OrderID))
	return nil
}
