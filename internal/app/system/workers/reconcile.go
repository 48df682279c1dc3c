package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/litego/internal/app/system/timeouts"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/domain/orderview"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// OrderSource lists recently touched orders and rewrites their mirror.
type OrderSource interface {
	ListUpdatedSince(ctx context.Context, since time.Time, limit int64) ([]models.OrderDoc, error)
	SetParticipantIDs(ctx context.Context, id primitive.ObjectID, ids []primitive.ObjectID) error
}

// ParticipantSource lists an order's participant records.
type ParticipantSource interface {
	ListByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.ParticipantRecord, error)
}

// reconcileBatch caps how many orders one tick inspects.
const reconcileBatch = 500

// ParticipantReconcile rewrites participant_ids on orders whose mirror has
// drifted from order_participants. Every write path touches updated_at, so
// each tick only inspects orders changed since the previous one.
type ParticipantReconcile struct {
	orders       OrderSource
	participants ParticipantSource
	log          *zap.Logger
	interval     time.Duration
	lookback     time.Duration

	mu    sync.Mutex
	since time.Time

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewParticipantReconcile creates the worker. The first tick looks back
// lookback from now; later ticks start where the previous one finished,
// overlapping by one interval.
func NewParticipantReconcile(orders OrderSource, participants ParticipantSource, logger *zap.Logger, interval, lookback time.Duration) *ParticipantReconcile {
	return &ParticipantReconcile{
		orders:       orders,
		participants: participants,
		log:          logger,
		interval:     interval,
		lookback:     lookback,
		since:        time.Now().UTC().Add(-lookback),
		stopCh:       make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *ParticipantReconcile) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("participant reconcile worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("lookback", w.lookback))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *ParticipantReconcile) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("participant reconcile worker stopped")
}

func (w *ParticipantReconcile) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), timeouts.Long())
			w.RunOnce(ctx)
			cancel()
		}
	}
}

// RunOnce performs a single pass and returns the number of repaired orders.
func (w *ParticipantReconcile) RunOnce(ctx context.Context) int {
	w.mu.Lock()
	since := w.since
	w.mu.Unlock()

	started := time.Now().UTC()
	docs, err := w.orders.ListUpdatedSince(ctx, since, reconcileBatch)
	if err != nil {
		w.log.Error("reconcile: list orders failed", zap.Error(err))
		return 0
	}

	repaired := 0
	next := started.Add(-w.interval)
	for _, doc := range docs {
		recs, err := w.participants.ListByOrder(ctx, doc.ID)
		if err != nil {
			w.log.Warn("reconcile: list participants failed",
				zap.String("order_id", doc.ID.Hex()), zap.Error(err))
			continue
		}
		if !orderview.MirrorDrift(doc, recs) {
			continue
		}
		if err := w.orders.SetParticipantIDs(ctx, doc.ID, orderview.ParticipantIDs(recs)); err != nil {
			w.log.Warn("reconcile: repair failed",
				zap.String("order_id", doc.ID.Hex()), zap.Error(err))
			continue
		}
		repaired++
	}

	// A full batch means there may be more; resume after the last one seen.
	if len(docs) == reconcileBatch {
		next = docs[len(docs)-1].UpdatedAt
	}
	w.mu.Lock()
	w.since = next
	w.mu.Unlock()

	if repaired > 0 {
		w.log.Info("reconciled participant mirrors", zap.Int("orders", repaired))
	}
	return repaired
}
