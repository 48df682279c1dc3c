package orderview

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/litego/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// OrderReader reads order roots and repairs their participant mirror.
type OrderReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.OrderDoc, error)
	SetParticipantIDs(ctx context.Context, id primitive.ObjectID, ids []primitive.ObjectID) error
}

// ItemLister lists an order's catalog in display order.
type ItemLister interface {
	ListByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.Item, error)
}

// ParticipantLister lists an order's participant records in join order.
type ParticipantLister interface {
	ListByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.ParticipantRecord, error)
}

// StatusUpdateLister lists an order's timeline in insertion order.
type StatusUpdateLister interface {
	ListByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.StatusUpdate, error)
}

// Loader reads the four sources of an order and composes them.
type Loader struct {
	Orders       OrderReader
	Items        ItemLister
	Participants ParticipantLister
	Updates      StatusUpdateLister
	Composer     *Composer
	Log          *zap.Logger
}

// LoadSources reads the root, items, participants and status updates
// concurrently and returns only after all four reads finish. A missing
// root yields ErrOrderNotFound; any other read error is returned wrapped.
func (l *Loader) LoadSources(ctx context.Context, orderID primitive.ObjectID) (Sources, error) {
	var (
		root    models.OrderDoc
		items   []models.Item
		parts   []models.ParticipantRecord
		updates []models.StatusUpdate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		root, err = l.Orders.GetByID(gctx, orderID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("read order: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if items, err = l.Items.ListByOrder(gctx, orderID); err != nil {
			return fmt.Errorf("read items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if parts, err = l.Participants.ListByOrder(gctx, orderID); err != nil {
			return fmt.Errorf("read participants: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if updates, err = l.Updates.ListByOrder(gctx, orderID); err != nil {
			return fmt.Errorf("read status updates: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Sources{}, err
	}

	return Sources{
		Root:          &root,
		Items:         items,
		Participants:  parts,
		StatusUpdates: updates,
	}, nil
}

// Load reads and composes the order in the composer's language.
func (l *Loader) Load(ctx context.Context, orderID primitive.ObjectID) (models.Order, error) {
	return l.LoadLang(ctx, orderID, language.Und)
}

// LoadLang reads and composes the order, rendering placeholders in tag.
//
// If the root's participant_ids disagree with the participant records, the
// returned order carries the ids derived from the records and the root is
// repaired best-effort.
func (l *Loader) LoadLang(ctx context.Context, orderID primitive.ObjectID, tag language.Tag) (models.Order, error) {
	ctx, span := tracer.Start(ctx, "orderview.Load", trace.WithAttributes(
		attribute.String("order.id", orderID.Hex()),
	))
	defer span.End()

	src, err := l.LoadSources(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	if MirrorDrift(*src.Root, src.Participants) {
		ids := ParticipantIDs(src.Participants)
		l.logger().Warn("participant_ids out of sync, repairing",
			zap.String("order_id", orderID.Hex()),
			zap.Int("mirror", len(src.Root.ParticipantIDs)),
			zap.Int("records", len(ids)))
		if err := l.Orders.SetParticipantIDs(ctx, orderID, ids); err != nil {
			l.logger().Warn("participant_ids repair failed",
				zap.String("order_id", orderID.Hex()),
				zap.Error(err))
		}
		src.Root.ParticipantIDs = ids
	}

	c := l.Composer
	if tag != language.Und {
		c = c.WithLang(tag)
	}
	return c.Compose(ctx, src)
}

func (l *Loader) logger() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}
