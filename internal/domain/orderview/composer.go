// Package orderview assembles the read-side Order aggregate from the order
// root and its three child collections, and derives the figures a client
// shows next to it.
package orderview

import (
	"context"
	"errors"

	"github.com/dalemusser/litego/internal/domain/locale"
	"github.com/dalemusser/litego/internal/domain/models"
	"github.com/dalemusser/litego/internal/domain/orderlogic"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

// ErrOrderNotFound is returned when the order root does not exist. Callers
// must treat it as "no such order", never as a degraded view.
var ErrOrderNotFound = errors.New("order not found")

// ErrUserNotFound is what a UserLookup returns for an unknown id.
var ErrUserNotFound = errors.New("user not found")

// DefaultLookupConcurrency bounds concurrent user lookups per composition.
const DefaultLookupConcurrency = 8

var tracer = otel.Tracer("github.com/dalemusser/litego/internal/domain/orderview")

// UserLookup resolves a user's display identity.
type UserLookup interface {
	LookupUser(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// Sources are the four independently read inputs of a composition.
// Root is nil when the order does not exist.
type Sources struct {
	Root          *models.OrderDoc
	Items         []models.Item
	Participants  []models.ParticipantRecord
	StatusUpdates []models.StatusUpdate
}

// Composer turns Sources into a models.Order.
type Composer struct {
	Users       UserLookup
	Log         *zap.Logger
	Lang        language.Tag
	Concurrency int
}

// NewComposer returns a Composer that renders placeholders in the default language.
func NewComposer(users UserLookup, logger *zap.Logger) *Composer {
	return &Composer{
		Users:       users,
		Log:         logger,
		Lang:        locale.Default,
		Concurrency: DefaultLookupConcurrency,
	}
}

// WithLang returns a copy of c that renders placeholders in tag.
func (c *Composer) WithLang(tag language.Tag) *Composer {
	cp := *c
	cp.Lang = locale.Match(tag)
	return &cp
}

// Compose builds the aggregate.
//
// Only a missing root fails the composition. A user that cannot be
// resolved becomes a placeholder, and a selection whose item is gone keeps
// its snapshot name and price. Stored participant totals are trusted as-is.
// The returned participants follow the input order.
func (c *Composer) Compose(ctx context.Context, src Sources) (models.Order, error) {
	if src.Root == nil {
		return models.Order{}, ErrOrderNotFound
	}
	root := *src.Root

	ctx, span := tracer.Start(ctx, "orderview.Compose", trace.WithAttributes(
		attribute.String("order.id", root.ID.Hex()),
		attribute.Int("order.participants", len(src.Participants)),
	))
	defer span.End()

	log := c.logger().With(zap.String("order_id", root.ID.Hex()))

	var initiator models.User
	users := make([]models.User, len(src.Participants))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency())

	g.Go(func() error {
		initiator = c.resolveInitiator(gctx, root, log)
		return nil
	})
	for i, rec := range src.Participants {
		g.Go(func() error {
			users[i] = c.resolveParticipant(gctx, rec.UserID, log)
			return nil
		})
	}
	// Lookups absorb their own failures, so Wait only reports cancellation.
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return models.Order{}, err
	}

	catalog := NewCatalog(src.Items)
	missingName := locale.T(c.lang(), locale.KeyDeletedItem)

	participants := make([]models.Participant, 0, len(src.Participants))
	for i, rec := range src.Participants {
		items := make([]models.CartItem, 0, len(rec.Items))
		for _, sel := range rec.Items {
			ci, found := catalog.Hydrate(sel, missingName)
			if !found {
				log.Warn("cart item references missing catalog item",
					zap.String("user_id", rec.UserID.Hex()),
					zap.String("item_id", sel.ItemID.Hex()))
			} else if stale := orderlogic.UnresolvedSelections(ci); len(stale) > 0 {
				log.Warn("cart item has unresolved attribute selections",
					zap.String("user_id", rec.UserID.Hex()),
					zap.String("item_id", sel.ItemID.Hex()),
					zap.Strings("attribute_ids", stale))
			}
			items = append(items, ci)
		}
		participants = append(participants, models.Participant{
			ID:        rec.UserID,
			User:      users[i],
			Items:     items,
			TotalCost: rec.TotalCost,
			Paid:      rec.Paid,
			JoinedAt:  rec.JoinedAt,
		})
	}

	items := src.Items
	if items == nil {
		items = []models.Item{}
	}
	updates := src.StatusUpdates
	if updates == nil {
		updates = []models.StatusUpdate{}
	}

	return models.Order{
		OrderDoc:       root,
		Initiator:      initiator,
		Participants:   participants,
		AvailableItems: items,
		StatusUpdates:  updates,
	}, nil
}

func (c *Composer) resolveInitiator(ctx context.Context, root models.OrderDoc, log *zap.Logger) models.User {
	u, err := c.lookup(ctx, root.InitiatorID)
	if err == nil {
		return u
	}
	c.logLookupMiss(log, "initiator", root.InitiatorID, err)
	return models.User{ID: root.InitiatorID, Name: root.InitiatorName}
}

func (c *Composer) resolveParticipant(ctx context.Context, id primitive.ObjectID, log *zap.Logger) models.User {
	u, err := c.lookup(ctx, id)
	if err == nil {
		return u
	}
	c.logLookupMiss(log, "participant", id, err)
	return models.User{ID: id, Name: locale.T(c.lang(), locale.KeyUnknownUser)}
}

func (c *Composer) lookup(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	if c.Users == nil {
		return models.User{}, ErrUserNotFound
	}
	return c.Users.LookupUser(ctx, id)
}

func (c *Composer) logLookupMiss(log *zap.Logger, role string, id primitive.ObjectID, err error) {
	if errors.Is(err, ErrUserNotFound) {
		log.Warn("user not found, using placeholder",
			zap.String("role", role),
			zap.String("user_id", id.Hex()))
		return
	}
	log.Warn("user lookup failed, using placeholder",
		zap.String("role", role),
		zap.String("user_id", id.Hex()),
		zap.Error(err))
}

func (c *Composer) logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}

func (c *Composer) lang() language.Tag {
	if c.Lang == language.Und {
		return locale.Default
	}
	return c.Lang
}

func (c *Composer) concurrency() int {
	if c.Concurrency <= 0 {
		return DefaultLookupConcurrency
	}
	return c.Concurrency
}
