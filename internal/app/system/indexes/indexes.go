// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each collection's set is idempotent.
Errors are aggregated so every problem is visible and startup fails fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, s := range sets() {
		if err := ensureIndexSet(ctx, db.Collection(s.collection), s.models); err != nil {
			problems = append(problems, s.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type indexSet struct {
	collection string
	models     []mongo.IndexModel
}

func sets() []indexSet {
	return []indexSet{
		{"users", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "google_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_users_google_id"),
			},
			{
				Keys:    bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_users_nameci_id"),
			},
		}},
		{"orders", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "initiator_id", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_orders_initiator_created"),
			},
			{
				// Multikey: answers "orders I joined".
				Keys:    bson.D{{Key: "participant_ids", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_orders_participants_created"),
			},
			{
				Keys:    bson.D{{Key: "visibility", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_orders_visibility_status_created"),
			},
			{
				Keys:    bson.D{{Key: "updated_at", Value: 1}},
				Options: options.Index().SetName("idx_orders_updated"),
			},
		}},
		{"order_items", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "order_id", Value: 1}, {Key: "position", Value: 1}},
				Options: options.Index().SetName("idx_order_items_order_position"),
			},
		}},
		{"order_participants", []mongo.IndexModel{
			{
				// One record per user per order; a second join fails with E11000.
				Keys:    bson.D{{Key: "order_id", Value: 1}, {Key: "user_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_order_participants_order_user"),
			},
			{
				Keys:    bson.D{{Key: "order_id", Value: 1}, {Key: "joined_at", Value: 1}},
				Options: options.Index().SetName("idx_order_participants_order_joined"),
			},
		}},
		{"order_status_updates", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "order_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("idx_order_status_updates_order_created"),
			},
		}},
		{"oauth_states", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "state", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_oauth_states_state"),
			},
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0).SetName("ttl_oauth_states_expires"),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                       */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name               string `bson:"name"`
	Key                bson.D `bson:"key"`
	Unique             *bool  `bson:"unique,omitempty"`
	ExpireAfterSeconds *int32 `bson:"expireAfterSeconds,omitempty"`
}

type desiredIndex struct {
	model  mongo.IndexModel
	name   string
	sig    string
	unique bool
	ttl    *int32
}

func describe(m mongo.IndexModel) desiredIndex {
	d := desiredIndex{model: m, sig: keySig(m.Keys.(bson.D))}
	if m.Options != nil {
		if m.Options.Name != nil {
			d.name = *m.Options.Name
		}
		d.unique = m.Options.Unique != nil && *m.Options.Unique
		d.ttl = m.Options.ExpireAfterSeconds
	}
	return d
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

// sameOptions compares the options that matter for reuse.
func (d desiredIndex) sameOptions(ex existingIndex) bool {
	exUnique := ex.Unique != nil && *ex.Unique
	if d.unique != exUnique {
		return false
	}
	if (d.ttl == nil) != (ex.ExpireAfterSeconds == nil) {
		return false
	}
	return d.ttl == nil || *d.ttl == *ex.ExpireAfterSeconds
}

// isDuplicateKeyErr is a best-effort E11000 detector.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if mongo.IsDuplicateKeyError(err) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(idx.Key)] = idx
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	// A collection that does not exist yet has no indexes; List reports
	// NamespaceNotFound on some servers, so treat a failure as empty.
	existing, err := listExisting(ctx, coll)
	if err != nil {
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		d := describe(m)
		start := time.Now()
		log := zap.L().With(
			zap.String("collection", coll.Name()),
			zap.String("name", d.name),
			zap.String("keys", d.sig),
			zap.Bool("unique", d.unique))

		ex, found := existing[d.sig]
		switch {
		case found && d.sameOptions(ex) && (d.name == "" || ex.Name == d.name):
			log.Debug("reusing existing index")
			continue
		case found:
			// Options or name differ: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				log.Warn("drop existing index failed", zap.String("existing", ex.Name), zap.Error(err))
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), d.name, err))
				continue
			}
			log.Info("dropped index for recreation", zap.String("existing", ex.Name))
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && d.unique {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present)", coll.Name(), d.name))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), d.name, err))
			}
			log.Warn("index ensure failed", zap.Duration("took", time.Since(start)), zap.Error(err))
			continue
		}
		log.Info("index ensured", zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
