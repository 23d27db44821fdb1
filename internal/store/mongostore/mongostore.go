// Package mongostore is a MongoDB-backed Message Store, grounded on
// message-service/internal/repository in the teacher repo. It covers part
// of store.Store's operations with different signatures (CreateMessage
// takes a *domain.Message, GetChannelMessages takes an int64 limit and no
// viewer) and has no reaction operations, so it does not satisfy
// pipeline.MessageStore or api.MessageStore.
package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

// MongoStore persists messages in a `messages` collection indexed on
// (channel_id, timestamp) as §6 requires.
type MongoStore struct {
	coll *mongo.Collection
}

// New constructs a MongoStore and ensures the (channel_id, timestamp)
// index exists.
func New(ctx context.Context, coll *mongo.Collection) (*MongoStore, error) {
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "channel_id", Value: 1}, {Key: "timestamp", Value: 1}},
		Options: options.Index().SetName("channel_timestamp_idx"),
	}
	if _, err := coll.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, err
	}
	return &MongoStore{coll: coll}, nil
}

// CreateMessage inserts a new message document with status=sent.
func (s *MongoStore) CreateMessage(ctx context.Context, m *domain.Message) error {
	m.Status = domain.StatusSent
	m.Timestamp = time.Now().UTC()
	if m.Translations == nil {
		m.Translations = []domain.Translation{}
	}
	_, err := s.coll.InsertOne(ctx, m)
	return err
}

// GetMessage loads a message by id.
func (s *MongoStore) GetMessage(ctx context.Context, id string) (*domain.Message, error) {
	var m domain.Message
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// CompareAndTransition performs a conditional status update filtered on
// the source status, so concurrent orchestrator invocations collapse into
// a single winner (matchedCount == 0 means someone else already moved it).
func (s *MongoStore) CompareAndTransition(ctx context.Context, id string, from, to domain.Status) (bool, error) {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// AppendTranslation performs a conditional push: the filter excludes
// documents that already carry a translation for targetLanguage, so the
// update is a compare-and-swap on uniqueness.
func (s *MongoStore) AppendTranslation(ctx context.Context, id string, t domain.Translation) error {
	filter := bson.M{
		"_id": id,
		"translations.target_language": bson.M{"$ne": t.TargetLanguage},
	}
	update := bson.M{"$push": bson.M{"translations": t}}
	_, err := s.coll.UpdateOne(ctx, filter, update)
	return err
}

// GetChannelMessages returns the most recent limit messages for channelID
// ordered by timestamp ascending. Unlike the in-memory Store it applies no
// 100-message cap and no per-viewer translation filtering.
func (s *MongoStore) GetChannelMessages(ctx context.Context, channelID string, limit int64) ([]*domain.Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(limit)
	cur, err := s.coll.Find(ctx, bson.M{"channel_id": channelID}, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()

	var out []*domain.Message
	for cur.Next(ctx) {
		var m domain.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// DeleteChannelMessages removes every message document in channelID.
func (s *MongoStore) DeleteChannelMessages(ctx context.Context, channelID string) (int, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"channel_id": channelID})
	if err != nil {
		return 0, err
	}
	return int(res.DeletedCount), nil
}
