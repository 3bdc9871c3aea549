package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gemini-chat/internal/domain"
)

// mongoMessage es la forma del documento en la colección de historial.
type mongoMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Role      string             `bson:"role"`
	Text      string             `bson:"text"`
	Timestamp time.Time          `bson:"timestamp"`
}

// MongoMessageRepository implementa MessageRepository sobre una única colección de MongoDB.
type MongoMessageRepository struct {
	coll *mongo.Collection
}

func NewMongoMessageRepository(coll *mongo.Collection) *MongoMessageRepository {
	return &MongoMessageRepository{coll: coll}
}

// EnsureIndexes crea el índice usado por ListRecent.
func (r *MongoMessageRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create history index: %w", err)
	}
	return nil
}

func (r *MongoMessageRepository) Append(ctx context.Context, messages ...domain.Message) error {
	if len(messages) == 0 {
		return nil
	}

	// Los ObjectID se generan acá para que el desempate por _id respete el orden de inserción.
	docs := make([]interface{}, 0, len(messages))
	for _, msg := range messages {
		docs = append(docs, mongoMessage{
			ID:        primitive.NewObjectID(),
			Username:  msg.Username,
			Role:      msg.Role,
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
		})
	}

	if _, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true)); err != nil {
		return fmt.Errorf("insert messages: %w", err)
	}
	return nil
}

func (r *MongoMessageRepository) ListRecent(ctx context.Context, username string, limit int, order domain.SortOrder) ([]domain.Message, error) {
	dir := -1
	if order == domain.OldestFirst {
		dir = 1
	}

	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: dir}, {Key: "_id", Value: dir}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, bson.M{"username": username}, opts)
	if err != nil {
		return nil, fmt.Errorf("find messages: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoMessage
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode messages: %w", err)
	}

	messages := make([]domain.Message, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, domain.Message{
			ID:        d.ID.Hex(),
			Username:  d.Username,
			Role:      d.Role,
			Text:      d.Text,
			Timestamp: d.Timestamp.UTC(),
		})
	}
	return messages, nil
}
