package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/campaigncanvas/pkg/canvas"
)

// MongoStore keeps one document per board in the "boards" collection. The
// document _id is "tenant/id", so two tenants may use the same board ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	now    func() time.Time
}

// mongoBoard is the stored document: the board plus its compound key.
type mongoBoard struct {
	Key          string `bson:"_id"`
	canvas.Board `bson:",inline"`
}

func mongoKey(tenant, id string) string { return tenant + "/" + id }

// NewMongoStore connects to uri and ensures the tenant index exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	coll := client.Database(database).Collection("boards")
	_, err = coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "tenant", Value: 1}, {Key: "updated_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "tenant", Value: 1}, {Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return &MongoStore{client: client, coll: coll, now: time.Now}, nil
}

func (s *MongoStore) Get(ctx context.Context, tenant, id string) (*canvas.Board, error) {
	if err := checkKey(tenant, id); err != nil {
		return nil, err
	}
	var doc mongoBoard
	err := s.coll.FindOne(ctx, bson.M{"_id": mongoKey(tenant, id)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(tenant, id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	return &doc.Board, nil
}

func (s *MongoStore) Put(ctx context.Context, board *canvas.Board) error {
	if err := prepare(board, s.now); err != nil {
		return err
	}
	key := mongoKey(board.Tenant, board.ID)
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": key},
		mongoBoard{Key: key, Board: *board},
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, tenant, id string) error {
	if err := checkKey(tenant, id); err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": mongoKey(tenant, id)})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(tenant, id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, tenant string) ([]Summary, error) {
	cur, err := s.coll.Find(ctx, bson.M{"tenant": tenant},
		options.Find().SetProjection(bson.M{"id": 1, "tenant": 1, "name": 1, "blocks.id": 1, "edges.id": 1, "updated_at": 1}))
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cur.Close(ctx)

	out := []Summary{}
	for cur.Next(ctx) {
		var b canvas.Board
		if err := cur.Decode(&b); err != nil {
			return nil, fmt.Errorf("mongo decode: %w", err)
		}
		out = append(out, Summarize(&b))
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	sortSummaries(out)
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
