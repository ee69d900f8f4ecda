package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/slotframe/pkg/errors"
	"github.com/matzehuels/slotframe/pkg/page"
)

// PagesCollection is the MongoDB collection holding pages.
const PagesCollection = "pages"

// MongoStore keeps pages in a MongoDB collection, one document per page:
//
//	{name: "home", page: {...}, updated_at: ISODate(...)}
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type pageDoc struct {
	Name      string    `bson:"name"`
	Page      page.Page `bson:"page"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects to uri, selects database and ensures the unique
// name index exists.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(PagesCollection),
	}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create index: %w", err)
	}
	return s, nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, name string) (*page.Page, error) {
	if err := errors.ValidatePageName(name); err != nil {
		return nil, err
	}
	var doc pageDoc
	err := s.coll.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodePageNotFound, "page %q not found", name)
	}
	if err != nil {
		return nil, fmt.Errorf("find page %s: %w", name, err)
	}
	return &doc.Page, nil
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context) ([]string, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().
			SetProjection(bson.M{"name": 1}).
			SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer cur.Close(ctx)

	names := []string{}
	for cur.Next(ctx) {
		var doc struct {
			Name string `bson:"name"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode page name: %w", err)
		}
		names = append(names, doc.Name)
	}
	return names, cur.Err()
}

// Put implements Store.
func (s *MongoStore) Put(ctx context.Context, p *page.Page) error {
	if err := p.Validate(); err != nil {
		return err
	}
	doc := pageDoc{Name: p.Name, Page: *p, UpdatedAt: time.Now().UTC()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"name": p.Name}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("store page %s: %w", p.Name, err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes the pages collection. Used by tests.
func (s *MongoStore) Drop(ctx context.Context) error {
	return s.coll.Drop(ctx)
}

var _ Store = (*MongoStore)(nil)
