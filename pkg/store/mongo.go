// Package store persists packed layout documents.
//
// Layouts are deterministic, so the store is content-addressed: a
// document is keyed by the manifest hash and the geometry it was packed
// with. The serve command uses the store for warm starts - a restarted
// server finds its layout instead of re-packing - and as a shared
// archive across instances.
package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/driftwall/driftwall/pkg/errors"
	"github.com/driftwall/driftwall/pkg/wall"
)

const (
	defaultDatabase   = "driftwall"
	layoutsCollection = "layouts"

	connectTimeout = 10 * time.Second
)

// layoutRecord is the stored shape of a layout document.
type layoutRecord struct {
	ManifestHash string        `bson:"manifest_hash"`
	Config       wall.Config   `bson:"config"`
	Document     wall.Document `bson:"document"`
	CreatedAt    time.Time     `bson:"created_at"`
}

// MongoStore is a layout store backed by MongoDB.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and prepares the layouts
// collection, including the unique index on (manifest_hash, config).
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	coll := client.Database(defaultDatabase).Collection(layoutsCollection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "manifest_hash", Value: 1}, {Key: "config", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create layout index")
	}

	return &MongoStore{client: client, coll: coll}, nil
}

// SaveLayout upserts a layout document under its manifest hash and
// geometry.
func (s *MongoStore) SaveLayout(ctx context.Context, manifestHash string, doc wall.Document) error {
	filter := bson.D{
		{Key: "manifest_hash", Value: manifestHash},
		{Key: "config", Value: doc.Config},
	}
	record := layoutRecord{
		ManifestHash: manifestHash,
		Config:       doc.Config,
		Document:     doc,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, filter, record, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save layout %s", manifestHash)
	}
	return nil
}

// LoadLayout fetches the layout document for a manifest hash and
// geometry. Returns ErrCodeLayoutNotFound when no document exists.
func (s *MongoStore) LoadLayout(ctx context.Context, manifestHash string, cfg wall.Config) (wall.Document, error) {
	filter := bson.D{
		{Key: "manifest_hash", Value: manifestHash},
		{Key: "config", Value: cfg},
	}
	var record layoutRecord
	err := s.coll.FindOne(ctx, filter).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return wall.Document{}, errors.New(errors.ErrCodeLayoutNotFound,
			"no stored layout for manifest %s", manifestHash)
	}
	if err != nil {
		return wall.Document{}, errors.Wrap(errors.ErrCodeStorage, err, "load layout %s", manifestHash)
	}
	if err := record.Document.Validate(); err != nil {
		return wall.Document{}, err
	}
	return record.Document, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
