package storage

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/shelfplan/pkg/cache"
	"github.com/matzehuels/shelfplan/pkg/errors"
	"github.com/matzehuels/shelfplan/pkg/plan"
	"github.com/matzehuels/shelfplan/pkg/site"
)

// Mongo defaults.
const (
	DefaultDatabase       = "shelfplan"
	DefaultCollection     = "plans"
	DefaultSiteCollection = "sites"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI            string
	Database       string
	Collection     string
	SiteCollection string
}

// MongoStore keeps plans in a MongoDB collection, one document per plan
// keyed by plan ID.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	sites  *mongo.Collection
}

// siteDoc wraps a site snapshot with its content hash as document ID.
type siteDoc struct {
	Hash string     `bson:"_id"`
	Site *site.Site `bson:"site"`
}

// NewMongoStore connects to MongoDB, retrying transient failures, and
// ensures the listing indexes exist.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.SiteCollection == "" {
		cfg.SiteCollection = DefaultSiteCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(fmt.Errorf("%w: ping mongo: %v", cache.ErrNetwork, err))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	db := client.Database(cfg.Database)
	s := &MongoStore{
		client: client,
		coll:   db.Collection(cfg.Collection),
		sites:  db.Collection(cfg.SiteCollection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "site", Value: 1}, {Key: "zone", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, p *plan.Plan) error {
	if err := errors.ValidatePlanID(p.ID); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save plan %s: %w", p.ID, err)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*plan.Plan, error) {
	var p plan.Plan
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %s: %w", id, err)
	}
	return &p, nil
}

func (s *MongoStore) List(ctx context.Context, opts ListOptions) ([]*plan.Plan, error) {
	filter := bson.M{}
	if opts.Site != "" {
		filter["site"] = opts.Site
	}
	if opts.Zone != "" {
		filter["zone"] = opts.Zone
	}

	find := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(opts.limit()))
	cur, err := s.coll.Find(ctx, filter, find)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}

	var out []*plan.Plan
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete plan %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) SaveSite(ctx context.Context, hash string, st *site.Site) error {
	doc := siteDoc{Hash: hash, Site: st}
	_, err := s.sites.ReplaceOne(ctx, bson.M{"_id": hash}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save site %s: %w", hash, err)
	}
	return nil
}

func (s *MongoStore) GetSite(ctx context.Context, hash string) (*site.Site, error) {
	var doc siteDoc
	err := s.sites.FindOne(ctx, bson.M{"_id": hash}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, siteNotFound(hash)
	}
	if err != nil {
		return nil, fmt.Errorf("get site %s: %w", hash, err)
	}
	return doc.Site, nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
