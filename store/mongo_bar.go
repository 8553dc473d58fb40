package store

import (
	"context"
	"regexp"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barhop-server/models"
)

const barsGeoKey = "bars:geo"

// MongoBarStore keeps bar documents in MongoDB and mirrors their locations
// into a Redis geo set so radius queries stay a single GEORADIUS call.
type MongoBarStore struct {
	collection *mongo.Collection
	redis      *redis.Client
	log        *logrus.Entry
}

func NewMongoBarStore(collection *mongo.Collection, redisClient *redis.Client) (*MongoBarStore, error) {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(context.Background(), index); err != nil {
		return nil, err
	}
	s := &MongoBarStore{
		collection: collection,
		redis:      redisClient,
		log:        logrus.WithField("component", "bar-store"),
	}
	if err := s.rebuildGeoIndex(context.Background()); err != nil {
		return nil, err
	}
	return s, nil
}

// rebuildGeoIndex reseeds the Redis geo set from MongoDB so restarts do not
// lose radius-search coverage.
func (s *MongoBarStore) rebuildGeoIndex(ctx context.Context) error {
	cursor, err := s.collection.Find(ctx, bson.M{})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var bars []models.Bar
	if err := cursor.All(ctx, &bars); err != nil {
		return err
	}
	for _, bar := range bars {
		err := s.redis.GeoAdd(ctx, barsGeoKey, &redis.GeoLocation{
			Name:      bar.ID,
			Longitude: bar.Location.Longitude(),
			Latitude:  bar.Location.Latitude(),
		}).Err()
		if err != nil {
			return err
		}
	}
	s.log.WithField("count", len(bars)).Info("Seeded bar geo index")
	return nil
}

func (s *MongoBarStore) Insert(ctx context.Context, bar *models.Bar) error {
	if _, err := s.collection.InsertOne(ctx, bar); err != nil {
		return err
	}
	return s.redis.GeoAdd(ctx, barsGeoKey, &redis.GeoLocation{
		Name:      bar.ID,
		Longitude: bar.Location.Longitude(),
		Latitude:  bar.Location.Latitude(),
	}).Err()
}

func (s *MongoBarStore) Get(ctx context.Context, id string) (*models.Bar, error) {
	var bar models.Bar
	err := s.collection.FindOne(ctx, bson.M{"id": id}).Decode(&bar)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &bar, nil
}

func (s *MongoBarStore) List(ctx context.Context, opts ListOptions) ([]models.Bar, error) {
	findOpts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(opts.limit()).
		SetSkip(opts.Skip)
	cursor, err := s.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bars := []models.Bar{}
	if err := cursor.All(ctx, &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func (s *MongoBarStore) Search(ctx context.Context, keyword string) ([]models.Bar, error) {
	filter := bson.M{"name": primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}}
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	bars := []models.Bar{}
	if err := cursor.All(ctx, &bars); err != nil {
		return nil, err
	}
	return bars, nil
}

func (s *MongoBarStore) Delete(ctx context.Context, id string) (*models.Bar, error) {
	var bar models.Bar
	err := s.collection.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&bar)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.redis.ZRem(ctx, barsGeoKey, id).Err(); err != nil {
		// The document is gone; a stale geo entry only produces misses on
		// the Mongo lookup below, so log and move on.
		s.log.WithError(err).WithField("bar_id", id).Error("Failed to drop bar from geo index")
	}
	return &bar, nil
}

func (s *MongoBarStore) AddFollower(ctx context.Context, id, userID string) error {
	return s.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"followers": userID}})
}

func (s *MongoBarStore) RemoveFollower(ctx context.Context, id, userID string) error {
	return s.updateByID(ctx, id, bson.M{"$pull": bson.M{"followers": userID}})
}

func (s *MongoBarStore) PullFollower(ctx context.Context, userID string) error {
	update := bson.M{"$pull": bson.M{"followers": userID}}
	_, err := s.collection.UpdateMany(ctx, bson.M{}, update)
	return err
}

func (s *MongoBarStore) GeoSearch(ctx context.Context, latitude, longitude, maxDistanceKm float64) ([]models.Bar, error) {
	geoResults, err := s.redis.GeoRadius(ctx, barsGeoKey, longitude, latitude, &redis.GeoRadiusQuery{
		Radius:   maxDistanceKm,
		Unit:     "km",
		WithDist: true,
		Sort:     "ASC",
		Count:    geoSearchLimit,
	}).Result()
	if err != nil {
		return nil, err
	}

	bars := []models.Bar{}
	for _, hit := range geoResults {
		bar, err := s.Get(ctx, hit.Name)
		if err == ErrNotFound {
			// Stale geo entry, skip it.
			continue
		}
		if err != nil {
			return nil, err
		}
		bars = append(bars, *bar)
	}
	return bars, nil
}

func (s *MongoBarStore) updateByID(ctx context.Context, id string, update bson.M) error {
	res, err := s.collection.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
