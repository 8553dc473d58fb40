package store

import (
	"context"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"barhop-server/models"
)

type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(collection *mongo.Collection) (*MongoUserStore, error) {
	// Unique index so signup cannot duplicate usernames or emails.
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		return nil, err
	}
	return &MongoUserStore{collection: collection}, nil
}

func (s *MongoUserStore) Insert(ctx context.Context, user *models.User) error {
	_, err := s.collection.InsertOne(ctx, user)
	return err
}

func (s *MongoUserStore) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) List(ctx context.Context, opts ListOptions) ([]models.User, error) {
	// Ascending _id keeps pages stable in insertion order.
	findOpts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetLimit(opts.limit()).
		SetSkip(opts.Skip)
	cursor, err := s.collection.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserStore) Search(ctx context.Context, keyword string) ([]models.User, error) {
	filter := bson.M{"username": primitive.Regex{Pattern: regexp.QuoteMeta(keyword), Options: "i"}}
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserStore) UpdateUsername(ctx context.Context, id, username string) (*models.User, error) {
	update := bson.M{"$set": bson.M{"username": username}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := s.collection.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) Delete(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOneAndDelete(ctx, bson.M{"id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) AddFollowing(ctx context.Context, id, targetID string) error {
	return s.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"following": targetID}})
}

func (s *MongoUserStore) RemoveFollowing(ctx context.Context, id, targetID string) error {
	return s.updateByID(ctx, id, bson.M{"$pull": bson.M{"following": targetID}})
}

func (s *MongoUserStore) AddFollower(ctx context.Context, id, followerID string) error {
	return s.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"followers": followerID}})
}

func (s *MongoUserStore) RemoveFollower(ctx context.Context, id, followerID string) error {
	return s.updateByID(ctx, id, bson.M{"$pull": bson.M{"followers": followerID}})
}

func (s *MongoUserStore) AddFavTeam(ctx context.Context, id, teamID string) error {
	return s.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"fav_teams": teamID}})
}

func (s *MongoUserStore) RemoveFavTeam(ctx context.Context, id, teamID string) error {
	return s.updateByID(ctx, id, bson.M{"$pull": bson.M{"fav_teams": teamID}})
}

func (s *MongoUserStore) AddFollowingBar(ctx context.Context, id, barID string) error {
	return s.updateByID(ctx, id, bson.M{"$addToSet": bson.M{"following_bars": barID}})
}

func (s *MongoUserStore) RemoveFollowingBar(ctx context.Context, id, barID string) error {
	return s.updateByID(ctx, id, bson.M{"$pull": bson.M{"following_bars": barID}})
}

func (s *MongoUserStore) PullUserRefs(ctx context.Context, userID string) error {
	update := bson.M{"$pull": bson.M{"following": userID, "followers": userID}}
	_, err := s.collection.UpdateMany(ctx, bson.M{}, update)
	return err
}

func (s *MongoUserStore) PullFollowingBar(ctx context.Context, barID string) error {
	update := bson.M{"$pull": bson.M{"following_bars": barID}}
	_, err := s.collection.UpdateMany(ctx, bson.M{}, update)
	return err
}

func (s *MongoUserStore) updateByID(ctx context.Context, id string, update bson.M) error {
	res, err := s.collection.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
