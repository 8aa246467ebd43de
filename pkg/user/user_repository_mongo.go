package user

import (
	"PantryPal/domain"
	"PantryPal/entities"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const UsersCollection = "users"

type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository keeps one document per user in the users collection.
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{collection: db.Collection(UsersCollection)}
}

func (r *mongoUserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"email": NormalizeEmail(email)}, domain.ErrUserNotFound)
}

func (r *mongoUserRepository) FindByLocationID(ctx context.Context, locationID string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"storage.id": locationID}, domain.ErrLocationNotFound)
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*entities.User, error) {
	var user entities.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, domain.Upstream("find user", err)
	}
	return &user, nil
}

func (r *mongoUserRepository) FindAll(ctx context.Context) ([]*entities.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, domain.Upstream("list users", err)
	}
	defer cursor.Close(ctx)

	var users []*entities.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, domain.Upstream("decode users", err)
	}
	return users, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, user *entities.User) error {
	user.Email = NormalizeEmail(user.Email)
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return domain.Upstream("create user", err)
	}
	return nil
}

func (r *mongoUserRepository) Save(ctx context.Context, user *entities.User) error {
	next := *user
	next.Email = NormalizeEmail(user.Email)
	next.Version = user.Version + 1

	filter := bson.M{"_id": user.ID, "version": user.Version}
	if user.Version == 0 {
		// documents created before versioning carry no version field
		filter = bson.M{
			"_id": user.ID,
			"$or": bson.A{
				bson.M{"version": 0},
				bson.M{"version": bson.M{"$exists": false}},
			},
		}
	}

	res, err := r.collection.ReplaceOne(ctx, filter, next)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return domain.Upstream("save user", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}

	user.Version = next.Version
	return nil
}

// EnsureIndexes creates the indexes the repository queries rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_email"),
		},
		{
			Keys: bson.D{{Key: "storage.id", Value: 1}},
		},
	})
	return err
}
