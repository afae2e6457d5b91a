package mongo

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/curationlink/board-api/internal/core/domain"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

// Create inserts a profile document keyed by the identity subject. A
// concurrent first login from another device surfaces as
// domain.ErrUserExists.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

// FindByID retrieves a profile. Absence maps to domain.ErrUserNotFound.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Update applies a partial $set. Only non-nil patch fields are written;
// updated_at is always refreshed.
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": updatedAt}
	if patch.DisplayName != nil {
		set["display_name"] = *patch.DisplayName
	}
	if patch.Username != nil {
		set["username"] = *patch.Username
	}
	if patch.ProfileImageURL != nil {
		set["profile_image_url"] = *patch.ProfileImageURL
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// WatchByID subscribes to one profile via a change stream; same contract as
// BoardRepository.WatchByID.
func (r *UserRepository) WatchByID(ctx context.Context, id string, fn func(*domain.User)) (func(), error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: id}}}},
	}
	opts := options.ChangeStream().SetFullDocument(options.UpdateLookup)

	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stream, err := r.col.Watch(streamCtx, pipeline, opts)
	if err != nil {
		cancel()
		return nil, err
	}

	initial, err := r.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		cancel()
		_ = stream.Close(context.Background())
		return nil, err
	}
	fn(initial)

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(streamCtx) {
			var ev struct {
				OperationType string       `bson:"operationType"`
				FullDocument  *domain.User `bson:"fullDocument"`
			}
			if err := stream.Decode(&ev); err != nil {
				continue
			}
			if ev.OperationType == "delete" {
				fn(nil)
				continue
			}
			if ev.FullDocument != nil {
				fn(ev.FullDocument)
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

// EnsureIndexes creates necessary indexes on the users collection. The
// username index is unique: usernames are a public handle.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
