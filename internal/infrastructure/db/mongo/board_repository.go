package mongo

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/curationlink/board-api/internal/core/domain"
)

const collectionBoards = "boards"

type BoardRepository struct {
	col *mongo.Collection
}

func NewBoardRepository(db *mongo.Database) *BoardRepository {
	return &BoardRepository{col: db.Collection(collectionBoards)}
}

// Create inserts a new board document with a freshly assigned identifier.
func (r *BoardRepository) Create(ctx context.Context, b *domain.Board) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *b
	doc.ID = uuid.NewString()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

// FindByID retrieves a board. Absence maps to domain.ErrBoardNotFound.
func (r *BoardRepository) FindByID(ctx context.Context, id string) (*domain.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var b domain.Board
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBoardNotFound
		}
		return nil, err
	}
	return &b, nil
}

// ListByUserID returns the user's boards sorted by updated_at descending.
func (r *BoardRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Board, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	boards := []*domain.Board{}
	if err := cursor.All(ctx, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// Update applies a partial $set. Only non-nil patch fields are written;
// updated_at is always refreshed.
func (r *BoardRepository) Update(ctx context.Context, id string, patch domain.BoardPatch, updatedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": updatedAt}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Items != nil {
		set["items"] = *patch.Items
	}
	if patch.StyleBackgroundColor != nil {
		set["style_background_color"] = *patch.StyleBackgroundColor
	}
	if patch.StyleTextColor != nil {
		set["style_text_color"] = *patch.StyleTextColor
	}
	if patch.BackgroundImageURL != nil {
		set["background_image_url"] = *patch.BackgroundImageURL
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrBoardNotFound
	}
	return nil
}

// Delete removes the document without an existence check.
func (r *BoardRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// WatchByID subscribes to one board via a change stream. fn receives the
// initial snapshot (nil when absent) and every subsequent change; deletes
// deliver nil. The returned disposer is idempotent and releases the
// server-side cursor.
func (r *BoardRepository) WatchByID(ctx context.Context, id string, fn func(*domain.Board)) (func(), error) {
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

	// Initial snapshot, then the stream.
	initial, err := r.FindByID(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrBoardNotFound) {
		cancel()
		_ = stream.Close(context.Background())
		return nil, err
	}
	fn(initial)

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(streamCtx) {
			var ev struct {
				OperationType string        `bson:"operationType"`
				FullDocument  *domain.Board `bson:"fullDocument"`
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

// WatchByUserID subscribes to the user's board list. Every collection change
// re-delivers the full sorted list, mirroring a query snapshot listener.
func (r *BoardRepository) WatchByUserID(ctx context.Context, userID string, fn func([]*domain.Board)) (func(), error) {
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stream, err := r.col.Watch(streamCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, err
	}

	deliver := func() {
		boards, err := r.ListByUserID(streamCtx, userID)
		if err != nil {
			return
		}
		fn(boards)
	}
	deliver()

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(streamCtx) {
			deliver()
		}
	}()

	var once sync.Once
	return func() { once.Do(cancel) }, nil
}

// EnsureIndexes creates necessary indexes on the boards collection.
func (r *BoardRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
