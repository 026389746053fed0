// internal/app/store/collections/collectionstore.go
package collectionstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/orgadmin/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	ErrAlreadyExists = errors.New("collection already exists")
	ErrNotFound      = errors.New("collection not found")
)

// copyBatchSize bounds how many documents Rename buffers per InsertMany.
const copyBatchSize = 500

// Store manages per-organization collections inside one database. It knows
// nothing about admins or organizations; names are taken as given.
type Store struct {
	db  *mongo.Database
	log *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{db: db, log: logger}
}

// Exists reports whether a collection with exactly this name exists.
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, fmt.Errorf("list collections: %w", err)
	}
	return len(names) > 0, nil
}

// Create makes a new empty collection. It returns ErrAlreadyExists if the
// name is taken. After creation a sentinel document is written and removed
// to confirm the collection accepts writes.
func (s *Store) Create(ctx context.Context, name string) error {
	exists, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}

	if err := s.db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
		}
		return fmt.Errorf("create collection %s: %w", name, err)
	}

	coll := s.db.Collection(name)
	sentinelID := primitive.NewObjectID()
	if _, err := coll.InsertOne(ctx, bson.M{
		"_id":             sentinelID,
		"_schema_version": 1,
		"_initialized_at": time.Now().UTC(),
		"_note":           "organization collection initialized",
	}); err != nil {
		return fmt.Errorf("probe collection %s: %w", name, err)
	}
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": sentinelID}); err != nil {
		return fmt.Errorf("clear probe in %s: %w", name, err)
	}

	s.log.Info("created collection", zap.String("collection", name))
	return nil
}

// Rename moves every document from oldName into a newly created newName and
// then drops oldName.
//
// This is a copy, not a server-side rename: if the copy succeeds and the
// drop fails, both collections exist and the caller has to reconcile.
func (s *Store) Rename(ctx context.Context, oldName, newName string) error {
	exists, err := s.Exists(ctx, newName)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, newName)
	}
	exists, err = s.Exists(ctx, oldName)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, oldName)
	}

	if err := s.db.CreateCollection(ctx, newName); err != nil {
		if isNamespaceExistsErr(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, newName)
		}
		return fmt.Errorf("create collection %s: %w", newName, err)
	}

	copied, err := s.copyAll(ctx, s.db.Collection(oldName), s.db.Collection(newName))
	if err != nil {
		return fmt.Errorf("copy %s to %s: %w", oldName, newName, err)
	}

	if err := s.db.Collection(oldName).Drop(ctx); err != nil {
		return fmt.Errorf("drop %s after copy: %w", oldName, err)
	}

	s.log.Info("renamed collection",
		zap.String("from", oldName),
		zap.String("to", newName),
		zap.Int64("documents", copied))
	return nil
}

func (s *Store) copyAll(ctx context.Context, src, dst *mongo.Collection) (int64, error) {
	cur, err := src.Find(ctx, bson.D{})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var (
		copied int64
		batch  = make([]any, 0, copyBatchSize)
	)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := dst.InsertMany(ctx, batch, options.InsertMany().SetOrdered(true)); err != nil {
			return err
		}
		copied += int64(len(batch))
		batch = batch[:0]
		return nil
	}

	for cur.Next(ctx) {
		// cur.Current is reused by the cursor; keep a private copy.
		doc := make(bson.Raw, len(cur.Current))
		copy(doc, cur.Current)
		batch = append(batch, doc)
		if len(batch) == copyBatchSize {
			if err := flush(); err != nil {
				return copied, err
			}
		}
	}
	if err := cur.Err(); err != nil {
		return copied, err
	}
	return copied, flush()
}

// Drop removes the collection. It returns ErrNotFound if the collection
// does not exist; it is not idempotent.
func (s *Store) Drop(ctx context.Context, name string) error {
	exists, err := s.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err := s.db.Collection(name).Drop(ctx); err != nil {
		return fmt.Errorf("drop collection %s: %w", name, err)
	}
	s.log.Info("dropped collection", zap.String("collection", name))
	return nil
}

// List returns the names of all organization collections, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names, err := s.db.ListCollectionNames(ctx, bson.D{
		{Key: "name", Value: bson.D{{Key: "$regex", Value: "^" + normalize.CollectionPrefix}}},
	})
	if err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}
	sort.Strings(names)
	return names, nil
}

// Count returns the number of documents in the named collection.
func (s *Store) Count(ctx context.Context, name string) (int64, error) {
	return s.db.Collection(name).CountDocuments(ctx, bson.D{})
}

// isNamespaceExistsErr matches NamespaceExists (code 48), which the server
// returns when another writer created the collection first.
func isNamespaceExistsErr(err error) bool {
	var se mongo.ServerError
	if errors.As(err, &se) && se.HasErrorCode(48) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "already exists")
}
