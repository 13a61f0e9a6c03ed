// Package firestorestore backs the CRM record store with Cloud Firestore,
// using native query snapshots for live queries.
package firestorestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/storedesk/storedesk-backend/internal/records"
)

type Store struct {
	client *firestore.Client
}

var _ records.Store = (*Store)(nil)

func New(client *firestore.Client) *Store {
	return &Store{client: client}
}

func (s *Store) query(collection string, q records.Query) firestore.Query {
	fq := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		fq = fq.Where(f.Field, string(f.Op), f.Value)
	}
	for _, o := range q.OrderBy {
		dir := firestore.Asc
		if o.Desc {
			dir = firestore.Desc
		}
		fq = fq.OrderBy(o.Field, dir)
	}
	return fq
}

func (s *Store) Subscribe(ctx context.Context, collection string, q records.Query) (records.Subscription, error) {
	fq := s.query(collection, q)

	return records.Stream(ctx, func(ctx context.Context, emit func(records.Snapshot) bool) {
		it := fq.Snapshots(ctx)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				// the iterator is unusable after an error
				emit(records.Snapshot{Err: records.Fail("subscribe", collection, err)})
				return
			}

			all, err := snap.Documents.GetAll()
			if err != nil {
				if !emit(records.Snapshot{Err: records.Fail("subscribe", collection, err)}) {
					return
				}
				continue
			}
			if !emit(records.Snapshot{Docs: toDocuments(all)}) {
				return
			}
		}
	}), nil
}

func (s *Store) FetchOnce(ctx context.Context, collection string, q records.Query) ([]records.Document, error) {
	all, err := s.query(collection, q).Documents(ctx).GetAll()
	if err != nil {
		return nil, records.Fail("list", collection, err)
	}
	return toDocuments(all), nil
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (*records.Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, records.Fail("get", collection, err)
	}
	return &records.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *Store) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", records.Fail("create", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) CreateWithID(ctx context.Context, collection, id string, data map[string]interface{}) error {
	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return records.Fail("create", collection, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(partial))
	for k, v := range partial {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}

	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return records.Fail("update", collection, fmt.Errorf("%s: %w", id, records.ErrNotFound))
	}
	if err != nil {
		return records.Fail("update", collection, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return records.Fail("delete", collection, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.Collections(ctx).Next()
	if err != nil && err != iterator.Done {
		return err
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func toDocuments(snaps []*firestore.DocumentSnapshot) []records.Document {
	docs := make([]records.Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, records.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs
}
