// Package redisstore keeps CRM documents in Redis as JSON values and uses
// Redis Pub/Sub to drive live queries.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/storedesk/storedesk-backend/internal/records"
)

const (
	keyPrefix   = "records:"        // records:{collection}:{id} -> JSON data
	indexPrefix = "records:idx:"    // set of ids per collection: records:idx:{collection}
	eventPrefix = "records:events:" // Pub/Sub channel per collection: records:events:{collection}
)

// Store implements records.Store on top of a Redis client.
type Store struct {
	client   *redis.Client
	notifier *records.Notifier
	pubsub   *redis.PubSub
	done     chan struct{}
}

var _ records.Store = (*Store)(nil)

// New subscribes to change events and returns a ready store. The caller keeps
// ownership of client.
func New(ctx context.Context, client *redis.Client) (*Store, error) {
	ps := client.PSubscribe(ctx, eventPrefix+"*")
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("failed to subscribe to record events: %w", err)
	}

	s := &Store{
		client:   client,
		notifier: records.NewNotifier(),
		pubsub:   ps,
		done:     make(chan struct{}),
	}
	go s.relay()
	return s, nil
}

func (s *Store) relay() {
	defer close(s.done)
	for msg := range s.pubsub.Channel() {
		s.notifier.Notify(strings.TrimPrefix(msg.Channel, eventPrefix))
	}
}

func (s *Store) Subscribe(ctx context.Context, collection string, q records.Query) (records.Subscription, error) {
	changes, release := s.notifier.Listen(collection)
	fetch := func(ctx context.Context) ([]records.Document, error) {
		return s.FetchOnce(ctx, collection, q)
	}
	return records.Watch(ctx, fetch, changes, release), nil
}

func (s *Store) FetchOnce(ctx context.Context, collection string, q records.Query) ([]records.Document, error) {
	ids, err := s.client.SMembers(ctx, idsKey(collection)).Result()
	if err != nil {
		return nil, records.Fail("list", collection, err)
	}
	if len(ids) == 0 {
		return []records.Document{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = docKey(collection, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, records.Fail("list", collection, err)
	}

	docs := make([]records.Document, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// id still indexed but value already removed
			continue
		}
		data, err := decode(raw)
		if err != nil {
			return nil, records.Fail("decode", collection, err)
		}
		docs = append(docs, records.Document{ID: ids[i], Data: data})
	}
	return records.Apply(docs, q), nil
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (*records.Document, error) {
	raw, err := s.client.Get(ctx, docKey(collection, id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, records.Fail("get", collection, err)
	}
	data, err := decode(raw)
	if err != nil {
		return nil, records.Fail("decode", collection, err)
	}
	return &records.Document{ID: id, Data: data}, nil
}

func (s *Store) Create(ctx context.Context, collection string, data map[string]interface{}) (string, error) {
	id := uuid.New().String()
	if err := s.write(ctx, "create", collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) CreateWithID(ctx context.Context, collection, id string, data map[string]interface{}) error {
	return s.write(ctx, "create", collection, id, data)
}

func (s *Store) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	existing, err := s.GetByID(ctx, collection, id)
	if err != nil {
		return records.Fail("update", collection, err)
	}
	if existing == nil {
		return records.Fail("update", collection, fmt.Errorf("%s: %w", id, records.ErrNotFound))
	}

	merged := existing.Data
	if merged == nil {
		merged = make(map[string]interface{}, len(partial))
	}
	for k, v := range records.EncodeJSONData(partial) {
		merged[k] = v
	}
	return s.write(ctx, "update", collection, id, merged)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, docKey(collection, id))
	pipe.SRem(ctx, idsKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return records.Fail("delete", collection, err)
	}
	return s.publish(ctx, "delete", collection, id)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close stops change relaying. Open subscriptions stop receiving updates.
func (s *Store) Close() error {
	err := s.pubsub.Close()
	<-s.done
	return err
}

func (s *Store) write(ctx context.Context, op, collection, id string, data map[string]interface{}) error {
	payload, err := json.Marshal(records.EncodeJSONData(data))
	if err != nil {
		return records.Fail(op, collection, fmt.Errorf("marshal: %w", err))
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, docKey(collection, id), payload, 0)
	pipe.SAdd(ctx, idsKey(collection), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return records.Fail(op, collection, err)
	}
	return s.publish(ctx, op, collection, id)
}

func (s *Store) publish(ctx context.Context, op, collection, id string) error {
	if err := s.client.Publish(ctx, eventPrefix+collection, id).Err(); err != nil {
		return records.Fail(op, collection, fmt.Errorf("publish change: %w", err))
	}
	return nil
}

func decode(raw string) (map[string]interface{}, error) {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func docKey(collection, id string) string {
	return fmt.Sprintf("%s%s:%s", keyPrefix, collection, id)
}

func idsKey(collection string) string {
	return indexPrefix + collection
}
