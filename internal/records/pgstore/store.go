// Package pgstore keeps CRM documents as JSONB rows in PostgreSQL and uses
// LISTEN/NOTIFY to drive live queries.
package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"

	"github.com/storedesk/storedesk-backend/internal/records"
)

const (
	notifyChannel = "records_changed"
	pingInterval  = 90 * time.Second
)

const schema = `
CREATE TABLE IF NOT EXISTS records (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_records_location ON records (collection, (data->>'locationId'));
`

// Store implements records.Store on a *sql.DB.
type Store struct {
	db       *sql.DB
	notifier *records.Notifier
	listener changeListener
	stop     chan struct{}
	done     chan struct{}
}

var _ records.Store = (*Store)(nil)

// changeListener is the part of *pq.Listener the relay loop uses.
type changeListener interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// New wraps an open database. Without a listener only writes made through
// this Store wake its live queries.
func New(db *sql.DB) *Store {
	return &Store{db: db, notifier: records.NewNotifier()}
}

// Open connects, creates the schema and starts listening for changes made by
// any process sharing the database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_DSN is not set")
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	s := New(db)
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Printf("[warn] operation=records_listener event=%d error=%v", ev, err)
		}
	})
	if err := listener.Listen(notifyChannel); err != nil {
		listener.Close()
		db.Close()
		return nil, fmt.Errorf("listen %s: %w", notifyChannel, err)
	}
	s.attach(listener, pingInterval)

	return s, nil
}

func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create records schema: %w", err)
	}
	return nil
}

// attach relays NOTIFY events from l to live queries and pings the
// connection every interval so a dead one is noticed and re-established.
func (s *Store) attach(l changeListener, interval time.Duration) {
	s.listener = l
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ping := time.NewTicker(interval)
		defer ping.Stop()
		for {
			select {
			case <-s.stop:
				return
			case n, ok := <-l.NotificationChannel():
				if !ok {
					return
				}
				if n == nil {
					// reconnected; events may have been missed
					s.notifier.NotifyAll()
					continue
				}
				s.notifier.Notify(n.Extra)
			case <-ping.C:
				go func() { _ = l.Ping() }()
			}
		}
	}()
}

func (s *Store) Subscribe(ctx context.Context, collection string, q records.Query) (records.Subscription, error) {
	changes, release := s.notifier.Listen(collection)
	fetch := func(ctx context.Context) ([]records.Document, error) {
		return s.FetchOnce(ctx, collection, q)
	}
	return records.Watch(ctx, fetch, changes, release), nil
}

// FetchOnce pushes string equality filters into SQL and evaluates the rest of
// the query in process.
func (s *Store) FetchOnce(ctx context.Context, collection string, q records.Query) ([]records.Document, error) {
	query := "SELECT id, data FROM records WHERE collection = $1"
	args := []interface{}{collection}
	for _, f := range q.Filters {
		v, ok := f.Value.(string)
		if f.Op != records.OpEqual || !ok {
			continue
		}
		args = append(args, f.Field, v)
		query += fmt.Sprintf(" AND data->>$%d = $%d", len(args)-1, len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, records.Fail("list", collection, err)
	}
	defer rows.Close()

	docs := make([]records.Document, 0, 16)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, records.Fail("list", collection, err)
		}
		data, err := decode(raw)
		if err != nil {
			return nil, records.Fail("decode", collection, err)
		}
		docs = append(docs, records.Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, records.Fail("list", collection, err)
	}

	return records.Apply(docs, q), nil
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (*records.Document, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM records WHERE collection = $1 AND id = $2", collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
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
	const q = `INSERT INTO records (collection, id, data) VALUES ($1, $2, $3)`
	if err := s.exec(ctx, "create", collection, id, q, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) CreateWithID(ctx context.Context, collection, id string, data map[string]interface{}) error {
	const q = `
INSERT INTO records (collection, id, data) VALUES ($1, $2, $3)
ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	return s.exec(ctx, "create", collection, id, q, data)
}

// Update merges top-level keys of partial into the stored document.
func (s *Store) Update(ctx context.Context, collection, id string, partial map[string]interface{}) error {
	const q = `UPDATE records SET data = data || $3::jsonb, updated_at = now() WHERE collection = $1 AND id = $2`
	return s.exec(ctx, "update", collection, id, q, partial)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return records.Fail("delete", collection, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE collection = $1 AND id = $2`, collection, id); err != nil {
		return records.Fail("delete", collection, err)
	}
	return s.commit(ctx, tx, "delete", collection)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	if s.listener != nil {
		close(s.stop)
		<-s.done
		_ = s.listener.Close()
	}
	return s.db.Close()
}

// exec runs a single-document write with ($1 collection, $2 id, $3 JSON
// payload), then announces the change in the same transaction.
func (s *Store) exec(ctx context.Context, op, collection, id, query string, data map[string]interface{}) error {
	payload, err := json.Marshal(records.EncodeJSONData(data))
	if err != nil {
		return records.Fail(op, collection, fmt.Errorf("marshal: %w", err))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return records.Fail(op, collection, err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, query, collection, id, string(payload))
	if err != nil {
		return records.Fail(op, collection, err)
	}
	if op == "update" {
		n, err := res.RowsAffected()
		if err != nil {
			return records.Fail(op, collection, err)
		}
		if n == 0 {
			return records.Fail(op, collection, fmt.Errorf("%s: %w", id, records.ErrNotFound))
		}
	}
	return s.commit(ctx, tx, op, collection)
}

func (s *Store) commit(ctx context.Context, tx *sql.Tx, op, collection string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, collection); err != nil {
		return records.Fail(op, collection, fmt.Errorf("notify: %w", err))
	}
	if err := tx.Commit(); err != nil {
		return records.Fail(op, collection, err)
	}
	s.notifier.Notify(collection)
	return nil
}

func decode(raw []byte) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}
