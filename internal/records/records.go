// Package records defines the document-store contract the CRM repositories are
// built on: typed CRUD plus live queries that deliver full-list snapshots,
// scoped by equality/range filters against a named collection.
package records

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrClosed   = errors.New("store closed")
)

// Document is a schema-less record keyed by an opaque generated id.
type Document struct {
	ID   string                 `json:"id"`
	Data map[string]interface{} `json:"data"`
}

// Get returns the raw field value or nil.
func (d Document) Get(field string) interface{} {
	if d.Data == nil {
		return nil
	}
	return d.Data[field]
}

type Op string

const (
	OpEqual        Op = "=="
	OpLess         Op = "<"
	OpLessEqual    Op = "<="
	OpGreater      Op = ">"
	OpGreaterEqual Op = ">="
)

type Filter struct {
	Field string
	Op    Op
	Value interface{}
}

type Order struct {
	Field string
	Desc  bool
}

// Query is a conjunction of filters plus an ordering.
type Query struct {
	Filters []Filter
	OrderBy []Order
}

func Where(field string, op Op, value interface{}) Filter {
	return Filter{Field: field, Op: op, Value: value}
}

func (q Query) With(filters ...Filter) Query {
	out := Query{
		Filters: make([]Filter, 0, len(q.Filters)+len(filters)),
		OrderBy: append([]Order(nil), q.OrderBy...),
	}
	out.Filters = append(out.Filters, q.Filters...)
	out.Filters = append(out.Filters, filters...)
	return out
}

// Snapshot is one delivery of a live query: the full result list or the error
// that prevented producing it.
type Snapshot struct {
	Docs []Document
	Err  error
}

// Subscription is a cancellable stream of full-list snapshots. Close blocks until
// the delivery goroutine has exited; nothing is delivered afterwards.
type Subscription interface {
	Updates() <-chan Snapshot
	Close()
}

type Store interface {
	Subscribe(ctx context.Context, collection string, q Query) (Subscription, error)
	FetchOnce(ctx context.Context, collection string, q Query) ([]Document, error)
	// GetByID returns nil, nil when the document does not exist.
	GetByID(ctx context.Context, collection, id string) (*Document, error)
	Create(ctx context.Context, collection string, data map[string]interface{}) (string, error)
	// CreateWithID writes a document under a caller-chosen id, replacing any existing one.
	CreateWithID(ctx context.Context, collection, id string, data map[string]interface{}) error
	Update(ctx context.Context, collection, id string, partial map[string]interface{}) error
	Delete(ctx context.Context, collection, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// AccessError is the generic data-access failure every backend returns.
type AccessError struct {
	Op         string
	Collection string
	Err        error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Collection, e.Err)
}

func (e *AccessError) Unwrap() error { return e.Err }

func Fail(op, collection string, err error) error {
	if err == nil {
		return nil
	}
	var ae *AccessError
	if errors.As(err, &ae) {
		return err
	}
	return &AccessError{Op: op, Collection: collection, Err: err}
}
