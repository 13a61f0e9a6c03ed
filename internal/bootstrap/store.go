package bootstrap

import (
	"context"
	"fmt"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/redis/go-redis/v9"

	"github.com/storedesk/storedesk-backend/config"
	"github.com/storedesk/storedesk-backend/internal/records"
	"github.com/storedesk/storedesk-backend/internal/records/firestorestore"
	"github.com/storedesk/storedesk-backend/internal/records/pgstore"
	"github.com/storedesk/storedesk-backend/internal/records/redisstore"
)

type StoreOptions struct {
	Config    *config.Config
	Firebase  *firebase.App
	ConnectTO time.Duration
}

// Store is the opened backend plus whatever must be released with it.
type Store struct {
	records.Store
	cleanup []func() error
}

// Close closes the store and then the clients it was built on.
func (s *Store) Close() error {
	err := s.Store.Close()
	for _, fn := range s.cleanup {
		if cerr := fn(); err == nil {
			err = cerr
		}
	}
	return err
}

// OpenStore connects the backend selected by STORE_BACKEND.
func OpenStore(ctx context.Context, opt StoreOptions) (*Store, error) {
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	cfg := opt.Config
	switch cfg.Store.Backend {
	case config.BackendFirestore:
		if opt.Firebase == nil {
			return nil, fmt.Errorf("firestore backend needs an initialized Firebase app")
		}
		client, err := opt.Firebase.Firestore(ctx)
		if err != nil {
			return nil, fmt.Errorf("firestore connect: %w", err)
		}
		return &Store{Store: firestorestore.New(client)}, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(cctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		store, err := redisstore.New(ctx, client)
		if err != nil {
			client.Close()
			return nil, err
		}
		return &Store{Store: store, cleanup: []func() error{client.Close}}, nil

	case config.BackendPostgres:
		store, err := pgstore.Open(cctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return &Store{Store: store}, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
