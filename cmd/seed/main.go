package main

import (
	"context"
	"flag"
	"log"

	"github.com/storedesk/storedesk-backend/config"
	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/bootstrap"
)

func main() {
	file := flag.String("file", "fixtures.yaml", "YAML file with location, employees and customers")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	fixtures, err := LoadFixtures(*file)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	opt := bootstrap.StoreOptions{Config: cfg}
	if cfg.Store.Backend == config.BackendFirestore {
		app, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
		if err != nil {
			log.Fatalf("firebase: %v", err)
		}
		opt.Firebase = app
	}

	store, err := bootstrap.OpenStore(ctx, opt)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	sum, err := Apply(ctx, store, fixtures)
	store.Close()
	if err != nil {
		log.Fatalf("seed stopped after %d employees and %d customers: %v", sum.Employees, sum.Customers, err)
	}
	log.Printf("Seeded location %s: %d employees, %d customers", fixtures.Location, sum.Employees, sum.Customers)
}
