package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/storedesk/storedesk-backend/config"
	"github.com/storedesk/storedesk-backend/internal/auth"
	"github.com/storedesk/storedesk-backend/internal/bootstrap"
	"github.com/storedesk/storedesk-backend/internal/reminders"
)

const serviceName = "storedesk-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("firebase auth: %v", err)
	}

	store, err := bootstrap.OpenStore(ctx, bootstrap.StoreOptions{Config: cfg, Firebase: app})
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer store.Close()
	log.Printf("Record store ready (backend=%s)", cfg.Store.Backend)

	if svc := reminders.FromConfig(store, cfg.Reminders); svc != nil {
		if err := svc.Start(ctx, cfg.Reminders.Schedule); err != nil {
			log.Printf("Reminders not started: %v", err)
		} else {
			defer svc.Stop()
		}
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Backend:        cfg.Store.Backend,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Store:          store,
	}.WithFirebaseAuth(authClient))

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		// streams end when the process is asked to stop
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
