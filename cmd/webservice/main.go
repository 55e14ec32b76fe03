package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/zapr"
	"go.uber.org/zap"

	"github.com/ohowland/dyn_core/internal/pkg/assembler"
	"github.com/ohowland/dyn_core/internal/pkg/datastreams/natshandler"
	"github.com/ohowland/dyn_core/internal/pkg/webservice"
)

// webservice serves the snapshots published by dynassemble runs on NATS.
func main() {
	natsConfig := flag.String("nats", "./config/nats.json", "nats handler configuration file")
	port := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	zl, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer zl.Sync()
	log := zapr.NewLogger(zl).WithName("webservice")

	h, err := natshandler.New(*natsConfig)
	if err != nil {
		log.Error(err, "nats configuration")
		os.Exit(1)
	}
	if err := h.Connect(); err != nil {
		log.Error(err, "nats connection")
		os.Exit(1)
	}
	defer h.Close()

	store := webservice.NewStore()
	sub, err := h.Subscribe(func(s assembler.Snapshot) {
		if err := store.Write(context.Background(), s); err != nil {
			log.Error(err, "snapshot rejected", "pid", s.PID)
			return
		}
		log.Info("snapshot received", "pid", s.PID, "connections", len(s.Connections))
	}, func(err error) {
		log.Error(err, "malformed snapshot")
	})
	if err != nil {
		log.Error(err, "nats subscription")
		os.Exit(1)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			log.Error(err, "nats unsubscribe")
		}
	}()

	srv := &http.Server{Addr: *port, Handler: webservice.New(store, log)}
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error(err, "server shutdown")
		}
	}()

	log.Info("starting server", "addr", *port, "subject", h.Subject("*"))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error(err, "server stopped")
		os.Exit(1)
	}
}
