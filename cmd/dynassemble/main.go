package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ohowland/dyn_core/internal/pkg/assembler"
	"github.com/ohowland/dyn_core/internal/pkg/catalog"
	"github.com/ohowland/dyn_core/internal/pkg/config"
	"github.com/ohowland/dyn_core/internal/pkg/datastreams"
	"github.com/ohowland/dyn_core/internal/pkg/datastreams/mongodb"
	"github.com/ohowland/dyn_core/internal/pkg/datastreams/natshandler"
	"github.com/ohowland/dyn_core/internal/pkg/datastreams/sqldb"
	"github.com/ohowland/dyn_core/internal/pkg/defaults"
	"github.com/ohowland/dyn_core/internal/pkg/frequency"
	"github.com/ohowland/dyn_core/internal/pkg/loadmerge"
	"github.com/ohowland/dyn_core/internal/pkg/metrics"
	"github.com/ohowland/dyn_core/internal/pkg/model"
	"github.com/ohowland/dyn_core/internal/pkg/network"
	"github.com/ohowland/dyn_core/internal/pkg/webservice"
)

const sinkTimeout = 20 * time.Second

func main() {
	configPath := flag.String("config", "./config/assembly.json", "run configuration file")
	development := flag.Bool("dev", false, "human readable logs")
	flag.Parse()

	zl, err := buildZap(*development)
	if err != nil {
		panic(err)
	}
	defer zl.Sync()
	log := zapr.NewLogger(zl).WithName("dynassemble")

	if err := run(*configPath, log); err != nil {
		log.Error(err, "assembly failed")
		os.Exit(1)
	}
}

func buildZap(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(configPath string, log logr.Logger) error {
	log.Info("loading configuration", "path", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	mode, err := assembler.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	syncMode, err := frequency.ParseMode(cfg.Synchronization)
	if err != nil {
		return err
	}

	log.Info("building network", "path", cfg.Network)
	net, err := network.Load(cfg.Network)
	if err != nil {
		return err
	}

	cat := catalog.Standard()
	log.Info("building models", "path", cfg.Bindings)
	models, err := buildModels(cat, cfg.Bindings)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	rec, err := metrics.New(reg)
	if err != nil {
		return err
	}

	work := net.Copy()
	if cfg.MergeLoads {
		aggregates := loadmerge.Merge(work, loadmerge.Exclude(boundTo(models)), loadmerge.WithLogger(log.WithName("loadmerge")))
		merged := 0
		for _, a := range aggregates {
			merged += len(a.Sources)
		}
		rec.AddMergedLoads(merged)
		log.Info("loads merged", "aggregates", len(aggregates), "loads", merged)
	}

	ctx := assembler.Context{
		Network:   work,
		Libraries: cat,
		Defaults:  defaults.New(cat, log.WithName("defaults")),
		Log:       log.WithName("assembler"),
		Metrics:   rec,
	}
	log.Info("assembling connection graph", "mode", mode.String(), "models", len(models))
	res, err := assembler.Assemble(ctx, models, assembler.Options{
		Mode:              mode,
		Synchronization:   syncMode,
		MainComponentOnly: cfg.MainComponentOnly,
	})
	if err != nil {
		return err
	}
	for _, w := range res.Warnings() {
		log.Info("warning", "detail", w.String())
	}

	store := webservice.NewStore()
	sinks, closeSinks, err := buildSinks(cfg.Sinks, store, log.WithName("sinks"))
	if err != nil {
		return err
	}
	defer closeSinks()

	snap := res.Snapshot()
	sinkCtx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
	err = datastreams.WriteAll(sinkCtx, sinks, snap, log.WithName("sinks"))
	cancel()
	if err != nil {
		return err
	}
	log.Info("assembly stored", "pid", snap.PID)

	if cfg.WebAddr == "" {
		return nil
	}
	return serve(cfg.WebAddr, store, reg, log.WithName("webservice"))
}

func buildModels(cat *catalog.Catalog, path string) ([]model.Model, error) {
	if path == "" {
		return []model.Model{}, nil
	}
	bindings, err := catalog.LoadBindings(path)
	if err != nil {
		return nil, err
	}
	return cat.BuildAll(bindings)
}

// boundTo reports the loads carrying an explicit model.
func boundTo(models []model.Model) func(id string) bool {
	bound := make(map[string]bool)
	for _, m := range models {
		if em, ok := m.(model.EquipmentModel); ok && em.Equipment().Kind == network.KindLoad {
			bound[em.Equipment().ID] = true
		}
	}
	return func(id string) bool {
		return bound[id]
	}
}

func buildSinks(cfg config.Sinks, store *webservice.Store, log logr.Logger) ([]datastreams.Sink, func(), error) {
	sinks := []datastreams.Sink{store}
	closers := make([]func(), 0)
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if cfg.MongoDB != "" {
		h, err := mongodb.New(cfg.MongoDB)
		if err != nil {
			return nil, closeAll, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), sinkTimeout)
		defer cancel()
		if err := h.Connect(ctx); err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, closer(log, h.Name(), func() error { return h.Disconnect(context.Background()) }))
		sinks = append(sinks, h)
	}
	if cfg.NATS != "" {
		h, err := natshandler.New(cfg.NATS)
		if err != nil {
			return nil, closeAll, err
		}
		if err := h.Connect(); err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, h.Close)
		sinks = append(sinks, h)
	}
	if cfg.SQL != "" {
		h, err := sqldb.New(cfg.SQL)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, closer(log, h.Name(), h.Close))
		sinks = append(sinks, h)
	}
	return sinks, closeAll, nil
}

// closer wraps close so that its failure is logged against the sink name.
func closer(log logr.Logger, name string, close func() error) func() {
	return func() {
		if err := close(); err != nil {
			log.Error(err, "sink not closed", "sink", name)
		}
	}
}

func serve(addr string, store *webservice.Store, reg *prometheus.Registry, log logr.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.Handle("/", webservice.New(store, log))
	srv := &http.Server{Addr: addr, Handler: mux}

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

	log.Info("starting server", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	log.Info("server stopped")
	return nil
}
