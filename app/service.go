package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/communityshield/dispatch/api/hotspots"
	"github.com/communityshield/dispatch/api/incidents"
	"github.com/communityshield/dispatch/api/journal"
	"github.com/communityshield/dispatch/api/logs"
	"github.com/communityshield/dispatch/api/ops"
	"github.com/communityshield/dispatch/api/units"
	"github.com/communityshield/dispatch/config"
	"github.com/communityshield/dispatch/core/dispatch"
	"github.com/communityshield/dispatch/core/dispatch/logging"
	"github.com/communityshield/dispatch/core/fleet"
	"github.com/communityshield/dispatch/core/hotspot"
	"github.com/communityshield/dispatch/core/incident"
	coremetrics "github.com/communityshield/dispatch/core/metrics"
	"github.com/communityshield/dispatch/core/model"
	"github.com/communityshield/dispatch/core/pipeline"
	"github.com/communityshield/dispatch/infra/bias"
	"github.com/communityshield/dispatch/infra/extract"
	"github.com/communityshield/dispatch/infra/ingest"
	"github.com/communityshield/dispatch/infra/logger"
	"github.com/communityshield/dispatch/infra/metrics"
	"github.com/communityshield/dispatch/infra/mqtt"
	"github.com/communityshield/dispatch/internal/eventbus"
)

// Service assembles the dispatch engine: ingestion, extraction, bias review,
// the assignment loop and the command surface.
type Service struct {
	Loop      *dispatch.Loop
	Policy    *dispatch.Policy
	Incidents incident.Store
	Registry  fleet.Registry

	bus       eventbus.EventBus
	feed      *logs.Feed
	journal   logging.LogStore
	predictor *hotspot.Predictor
	source    pipeline.Source
	apiAddr   string
	promPort  string
	log       logger.Logger
	closers   []func()
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	if err := metrics.RegisterBuiltinSinks(); err != nil {
		logg.Debugf("sink registration: %v", err)
	}
	sink, err := coremetrics.NewSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.New()
	store := incident.NewMemoryStore()

	roster := make([]model.PatrolUnit, 0, len(cfg.Fleet.Units))
	for _, u := range cfg.Fleet.Units {
		roster = append(roster, model.PatrolUnit{ID: u.ID, Name: u.Name, Lat: u.Lat, Lng: u.Lng})
	}
	registry := fleet.NewMemoryRegistry(roster)

	policy, err := dispatch.NewPolicy(registry, store, bus, sink, logger.New("policy"))
	if err != nil {
		return nil, fmt.Errorf("assignment policy: %w", err)
	}

	svc := &Service{
		Policy:    policy,
		Incidents: store,
		Registry:  registry,
		bus:       bus,
		predictor: hotspot.New(hotspot.DefaultZones(), store, nil),
		apiAddr:   cfg.API.Addr,
		promPort:  cfg.Metrics.PrometheusPort,
		log:       logg,
	}

	source, err := svc.buildSource(cfg)
	if err != nil {
		return nil, err
	}
	svc.source = source

	var extractor pipeline.Extractor = extract.HeuristicExtractor{}
	if cfg.Extractor.APIURL != "" {
		extractor = extract.NewHTTPExtractor(cfg.Extractor, logger.New("extractor"))
	}
	var annotator pipeline.Annotator = bias.KeywordAnnotator{}
	if cfg.Bias.APIURL != "" {
		annotator = bias.NewAIAnnotator(cfg.Bias, logger.New("bias"))
	}

	loop, err := dispatch.NewLoop(cfg.Dispatch, source, extractor, annotator,
		store, registry, policy, bus, sink, logger.New("loop"), nil)
	if err != nil {
		return nil, fmt.Errorf("dispatch loop: %w", err)
	}
	svc.Loop = loop
	svc.feed = logs.NewFeed(bus, cfg.API.LogBuffer)
	svc.closers = append(svc.closers, svc.feed.Close)

	journalStore, ok, err := metrics.JournalStore(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("dispatch journal: %w", err)
	}
	if ok {
		svc.journal = journalStore
		svc.closers = append(svc.closers, func() { _ = journalStore.Close() })
	}
	return svc, nil
}

// buildSource selects the report source. With a broker configured, live MQTT
// reports take priority and the simulator fills idle cycles; without one the
// simulator runs alone.
func (s *Service) buildSource(cfg *config.Config) (pipeline.Source, error) {
	sim := ingest.NewSimulator(nil)
	if cfg.MQTT.Broker == "" {
		return sim, nil
	}
	client, err := mqtt.Connect(cfg.MQTT, logger.New("mqtt"))
	if err != nil {
		return nil, fmt.Errorf("mqtt connect: %w", err)
	}
	src, err := ingest.NewMQTTSource(client, cfg.MQTT.ReportTopic, cfg.MQTT.QoS, logger.New("ingest"))
	if err != nil {
		return nil, fmt.Errorf("mqtt source: %w", err)
	}
	s.closers = append(s.closers, func() { _ = src.Close() }, func() { client.Disconnect(250) })
	return ingest.NewFeed(src, sim), nil
}

// Handler builds the command surface router.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/incidents", incidents.NewListHandler(s.Incidents))
	mux.Handle("/api/units", units.NewListHandler(s.Registry))
	mux.Handle("/api/dispatch", ops.NewDispatchHandler(s.Policy))
	mux.Handle("/api/emergency", ops.NewEmergencyHandler(s.Incidents, s.bus))
	mux.Handle("/api/map/zoom/", ops.NewMapZoomHandler())
	mux.Handle("/api/logs", logs.NewLogHandler(s.feed))
	mux.Handle("/api/hotspots", hotspots.NewHandler(s.predictor))
	if s.journal != nil {
		mux.Handle("/api/journal", journal.NewQueryHandler(s.journal))
	}
	return mux
}

// Run starts the loop and the HTTP servers and blocks until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	go func() {
		if err := s.Loop.Run(ctx); err != nil {
			s.log.Errorf("dispatch loop: %v", err)
		}
	}()
	if s.promPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort, logger.New("prom-server")); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.apiAddr, Handler: s.Handler()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api server shutdown: %v", err)
		}
	}()
	s.log.Infof("command surface listening on %s", s.apiAddr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	for _, c := range s.closers {
		c()
	}
	s.bus.Close()
	return nil
}
