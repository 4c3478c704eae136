package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kilianp07/promo/api/promotions"
	"github.com/kilianp07/promo/config"
	"github.com/kilianp07/promo/core/audit"
	"github.com/kilianp07/promo/core/discount"
	"github.com/kilianp07/promo/core/events"
	coremetrics "github.com/kilianp07/promo/core/metrics"
	"github.com/kilianp07/promo/infra/logger"
	"github.com/kilianp07/promo/infra/metrics"
	"github.com/kilianp07/promo/infra/mqtt"
	"github.com/kilianp07/promo/infra/webhook"
	"github.com/kilianp07/promo/internal/eventbus"
)

const busBuffer = 64

// Service wires the promotion registry to its announcers, recorders, audit
// store and HTTP API.
type Service struct {
	Registry *discount.Registry

	cfg       config.Config
	store     audit.Store
	bus       *eventbus.TypedBus[events.Execution]
	collected chan struct{}
	closers   []io.Closer
	log       logger.Logger
}

// New creates a Service from the configuration. Console announcements are
// written to stdout.
func New(cfg *config.Config, stdout io.Writer) (*Service, error) {
	logg := logger.New("service")
	s := &Service{cfg: *cfg, log: logg, collected: make(chan struct{})}

	recorder, err := coremetrics.NewRecorder(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics recorder: %w", err)
	}
	s.trackCloser(recorder)

	var announcers []discount.Announcer
	if cfg.Announce.Console && stdout != nil {
		announcers = append(announcers, discount.NewWriterAnnouncer(stdout))
	}
	if cfg.Announce.MQTT.Enabled {
		a, err := mqtt.NewAnnouncer(cfg.Announce.MQTT)
		if err != nil {
			s.closeAll()
			return nil, fmt.Errorf("mqtt announcer: %w", err)
		}
		announcers = append(announcers, a)
		s.closers = append(s.closers, a)
	}
	if cfg.Announce.Webhook.Enabled {
		a, err := webhook.NewAnnouncer(cfg.Announce.Webhook, nil)
		if err != nil {
			s.closeAll()
			return nil, fmt.Errorf("webhook announcer: %w", err)
		}
		announcers = append(announcers, a)
	}

	store, err := audit.Open(cfg.Audit)
	if err != nil {
		s.closeAll()
		return nil, fmt.Errorf("audit store: %w", err)
	}
	s.store = store

	s.bus = eventbus.NewTyped[events.Execution](busBuffer)
	sub := s.bus.Subscribe()
	go func() {
		defer close(s.collected)
		audit.Collect(context.Background(), sub, store, logger.New("audit"))
	}()

	reg, err := discount.Build(cfg.Promotions,
		discount.WithLogger(logger.New("registry")),
		discount.WithRecorder(recorder),
		discount.WithAnnouncers(announcers...),
		discount.WithPublisher(s.bus),
	)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("promotions: %w", err)
	}
	s.Registry = reg
	logg.Infof("%d promotions registered", reg.Len())
	return s, nil
}

func (s *Service) trackCloser(rec coremetrics.Recorder) {
	if m, ok := rec.(*coremetrics.MultiRecorder); ok {
		for _, r := range m.Recorders {
			s.trackCloser(r)
		}
		return
	}
	if c, ok := rec.(io.Closer); ok {
		s.closers = append(s.closers, c)
	}
}

// Handler returns the HTTP API of the service.
func (s *Service) Handler() http.Handler {
	return promotions.NewHandler(s.Registry, s.store, s.cfg.HTTP.Token)
}

// Run serves the HTTP API and the Prometheus endpoint until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	srv := &http.Server{Addr: s.cfg.HTTP.Addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("http shutdown: %v", err)
		}
	}()
	s.log.Infof("promotion API listening on %s", s.cfg.HTTP.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close flushes pending audit records and releases resources held by the
// service.
func (s *Service) Close() error {
	if s.bus != nil {
		s.bus.Close()
		<-s.collected
	}
	err := s.closeAll()
	if s.store != nil {
		err = errors.Join(err, s.store.Close())
	}
	return err
}

func (s *Service) closeAll() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
