package daemon

import (
	"context"
	"github.com/ZilDuck/lazy-marketplace/internal/config"
	"github.com/ZilDuck/lazy-marketplace/internal/dev"
	"github.com/ZilDuck/lazy-marketplace/internal/event"
	"github.com/ZilDuck/lazy-marketplace/internal/indexer"
	"github.com/ZilDuck/lazy-marketplace/internal/messenger"
	"go.uber.org/zap"
	"time"
)

type Server interface {
	ListenAndServe(ctx context.Context, port string) error
}

type Daemon struct {
	cfg       *config.Config
	events    *event.Manager
	server    Server
	indexer   indexer.EventIndexer
	publisher *messenger.Publisher
	interval  time.Duration
}

const flushInterval = 5 * time.Second

// NewDaemon wires the settlement fan-out around server. eventIndexer and
// publisher are optional.
func NewDaemon(cfg *config.Config, events *event.Manager, server Server, eventIndexer indexer.EventIndexer, publisher *messenger.Publisher) *Daemon {
	return &Daemon{
		cfg:       cfg,
		events:    events,
		server:    server,
		indexer:   eventIndexer,
		publisher: publisher,
		interval:  flushInterval,
	}
}

// Execute serves until ctx is done. Buffered events are flushed before it
// returns.
func (d *Daemon) Execute(ctx context.Context) error {
	if d.cfg.Debug {
		dev.Dump(redacted(*d.cfg))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	flushed := make(chan struct{})
	if d.indexer != nil {
		if err := d.indexer.Install(d.cfg.ElasticSearch.MappingDir); err != nil {
			zap.L().With(zap.Error(err)).Warn("Daemon: Failed to install mappings")
		}
		d.indexer.Subscribe(d.events)
		go d.flush(ctx, flushed)
	} else {
		close(flushed)
	}

	if d.publisher != nil {
		d.publisher.Subscribe(d.events)
	}

	zap.L().With(zap.String("port", d.cfg.Rpc.Port), zap.String("env", d.cfg.Env)).Info("Marketplace Started")

	err := d.server.ListenAndServe(ctx, d.cfg.Rpc.Port)
	if err != nil {
		zap.L().With(zap.Error(err)).Error("Daemon: Server stopped")
	}
	cancel()

	d.events.Wait()
	<-flushed
	if d.indexer != nil {
		zap.L().With(zap.Int("events", d.indexer.Flush())).Info("Daemon: Flushed events")
	}
	d.events.Close()

	return err
}

func (d *Daemon) flush(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if persisted := d.indexer.Flush(); persisted > 0 {
				zap.L().With(zap.Int("events", persisted)).Debug("Daemon: Persisted events")
			}
		case <-ctx.Done():
			return
		}
	}
}

func redacted(cfg config.Config) config.Config {
	cfg.BackendSignerKey = ""
	cfg.SentryDsn = ""
	cfg.Aws.SecretKey = ""
	cfg.Aws.Token = ""
	cfg.ElasticSearch.Password = ""

	return cfg
}
