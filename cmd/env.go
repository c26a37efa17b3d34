package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/company-resolver/internal/company"
	"github.com/sells-group/company-resolver/internal/events"
	"github.com/sells-group/company-resolver/internal/store"
)

// resolverEnv holds the store and the components built on it.
type resolverEnv struct {
	Store   store.Store
	Events  events.Publisher
	Merger  *company.Merger
	Reviews *company.ReviewQueue
}

// Close releases resources held by the environment.
func (e *resolverEnv) Close() {
	if e.Events != nil {
		if err := e.Events.Close(); err != nil {
			zap.L().Warn("close event publisher", zap.Error(err))
		}
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

// initEnv validates config, opens and migrates the store and wires the
// merger and review queue. Events are published only when publish is set
// and brokers are configured. A dry run only pings the store and never
// publishes. Callers should defer env.Close().
func initEnv(ctx context.Context, publish, dryRun bool) (*resolverEnv, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rules, err := cfg.MergeRules()
	if err != nil {
		return nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if dryRun {
		if err := st.Ping(ctx); err != nil {
			_ = st.Close()
			return nil, eris.Wrap(err, "ping store")
		}
	} else if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	var pub events.Publisher = events.Nop{}
	if publish && !dryRun {
		pub, err = initPublisher()
		if err != nil {
			_ = st.Close()
			return nil, err
		}
	}

	merger := company.NewMerger(st, pub, rules)
	return &resolverEnv{
		Store:   st,
		Events:  pub,
		Merger:  merger,
		Reviews: company.NewReviewQueue(st, merger, pub),
	}, nil
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initPublisher() (events.Publisher, error) {
	if len(cfg.Events.Brokers) == 0 {
		zap.L().Debug("RESOLVER_EVENTS_BROKERS not set, event stream disabled")
		return events.Nop{}, nil
	}
	pub, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:      cfg.Events.Brokers,
		CompanyTopic: cfg.Events.CompanyTopic,
		ReviewTopic:  cfg.Events.ReviewTopic,
		Compression:  cfg.Events.Compression,
		BatchTimeout: 50 * time.Millisecond,
	})
	if err != nil {
		return nil, eris.Wrap(err, "init event publisher")
	}
	zap.L().Info("event stream enabled",
		zap.Strings("brokers", cfg.Events.Brokers),
		zap.String("company_topic", cfg.Events.CompanyTopic),
		zap.String("review_topic", cfg.Events.ReviewTopic),
	)
	return pub, nil
}
