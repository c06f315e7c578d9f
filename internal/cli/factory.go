package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gridline-labs/gridline"
	"github.com/gridline-labs/gridline/internal/config"
	"github.com/gridline-labs/gridline/pkg/adapters/advisor"
	"github.com/gridline-labs/gridline/pkg/adapters/bolt"
	"github.com/gridline-labs/gridline/pkg/adapters/classifier"
	"github.com/gridline-labs/gridline/pkg/adapters/file"
	"github.com/gridline-labs/gridline/pkg/adapters/memory"
	"github.com/gridline-labs/gridline/pkg/adapters/mongo"
	"github.com/gridline-labs/gridline/pkg/adapters/redis"
	"github.com/gridline-labs/gridline/pkg/adapters/sql"
	"github.com/gridline-labs/gridline/pkg/adapters/verification"
	"github.com/gridline-labs/gridline/pkg/observability"
	"github.com/gridline-labs/gridline/pkg/persistence/middleware"
	"github.com/gridline-labs/gridline/pkg/ports"
)

// DemoAccounts backs the verification lookups when no backend URL is set.
var DemoAccounts = &verification.Static{
	Balances: map[string]float64{
		"1234567890": 542.10,
		"2345678901": 0,
	},
	Contacts: map[string]string{
		"0714445598": "1234567890",
		"0771112223": "2345678901",
	},
}

// Stack is a fully wired Bot plus the resources that must be released with it.
type Stack struct {
	Bot     *gridline.Bot
	Store   ports.SessionStore
	Sink    ports.TranscriptSink
	Metrics *observability.Metrics

	closers []func(context.Context) error
}

// Close releases every backend connection opened by BuildStack.
func (s *Stack) Close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// BuildStack wires storage, archive, remote services and observability
// from cfg.
func BuildStack(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stack, error) {
	st := &Stack{Metrics: observability.NewMetrics()}

	store, locker, err := st.sessionStore(cfg.Session)
	if err != nil {
		_ = st.Close(ctx)
		return nil, err
	}
	st.Store = store

	sink, err := st.transcriptSink(ctx, cfg.Archive)
	if err != nil {
		_ = st.Close(ctx)
		return nil, err
	}
	st.Sink = sink

	opts := []gridline.Option{
		gridline.WithLogger(logger),
		gridline.WithStore(store),
		gridline.WithTranscriptSink(sink),
		gridline.WithTimeout(cfg.Session.Timeout),
		gridline.WithVerifier(newVerifier(cfg.Services, logger)),
		gridline.WithClassifier(newClassifier(cfg.Services)),
		gridline.WithLifecycleHooks(observability.Combine(
			observability.LoggingHooks(logger),
			st.Metrics.Hooks(),
		)),
	}
	if cfg.Services.AdvisorURL != "" {
		opts = append(opts, gridline.WithAdvisor(advisor.New(cfg.Services.AdvisorURL, nil)))
	}
	if locker != nil {
		opts = append(opts, gridline.WithLocker(locker))
	}

	bot, err := gridline.New(ctx, cfg.Server.FlowsDir, opts...)
	if err != nil {
		_ = st.Close(ctx)
		return nil, fmt.Errorf("error initializing bot: %w", err)
	}
	st.Bot = bot
	return st, nil
}

func (st *Stack) sessionStore(cfg config.SessionConfig) (ports.SessionStore, ports.DistributedLocker, error) {
	store, locker, err := OpenSessionStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	if c, ok := store.(interface{ Close() error }); ok {
		st.closers = append(st.closers, func(context.Context) error { return c.Close() })
	}

	if cfg.EncryptionKey != "" {
		key, err := middleware.ParseKey(cfg.EncryptionKey)
		if err != nil {
			return nil, nil, err
		}
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return store, locker, nil
}

// OpenSessionStore opens the configured session backend without any
// middleware. Redis also yields a distributed locker.
func OpenSessionStore(cfg config.SessionConfig) (ports.SessionStore, ports.DistributedLocker, error) {
	switch cfg.Backend {
	case "", "memory":
		return memory.NewStore(), nil, nil
	case "file":
		return file.NewStore(cfg.Dir), nil, nil
	case "redis":
		var opts []redis.Option
		if cfg.Timeout > 0 {
			// Keep expired sessions around long enough to be archived.
			opts = append(opts, redis.WithTTL(2*cfg.Timeout))
		}
		store := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, opts...)
		return store, redis.NewLocker(store.Client(), store.Prefix()), nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
}

func (st *Stack) transcriptSink(ctx context.Context, cfg config.ArchiveConfig) (ports.TranscriptSink, error) {
	var sink ports.TranscriptSink
	switch cfg.Backend {
	case "", "memory":
		sink = memory.NewSink()
	case "mongo":
		client, err := mongo.Connect(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		s, err := mongo.New(mongo.Options{Client: client, Database: cfg.MongoDB, Collection: cfg.MongoCollection})
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		st.closers = append(st.closers, s.Close)
		sink = s
	case "sql":
		s, err := sql.Open(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func(context.Context) error { return s.Close() })
		sink = s
	case "bolt":
		s, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, func(context.Context) error { return s.Close() })
		sink = s
	default:
		return nil, fmt.Errorf("unknown archive backend %q", cfg.Backend)
	}

	if cfg.MaskTranscripts {
		sink = middleware.NewTranscriptMasker(middleware.DefaultTextPatterns)(sink)
	}
	return sink, nil
}

func newVerifier(cfg config.ServicesConfig, logger *slog.Logger) ports.VerificationClient {
	if cfg.VerificationURL == "" {
		return DemoAccounts
	}
	return verification.New(cfg.VerificationURL,
		verification.WithRateLimit(cfg.VerificationRPS, 1),
		verification.WithLogger(logger),
	)
}

func newClassifier(cfg config.ServicesConfig) ports.IntentClassifier {
	if cfg.ClassifierURL == "" {
		return classifier.NewKeyword(nil)
	}
	return classifier.NewHTTP(cfg.ClassifierURL, nil)
}
