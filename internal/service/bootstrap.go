// README: Builds the full object graph from config; memory fixtures unless Postgres/Redis are configured.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"charterdesk/internal/ai"
	"charterdesk/internal/config"
	"charterdesk/internal/fixtures"
	"charterdesk/internal/infra"
	"charterdesk/internal/metrics"
	"charterdesk/internal/modules/availability"
	"charterdesk/internal/modules/compliance"
	"charterdesk/internal/modules/conversation"
	"charterdesk/internal/modules/extraction"
	"charterdesk/internal/modules/fleet"
	"charterdesk/internal/modules/handoff"
	"charterdesk/internal/modules/intent"
	"charterdesk/internal/modules/operator"
	"charterdesk/internal/modules/policy"
	"charterdesk/internal/modules/pricing"
	"charterdesk/internal/rules"
	"charterdesk/internal/tools"
)

// App is everything a transport needs.
type App struct {
	Concierge *Concierge
	Toolbox   *tools.Toolbox
	Metrics   *metrics.Metrics
	Rules     *rules.Set
	// Verifier is nil unless auth.firebase_project_id is set.
	Verifier infra.TokenVerifier

	db      *pgxpool.Pool
	redis   *redis.Client
	closers []func()
}

// Close releases pools and backend clients.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Build wires the application. An empty db.dsn or redis.addr selects the
// in-memory fixture stores for that concern.
func Build(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := &App{Metrics: metrics.New()}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	set, err := loadRules(cfg.Rules.Path)
	if err != nil {
		return nil, err
	}
	app.Rules = set

	var (
		rates     pricing.RateStore
		operators operator.Store
		source    availability.Source
	)
	if cfg.DB.DSN != "" {
		app.db, err = infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, app.db.Close)
		rates = pricing.NewPostgresRates(app.db)
		operators = operator.NewPostgresStore(app.db)
		logger.Info("using postgres rate and operator stores")
	} else {
		rates = pricing.NewMemoryRates(fixtures.Rates(), fixtures.RepositionFees())
		operators = operator.NewMemoryStore(fixtures.Operators()...)
	}
	if cfg.Redis.Addr != "" {
		app.redis, err = infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() { _ = app.redis.Close() })
		source = availability.NewRedisSource(app.redis)
		logger.Info("using redis listing index", zap.String("addr", cfg.Redis.Addr))
	} else {
		source = availability.NewMemorySource(fixtures.Listings()...)
	}

	catalogue := fleet.NewCatalogue(fixtures.Specs()...)
	app.Toolbox = tools.NewToolbox(tools.Deps{
		Availability: availability.NewService(source, catalogue, cfg.Availability.MaxRepositionNm),
		Pricing:      pricing.NewService(rates),
		Operators:    operator.NewService(operators),
		Fleet:        catalogue,
		Screener:     compliance.NewScreener(set.Sanctions),
		Metrics:      app.Metrics,
		Logger:       logger.Named("tools"),
	})

	notifier, err := app.firebase(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	primary, err := newBackend(ctx, cfg, app)
	if err != nil {
		return nil, err
	}
	selector := ai.NewSelector(primary, ai.NewFallback(set), cfg.Generation.ProbeTimeout, app.Metrics, logger.Named("ai"))

	store := conversation.NewMemoryStore()
	if cfg.Conversation.TTL > 0 {
		app.sweep(store, cfg.Conversation.TTL, logger.Named("conversation"))
	}

	app.Concierge = NewConcierge(Deps{
		Store:     store,
		Gate:      policy.NewGate(set, logger),
		Extractor: extraction.NewExtractor(set),
		Router:    intent.NewRouter(set, logger),
		Generator: selector,
		Pipeline:  tools.NewPipeline(app.Toolbox),
		Notifier:  notifier,
		Metrics:   app.Metrics,
		Logger:    logger.Named("concierge"),
		Brand:     cfg.Brand.Name,
	})
	ok = true
	return app, nil
}

// sweep evicts idle conversations in the background until Close.
func (a *App) sweep(store *conversation.MemoryStore, ttl time.Duration, logger *zap.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		conversation.RunSweeper(ctx, store, ttl, logger)
	}()
	a.closers = append(a.closers, func() {
		cancel()
		<-done
	})
}

// firebase sets up the token verifier and picks the hand-off notifier.
func (a *App) firebase(ctx context.Context, cfg config.Config, logger *zap.Logger) (handoff.Notifier, error) {
	logNotifier := handoff.NewLogNotifier(logger.Named("handoff"))
	if cfg.Auth.FirebaseProjectID == "" {
		return logNotifier, nil
	}
	fb, err := infra.NewFirebaseApp(ctx, cfg.Auth.FirebaseProjectID, cfg.Auth.CredentialsFile)
	if err != nil {
		return nil, err
	}
	a.Verifier, err = infra.NewFirebaseVerifier(ctx, fb)
	if err != nil {
		return nil, err
	}
	if !cfg.Handoff.FCM {
		return logNotifier, nil
	}
	return handoff.NewFCMNotifier(ctx, fb, logger.Named("handoff"))
}

func loadRules(path string) (*rules.Set, error) {
	if path == "" {
		return rules.Default()
	}
	set, err := rules.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", path, err)
	}
	return set, nil
}

func newBackend(ctx context.Context, cfg config.Config, app *App) (ai.Backend, error) {
	g := cfg.Generation
	bc := ai.BackendConfig{
		BaseURL: g.BaseURL,
		APIKey:  cfg.Gemini.APIKey,
		Models: ai.Models{
			Primary:   g.Models.Primary,
			Reasoning: g.Models.Reasoning,
			Summary:   g.Models.Summary,
		},
		Sampling: ai.Sampling{Temperature: g.Temperature, TopP: g.TopP, MaxTokens: g.MaxTokens},
		Brand:    cfg.Brand.Name,
		Timeout:  g.Timeout,
	}
	switch g.Provider {
	case config.ProviderGemini:
		gb, err := ai.NewGeminiBackend(ctx, bc)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, gb.Close)
		return gb, nil
	default:
		return ai.NewOllamaBackend(bc), nil
	}
}
