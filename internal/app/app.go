package app

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"tubesort/internal/auth"
	"tubesort/internal/config"
	"tubesort/internal/costtracker"
	"tubesort/internal/services"
	"tubesort/internal/store"
	"tubesort/internal/store/primary"
	"tubesort/internal/store/sqlite"
	"tubesort/internal/youtube"
	"tubesort/pkg/categorizer"
)

// ErrNotConfigured is returned by App accessors whose dependencies were not
// configured, e.g. a missing API key.
var ErrNotConfigured = errors.New("not configured")

type App struct {
	Config *config.Config

	Store       store.Store
	CostTracker costtracker.CostTracker
	Tokens      *auth.TokenManager
	YouTube     *youtube.Client
	Classifier  categorizer.Classifier

	UserService           *services.UserService
	CostService           *services.CostService
	ChannelService        *services.ChannelService
	CategorizationService *services.CategorizationService // nil without YouTube and classifier

	// initErrors records optional components that failed to initialize.
	initErrors map[string]error
}

// NewApp opens the store and builds every service the configuration allows.
// Only store failures are fatal; a missing YouTube or model key disables the
// services that need it.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, initErrors: map[string]error{}}

	if err := a.initStore(ctx); err != nil {
		return nil, err
	}
	a.CostTracker = costtracker.New(a.Store)
	a.UserService = services.NewUserService(a.Store)
	a.CostService = services.NewCostService(a.Store)

	a.optional("session tokens", a.initTokens)
	a.optional("youtube", func() error { return a.initYouTube(ctx) })
	a.optional("classifier", func() error { return a.initClassifier(ctx) })

	a.ChannelService = services.NewChannelService(a.Store, nil)
	if a.YouTube != nil {
		a.ChannelService = services.NewChannelService(a.Store, a.YouTube)
		if a.Classifier != nil {
			a.CategorizationService = services.NewCategorizationService(a.YouTube, a.Classifier, services.CategorizationOptions{
				PageSize:        cfg.Categorization.PageSize,
				Concurrency:     cfg.Categorization.Concurrency,
				ClassifyTimeout: cfg.Categorization.ClassifyTimeout,
			})
		}
	}

	log.Debug("Application initialization complete.")
	return a, nil
}

func (a *App) optional(name string, fn func() error) {
	if err := fn(); err != nil {
		log.Warnf("%s disabled: %v", name, err)
		a.initErrors[name] = err
	}
}

// --- Private Helper Methods ---

func (a *App) initStore(ctx context.Context) error {
	cfg := a.Config.Database
	var (
		s   store.Store
		err error
	)
	switch cfg.Driver {
	case "postgres":
		s, err = primary.NewPrimaryStore(ctx, cfg.DSN)
	case "sqlite":
		s, err = sqlite.Open(cfg.DSN)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return fmt.Errorf("init %s store: %w", cfg.Driver, err)
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return fmt.Errorf("migrate %s store: %w", cfg.Driver, err)
	}
	a.Store = s
	return nil
}

func (a *App) initTokens() error {
	tm, err := auth.NewTokenManager(a.Config.Server.SecretKey, a.Config.Server.SessionTTL)
	if err != nil {
		return err
	}
	a.Tokens = tm
	return nil
}

func (a *App) initYouTube(ctx context.Context) error {
	yc := a.Config.YouTube
	client, err := youtube.NewClient(ctx, youtube.Options{
		APIKey:            yc.APIKey,
		BaseURL:           yc.BaseURL,
		Timeout:           yc.Timeout,
		RequestsPerSecond: yc.RequestsPerSecond,
	})
	if err != nil {
		return err
	}
	a.YouTube = client
	return nil
}

func (a *App) initClassifier(ctx context.Context) error {
	cc := a.Config.Categorization
	prompt, err := config.LoadPromptContent(cc.PromptTemplate)
	if err != nil {
		log.Warnf("Failed to load categorization prompt: %v. Using the built-in prompt.", err)
		prompt = ""
	}

	switch cc.Provider {
	case "openai":
		if cc.OpenaiApiKey == "" {
			return errors.New("missing API key: set GROQ_API_KEY or OPENAI_API_KEY")
		}
		client := categorizer.NewOpenAIClient(cc.OpenaiApiKey, cc.BaseURL)
		a.Classifier = categorizer.NewLLMClassifier(client, cc.Model, prompt, a.CostTracker, a.Config.Pricing["openai"])
	case "gemini":
		g, err := categorizer.NewGeminiClassifier(ctx, cc.GoogleApiKey, cc.Model, prompt, a.CostTracker, a.Config.Pricing["gemini"])
		if err != nil {
			return err
		}
		a.Classifier = g
	default:
		return fmt.Errorf("unsupported categorization provider %q", cc.Provider)
	}
	log.Debugf("Initialized %s classifier (model: %s)", cc.Provider, cc.Model)
	return nil
}

// Categorization returns the categorization service or explains why it is
// unavailable.
func (a *App) Categorization() (*services.CategorizationService, error) {
	if a.CategorizationService == nil {
		return nil, a.unavailable("categorization", "youtube", "classifier")
	}
	return a.CategorizationService, nil
}

// Sessions returns the token manager or explains why it is unavailable.
func (a *App) Sessions() (*auth.TokenManager, error) {
	if a.Tokens == nil {
		return nil, a.unavailable("sessions", "session tokens")
	}
	return a.Tokens, nil
}

func (a *App) unavailable(what string, deps ...string) error {
	for _, d := range deps {
		if err := a.initErrors[d]; err != nil {
			return fmt.Errorf("%s %w: %s: %v", what, ErrNotConfigured, d, err)
		}
	}
	return fmt.Errorf("%s %w", what, ErrNotConfigured)
}

// Health reports the status of every component, keyed by name. A nil value
// means healthy.
func (a *App) Health(ctx context.Context) map[string]error {
	out := map[string]error{"database": a.Store.Ping(ctx)}
	for _, name := range []string{"session tokens", "youtube", "classifier"} {
		out[name] = a.initErrors[name]
	}
	return out
}

func (a *App) Close() {
	if c, ok := a.Classifier.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			log.Warnf("Error closing classifier: %v", err)
		}
	}
	if a.Store != nil {
		a.Store.Close()
	}
}
