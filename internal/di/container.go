package di

import (
	"fmt"
	"log/slog"
	"time"

	"cryptopulse/internal/adapter/chatgw"
	"cryptopulse/internal/adapter/ghstore"
	"cryptopulse/internal/domain"
	"cryptopulse/internal/infra/config"
	"cryptopulse/internal/infra/httpclient"
	"cryptopulse/internal/infra/logger"
	"cryptopulse/internal/infra/metrics"
	"cryptopulse/internal/middleware"
	"cryptopulse/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	Store      *ghstore.Client
	Enumerator domain.DateEnumerator
	Roster     domain.ChannelLister

	Aggregator *usecase.Aggregator
	Sessions   *usecase.SessionManager
	Chat       *usecase.ChatUsecase

	Metrics     *metrics.Metrics
	ChatLimiter *middleware.RateLimiter
	MaxDays     int
}

// NewApplicationComponents wires all dependencies from config.
func NewApplicationComponents(cfg *config.Config, log *slog.Logger) (*ApplicationComponents, error) {
	m := metrics.New()

	storeHTTP := httpclient.NewPooledClient(time.Duration(cfg.StoreTimeout) * time.Second)
	chatHTTP := httpclient.NewPooledClient(time.Duration(cfg.ChatTimeout) * time.Second)

	store := ghstore.NewClient(ghstore.Config{
		Owner:    cfg.StoreOwner,
		Repo:     cfg.StoreRepo,
		Branch:   cfg.StoreBranch,
		DataPath: cfg.StoreDataPath,
	}, storeHTTP, logger.NewContextLogger(log, "cryptopulse"), m)

	// One strategy per deployment; no silent fallback between them.
	var enumerator domain.DateEnumerator
	switch cfg.DateStrategy {
	case "listing":
		enumerator = ghstore.NewListingEnumerator(store, cfg.FloorDate)
	case "range":
		rangeEnum, err := domain.NewRangeEnumerator(cfg.FloorDate)
		if err != nil {
			return nil, fmt.Errorf("configure range enumerator: %w", err)
		}
		enumerator = rangeEnum
	default:
		return nil, fmt.Errorf("unknown DATE_STRATEGY %q", cfg.DateStrategy)
	}

	var roster domain.ChannelLister
	switch cfg.ChannelStrategy {
	case "listing":
		roster = domain.ListedRoster{Store: store}
	case "roster":
		if len(cfg.ChannelRoster) == 0 {
			return nil, fmt.Errorf("CHANNEL_STRATEGY=roster requires CHANNEL_ROSTER")
		}
		roster = domain.StaticRoster(cfg.ChannelRoster)
	default:
		return nil, fmt.Errorf("unknown CHANNEL_STRATEGY %q", cfg.ChannelStrategy)
	}

	aggregator := usecase.NewAggregator(
		store, roster, enumerator,
		time.Duration(cfg.CacheTTLMinutes)*time.Minute,
		log, m,
	)

	sessions := usecase.NewSessionManager(
		store, roster, enumerator,
		cfg.MaxDays, cfg.WindowInitial, cfg.WindowIncrement,
		cfg.SessionCapacity,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute,
		log,
	)

	gateway := chatgw.NewGatewayClient(cfg.ChatGatewayURL, cfg.ChatGatewayKey, cfg.ChatModel, chatHTTP, log)
	chat := usecase.NewChatUsecase(gateway, log, m)

	return &ApplicationComponents{
		Store:       store,
		Enumerator:  enumerator,
		Roster:      roster,
		Aggregator:  aggregator,
		Sessions:    sessions,
		Chat:        chat,
		Metrics:     m,
		ChatLimiter: middleware.NewRateLimiter(cfg.ChatRatePerMin, cfg.ChatRateBurst),
		MaxDays:     cfg.MaxDays,
	}, nil
}
