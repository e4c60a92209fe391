package app

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/daxzwashe/ref-bot/internal/config"
	"github.com/daxzwashe/ref-bot/internal/infra/telegram"
	"github.com/daxzwashe/ref-bot/internal/repo/postgres"
	redisrepo "github.com/daxzwashe/ref-bot/internal/repo/redis"
	partnerssvc "github.com/daxzwashe/ref-bot/internal/services/partners"
	purchasessvc "github.com/daxzwashe/ref-bot/internal/services/purchases"
	referralsvc "github.com/daxzwashe/ref-bot/internal/services/referral"
	statssvc "github.com/daxzwashe/ref-bot/internal/services/stats"
	subscriptionsvc "github.com/daxzwashe/ref-bot/internal/services/subscription"
	userssvc "github.com/daxzwashe/ref-bot/internal/services/users"
)

// sender is the part of the bot client the handlers need.
type sender interface {
	Send(msg tgbotapi.Chattable) error
	Request(cfg tgbotapi.Chattable) error
	SelfUsername() string
}

type App struct {
	cfg    config.Config
	logger *zap.Logger
	pool   *pgxpool.Pool
	rdb    *goredis.Client
	client *telegram.Client
	tg     sender

	referral     *referralsvc.Service
	subscription *subscriptionsvc.Service
	partners     *partnerssvc.Service
	stats        *statssvc.Service
	users        *userssvc.Service
	purchases    *purchasessvc.Service

	dialogs *dialogs
}

func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := postgres.Migrate(ctx, cfg.Postgres.DSN); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unavailable, subscription cache disabled", zap.Error(err))
			_ = rdb.Close()
			rdb = nil
		}
	}

	usersRepo := postgres.NewUsersRepo(pool)
	partnersRepo := postgres.NewPartnersRepo(pool)
	purchasesRepo := postgres.NewPurchasesRepo(pool)
	subscriptionCache := redisrepo.NewSubscriptionCache(rdb, cfg.Bot.SubscriptionCacheTTL)

	a := &App{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		rdb:       rdb,
		referral:  referralsvc.NewService(usersRepo, partnersRepo),
		partners:  partnerssvc.NewService(partnersRepo, usersRepo),
		stats:     statssvc.NewService(usersRepo, purchasesRepo),
		users:     userssvc.NewService(usersRepo),
		purchases: purchasessvc.NewService(purchasesRepo, usersRepo),
		dialogs:   newDialogs(),
	}

	client, err := telegram.NewClient(cfg.Bot.Token, int(cfg.Bot.PollTimeout.Seconds()), logger, a.routeUpdate)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create bot client: %w", err)
	}
	a.client = client
	a.tg = client
	a.subscription = subscriptionsvc.NewService(client, usersRepo, subscriptionCache, cfg.Bot.ChannelID, logger)

	return a, nil
}

// Run polls updates until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("bot polling started",
		zap.String("channel", a.cfg.Bot.ChannelID),
		zap.Int("admins", len(a.cfg.Bot.AdminIDs)))
	return a.client.Start(ctx)
}

func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
}
