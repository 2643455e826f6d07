package main

import (
	"context"
	"os"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pulsecrm/backend/internal/config"
	"github.com/pulsecrm/backend/internal/hooks"
	"github.com/pulsecrm/backend/internal/queue"
	"github.com/pulsecrm/backend/internal/repository/postgres"
	"github.com/pulsecrm/backend/internal/security"
)

func main() {
	// Load .env file - try multiple locations
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if err := godotenv.Load(p); err == nil {
			break
		}
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	if cfg.Logging.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	log.Info().Msg("Starting PulseCRM worker")

	// Initialize database
	db, err := postgres.NewDB(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	encryptionKey := []byte(cfg.Security.EncryptionKey)
	if len(encryptionKey) > 32 {
		encryptionKey = encryptionKey[:32]
	} else if len(encryptionKey) < 32 {
		padded := make([]byte, 32)
		copy(padded, encryptionKey)
		encryptionKey = padded
	}
	encryptor, _ := security.NewEncryptor(encryptionKey)

	webhookRepo := postgres.NewWebhookRepository(db, encryptor)
	campaignRepo := postgres.NewCampaignRepository(db)
	loyaltyRepo := postgres.NewLoyaltyRepository(db)

	dispatcher := hooks.NewDispatcher(webhookRepo, cfg.Webhook.DeliveryTimeout, log.Logger)
	handlers := queue.NewHandlers(webhookRepo, campaignRepo, loyaltyRepo, dispatcher, log.Logger)

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"default": 1,
		},
	})

	// Periodic maintenance tasks. Both handlers are idempotent, so an
	// overlapping run after a slow tick is harmless.
	scheduler := asynq.NewScheduler(redisOpt, nil)
	if _, err := scheduler.Register("* * * * *", asynq.NewTask(queue.TypeCampaignAdvance, nil)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register campaign advance task")
	}
	if _, err := scheduler.Register("0 * * * *", asynq.NewTask(queue.TypeLoyaltyRetier, nil)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register loyalty retier task")
	}

	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	if err := srv.Run(handlers.Mux()); err != nil {
		log.Fatal().Err(err).Msg("Worker failed")
	}

	scheduler.Shutdown()
	log.Info().Msg("Worker stopped")
}
