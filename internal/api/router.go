package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/pulsecrm/backend/internal/api/handler"
	customMiddleware "github.com/pulsecrm/backend/internal/api/middleware"
	"github.com/pulsecrm/backend/internal/config"
	"github.com/pulsecrm/backend/internal/hooks"
	"github.com/pulsecrm/backend/internal/mailer"
	"github.com/pulsecrm/backend/internal/queue"
	"github.com/pulsecrm/backend/internal/repository/postgres"
	"github.com/pulsecrm/backend/internal/repository/redis"
	"github.com/pulsecrm/backend/internal/security"
	"github.com/pulsecrm/backend/internal/sentiment"
	"github.com/pulsecrm/backend/internal/service"
	"github.com/pulsecrm/backend/internal/sms"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, queueClient *queue.Client, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(customMiddleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Company-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Security components
	jwtManager := security.NewJWTManager(
		cfg.Auth.JWTSecret,
		cfg.Auth.AccessTokenTTL,
		cfg.Auth.RefreshTokenTTL,
	)

	encryptionKey := []byte(cfg.Security.EncryptionKey)
	if len(encryptionKey) > 32 {
		encryptionKey = encryptionKey[:32]
	} else if len(encryptionKey) < 32 {
		padded := make([]byte, 32)
		copy(padded, encryptionKey)
		encryptionKey = padded
	}
	encryptor, _ := security.NewEncryptor(encryptionKey)

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	workspaceRepo := postgres.NewWorkspaceRepository(db)
	campaignRepo := postgres.NewCampaignRepository(db)
	postRepo := postgres.NewPostRepository(db)
	loyaltyRepo := postgres.NewLoyaltyRepository(db)
	reviewRepo := postgres.NewReviewRepository(db)
	webhookRepo := postgres.NewWebhookRepository(db, encryptor)
	activityRepo := postgres.NewActivityRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Redis-backed components
	rateLimiter := redis.NewRateLimiter(
		redisClient,
		cfg.Security.RateLimit.RequestsPerMinute,
		cfg.Security.RateLimit.Burst,
	)
	unreadCache := redis.NewUnreadCache(redisClient)

	// Outbound channels and side-effect hooks
	mailSender := mailer.NewSMTPSender(cfg.SMTP)
	smsSender := sms.NewTwilioSender(cfg.SMS)
	dispatcher := hooks.NewDispatcher(webhookRepo, cfg.Webhook.DeliveryTimeout, logger)
	recorder := hooks.NewRecorder(
		activityRepo,
		notificationRepo,
		webhookRepo,
		userRepo,
		mailSender,
		smsSender,
		queueClient,
		dispatcher,
		logger,
	)

	// Services
	authService := service.NewAuthService(userRepo, jwtManager)
	workspaceService := service.NewWorkspaceService(workspaceRepo)
	campaignService := service.NewCampaignService(campaignRepo, recorder)
	postService := service.NewPostService(postRepo, recorder)
	loyaltyService := service.NewLoyaltyService(loyaltyRepo, recorder)
	reviewService := service.NewReviewService(reviewRepo, sentiment.NewKeywordEngine(), recorder)
	webhookService := service.NewWebhookService(webhookRepo, recorder, recorder)
	activityService := service.NewActivityService(activityRepo)
	notificationService := service.NewNotificationService(notificationRepo, unreadCache)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	workspaceHandler := handler.NewWorkspaceHandler(workspaceService)
	campaignHandler := handler.NewCampaignHandler(campaignService)
	postHandler := handler.NewPostHandler(postService)
	loyaltyHandler := handler.NewLoyaltyHandler(loyaltyService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	webhookHandler := handler.NewWebhookHandler(webhookService)
	activityHandler := handler.NewActivityHandler(activityService)
	notificationHandler := handler.NewNotificationHandler(notificationService)

	// Middleware
	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)
	tenantMiddleware := customMiddleware.NewTenantMiddleware(workspaceService)
	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)
	perm := customMiddleware.RequirePermission

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Auth routes (public)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(authMiddleware.Authenticate)
				r.Get("/me", authHandler.Me)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Use(rateLimitMiddleware.Limit)

			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/", workspaceHandler.List)
				r.Post("/", workspaceHandler.Create)

				r.Route("/{workspaceID}", func(r chi.Router) {
					r.Use(tenantMiddleware.Resolve)

					r.Get("/", workspaceHandler.Get)
					r.With(perm(service.PermWorkspaceManage)).Patch("/", workspaceHandler.Update)
					r.With(perm(service.PermWorkspaceManage)).Delete("/", workspaceHandler.Delete)
					r.With(perm(service.PermWorkspaceManage)).Post("/members", workspaceHandler.AddMember)
					r.With(perm(service.PermWorkspaceManage)).Delete("/members/{userID}", workspaceHandler.RemoveMember)

					r.Route("/campaigns", func(r chi.Router) {
						r.With(perm(service.PermCampaignsRead)).Get("/", campaignHandler.List)
						r.With(perm(service.PermCampaignsWrite)).Post("/", campaignHandler.Create)

						r.Route("/{campaignID}", func(r chi.Router) {
							r.With(perm(service.PermCampaignsRead)).Get("/", campaignHandler.Get)
							r.With(perm(service.PermCampaignsWrite)).Patch("/", campaignHandler.Update)
							r.With(perm(service.PermCampaignsWrite)).Delete("/", campaignHandler.Delete)
							r.With(perm(service.PermCampaignsSend)).Post("/send", campaignHandler.Send)
							r.With(perm(service.PermCampaignsWrite)).Post("/pause", campaignHandler.Pause)
							r.With(perm(service.PermCampaignsWrite)).Post("/duplicate", campaignHandler.Duplicate)

							r.Route("/recipients", func(r chi.Router) {
								r.With(perm(service.PermCampaignsRead)).Get("/", campaignHandler.ListRecipients)
								r.With(perm(service.PermCampaignsWrite)).Post("/", campaignHandler.AddRecipients)
								r.With(perm(service.PermCampaignsRead)).Get("/stats", campaignHandler.RecipientStats)
							})
						})
					})

					r.Route("/posts", func(r chi.Router) {
						r.With(perm(service.PermPostsRead)).Get("/", postHandler.List)
						r.With(perm(service.PermPostsWrite)).Post("/", postHandler.Create)

						r.Route("/{postID}", func(r chi.Router) {
							r.With(perm(service.PermPostsRead)).Get("/", postHandler.Get)
							r.With(perm(service.PermPostsWrite)).Patch("/", postHandler.Update)
							r.With(perm(service.PermPostsWrite)).Delete("/", postHandler.Delete)
							r.With(perm(service.PermPostsPublish)).Post("/publish", postHandler.Publish)
							r.With(perm(service.PermPostsPublish)).Post("/unpublish", postHandler.Unpublish)
						})
					})

					r.Route("/loyalty/members", func(r chi.Router) {
						r.With(perm(service.PermLoyaltyRead)).Get("/", loyaltyHandler.List)
						r.With(perm(service.PermLoyaltyWrite)).Post("/", loyaltyHandler.Create)
						r.With(perm(service.PermLoyaltyWrite)).Post("/recalculate-tiers", loyaltyHandler.RecalculateTiers)

						r.Route("/{memberID}", func(r chi.Router) {
							r.With(perm(service.PermLoyaltyRead)).Get("/", loyaltyHandler.Get)
							r.With(perm(service.PermLoyaltyWrite)).Patch("/", loyaltyHandler.Update)
							r.With(perm(service.PermLoyaltyWrite)).Delete("/", loyaltyHandler.Delete)
							r.With(perm(service.PermLoyaltyWrite)).Post("/adjust-points", loyaltyHandler.AdjustPoints)
							r.With(perm(service.PermLoyaltyRead)).Get("/transactions", loyaltyHandler.ListTransactions)
						})
					})

					r.Route("/reviews", func(r chi.Router) {
						r.With(perm(service.PermReviewsRead)).Get("/", reviewHandler.List)
						r.With(perm(service.PermReviewsWrite)).Post("/", reviewHandler.Create)

						r.Route("/{reviewID}", func(r chi.Router) {
							r.With(perm(service.PermReviewsRead)).Get("/", reviewHandler.Get)
							r.With(perm(service.PermReviewsWrite)).Delete("/", reviewHandler.Delete)
							r.With(perm(service.PermReviewsWrite)).Post("/reply", reviewHandler.Reply)
							r.With(perm(service.PermReviewsWrite)).Post("/analyze", reviewHandler.Analyze)
						})
					})

					r.Route("/webhooks", func(r chi.Router) {
						r.With(perm(service.PermWebhooksRead)).Get("/", webhookHandler.List)
						r.With(perm(service.PermWebhooksManage)).Post("/", webhookHandler.Create)

						r.Route("/{endpointID}", func(r chi.Router) {
							r.With(perm(service.PermWebhooksRead)).Get("/", webhookHandler.Get)
							r.With(perm(service.PermWebhooksManage)).Patch("/", webhookHandler.Update)
							r.With(perm(service.PermWebhooksManage)).Delete("/", webhookHandler.Delete)
							r.With(perm(service.PermWebhooksManage)).Post("/test", webhookHandler.Test)
							r.With(perm(service.PermWebhooksManage)).Post("/rotate-secret", webhookHandler.RotateSecret)
							r.With(perm(service.PermWebhooksRead)).Get("/deliveries", webhookHandler.ListDeliveries)
						})

						r.With(perm(service.PermWebhooksManage)).Post("/deliveries/{deliveryID}/redeliver", webhookHandler.Redeliver)
					})

					r.With(perm(service.PermActivityRead)).Get("/activity", activityHandler.List)

					r.Route("/notifications", func(r chi.Router) {
						r.Get("/", notificationHandler.List)
						r.Get("/unread-count", notificationHandler.UnreadCount)
						r.Post("/{notificationID}/read", notificationHandler.MarkRead)
						r.Post("/read-all", notificationHandler.MarkAllRead)
						r.Get("/preferences", notificationHandler.ListPreferences)
						r.Put("/preferences", notificationHandler.UpdatePreference)
					})
				})
			})
		})
	})

	return r
}
