package routes

import (
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/adi8567/ballotlytic-wizard/internal/ballot"
	"github.com/adi8567/ballotlytic-wizard/internal/config"
	"github.com/adi8567/ballotlytic-wizard/internal/document"
	"github.com/adi8567/ballotlytic-wizard/internal/ledger"
	"github.com/adi8567/ballotlytic-wizard/internal/middleware"
	"github.com/adi8567/ballotlytic-wizard/internal/notification"
	"github.com/adi8567/ballotlytic-wizard/internal/session"
	"github.com/adi8567/ballotlytic-wizard/internal/trends"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without Postgres
// or Redis the service falls back to in-memory backends, which is the demo
// deployment.
func Setup(app *fiber.App, d Deps) error {
	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	// Plain text access log in desired format: [HH:MM:SS] 200 -  145ms METHOD /path
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(middleware.Audit(d.Logger))

	// Health
	RegisterHealthRoutes(app, d)

	// Session workflow
	var sessionStore session.Store
	if d.Cache != nil {
		sessionStore = session.NewRedisStore(d.Cache, 0)
	} else {
		sessionStore = session.NewMemoryStore()
	}
	authBackend := session.NewSimulatedBackend(d.Cfg.AuthLatency)
	sessionSvc := session.NewService(sessionStore, authBackend,
		session.WithConnectLatency(d.Cfg.ConnectLatency),
		session.WithRestoreLatency(d.Cfg.RestoreLatency),
	)
	sessionHandler := session.NewHandler(sessionSvc)

	// Document wallet
	oracle := document.NewSimulatedOracle(d.Cfg.OracleLatency, d.Cfg.VerifySuccessRate, nil)
	registry := document.NewRegistry(oracle)
	documentHandler := document.NewHandler(registry, voterIDFromLocals)

	// Ballot and settlement
	var ledgerBackend ledger.Ledger
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgresLedger(d.DB, nil)
	} else {
		ledgerBackend = ledger.NewInMemory(rand.New(rand.NewSource(time.Now().UnixNano())))
	}
	notifier := notification.NewLoggerNotifier(d.Logger)
	ballotSvc := ballot.NewService(ledgerBackend, notifier, d.Cfg.SettlementLatency)
	ballotHandler := ballot.NewHandler(ballotSvc)

	trendsHandler := trends.NewHandler()

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterSessionRoutes(api, sessionHandler, rateLimiter)
	RegisterTrendsRoutes(api, trendsHandler)
	api.Get("/parties", ballotHandler.Parties)
	api.Get("/results", ballotHandler.Results)

	// Protected routes
	authenticated := api.Group("", middleware.SessionAuth(sessionSvc))
	RegisterSessionMeRoutes(authenticated, sessionHandler)
	RegisterDocumentRoutes(authenticated, documentHandler)
	RegisterBallotRoutes(authenticated, ballotHandler, submitGuards(d)...)

	return nil
}

// submitGuards returns the extra middleware applied to vote submission:
// replay protection when Redis is available.
func submitGuards(d Deps) []fiber.Handler {
	if d.Cache == nil {
		return nil
	}
	return []fiber.Handler{middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger)}
}

// voterIDFromLocals extracts the authenticated voter ID placed in locals by
// the session middleware.
func voterIDFromLocals(c *fiber.Ctx) string {
	identity, _ := c.Locals(session.LocalsIdentityKey).(session.Identity)
	return identity.ID
}
