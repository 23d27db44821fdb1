// Package api wires the HTTP surface §6 requires onto the domain packages:
// auth/session issuance, community/channel/conversation management, and
// message posting/listing that triggers the Pipeline Orchestrator.
package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/fathima-sithara/lingua-relay/internal/auth"
	"github.com/fathima-sithara/lingua-relay/internal/directory"
	"github.com/fathima-sithara/lingua-relay/internal/domain"
	"github.com/fathima-sithara/lingua-relay/internal/metrics"
	"github.com/fathima-sithara/lingua-relay/internal/parser"
	"github.com/fathima-sithara/lingua-relay/internal/pipeline"
)

// MessageStore is the subset of store.Store the HTTP handlers call
// directly. The Orchestrator depends on the narrower pipeline.MessageStore
// instead.
type MessageStore interface {
	CreateMessage(ctx context.Context, id, channelID, content, senderID, sourceLanguage string) (*domain.Message, error)
	GetChannelMessages(ctx context.Context, channelID string, limit int, viewerID, viewerLanguage string) ([]*domain.Message, error)
	DeleteChannelMessages(ctx context.Context, channelID string) (int, error)
	SetReaction(ctx context.Context, messageID, userID, emoji string) (string, error)
	RemoveReaction(ctx context.Context, messageID, userID, emoji string) error
}

// Handlers holds the dependencies every route handler reads from.
type Handlers struct {
	dir          *directory.Directory
	store        MessageStore
	parser       *parser.Parser
	orchestrator *pipeline.Orchestrator
	authMgr      *auth.Manager
	logger       *zap.SugaredLogger
}

// NewHandlers constructs Handlers.
func NewHandlers(
	dir *directory.Directory,
	store MessageStore,
	p *parser.Parser,
	orchestrator *pipeline.Orchestrator,
	authMgr *auth.Manager,
	logger *zap.SugaredLogger,
) *Handlers {
	return &Handlers{
		dir:          dir,
		store:        store,
		parser:       p,
		orchestrator: orchestrator,
		authMgr:      authMgr,
		logger:       logger,
	}
}

// NewServer builds the Fiber app and registers every route.
func NewServer(h *Handlers, limiter *RateLimiter) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if fe, ok := err.(*fiber.Error); ok {
				return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	authGroup := app.Group("/auth")
	authGroup.Post("/register", h.register)
	authGroup.Post("/login", h.login)
	authGroup.Post("/logout", h.logout)
	authGroup.Get("/me", auth.RequireAuth(h.authMgr), h.me)
	authGroup.Put("/profile", auth.RequireAuth(h.authMgr), h.updateProfile)

	users := app.Group("/users", auth.RequireAuth(h.authMgr))
	users.Get("/:id", h.getUser)

	communities := app.Group("/communities", auth.RequireAuth(h.authMgr))
	communities.Get("/", h.listCommunities)
	communities.Post("/", h.createCommunity)
	communities.Get("/discover", h.discoverCommunities)
	communities.Post("/:id/join", h.joinCommunity)

	channels := app.Group("/channels", auth.RequireAuth(h.authMgr))
	channels.Post("/", h.createChannel)

	conversations := app.Group("/conversations", auth.RequireAuth(h.authMgr))
	conversations.Get("/", h.listConversations)
	conversations.Post("/", h.createConversation)

	messages := app.Group("/messages", auth.RequireAuth(h.authMgr))
	messages.Get("/", h.listMessages)
	messages.Post("/", limiter.Middleware(), h.postMessage)
	messages.Delete("/", h.deleteChannelMessages)
	messages.Post("/reactions", h.setReaction)
	messages.Delete("/reactions", h.removeReaction)

	return app
}
