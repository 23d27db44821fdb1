package api

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/lingua-relay/internal/auth"
	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

type createConversationRequest struct {
	// TargetUsername identifies the other participant, by user id or
	// username.
	TargetUsername string `json:"targetUsername" validate:"required"`
}

func (h *Handlers) listConversations(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	threads := h.dir.ThreadsForParticipant(c.Context(), userID)
	return c.JSON(fiber.Map{"conversations": threads})
}

func (h *Handlers) createConversation(c *fiber.Ctx) error {
	var req createConversationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": formatValidationErrors(err)})
	}

	target, err := h.resolveUser(c.Context(), req.TargetUsername)
	if err != nil {
		return writeError(c, err)
	}

	userID := auth.UserID(c)
	if target.ID == userID {
		return writeError(c, domain.ErrInvalidContent)
	}

	thread, err := h.dir.GetOrCreateThread(c.Context(), userID, target.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"conversation": thread})
}

// resolveUser accepts either a user id or a username.
func (h *Handlers) resolveUser(ctx context.Context, target string) (*domain.UserProfile, error) {
	if u, err := h.dir.GetUser(ctx, target); err == nil {
		return u, nil
	}
	if u, ok := h.dir.GetUserByUsername(ctx, target); ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}
