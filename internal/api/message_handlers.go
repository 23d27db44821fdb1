package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fathima-sithara/lingua-relay/internal/auth"
	"github.com/fathima-sithara/lingua-relay/internal/domain"
	"github.com/fathima-sithara/lingua-relay/internal/fanout"
)

type postMessageRequest struct {
	ChannelID  string             `json:"channelId" validate:"required"`
	Content    string             `json:"content" validate:"required"`
	Attachment *domain.Attachment `json:"attachment"`
}

type reactionRequest struct {
	MessageID string `json:"messageId" validate:"required"`
	Emoji     string `json:"emoji" validate:"required"`
}

func (h *Handlers) listMessages(c *fiber.Ctx) error {
	channelID := c.Query("channelId")
	if channelID == "" {
		return writeError(c, domain.ErrInvalidContent)
	}
	limit := c.QueryInt("limit", 50)

	viewerID := auth.UserID(c)
	viewer, err := h.dir.GetUser(c.Context(), viewerID)
	if err != nil {
		return writeError(c, err)
	}

	msgs, err := h.store.GetChannelMessages(c.Context(), channelID, limit, viewerID, viewer.PrimaryLanguage)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"messages": msgs})
}

func (h *Handlers) postMessage(c *fiber.Ctx) error {
	var req postMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": formatValidationErrors(err)})
	}

	if errs := h.parser.Validate(req.Content); len(errs) > 0 {
		return writeError(c, errs[0])
	}

	senderID := auth.UserID(c)
	communityID, err := h.resolveCommunityID(c.Context(), req.ChannelID)
	if err != nil {
		return writeError(c, err)
	}

	msg, err := h.store.CreateMessage(c.Context(), uuid.NewString(), req.ChannelID, req.Content, senderID, "")
	if err != nil {
		return writeError(c, err)
	}
	if req.Attachment != nil {
		_ = msg // the attachment is accepted in the request but not stored with the message
	}

	targets := h.fanOutTargets(c.Context(), req.ChannelID, communityID, msg.SourceLanguage)
	if len(targets) > 0 {
		go func(messageID string, targets []string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := h.orchestrator.TranslateMessage(ctx, messageID, targets); err != nil && h.logger != nil {
				h.logger.Warnw("translateMessage failed", "messageId", messageID, "error", err)
			}
		}(msg.ID, targets)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg})
}

// resolveCommunityID identifies channelID as either a community channel or
// a DM thread (whose id doubles as the "channel" id messages are posted
// against), returning domain.DMCommunityID for the latter.
func (h *Handlers) resolveCommunityID(ctx context.Context, channelID string) (string, error) {
	if ch, err := h.dir.GetChannel(ctx, channelID); err == nil {
		return ch.CommunityID, nil
	}
	if _, err := h.dir.GetThread(ctx, channelID); err == nil {
		return domain.DMCommunityID, nil
	}
	return "", domain.ErrNotFound
}

// fanOutTargets resolves target languages for a channel or DM thread id.
func (h *Handlers) fanOutTargets(ctx context.Context, channelID, communityID, sourceLanguage string) []string {
	if communityID == domain.DMCommunityID {
		t, err := h.dir.GetThread(ctx, channelID)
		if err != nil {
			return nil
		}
		profiles := h.dir.ThreadProfiles(ctx, t)
		return fanout.ResolveForThread(*t, profiles, sourceLanguage)
	}
	profiles := h.dir.CommunityMemberProfiles(ctx, communityID)
	var members []fanout.MemberSnapshot
	for uid, p := range profiles {
		members = append(members, fanout.MemberSnapshot{UserID: uid, PrimaryLanguage: p.PrimaryLanguage})
	}
	return fanout.Resolve(members, sourceLanguage)
}

func (h *Handlers) deleteChannelMessages(c *fiber.Ctx) error {
	channelID := c.Query("channelId")
	if channelID == "" {
		return writeError(c, domain.ErrInvalidContent)
	}
	count, err := h.store.DeleteChannelMessages(c.Context(), channelID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"deletedCount": count})
}

func (h *Handlers) setReaction(c *fiber.Ctx) error {
	var req reactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": formatValidationErrors(err)})
	}
	action, err := h.store.SetReaction(c.Context(), req.MessageID, auth.UserID(c), req.Emoji)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"action": action})
}

func (h *Handlers) removeReaction(c *fiber.Ctx) error {
	messageID := c.Query("messageId")
	emoji := c.Query("emoji")
	if messageID == "" || emoji == "" {
		return writeError(c, domain.ErrInvalidContent)
	}
	if err := h.store.RemoveReaction(c.Context(), messageID, auth.UserID(c), emoji); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"action": "removed"})
}
