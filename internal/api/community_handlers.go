package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fathima-sithara/lingua-relay/internal/auth"
	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

type createCommunityRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

type createChannelRequest struct {
	CommunityID string `json:"communityId" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *Handlers) listCommunities(c *fiber.Ctx) error {
	communities, channels := h.dir.CommunitiesForMember(c.Context(), auth.UserID(c))
	return c.JSON(fiber.Map{"communities": communities, "channels": channels})
}

func (h *Handlers) createCommunity(c *fiber.Ctx) error {
	var req createCommunityRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": formatValidationErrors(err)})
	}

	community, channel, err := h.dir.CreateCommunity(c.Context(), req.Name, req.Description, auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"community": community, "channel": channel})
}

func (h *Handlers) discoverCommunities(c *fiber.Ctx) error {
	userID := auth.UserID(c)
	all := h.dir.DiscoverCommunities(c.Context(), userID)

	type withMembership struct {
		*domain.Community
		IsMember bool `json:"isMember"`
	}
	out := make([]withMembership, 0, len(all))
	for _, community := range all {
		out = append(out, withMembership{Community: community, IsMember: community.Members[userID]})
	}
	return c.JSON(fiber.Map{"communities": out})
}

func (h *Handlers) joinCommunity(c *fiber.Ctx) error {
	if err := h.dir.JoinCommunity(c.Context(), c.Params("id"), auth.UserID(c)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{})
}

func (h *Handlers) createChannel(c *fiber.Ctx) error {
	var req createChannelRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": formatValidationErrors(err)})
	}
	if !h.dir.IsMember(c.Context(), req.CommunityID, auth.UserID(c)) {
		return writeError(c, domain.ErrForbidden)
	}

	channel, err := h.dir.CreateChannel(c.Context(), req.CommunityID, req.Name, req.Description)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"channel": channel})
}
