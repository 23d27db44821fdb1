package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/fathima-sithara/lingua-relay/internal/auth"
	"github.com/fathima-sithara/lingua-relay/internal/domain"
)

const authCookieName = "lingua_relay_token"

type registerRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Username        string `json:"username" validate:"required"`
	PrimaryLanguage string `json:"primaryLanguage" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profileUpdateRequest struct {
	PrimaryLanguage string `json:"primaryLanguage"`
	Avatar          string `json:"avatar"`
	Status          string `json:"status"`
}

func (h *Handlers) issueSession(c *fiber.Ctx, userID string) (string, error) {
	token, exp, err := h.authMgr.Issue(userID)
	if err != nil {
		return "", err
	}
	c.Cookie(&fiber.Cookie{
		Name:     authCookieName,
		Value:    token,
		Expires:  exp,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return token, nil
}

func (h *Handlers) register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": formatValidationErrors(err)})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return writeError(c, err)
	}

	user, err := h.dir.CreateUser(c.Context(), req.Email, string(hash), req.Username, req.PrimaryLanguage)
	if err != nil {
		return writeError(c, err)
	}
	if _, err := h.issueSession(c, user.ID); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (h *Handlers) login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": formatValidationErrors(err)})
	}

	user, hash, err := h.dir.AuthenticateByEmail(c.Context(), req.Email)
	if err != nil {
		return writeError(c, domain.ErrAuthInvalid)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)) != nil {
		return writeError(c, domain.ErrAuthInvalid)
	}
	if _, err := h.issueSession(c, user.ID); err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *Handlers) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:    authCookieName,
		Value:   "",
		Expires: time.Unix(0, 0),
	})
	return c.JSON(fiber.Map{})
}

func (h *Handlers) me(c *fiber.Ctx) error {
	user, err := h.dir.GetUser(c.Context(), auth.UserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *Handlers) updateProfile(c *fiber.Ctx) error {
	var req profileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	user, err := h.dir.UpdateProfile(c.Context(), auth.UserID(c), req.PrimaryLanguage, req.Avatar, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

func (h *Handlers) getUser(c *fiber.Ctx) error {
	user, err := h.dir.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":              user.ID,
		"username":        user.Username,
		"primaryLanguage": user.PrimaryLanguage,
		"avatar":          user.Avatar,
		"status":          user.Status,
	})
}
