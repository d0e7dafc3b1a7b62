package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ProfileHandler is the raw pass-through for profile lookups. The onboarding
// flow probes through its own resolver; this route exists for the home and
// settings pages, which render whatever the backend returns.
type ProfileHandler struct {
	backend backendForwarder
}

func NewProfileHandler(backend backendForwarder) *ProfileHandler {
	return &ProfileHandler{backend: backend}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId is required"})
	}

	status, body, err := h.backend.Forward(c.Context(), fiber.MethodGet, "/user/profile",
		url.Values{"userId": {userID}}, nil)
	if err != nil {
		logrus.WithError(err).Error("profile proxy failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}
