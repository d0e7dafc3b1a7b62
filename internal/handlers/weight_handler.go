package handlers

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type backendForwarder interface {
	Forward(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error)
}

// WeightHandler proxies daily body-weight logging to the calculation backend.
type WeightHandler struct {
	backend backendForwarder
}

func NewWeightHandler(backend backendForwarder) *WeightHandler {
	return &WeightHandler{backend: backend}
}

// Record forwards one weight entry and relays the backend's answer as is.
// De-duplication of same-day entries happens upstream.
func (h *WeightHandler) Record(c *fiber.Ctx) error {
	status, body, err := h.backend.Forward(c.Context(), fiber.MethodPost, "/weight/daily", nil, c.Body())
	if err != nil {
		logrus.WithError(err).Error("weight record proxy failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}

// History fetches the weight series for charting, normalizing each item's
// weight to a number regardless of how the backend encoded it.
func (h *WeightHandler) History(c *fiber.Ctx) error {
	userID := c.Query("userId")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userId is required"})
	}

	status, body, err := h.backend.Forward(c.Context(), fiber.MethodGet, "/weight/daily", url.Values{"userId": {userID}}, nil)
	if err != nil {
		logrus.WithError(err).Error("weight history proxy failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(status).Send(body)
	}

	var upstream struct {
		Items []struct {
			Date   string      `json:"date"`
			Weight json.Number `json:"weight"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &upstream); err != nil {
		logrus.WithError(err).Error("failed to decode weight history response")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	type item struct {
		Date   string  `json:"date"`
		Weight float64 `json:"weight"`
	}
	items := make([]item, 0, len(upstream.Items))
	for _, i := range upstream.Items {
		weight, _ := i.Weight.Float64()
		items = append(items, item{Date: i.Date, Weight: weight})
	}

	return c.JSON(fiber.Map{"items": items})
}
