package handlers

import (
	"encoding/json"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// WorkoutHandler proxies the calendar workout log CRUD to the calculation
// backend. Validation here is presence-only; workout semantics (existence
// checks, per-day limits) live upstream.
type WorkoutHandler struct {
	backend backendForwarder
}

func NewWorkoutHandler(backend backendForwarder) *WorkoutHandler {
	return &WorkoutHandler{backend: backend}
}

func (h *WorkoutHandler) Record(c *fiber.Ctx) error {
	var req struct {
		UserID   string          `json:"userId"`
		Date     string          `json:"date"`
		Workouts json.RawMessage `json:"workouts"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.UserID == "" || req.Date == "" || isEmptyJSON(req.Workouts) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	return h.relay(c, fiber.MethodPost, nil)
}

func (h *WorkoutHandler) Update(c *fiber.Ctx) error {
	var req struct {
		UserID    string          `json:"userId"`
		Date      string          `json:"date"`
		WorkoutID string          `json:"workoutId"`
		BodyParts json.RawMessage `json:"bodyParts"`
		Workouts  json.RawMessage `json:"workouts"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.UserID == "" || req.Date == "" || req.WorkoutID == "" ||
		isEmptyJSON(req.BodyParts) || isEmptyJSON(req.Workouts) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing required fields"})
	}

	return h.relay(c, fiber.MethodPut, nil)
}

func (h *WorkoutHandler) Delete(c *fiber.Ctx) error {
	var req struct {
		UserID    string `json:"userId"`
		Date      string `json:"date"`
		WorkoutID string `json:"workoutId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.UserID == "" || req.Date == "" || req.WorkoutID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing userId, date, or workoutId"})
	}

	return h.relay(c, fiber.MethodDelete, nil)
}

func (h *WorkoutHandler) FetchByDate(c *fiber.Ctx) error {
	userID := c.Query("userId")
	date := c.Query("date")
	if userID == "" || date == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing userId or date"})
	}

	status, body, err := h.backend.Forward(c.Context(), fiber.MethodGet, "/workout/date",
		url.Values{"userId": {userID}, "date": {date}}, nil)
	if err != nil {
		logrus.WithError(err).Error("workout fetch by date proxy failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}

func (h *WorkoutHandler) FetchByMonth(c *fiber.Ctx) error {
	userID := c.Query("userId")
	month := c.Query("month")
	if userID == "" || month == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing userId or month"})
	}

	status, body, err := h.backend.Forward(c.Context(), fiber.MethodGet, "/workout/month",
		url.Values{"userId": {userID}, "month": {month}}, nil)
	if err != nil {
		logrus.WithError(err).Error("workout fetch by month proxy failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}

func (h *WorkoutHandler) relay(c *fiber.Ctx, method string, query url.Values) error {
	status, body, err := h.backend.Forward(c.Context(), method, "/workout", query, c.Body())
	if err != nil {
		logrus.WithError(err).Error("workout proxy failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(status).Send(body)
}

func isEmptyJSON(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "null"
}
