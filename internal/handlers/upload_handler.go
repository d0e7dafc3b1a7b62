package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/Toshiki-Isokawa/Trainora/internal/services"
)

// UploadHandler issues pre-signed upload URLs so the browser can PUT image
// bytes straight to object storage. The returned key is later recorded as the
// profile imageKey.
type UploadHandler struct {
	storage services.StorageService
}

func NewUploadHandler(storage services.StorageService) *UploadHandler {
	return &UploadHandler{storage: storage}
}

func (h *UploadHandler) CreateUploadURL(c *fiber.Ctx) error {
	if h.storage == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Uploads are not configured"})
	}

	var req struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Filename == "" || req.ContentType == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "filename and contentType are required"})
	}

	uploadURL, key, err := h.storage.CreateSignedUploadURL(c.Context(), req.Filename, req.ContentType)
	if err != nil {
		logrus.WithError(err).Error("failed to create signed upload url")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create upload URL"})
	}

	return c.JSON(fiber.Map{
		"url": uploadURL,
		"key": key,
	})
}
