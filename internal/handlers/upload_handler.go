package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentscope/cs-evaluator/internal/models"
	"talentscope/cs-evaluator/internal/repositories"
	"talentscope/cs-evaluator/internal/services"
)

type UploadHandler struct {
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
	logger         *zap.Logger
}

func NewUploadHandler(
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
	logger *zap.Logger,
) *UploadHandler {
	return &UploadHandler{
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

// HandleUpload handles POST /upload with a single "resume" PDF.
func (h *UploadHandler) HandleUpload(c *fiber.Ctx) error {
	resumeFile, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No resume uploaded. Please upload 'resume' as a PDF file.",
		})
	}

	if resumeFile.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	filename, filePath, err := h.storageService.SaveFile(resumeFile, models.FileTypeResume)
	if err != nil {
		if errors.Is(err, services.ErrInvalidExtension) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("failed to save resume", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save resume file",
		})
	}

	doc := models.Document{
		ID:               uuid.New(),
		Filename:         filename,
		OriginalFileName: resumeFile.Filename,
		FileType:         models.FileTypeResume,
		FilePath:         filePath,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := h.docRepo.Create(&doc); err != nil {
		// Cleanup uploaded file if database insert fails
		if delErr := h.storageService.DeleteFile(filename); delErr != nil {
			h.logger.Warn("failed to clean up resume file", zap.String("filename", filename), zap.Error(delErr))
		}
		h.logger.Error("failed to save resume record", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save resume document record",
		})
	}

	h.logger.Info("resume uploaded", zap.String("document_id", doc.ID.String()), zap.String("original_name", doc.OriginalFileName))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Resume uploaded successfully",
		"document": models.UploadResponse{
			ID:           doc.ID.String(),
			Filename:     doc.Filename,
			OriginalName: doc.OriginalFileName,
			FileType:     doc.FileType,
		},
	})
}
