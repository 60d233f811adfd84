package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"talentscope/cs-evaluator/internal/models"
	"talentscope/cs-evaluator/internal/repositories"
	"talentscope/cs-evaluator/internal/services"
)

type EvaluationHandler struct {
	evaluator      services.EvaluatorService
	docRepo        repositories.DocumentRepository
	storageService services.StorageService
	maxFileSize    int64
	logger         *zap.Logger
}

func NewEvaluationHandler(
	evaluator services.EvaluatorService,
	docRepo repositories.DocumentRepository,
	storageService services.StorageService,
	maxFileSize int64,
	logger *zap.Logger,
) *EvaluationHandler {
	return &EvaluationHandler{
		evaluator:      evaluator,
		docRepo:        docRepo,
		storageService: storageService,
		maxFileSize:    maxFileSize,
		logger:         logger,
	}
}

// HandleEvaluate handles POST /evaluate. Once the request is well formed the
// response is always 200; an evaluation failure is reported as status Erro.
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	var req models.EvaluateRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}

	attrs, err := parseAttributes(req)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	document, err := h.loadDocument(c, req.DocumentID)
	if err != nil {
		return c.Status(fiberStatus(err)).JSON(fiber.Map{
			"error": fiberMessage(err),
		})
	}

	outcome := h.evaluator.Evaluate(c.UserContext(), attrs, document)

	return c.JSON(models.NewEvaluateResponse(outcome))
}

// loadDocument prefers an uploaded "resume" file over a stored document_id.
// Neither being present is fine: the evaluation runs without a résumé.
func (h *EvaluationHandler) loadDocument(c *fiber.Ctx, documentID string) ([]byte, error) {
	if fileHeader, err := c.FormFile("resume"); err == nil {
		return h.readUpload(fileHeader)
	}

	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, nil
	}

	docID, err := uuid.Parse(documentID)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid document_id format")
	}

	doc, err := h.docRepo.FindByID(docID)
	if err != nil {
		if errors.Is(err, repositories.ErrDocumentNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Resume document not found")
		}
		h.logger.Error("failed to load document record", zap.String("document_id", documentID), zap.Error(err))
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to load resume document")
	}

	data, err := h.storageService.ReadFile(doc.FilePath)
	if err != nil {
		h.logger.Error("failed to read stored resume", zap.String("document_id", documentID), zap.Error(err))
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to read resume document")
	}

	return data, nil
}

func (h *EvaluationHandler) readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	if fileHeader.Size > h.maxFileSize {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize))
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), ".pdf") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Resume must be a PDF file")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to open uploaded resume")
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.maxFileSize+1))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Failed to read uploaded resume")
	}
	return data, nil
}

func fiberStatus(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return fiber.StatusInternalServerError
}

func fiberMessage(err error) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	return err.Error()
}

func parseAttributes(req models.EvaluateRequest) (models.CandidateAttributes, error) {
	var attrs models.CandidateAttributes

	if v := strings.TrimSpace(req.ExperienceMonths); v != "" {
		months, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return attrs, fmt.Errorf("experience_months must be a number")
		}
		attrs.ExperienceMonths = months
	}

	crm, err := parseLevel("crm_knowledge", req.CRMKnowledge)
	if err != nil {
		return attrs, err
	}
	attrs.CRMKnowledge = crm

	english, err := parseLevel("english", req.English)
	if err != nil {
		return attrs, err
	}
	attrs.English = english

	attrs.Degree = strings.TrimSpace(req.Degree)
	return attrs, nil
}

func parseLevel(field, raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	// Sliders may post "3" or "3.0"
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, fmt.Errorf("%s must be an integer", field)
	}
	return int(f), nil
}
