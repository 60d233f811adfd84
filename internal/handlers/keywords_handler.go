package handlers

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"talentscope/cs-evaluator/internal/models"
	"talentscope/cs-evaluator/internal/scoring"
)

type KeywordsHandler struct {
	catalog *scoring.Catalog
}

func NewKeywordsHandler(catalog *scoring.Catalog) *KeywordsHandler {
	return &KeywordsHandler{
		catalog: catalog,
	}
}

// HandleGetKeywords lists the keyword categories with their display colors.
func (h *KeywordsHandler) HandleGetKeywords(c *fiber.Ctx) error {
	return c.JSON(models.NewKeywordsResponse(h.catalog))
}

// HandleGetCategory handles GET /keywords/:category.
func (h *KeywordsHandler) HandleGetCategory(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("category"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid category name",
		})
	}

	category, ok := h.catalog.Lookup(name)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Category not found",
		})
	}

	return c.JSON(category)
}
