package handlers

import (
	"PantryPal/domain"
	"PantryPal/internal/api/presenters"
	"PantryPal/pkg/recipe"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	RecipeHandler interface {
		SuggestRecipes(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *recipeHandler) SuggestRecipes(c *fiber.Ctx) error {
	email := c.Locals(domain.LocalsUserEmail).(string)
	req := new(domain.RecipeSuggestionRequest)

	// An empty body asks for the defaults.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(req); err != nil {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}

	res, err := h.recipeService.SuggestRecipes(c.Context(), email, *req)
	if err != nil {
		if errors.Is(err, domain.ErrNoIngredients) {
			return presenters.SuccessResponse(c, fiber.Map{
				"recipes":        []domain.Recipe{},
				"total_recipes":  0,
				"expiring_items": 0,
				"message":        "No expiring ingredients found. Add items with expiration dates to get suggestions.",
			}, fiber.StatusOK, "No ingredients available")
		}
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}
