package domain

import (
	"errors"
)

var (
	MessageSuccessGetRecipes = "success get recipes"
	MessageFailedGetRecipes  = "failed to get recipes"

	ErrNoIngredients   = errors.New("no expiring ingredients available for recipe generation")
	ErrGeminiAPIFailed = errors.New("gemini API processing failed")
)

type (
	RecipeSuggestionRequest struct {
		WithinDays  int    `json:"within_days" validate:"omitempty,min=1,max=30"`
		CuisineType string `json:"cuisine_type" validate:"omitempty,max=50"`
	}

	Recipe struct {
		Title        string   `json:"title"`
		Ingredients  []string `json:"ingredients"`
		Instructions []string `json:"instructions"`
		CostSavings  string   `json:"cost_savings"`
	}

	RecipeSuggestionResponse struct {
		Recipes       []Recipe `json:"recipes"`
		TotalRecipes  int      `json:"total_recipes"`
		ExpiringItems int      `json:"expiring_items"`
	}
)
