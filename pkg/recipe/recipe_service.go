package recipe

import (
	"PantryPal/domain"
	"PantryPal/internal/utils/gemini"
	"PantryPal/pkg/inventory"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	defaultWithinDays = 7
	maxRecipes        = 3
)

type (
	RecipeService interface {
		SuggestRecipes(ctx context.Context, email string, req domain.RecipeSuggestionRequest) (domain.RecipeSuggestionResponse, error)
	}

	recipeService struct {
		inventoryService inventory.InventoryService
		llm              gemini.Client
		now              func() time.Time
	}
)

func NewRecipeService(inventoryService inventory.InventoryService, llm gemini.Client) RecipeService {
	return &recipeService{
		inventoryService: inventoryService,
		llm:              llm,
		now:              time.Now,
	}
}

func (s *recipeService) SuggestRecipes(ctx context.Context, email string, req domain.RecipeSuggestionRequest) (domain.RecipeSuggestionResponse, error) {
	withinDays := req.WithinDays
	if withinDays <= 0 {
		withinDays = defaultWithinDays
	}

	rows, err := s.inventoryService.ListExpiringItems(ctx, email, time.Duration(withinDays)*24*time.Hour)
	if err != nil {
		return domain.RecipeSuggestionResponse{}, err
	}
	if len(rows) == 0 {
		return domain.RecipeSuggestionResponse{Recipes: []domain.Recipe{}}, domain.ErrNoIngredients
	}

	now := s.now()
	ingredients := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		ingredients = append(ingredients, map[string]any{
			"name":            r.Name,
			"quantity":        r.Quantity,
			"expirationDate":  r.ExpirationDate.Format(domain.DateLayout),
			"daysUntilExpiry": int(r.ExpirationDate.Sub(now).Hours() / 24),
		})
	}
	ingredientsJSON, err := json.Marshal(ingredients)
	if err != nil {
		return domain.RecipeSuggestionResponse{}, err
	}

	cuisine := ""
	if req.CuisineType != "" {
		cuisine = fmt.Sprintf("Prefer %s cuisine. ", req.CuisineType)
	}

	prompt := fmt.Sprintf(
		"You are a home cook helping someone avoid food waste. "+
			"These pantry items have expired recently or expire soon: %s. "+
			"%sSuggest 2 to 3 simple recipes that use as many of them as possible, closest expiry first. "+
			"Respond only with a JSON array of objects with the fields "+
			"title (string), ingredients (array of strings), instructions (array of strings) and "+
			"costSavings (short string estimating money saved). No text outside the JSON array.",
		string(ingredientsJSON),
		cuisine,
	)

	text, err := s.llm.GenerateContent(ctx, prompt, nil)
	if err != nil {
		return domain.RecipeSuggestionResponse{}, err
	}

	recipes, err := ParseRecipes(text)
	if err != nil {
		return domain.RecipeSuggestionResponse{}, err
	}

	return domain.RecipeSuggestionResponse{
		Recipes:       recipes,
		TotalRecipes:  len(recipes),
		ExpiringItems: len(rows),
	}, nil
}

// ParseRecipes reads model output defensively. Entries without a title are dropped
// and list fields given as a single string are split into lines.
func ParseRecipes(text string) ([]domain.Recipe, error) {
	raw, err := gemini.ExtractJSONArray(text)
	if err != nil {
		return nil, domain.Upstream("recipe suggestions", err)
	}

	recipes := make([]domain.Recipe, 0, maxRecipes)
	gjson.Parse(raw).ForEach(func(_, entry gjson.Result) bool {
		title := strings.TrimSpace(entry.Get("title").String())
		if !entry.IsObject() || title == "" {
			return true
		}

		savings := entry.Get("costSavings")
		if !savings.Exists() {
			savings = entry.Get("cost_savings")
		}

		recipes = append(recipes, domain.Recipe{
			Title:        title,
			Ingredients:  stringList(entry.Get("ingredients")),
			Instructions: stringList(entry.Get("instructions")),
			CostSavings:  strings.TrimSpace(savings.String()),
		})
		return len(recipes) < maxRecipes
	})

	if len(recipes) == 0 {
		return nil, domain.Upstream("recipe suggestions", fmt.Errorf("no usable recipes in response"))
	}
	return recipes, nil
}

func stringList(v gjson.Result) []string {
	out := make([]string, 0)
	if v.IsArray() {
		for _, e := range v.Array() {
			if s := strings.TrimSpace(e.String()); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	for _, line := range strings.Split(v.String(), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return out
}
