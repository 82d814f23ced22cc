package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foodgram/foodgram-server/internal/access"
	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/dto"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/id"
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/normalize"
	"github.com/foodgram/foodgram-server/internal/store"
	"github.com/foodgram/foodgram-server/internal/validation"
)

// RecipeService handles recipe authoring and reading. Only the author may
// change or delete a recipe.
type RecipeService struct {
	store      store.Store
	enricher   *dto.Enricher
	images     *images.Processor
	authorizer *access.Authorizer
	validator  *validation.Validator
	logger     *slog.Logger
}

// NewRecipeService creates a new recipe service.
func NewRecipeService(
	store store.Store,
	enricher *dto.Enricher,
	images *images.Processor,
	authorizer *access.Authorizer,
	validator *validation.Validator,
	logger *slog.Logger,
) *RecipeService {
	return &RecipeService{
		store:      store,
		enricher:   enricher,
		images:     images,
		authorizer: authorizer,
		validator:  validator,
		logger:     logger,
	}
}

// RecipeIngredientWrite references a catalogue ingredient with an amount.
type RecipeIngredientWrite struct {
	ID     string `json:"id" validate:"required"`
	Amount int    `json:"amount" validate:"min=1,max=32000"`
}

// RecipeWrite is the payload accepted by create and update. Tags and
// ingredients are required on both; Image is required on create and keeps
// the current image when omitted on update.
type RecipeWrite struct {
	Tags        []string                `json:"tags" validate:"required,min=1,unique,dive,required"`
	Ingredients []RecipeIngredientWrite `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Name        string                  `json:"name" validate:"required,max=200"`
	Image       string                  `json:"image,omitempty"`
	Text        string                  `json:"text" validate:"required"`
	CookingTime int                     `json:"cooking_time" validate:"min=1,max=32000"`
}

// RecipeListParams filters and pages a recipe listing. The favorited and
// shopping cart filters only apply to authenticated viewers.
type RecipeListParams struct {
	AuthorID         string
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Page             store.PageParams
}

// GetRecipe returns the read representation of a recipe for viewer.
func (s *RecipeService) GetRecipe(ctx context.Context, viewer access.Subject, recipeID string) (*dto.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, storeError(err, "get recipe", "recipe")
	}
	return s.enricher.EnrichRecipe(ctx, viewer.UserID, recipe)
}

// ListRecipes returns one page of recipes, newest first.
func (s *RecipeService) ListRecipes(ctx context.Context, viewer access.Subject, params RecipeListParams) (store.PaginatedResult[*dto.Recipe], error) {
	var empty store.PaginatedResult[*dto.Recipe]

	filter := domain.RecipeFilter{
		AuthorID: params.AuthorID,
		TagSlugs: params.TagSlugs,
	}
	if !viewer.IsAnonymous() {
		filter.ViewerID = viewer.UserID
		filter.OnlyFavorited = params.IsFavorited
		filter.OnlyInShoppingCart = params.IsInShoppingCart
	}

	result, err := s.store.ListRecipes(ctx, filter, params.Page)
	if err != nil {
		return empty, fmt.Errorf("list recipes: %w", err)
	}
	recipes, err := s.enricher.EnrichRecipes(ctx, viewer.UserID, result.Items)
	if err != nil {
		return empty, err
	}
	return store.PaginatedResult[*dto.Recipe]{Items: recipes, Total: result.Total}, nil
}

// CreateRecipe publishes a recipe authored by actor.
func (s *RecipeService) CreateRecipe(ctx context.Context, actor access.Subject, req RecipeWrite) (*dto.Recipe, error) {
	if err := s.authorizer.Authorize(actor, access.ObjectRecipe, access.ActionCreate, ""); err != nil {
		return nil, err
	}
	if err := s.validateWrite(ctx, &req); err != nil {
		return nil, err
	}
	if req.Image == "" {
		return nil, domainerrors.FieldError("image", "is required")
	}

	recipeID, err := id.Generate(id.PrefixRecipe)
	if err != nil {
		return nil, fmt.Errorf("generate recipe ID: %w", err)
	}

	stored, err := s.saveImage(req.Image)
	if err != nil {
		return nil, err
	}

	recipe := &domain.Recipe{
		Entity:        domain.Entity{ID: recipeID},
		AuthorID:      actor.UserID,
		Name:          req.Name,
		Text:          req.Text,
		Image:         stored.Name,
		ImageBlurHash: stored.BlurHash,
		CookingTime:   req.CookingTime,
	}
	recipe.InitTimestamps()

	if err := s.store.CreateRecipe(ctx, recipe, req.Tags, recipeIngredients(req)); err != nil {
		s.images.Remove(stored.Name)
		return nil, storeError(err, "create recipe", "recipe")
	}

	s.logger.Info("Recipe created",
		"recipe_id", recipe.ID,
		"author_id", recipe.AuthorID,
		"tags", len(req.Tags),
		"ingredients", len(req.Ingredients),
	)
	return s.enricher.EnrichRecipe(ctx, actor.UserID, recipe)
}

// UpdateRecipe rewrites a recipe. Tags and ingredients are replaced
// wholesale; the previous image file is removed when a new one is given.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actor access.Subject, recipeID string, req RecipeWrite) (*dto.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, storeError(err, "get recipe", "recipe")
	}
	if err := s.authorizer.Authorize(actor, access.ObjectRecipe, access.ActionUpdate, recipe.AuthorID); err != nil {
		return nil, err
	}
	if err := s.validateWrite(ctx, &req); err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	var stored *images.Stored
	if req.Image != "" {
		if stored, err = s.saveImage(req.Image); err != nil {
			return nil, err
		}
		recipe.Image = stored.Name
		recipe.ImageBlurHash = stored.BlurHash
	}

	recipe.Name = req.Name
	recipe.Text = req.Text
	recipe.CookingTime = req.CookingTime
	recipe.Touch()

	if err := s.store.UpdateRecipe(ctx, recipe, req.Tags, recipeIngredients(req)); err != nil {
		if stored != nil {
			s.images.Remove(stored.Name)
		}
		return nil, storeError(err, "update recipe", "recipe")
	}
	if stored != nil && oldImage != stored.Name {
		s.images.Remove(oldImage)
	}

	s.logger.Info("Recipe updated", "recipe_id", recipe.ID, "image_replaced", stored != nil)
	return s.enricher.EnrichRecipe(ctx, actor.UserID, recipe)
}

// DeleteRecipe removes a recipe together with its image.
func (s *RecipeService) DeleteRecipe(ctx context.Context, actor access.Subject, recipeID string) error {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return storeError(err, "get recipe", "recipe")
	}
	if err := s.authorizer.Authorize(actor, access.ObjectRecipe, access.ActionDelete, recipe.AuthorID); err != nil {
		return err
	}

	if err := s.store.DeleteRecipe(ctx, recipeID); err != nil {
		return storeError(err, "delete recipe", "recipe")
	}
	s.images.Remove(recipe.Image)

	s.logger.Info("Recipe deleted", "recipe_id", recipeID, "author_id", recipe.AuthorID)
	return nil
}

// validateWrite normalizes req in place, checks field rules, and checks
// that every referenced tag and ingredient exists.
func (s *RecipeService) validateWrite(ctx context.Context, req *RecipeWrite) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Text = normalize.RecipeText(req.Text)
	req.Image = strings.TrimSpace(req.Image)
	for i := range req.Tags {
		req.Tags[i] = strings.TrimSpace(req.Tags[i])
	}
	for i := range req.Ingredients {
		req.Ingredients[i].ID = strings.TrimSpace(req.Ingredients[i].ID)
	}

	if err := s.validator.Validate(req); err != nil {
		return err
	}

	details := map[string]string{}

	tags, err := s.store.GetTagsByIDs(ctx, req.Tags)
	if err != nil {
		return fmt.Errorf("lookup tags: %w", err)
	}
	if missing := missingIDs(req.Tags, tagIDs(tags)); len(missing) > 0 {
		details["tags"] = "unknown tag ids: " + strings.Join(missing, ", ")
	}

	refs := make([]string, len(req.Ingredients))
	for i, item := range req.Ingredients {
		refs[i] = item.ID
	}
	ingredients, err := s.store.GetIngredientsByIDs(ctx, refs)
	if err != nil {
		return fmt.Errorf("lookup ingredients: %w", err)
	}
	if missing := missingIDs(refs, ingredientIDs(ingredients)); len(missing) > 0 {
		details["ingredients"] = "unknown ingredient ids: " + strings.Join(missing, ", ")
	}

	if len(details) > 0 {
		return domainerrors.ValidationWithDetails("validation failed", details)
	}
	return nil
}

// saveImage stores an uploaded data URI. Malformed or unsupported uploads
// are validation errors on the image field.
func (s *RecipeService) saveImage(dataURI string) (*images.Stored, error) {
	stored, err := s.images.SaveDataURI(dataURI)
	if err != nil {
		if images.IsClientError(err) {
			return nil, domainerrors.FieldError("image", err.Error())
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "failed to save image")
	}
	return stored, nil
}

func recipeIngredients(req RecipeWrite) []domain.RecipeIngredient {
	items := make([]domain.RecipeIngredient, len(req.Ingredients))
	for i, item := range req.Ingredients {
		items[i] = domain.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount}
	}
	return items
}

func tagIDs(tags []*domain.Tag) map[string]bool {
	out := make(map[string]bool, len(tags))
	for _, t := range tags {
		out[t.ID] = true
	}
	return out
}

func ingredientIDs(ingredients []*domain.Ingredient) map[string]bool {
	out := make(map[string]bool, len(ingredients))
	for _, i := range ingredients {
		out[i.ID] = true
	}
	return out
}

// missingIDs returns the ids not in found, in request order.
func missingIDs(ids []string, found map[string]bool) []string {
	var missing []string
	for _, ref := range ids {
		if !found[ref] {
			missing = append(missing, ref)
		}
	}
	return missing
}
