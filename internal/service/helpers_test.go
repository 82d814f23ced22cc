package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/hex"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/access"
	"github.com/foodgram/foodgram-server/internal/auth"
	tagcolor "github.com/foodgram/foodgram-server/internal/color"
	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/foodgram/foodgram-server/internal/dto"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/media/images"
	"github.com/foodgram/foodgram-server/internal/metrics"
	"github.com/foodgram/foodgram-server/internal/store/sqlite"
	"github.com/foodgram/foodgram-server/internal/validation"
)

// testEnv wires every service over a temporary database and media directory.
type testEnv struct {
	store         *sqlite.Store
	images        *images.Processor
	tokens        *auth.TokenService
	auth          *AuthService
	sessions      *SessionService
	users         *UserService
	tags          *TagService
	ingredients   *IngredientService
	recipes       *RecipeService
	favorites     *FavoriteService
	shoppingCart  *ShoppingCartService
	subscriptions *SubscriptionService
}

func setupTestEnv(t *testing.T, colors ...string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	logger := slog.New(slog.DiscardHandler)

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(hex.EncodeToString(key), 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	storage, err := images.NewStorage(filepath.Join(dir, "media"), "recipes")
	require.NoError(t, err)
	processor := images.NewProcessor(storage, logger)

	authorizer, err := access.New()
	require.NoError(t, err)
	v := validation.New()
	m := metrics.New()
	enricher := dto.NewEnricher(s, "")

	gen := tagcolor.Random
	if len(colors) > 0 {
		gen = tagcolor.Sequence(colors...)
	}

	sessions := NewSessionService(s, tokens, logger)
	return &testEnv{
		store:         s,
		images:        processor,
		tokens:        tokens,
		sessions:      sessions,
		auth:          NewAuthService(s, tokens, sessions, v, logger),
		users:         NewUserService(s, enricher, authorizer, v, logger),
		tags:          NewTagService(s, gen, authorizer, v, logger),
		ingredients:   NewIngredientService(s, authorizer, v, logger),
		recipes:       NewRecipeService(s, enricher, processor, authorizer, v, logger),
		favorites:     NewFavoriteService(s, enricher, authorizer, m, logger),
		shoppingCart:  NewShoppingCartService(s, enricher, authorizer, m, logger),
		subscriptions: NewSubscriptionService(s, enricher, authorizer, m, logger),
	}
}

// createUser registers a user through the auth service and returns its subject.
func (e *testEnv) createUser(t *testing.T, username string) access.Subject {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterRequest{
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "Cook",
		Password:  "password123",
	})
	require.NoError(t, err)
	return access.Subject{UserID: u.ID, Role: domain.RoleUser}
}

// admin returns a subject with the admin role for an existing user.
func (e *testEnv) admin(t *testing.T) access.Subject {
	t.Helper()
	subject := e.createUser(t, "admin")
	user, err := e.store.GetUser(context.Background(), subject.UserID)
	require.NoError(t, err)
	user.Role = domain.RoleAdmin
	require.NoError(t, e.store.UpdateUser(context.Background(), user))
	subject.Role = domain.RoleAdmin
	return subject
}

func (e *testEnv) createTag(t *testing.T, admin access.Subject, name string) *domain.Tag {
	t.Helper()
	tag, err := e.tags.CreateTag(context.Background(), admin, CreateTagRequest{Name: name})
	require.NoError(t, err)
	return tag
}

func (e *testEnv) createIngredient(t *testing.T, admin access.Subject, name, unit string) *domain.Ingredient {
	t.Helper()
	ing, err := e.ingredients.CreateIngredient(context.Background(), admin, CreateIngredientRequest{Name: name, MeasurementUnit: unit})
	require.NoError(t, err)
	return ing
}

// fixture holds catalogue data shared by recipe tests.
type fixture struct {
	admin  access.Subject
	soup   *domain.Tag
	dinner *domain.Tag
	beet   *domain.Ingredient
	salt   *domain.Ingredient
}

func (e *testEnv) fixture(t *testing.T) fixture {
	t.Helper()
	admin := e.admin(t)
	return fixture{
		admin:  admin,
		soup:   e.createTag(t, admin, "Soup"),
		dinner: e.createTag(t, admin, "Dinner"),
		beet:   e.createIngredient(t, admin, "beet", "g"),
		salt:   e.createIngredient(t, admin, "salt", "pinch"),
	}
}

func (e *testEnv) createRecipe(t *testing.T, author access.Subject, req RecipeWrite) *dto.Recipe {
	t.Helper()
	r, err := e.recipes.CreateRecipe(context.Background(), author, req)
	require.NoError(t, err)
	return r
}

func validRecipe(t *testing.T, f fixture) RecipeWrite {
	t.Helper()
	return RecipeWrite{
		Tags: []string{f.soup.ID},
		Ingredients: []RecipeIngredientWrite{
			{ID: f.beet.ID, Amount: 300},
			{ID: f.salt.ID, Amount: 2},
		},
		Name:        "Borscht",
		Image:       pngDataURI(t),
		Text:        "Boil the beets.",
		CookingTime: 90,
	}
}

func pngDataURI(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := range 8 {
		for y := range 8 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func assertCode(t *testing.T, err error, code domainerrors.Code) *domainerrors.Error {
	t.Helper()
	var de *domainerrors.Error
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code, de.Message)
	return de
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()
	de := assertCode(t, err, domainerrors.CodeValidation)
	details, ok := de.Details.(map[string]string)
	require.True(t, ok, "details %T", de.Details)
	assert.Contains(t, details, field)
}
