package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
)

func newAuthorizer(t *testing.T) *Authorizer {
	t.Helper()
	a, err := New()
	require.NoError(t, err)
	return a
}

func TestAllowed(t *testing.T) {
	a := newAuthorizer(t)

	alice := Subject{UserID: "user-alice", Role: domain.RoleUser}
	admin := Subject{UserID: "user-admin", Role: domain.RoleAdmin}

	tests := []struct {
		name    string
		subject Subject
		obj     Object
		action  Action
		owner   string
		want    bool
	}{
		{"anonymous reads recipes", Anonymous(), ObjectRecipe, ActionRead, "", true},
		{"anonymous registers", Anonymous(), ObjectUser, ActionCreate, "", true},
		{"anonymous cannot create recipe", Anonymous(), ObjectRecipe, ActionCreate, "", false},
		{"anonymous cannot favorite", Anonymous(), ObjectFavorite, ActionCreate, "", false},
		{"user inherits read", alice, ObjectTag, ActionRead, "", true},
		{"user creates recipe", alice, ObjectRecipe, ActionCreate, "", true},
		{"author updates own recipe", alice, ObjectRecipe, ActionUpdate, "user-alice", true},
		{"author deletes own recipe", alice, ObjectRecipe, ActionDelete, "user-alice", true},
		{"non-author cannot update", alice, ObjectRecipe, ActionUpdate, "user-bob", false},
		{"non-author cannot delete", alice, ObjectRecipe, ActionDelete, "user-bob", false},
		{"admin is not author", admin, ObjectRecipe, ActionUpdate, "user-bob", false},
		{"user cannot create tag", alice, ObjectTag, ActionCreate, "", false},
		{"admin creates tag", admin, ObjectTag, ActionCreate, "", true},
		{"admin creates ingredient", admin, ObjectIngredient, ActionCreate, "", true},
		{"user downloads cart", alice, ObjectShoppingCart, ActionRead, "", true},
		{"user subscribes", alice, ObjectSubscription, ActionCreate, "", true},
		{"empty role defaults to user", Subject{UserID: "user-x"}, ObjectFavorite, ActionCreate, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Allowed(tt.subject, tt.obj, tt.action, tt.owner)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthorize_ErrorCodes(t *testing.T) {
	a := newAuthorizer(t)

	err := a.Authorize(Anonymous(), ObjectRecipe, ActionCreate, "")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthorized))

	err = a.Authorize(Subject{UserID: "user-alice"}, ObjectRecipe, ActionDelete, "user-bob")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrForbidden))
	assert.Contains(t, err.Error(), "delete this recipe")

	assert.NoError(t, a.Authorize(Subject{UserID: "user-bob"}, ObjectRecipe, ActionDelete, "user-bob"))
}

func TestLoadPolicy_Malformed(t *testing.T) {
	a := newAuthorizer(t)
	err := loadPolicy(a.enforcer, "p, user, recipe\n")
	assert.Error(t, err)
}
