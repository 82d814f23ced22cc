// Package access decides which actor may perform which action on which
// resource. Roles and permissions live in an embedded casbin RBAC policy;
// ownership is checked by the caller supplying the resource owner.
package access

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"

	"github.com/foodgram/foodgram-server/internal/domain"
	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// RoleAnonymous is the role of requests without a valid access token.
const RoleAnonymous = "anonymous"

// Object names a resource kind.
type Object string

// Resource kinds.
const (
	ObjectRecipe       Object = "recipe"
	ObjectTag          Object = "tag"
	ObjectIngredient   Object = "ingredient"
	ObjectUser         Object = "user"
	ObjectFavorite     Object = "favorite"
	ObjectShoppingCart Object = "shopping_cart"
	ObjectSubscription Object = "subscription"
	ObjectSession      Object = "session"
)

// Action names an operation on a resource.
type Action string

// Actions. Update and delete on owned resources are granted through the
// "_own" variants.
const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Subject is the acting principal. A zero Subject is anonymous.
type Subject struct {
	UserID string
	Role   domain.Role
}

// Anonymous returns the subject for unauthenticated requests.
func Anonymous() Subject { return Subject{} }

// IsAnonymous reports whether no user is authenticated.
func (s Subject) IsAnonymous() bool { return s.UserID == "" }

func (s Subject) role() string {
	if s.IsAnonymous() {
		return RoleAnonymous
	}
	if s.Role == "" {
		return string(domain.RoleUser)
	}
	return string(s.Role)
}

// Authorizer enforces the access policy.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
}

// New builds an Authorizer from the embedded model and policy.
func New() (*Authorizer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("load access model: %w", err)
	}
	enforcer, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("create enforcer: %w", err)
	}
	if err := loadPolicy(enforcer, embeddedPolicy); err != nil {
		return nil, err
	}
	return &Authorizer{enforcer: enforcer}, nil
}

func loadPolicy(enforcer *casbin.SyncedEnforcer, policy string) error {
	r := csv.NewReader(strings.NewReader(policy))
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parse access policy: %w", err)
	}
	for _, rec := range records {
		switch {
		case rec[0] == "p" && len(rec) == 4:
			if _, err := enforcer.AddPolicy(rec[1], rec[2], rec[3]); err != nil {
				return fmt.Errorf("add policy %v: %w", rec, err)
			}
		case rec[0] == "g" && len(rec) == 3:
			if _, err := enforcer.AddGroupingPolicy(rec[1], rec[2]); err != nil {
				return fmt.Errorf("add role %v: %w", rec, err)
			}
		default:
			return fmt.Errorf("malformed policy line %v", rec)
		}
	}
	return nil
}

// Allowed reports whether subject may perform action on obj. ownerID is the
// user owning the target resource, or "" when ownership does not apply.
func (a *Authorizer) Allowed(subject Subject, obj Object, action Action, ownerID string) (bool, error) {
	role := subject.role()
	ok, err := a.enforcer.Enforce(role, string(obj), string(action))
	if err != nil {
		return false, fmt.Errorf("enforce %s %s %s: %w", role, obj, action, err)
	}
	if ok || ownerID == "" || subject.IsAnonymous() || ownerID != subject.UserID {
		return ok, nil
	}
	ok, err = a.enforcer.Enforce(role, string(obj), string(action)+"_own")
	if err != nil {
		return false, fmt.Errorf("enforce %s %s %s_own: %w", role, obj, action, err)
	}
	return ok, nil
}

// Authorize is Allowed returning a domain error on denial: UNAUTHORIZED for
// anonymous subjects, FORBIDDEN otherwise.
func (a *Authorizer) Authorize(subject Subject, obj Object, action Action, ownerID string) error {
	ok, err := a.Allowed(subject, obj, action, ownerID)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "authorization failed")
	}
	if ok {
		return nil
	}
	if subject.IsAnonymous() {
		return domainerrors.Unauthorized("authentication credentials were not provided")
	}
	return domainerrors.Forbidden(fmt.Sprintf("you do not have permission to %s this %s", action, strings.ReplaceAll(string(obj), "_", " ")))
}
