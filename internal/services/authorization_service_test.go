// internal/services/authorization_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ratepoint/storeratings-backend/internal/apperrors"
	"github.com/ratepoint/storeratings-backend/internal/models"
)

func TestAuthorizationPolicy(t *testing.T) {
	authz := NewAuthorizationService()
	alice := uuid.New()
	bob := uuid.New()

	tests := []struct {
		name     string
		role     models.UserRole
		action   Action
		ownerID  uuid.UUID
		actorID  uuid.UUID
		expected bool
	}{
		{"admin manages users", models.RoleSystemAdmin, ActionCreateUser, uuid.Nil, alice, true},
		{"admin deletes stores", models.RoleSystemAdmin, ActionDeleteStore, uuid.Nil, alice, true},
		{"admin moderates ratings", models.RoleSystemAdmin, ActionDeleteRating, bob, alice, true},
		{"admin cannot rate stores", models.RoleSystemAdmin, ActionCreateRating, uuid.Nil, alice, false},
		{"admin cannot edit ratings", models.RoleSystemAdmin, ActionUpdateRating, bob, alice, false},
		{"admin sees admin dashboard", models.RoleSystemAdmin, ActionViewAdminDashboard, uuid.Nil, alice, true},

		{"owner browses stores", models.RoleStoreOwner, ActionListStores, uuid.Nil, alice, true},
		{"owner cannot rate stores", models.RoleStoreOwner, ActionCreateRating, uuid.Nil, alice, false},
		{"owner sees own dashboard", models.RoleStoreOwner, ActionViewOwnerDashboard, alice, alice, true},
		{"owner denied another's dashboard", models.RoleStoreOwner, ActionViewOwnerDashboard, bob, alice, false},
		{"owner cannot manage users", models.RoleStoreOwner, ActionCreateUser, uuid.Nil, alice, false},
		{"owner cannot delete stores", models.RoleStoreOwner, ActionDeleteStore, uuid.Nil, alice, false},

		{"customer rates stores", models.RoleNormalUser, ActionCreateRating, uuid.Nil, alice, true},
		{"customer edits own rating", models.RoleNormalUser, ActionUpdateRating, alice, alice, true},
		{"customer denied another's rating", models.RoleNormalUser, ActionUpdateRating, bob, alice, false},
		{"customer deletes own rating", models.RoleNormalUser, ActionDeleteRating, alice, alice, true},
		{"customer denied deleting another's rating", models.RoleNormalUser, ActionDeleteRating, bob, alice, false},
		{"customer cannot delete stores", models.RoleNormalUser, ActionDeleteStore, uuid.Nil, alice, false},
		{"customer cannot manage users", models.RoleNormalUser, ActionListUsers, uuid.Nil, alice, false},
		{"customer denied admin dashboard", models.RoleNormalUser, ActionViewAdminDashboard, uuid.Nil, alice, false},

		{"unknown role denied", models.UserRole("ghost"), ActionListStores, uuid.Nil, alice, false},
		{"unknown action denied", models.RoleSystemAdmin, Action("store:explode"), uuid.Nil, alice, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, authz.Can(tt.role, tt.action, tt.ownerID, tt.actorID))
		})
	}
}

func TestAuthorizationPolicyIsDeterministic(t *testing.T) {
	authz := NewAuthorizationService()
	actor := uuid.New()

	for i := 0; i < 3; i++ {
		assert.True(t, authz.Can(models.RoleNormalUser, ActionCreateRating, uuid.Nil, actor))
		assert.False(t, authz.Can(models.RoleStoreOwner, ActionCreateRating, uuid.Nil, actor))
	}
}

func TestRequireWrapsDenial(t *testing.T) {
	authz := NewAuthorizationService()
	actor := uuid.New()

	err := authz.Require(models.RoleNormalUser, ActionDeleteStore, uuid.Nil, actor)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	assert.NoError(t, authz.Require(models.RoleNormalUser, ActionCreateRating, uuid.Nil, actor))
}
