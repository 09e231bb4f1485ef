// internal/services/authorization_service.go
package services

import (
	"github.com/google/uuid"

	"github.com/ratepoint/storeratings-backend/internal/apperrors"
	"github.com/ratepoint/storeratings-backend/internal/models"
)

// Action is the closed set of operations the policy knows about.
// Anything outside this set is denied.
type Action string

const (
	ActionCreateUser Action = "user:create"
	ActionUpdateUser Action = "user:update"
	ActionDeleteUser Action = "user:delete"
	ActionListUsers  Action = "user:list"

	ActionCreateStore Action = "store:create"
	ActionUpdateStore Action = "store:update"
	ActionDeleteStore Action = "store:delete"
	ActionListStores  Action = "store:list"

	ActionCreateRating Action = "rating:create"
	ActionUpdateRating Action = "rating:update"
	ActionDeleteRating Action = "rating:delete"
	ActionListRatings  Action = "rating:list"

	ActionViewAdminDashboard Action = "dashboard:admin"
	ActionViewOwnerDashboard Action = "dashboard:owner"
	ActionUpdateOwnProfile   Action = "profile:update"
)

type AuthorizationService struct{}

func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{}
}

// Can decides whether role may perform action. It is pure and
// side-effect-free: the same inputs always yield the same decision.
// resourceOwnerID identifies who owns the target resource (the rating
// author, the dashboard's owner); actorID is the requesting user.
// Ownership only matters for the own-resource actions below.
func (s *AuthorizationService) Can(role models.UserRole, action Action, resourceOwnerID, actorID uuid.UUID) bool {
	owns := actorID != uuid.Nil && actorID == resourceOwnerID

	switch role {
	case models.RoleSystemAdmin:
		switch action {
		case ActionCreateUser, ActionUpdateUser, ActionDeleteUser, ActionListUsers,
			ActionCreateStore, ActionUpdateStore, ActionDeleteStore, ActionListStores,
			ActionListRatings, ActionDeleteRating,
			ActionViewAdminDashboard, ActionUpdateOwnProfile:
			return true
		}

	case models.RoleStoreOwner:
		switch action {
		case ActionListStores, ActionUpdateOwnProfile:
			return true
		case ActionViewOwnerDashboard:
			return owns
		}

	case models.RoleNormalUser:
		switch action {
		case ActionListStores, ActionCreateRating, ActionUpdateOwnProfile:
			return true
		case ActionUpdateRating, ActionDeleteRating:
			return owns
		}
	}

	return false
}

// Require converts a denial into an AuthorizationError.
func (s *AuthorizationService) Require(role models.UserRole, action Action, resourceOwnerID, actorID uuid.UUID) error {
	if s.Can(role, action, resourceOwnerID, actorID) {
		return nil
	}
	return apperrors.Authorization("you are not allowed to perform this action")
}
