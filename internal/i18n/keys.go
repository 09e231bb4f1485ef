// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthPasswordChanged    = "auth.password_changed"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserCreated        = "user.created"
	KeyUserUpdated        = "user.updated"
	KeyUserDeleted        = "user.deleted"
	KeyUserAvatarUpdated  = "user.avatar_updated"

	// Stores
	KeyStoreCreated  = "store.created"
	KeyStoreUpdated  = "store.updated"
	KeyStoreDeleted  = "store.deleted"
	KeyStoreNotFound = "store.not_found"

	// Ratings
	KeyRatingSubmitted = "rating.submitted"
	KeyRatingUpdated   = "rating.updated"
	KeyRatingDeleted   = "rating.deleted"
	KeyRatingNotFound  = "rating.not_found"

	// Admin
	KeyAdminAccessDenied  = "admin.access_denied"
	KeyAdminActionSuccess = "admin.action_success"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
)
