package errors

// Error codes returned in the "error" field of every failure response.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
	// Authentication
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenMissing       = "AUTH_TOKEN_MISSING"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthTokenNotFresh      = "AUTH_TOKEN_NOT_FRESH"

	// Authorization
	AuthzPermissionDenied = "AUTHZ_PERMISSION_DENIED"

	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"

	// Resources
	ResourceNotFound = "RESOURCE_NOT_FOUND"
	ResourceConflict = "RESOURCE_CONFLICT"

	// Internal
	InternalServerError = "INTERNAL_SERVER_ERROR"
)
