package service

import "errors"

// Service-level failures. All of them are recoverable: controllers map
// them onto response codes.
var (
	ErrJobNotFound          = errors.New("job not found")
	ErrJobNotOpen           = errors.New("job is no longer accepting applications")
	ErrDuplicateApplication = errors.New("already applied for this job")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrInvalidState         = errors.New("action not allowed in current status")
	ErrNotOwner             = errors.New("not the owner of this resource")

	ErrUserNotFound       = errors.New("user not found")
	ErrPhoneTaken         = errors.New("user already exists with this phone number")
	ErrEmailTaken         = errors.New("user already exists with this email")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account is deactivated")
	ErrAlreadyVerified    = errors.New("phone number is already verified")
	ErrCodeInvalid        = errors.New("invalid verification code")
	ErrCodeExpired        = errors.New("verification code has expired")

	ErrInvalidCategory = errors.New("unknown job category")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidStatus   = errors.New("unknown status value")
)
