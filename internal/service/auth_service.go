package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	logrus "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"jua_kazi/internal/models"
	"jua_kazi/internal/phone"
	"jua_kazi/internal/sms"
	"jua_kazi/internal/store"
)

// Verification code validity windows.
const (
	verifyCodeTTL = 10 * time.Minute
	resetCodeTTL  = time.Hour
)

// AuthService handles registration, login and the phone verification flow.
// Token issuance stays in the HTTP layer.
type AuthService struct {
	users store.UserStore
	sms   *sms.Service
}

func NewAuthService(users store.UserStore, smsSvc *sms.Service) *AuthService {
	return &AuthService{users: users, sms: smsSvc}
}

type RegisterInput struct {
	Role      string
	Name      string
	Phone     string
	Email     string
	Password  string
	County    string
	SubCounty string
	Ward      string
	Skills    []string
}

// Register creates an unverified account and texts a verification code.
// The SMS is fire-and-forget: a failed send never fails registration.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	normalized, err := phone.Normalize(in.Phone)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.ByPhone(ctx, normalized); err == nil {
		return nil, ErrPhoneTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if in.Email != "" {
		if _, err := s.users.ByEmail(ctx, in.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	code := generateCode()
	expires := time.Now().Add(verifyCodeTTL)

	user := &models.User{
		Role:  in.Role,
		Name:  in.Name,
		Phone: normalized,
		Location: models.UserLocation{
			County:    in.County,
			SubCounty: in.SubCounty,
			Ward:      in.Ward,
		},
		Skills:              in.Skills,
		Availability:        models.AvailabilityAvailable,
		AvailabilityType:    models.TypeCasual,
		Password:            string(hash),
		VerificationCode:    code,
		VerificationExpires: &expires,
		Active:              true,
		Notifications:       models.NotificationPrefs{SMS: true, WhatsApp: true},
	}
	if in.Email != "" {
		user.Email = &in.Email
	}
	if err := s.users.Create(ctx, user); err != nil {
		// two registrations racing on the same phone: the unique index
		// decides the winner
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrPhoneTaken
		}
		return nil, err
	}

	if err := s.sms.SendVerificationCode(user.Phone, code); err != nil {
		logrus.WithError(err).WithField("phone", user.Phone).Warn("verification SMS failed")
	}
	return user, nil
}

// Login authenticates by phone and password and stamps the last login.
func (s *AuthService) Login(ctx context.Context, rawPhone, password string) (*models.User, error) {
	normalized, err := phone.Normalize(rawPhone)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.ByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	now := time.Now()
	user.LastLogin = &now
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Me returns the caller's own profile.
func (s *AuthService) Me(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// VerifyPhone confirms the time-boxed numeric code and marks the phone
// verified.
func (s *AuthService) VerifyPhone(ctx context.Context, userID uint, code string) error {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified.Phone {
		return ErrAlreadyVerified
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return ErrCodeInvalid
	}
	if user.VerificationExpires == nil || user.VerificationExpires.Before(time.Now()) {
		return ErrCodeExpired
	}
	user.IsVerified.Phone = true
	user.VerificationCode = ""
	user.VerificationExpires = nil
	return s.users.Save(ctx, user)
}

// ResendVerification issues a fresh code for an unverified phone.
func (s *AuthService) ResendVerification(ctx context.Context, userID uint) error {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsVerified.Phone {
		return ErrAlreadyVerified
	}
	code := generateCode()
	expires := time.Now().Add(verifyCodeTTL)
	user.VerificationCode = code
	user.VerificationExpires = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	if err := s.sms.SendVerificationCode(user.Phone, code); err != nil {
		logrus.WithError(err).WithField("phone", user.Phone).Warn("verification SMS failed")
	}
	return nil
}

// ForgotPassword texts a reset code to a known phone number.
func (s *AuthService) ForgotPassword(ctx context.Context, rawPhone string) error {
	normalized, err := phone.Normalize(rawPhone)
	if err != nil {
		return ErrUserNotFound
	}
	user, err := s.users.ByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	code := generateCode()
	expires := time.Now().Add(resetCodeTTL)
	user.VerificationCode = code
	user.VerificationExpires = &expires
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	if err := s.sms.SendResetCode(user.Phone, code); err != nil {
		logrus.WithError(err).WithField("phone", user.Phone).Warn("reset SMS failed")
	}
	return nil
}

// ResetPassword sets a new password after checking the reset code.
func (s *AuthService) ResetPassword(ctx context.Context, rawPhone, code, newPassword string) error {
	normalized, err := phone.Normalize(rawPhone)
	if err != nil {
		return ErrUserNotFound
	}
	user, err := s.users.ByPhone(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.VerificationCode == "" || user.VerificationCode != code {
		return ErrCodeInvalid
	}
	if user.VerificationExpires == nil || user.VerificationExpires.Before(time.Now()) {
		return ErrCodeExpired
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hash)
	user.VerificationCode = ""
	user.VerificationExpires = nil
	return s.users.Save(ctx, user)
}

type ProfileUpdate struct {
	Name                  *string
	Email                 *string
	County                *string
	SubCounty             *string
	Ward                  *string
	Skills                []string
	ExperienceYears       *int
	ExperienceDescription *string
	Availability          *string
	AvailabilityType      *string
	CompanyName           *string
	CompanySize           *string
	Industry              *string
	ProfileImage          *string
	Bio                   *string
	Portfolio             []string
	Notifications         *models.NotificationPrefs
}

// UpdateProfile patches the caller's profile. Password, phone and the
// verification fields are immutable through this path.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileUpdate) (*models.User, error) {
	user, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		user.Name = *in.Name
	}
	if in.Email != nil {
		if *in.Email == "" {
			user.Email = nil
		} else if user.Email == nil || *user.Email != *in.Email {
			if _, err := s.users.ByEmail(ctx, *in.Email); err == nil {
				return nil, ErrEmailTaken
			} else if !errors.Is(err, store.ErrNotFound) {
				return nil, err
			}
			user.Email = in.Email
			user.IsVerified.Email = false
		}
	}
	if in.County != nil {
		user.Location.County = *in.County
	}
	if in.SubCounty != nil {
		user.Location.SubCounty = *in.SubCounty
	}
	if in.Ward != nil {
		user.Location.Ward = *in.Ward
	}
	if in.Skills != nil {
		user.Skills = in.Skills
	}
	if in.ExperienceYears != nil {
		user.ExperienceYears = *in.ExperienceYears
	}
	if in.ExperienceDescription != nil {
		user.ExperienceDescription = *in.ExperienceDescription
	}
	if in.Availability != nil {
		user.Availability = *in.Availability
	}
	if in.AvailabilityType != nil {
		user.AvailabilityType = *in.AvailabilityType
	}
	if in.CompanyName != nil {
		user.CompanyName = *in.CompanyName
	}
	if in.CompanySize != nil {
		user.CompanySize = *in.CompanySize
	}
	if in.Industry != nil {
		user.Industry = *in.Industry
	}
	if in.ProfileImage != nil {
		user.ProfileImage = *in.ProfileImage
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Portfolio != nil {
		user.Portfolio = in.Portfolio
	}
	if in.Notifications != nil {
		user.Notifications = *in.Notifications
	}
	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return user, nil
}

// generateCode produces a 6-digit numeric verification code.
func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failure means the process has bigger problems
		return "000000"
	}
	return fmt.Sprintf("%06d", n.Int64()+100000)
}
