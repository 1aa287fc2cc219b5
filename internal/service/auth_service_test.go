package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jua_kazi/internal/models"
	"jua_kazi/internal/service"
)

func registerWorker(t *testing.T, h *harness, rawPhone string) *models.User {
	t.Helper()
	user, err := h.auth.Register(context.Background(), service.RegisterInput{
		Role:     models.RoleWorker,
		Name:     "Otis Kamau",
		Phone:    rawPhone,
		Password: "secret123",
		County:   "Nairobi",
		Skills:   []string{"plumbing"},
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return user
}

func TestRegisterNormalizesPhone(t *testing.T) {
	h := newHarness()
	user := registerWorker(t, h, "0712345678")

	if user.Phone != "254712345678" {
		t.Errorf("stored phone = %q, want 254712345678", user.Phone)
	}
	if user.IsVerified.Phone {
		t.Error("new account must start unverified")
	}
	if user.VerificationCode == "" || len(user.VerificationCode) != 6 {
		t.Errorf("verification code = %q, want 6 digits", user.VerificationCode)
	}
	if !user.Active {
		t.Error("new account must start active")
	}
}

func TestRegisterDuplicatePhone(t *testing.T) {
	h := newHarness()
	registerWorker(t, h, "0712345678")

	// same number in a different format
	_, err := h.auth.Register(context.Background(), service.RegisterInput{
		Role:     models.RoleWorker,
		Name:     "Jane Wanjiku",
		Phone:    "254712345678",
		Password: "secret123",
		County:   "Nakuru",
	})
	if !errors.Is(err, service.ErrPhoneTaken) {
		t.Fatalf("err = %v, want ErrPhoneTaken", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	in := service.RegisterInput{
		Role:     models.RoleWorker,
		Name:     "Otis Kamau",
		Phone:    "0712345678",
		Email:    "otis@example.com",
		Password: "secret123",
		County:   "Nairobi",
	}
	if _, err := h.auth.Register(ctx, in); err != nil {
		t.Fatalf("Register: %v", err)
	}
	in.Phone = "0712345679"
	if _, err := h.auth.Register(ctx, in); !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestLogin(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	registerWorker(t, h, "0712345678")

	// either accepted phone format logs in
	for _, raw := range []string{"0712345678", "254712345678", "+254 712 345 678"} {
		user, err := h.auth.Login(ctx, raw, "secret123")
		if err != nil {
			t.Fatalf("Login(%q): %v", raw, err)
		}
		if user.LastLogin == nil {
			t.Error("login must stamp LastLogin")
		}
	}

	if _, err := h.auth.Login(ctx, "0712345678", "wrong"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := h.auth.Login(ctx, "0799999999", "secret123"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatalf("unknown phone: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	user := registerWorker(t, h, "0712345678")

	stored, err := h.store.Users.ByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	stored.Active = false
	if err := h.store.Users.Save(ctx, stored); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := h.auth.Login(ctx, "0712345678", "secret123"); !errors.Is(err, service.ErrAccountDisabled) {
		t.Fatalf("err = %v, want ErrAccountDisabled", err)
	}
}

func TestVerifyPhone(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	user := registerWorker(t, h, "0712345678")

	if err := h.auth.VerifyPhone(ctx, user.ID, "000000"); !errors.Is(err, service.ErrCodeInvalid) {
		t.Fatalf("wrong code: err = %v, want ErrCodeInvalid", err)
	}
	if err := h.auth.VerifyPhone(ctx, user.ID, user.VerificationCode); err != nil {
		t.Fatalf("VerifyPhone: %v", err)
	}

	stored, _ := h.store.Users.ByID(ctx, user.ID)
	if !stored.IsVerified.Phone || stored.VerificationCode != "" {
		t.Error("verification must set the flag and clear the code")
	}
	if err := h.auth.VerifyPhone(ctx, user.ID, "123456"); !errors.Is(err, service.ErrAlreadyVerified) {
		t.Fatalf("second verify: err = %v, want ErrAlreadyVerified", err)
	}
}

func TestVerifyPhoneExpiredCode(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	user := registerWorker(t, h, "0712345678")

	stored, _ := h.store.Users.ByID(ctx, user.ID)
	past := time.Now().Add(-time.Minute)
	stored.VerificationExpires = &past
	if err := h.store.Users.Save(ctx, stored); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := h.auth.VerifyPhone(ctx, user.ID, user.VerificationCode); !errors.Is(err, service.ErrCodeExpired) {
		t.Fatalf("err = %v, want ErrCodeExpired", err)
	}
}

func TestResendVerification(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	user := registerWorker(t, h, "0712345678")

	if err := h.auth.ResendVerification(ctx, user.ID); err != nil {
		t.Fatalf("ResendVerification: %v", err)
	}
	stored, _ := h.store.Users.ByID(ctx, user.ID)
	if stored.VerificationCode == "" {
		t.Fatal("resend must set a code")
	}
	if err := h.auth.VerifyPhone(ctx, user.ID, stored.VerificationCode); err != nil {
		t.Fatalf("verify with resent code: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	user := registerWorker(t, h, "0712345678")

	if err := h.auth.ForgotPassword(ctx, "0799999999"); !errors.Is(err, service.ErrUserNotFound) {
		t.Fatalf("unknown phone: err = %v, want ErrUserNotFound", err)
	}
	if err := h.auth.ForgotPassword(ctx, "0712345678"); err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}

	stored, _ := h.store.Users.ByID(ctx, user.ID)
	if err := h.auth.ResetPassword(ctx, "0712345678", "000000", "newsecret"); !errors.Is(err, service.ErrCodeInvalid) {
		t.Fatalf("wrong code: err = %v, want ErrCodeInvalid", err)
	}
	if err := h.auth.ResetPassword(ctx, "0712345678", stored.VerificationCode, "newsecret"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := h.auth.Login(ctx, "0712345678", "secret123"); !errors.Is(err, service.ErrInvalidCredentials) {
		t.Fatal("old password still accepted after reset")
	}
	if _, err := h.auth.Login(ctx, "0712345678", "newsecret"); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness()
	ctx := context.Background()
	user := registerWorker(t, h, "0712345678")

	name := "Otis K. Kamau"
	bio := "Plumber with ten years on Nairobi estates."
	updated, err := h.auth.UpdateProfile(ctx, user.ID, service.ProfileUpdate{
		Name:   &name,
		Bio:    &bio,
		Skills: []string{"plumbing", "pipe fitting"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if updated.Name != name || updated.Bio != bio || len(updated.Skills) != 2 {
		t.Errorf("profile not patched: %+v", updated)
	}
	// phone stays immutable through this path
	if updated.Phone != "254712345678" {
		t.Errorf("phone changed to %q", updated.Phone)
	}
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	email := "taken@example.com"
	if _, err := h.auth.Register(ctx, service.RegisterInput{
		Role: models.RoleWorker, Name: "Jane Wanjiku", Phone: "0712345670",
		Email: email, Password: "secret123", County: "Nairobi",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	user := registerWorker(t, h, "0712345678")

	if _, err := h.auth.UpdateProfile(ctx, user.ID, service.ProfileUpdate{Email: &email}); !errors.Is(err, service.ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}
