package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"jua_kazi/internal/middleware"
	"jua_kazi/internal/models"
	"jua_kazi/internal/service"
	"jua_kazi/internal/validators"
)

type AuthController struct {
	auth *service.AuthService
}

func NewAuthController(auth *service.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

type registerInput struct {
	UserType  string   `json:"user_type"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Password  string   `json:"password"`
	County    string   `json:"county"`
	SubCounty string   `json:"sub_county"`
	Ward      string   `json:"ward"`
	Skills    []string `json:"skills"`
}

// Register creates an account and returns a bearer token. The new user
// still has to verify their phone with the texted code.
func (ctl *AuthController) Register(c *gin.Context) {
	var input registerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, validators.BindingErrors(err))
		return
	}
	if errs := validators.Registration(input.UserType, input.Name, input.Phone, input.Password, input.County); len(errs) > 0 {
		validationFailed(c, errs)
		return
	}

	user, err := ctl.auth.Register(c.Request.Context(), service.RegisterInput{
		Role:      input.UserType,
		Name:      input.Name,
		Phone:     input.Phone,
		Email:     input.Email,
		Password:  input.Password,
		County:    input.County,
		SubCounty: input.SubCounty,
		Ward:      input.Ward,
		Skills:    input.Skills,
	})
	if err != nil {
		respondErr(c, err)
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		logrus.WithError(err).Error("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Registration successful. Please verify your phone number.",
		"token":   token,
		"user":    summarizeUser(user),
	})
}

// Login authenticates with phone + password.
func (ctl *AuthController) Login(c *gin.Context) {
	var body struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		validationFailed(c, validators.BindingErrors(err))
		return
	}

	user, err := ctl.auth.Login(c.Request.Context(), body.Phone, body.Password)
	if err != nil {
		respondErr(c, err)
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Role)
	if err != nil {
		logrus.WithError(err).Error("token generation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// Me returns the caller's own profile.
func (ctl *AuthController) Me(c *gin.Context) {
	user, err := ctl.auth.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// VerifyPhone confirms the texted verification code.
func (ctl *AuthController) VerifyPhone(c *gin.Context) {
	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		validationFailed(c, validators.BindingErrors(err))
		return
	}
	if err := ctl.auth.VerifyPhone(c.Request.Context(), middleware.UserID(c), body.Code); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Phone number verified successfully"})
}

// ResendVerification issues a fresh verification code.
func (ctl *AuthController) ResendVerification(c *gin.Context) {
	if err := ctl.auth.ResendVerification(c.Request.Context(), middleware.UserID(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Verification code resent successfully"})
}

// ForgotPassword texts a reset code to the given phone.
func (ctl *AuthController) ForgotPassword(c *gin.Context) {
	var body struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		validationFailed(c, validators.BindingErrors(err))
		return
	}
	if err := ctl.auth.ForgotPassword(c.Request.Context(), body.Phone); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset code sent to your phone"})
}

// ResetPassword sets a new password using the texted reset code.
func (ctl *AuthController) ResetPassword(c *gin.Context) {
	var body struct {
		Phone       string `json:"phone" binding:"required"`
		Code        string `json:"code" binding:"required"`
		NewPassword string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		validationFailed(c, validators.BindingErrors(err))
		return
	}
	if err := ctl.auth.ResetPassword(c.Request.Context(), body.Phone, body.Code, body.NewPassword); err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password reset successful. You can now login with your new password."})
}

type profileInput struct {
	Name                  *string                   `json:"name"`
	Email                 *string                   `json:"email"`
	County                *string                   `json:"county"`
	SubCounty             *string                   `json:"sub_county"`
	Ward                  *string                   `json:"ward"`
	Skills                []string                  `json:"skills"`
	ExperienceYears       *int                      `json:"experience_years"`
	ExperienceDescription *string                   `json:"experience_description"`
	Availability          *string                   `json:"availability"`
	AvailabilityType      *string                   `json:"availability_type"`
	CompanyName           *string                   `json:"company_name"`
	CompanySize           *string                   `json:"company_size"`
	Industry              *string                   `json:"industry"`
	ProfileImage          *string                   `json:"profile_image"`
	Bio                   *string                   `json:"bio"`
	Portfolio             []string                  `json:"portfolio"`
	Notifications         *models.NotificationPrefs `json:"notifications"`
}

// UpdateProfile patches the caller's profile. Password and phone cannot be
// changed here.
func (ctl *AuthController) UpdateProfile(c *gin.Context) {
	var input profileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		validationFailed(c, validators.BindingErrors(err))
		return
	}
	user, err := ctl.auth.UpdateProfile(c.Request.Context(), middleware.UserID(c), service.ProfileUpdate{
		Name:                  input.Name,
		Email:                 input.Email,
		County:                input.County,
		SubCounty:             input.SubCounty,
		Ward:                  input.Ward,
		Skills:                input.Skills,
		ExperienceYears:       input.ExperienceYears,
		ExperienceDescription: input.ExperienceDescription,
		Availability:          input.Availability,
		AvailabilityType:      input.AvailabilityType,
		CompanyName:           input.CompanyName,
		CompanySize:           input.CompanySize,
		Industry:              input.Industry,
		ProfileImage:          input.ProfileImage,
		Bio:                   input.Bio,
		Portfolio:             input.Portfolio,
		Notifications:         input.Notifications,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Profile updated successfully", "user": user})
}

func summarizeUser(user *models.User) gin.H {
	return gin.H{
		"id":          user.ID,
		"name":        user.Name,
		"phone":       user.Phone,
		"user_type":   user.Role,
		"is_verified": user.IsVerified,
	}
}
