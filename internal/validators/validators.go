// Package validators rejects malformed payloads before they reach the
// services. Failures are reported as a list of individual field errors,
// never a single collapsed message.
package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"jua_kazi/internal/models"
	"jua_kazi/internal/phone"
)

// Registration checks a signup payload.
func Registration(role, name, rawPhone, password, county string) []string {
	var errs []string
	if role != models.RoleWorker && role != models.RoleEmployer {
		errs = append(errs, `User type must be either "worker" or "employer"`)
	}
	if len(strings.TrimSpace(name)) < 2 {
		errs = append(errs, "Name must be at least 2 characters long")
	}
	if !phone.Valid(rawPhone) {
		errs = append(errs, "Please enter a valid Kenyan phone number (e.g., 0712345678 or 254712345678)")
	}
	if len(password) < 6 {
		errs = append(errs, "Password must be at least 6 characters long")
	}
	if strings.TrimSpace(county) == "" {
		errs = append(errs, "Location is required")
	}
	return errs
}

// JobPosting checks a job creation payload.
func JobPosting(title, description string, salaryAmount float64, county string) []string {
	var errs []string
	if len(strings.TrimSpace(title)) < 5 {
		errs = append(errs, "Job title must be at least 5 characters long")
	}
	if len(strings.TrimSpace(description)) < 20 {
		errs = append(errs, "Job description must be at least 20 characters long")
	}
	if salaryAmount <= 0 {
		errs = append(errs, "Salary amount must be a number greater than 0")
	}
	if strings.TrimSpace(county) == "" {
		errs = append(errs, "Location is required")
	}
	return errs
}

// BindingErrors flattens a gin binding failure into per-field messages.
func BindingErrors(err error) []string {
	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		out := make([]string, 0, len(vErrs))
		for _, fe := range vErrs {
			switch fe.Tag() {
			case "required":
				out = append(out, fmt.Sprintf("%s is required", fe.Field()))
			case "min":
				out = append(out, fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param()))
			case "oneof":
				out = append(out, fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param()))
			default:
				out = append(out, fmt.Sprintf("%s is invalid", fe.Field()))
			}
		}
		return out
	}
	return []string{err.Error()}
}
