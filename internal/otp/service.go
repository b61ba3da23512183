package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"math/big"

	"kinship/internal/models"
	"kinship/internal/observability"
)

// EmailLookup reports whether an email is already registered.
type EmailLookup interface {
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// Mailer delivers a code to its owner.
type Mailer interface {
	SendCode(ctx context.Context, email, code string) error
}

// CodeGenerator produces a fresh code.
type CodeGenerator func() (string, error)

// RandomCode returns a uniformly random six digit code.
func RandomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// LogMailer records that a code was sent without revealing it.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendCode(ctx context.Context, email, _ string) error {
	l := m.Logger
	if l == nil {
		l = slog.Default()
	}
	l.InfoContext(ctx, "registration code issued", slog.String("email", email))
	return nil
}

// Service issues codes for unregistered emails and verifies them once.
type Service struct {
	cache    *Cache
	users    EmailLookup
	mailer   Mailer
	generate CodeGenerator
}

// NewService wires a Service. A nil generator uses RandomCode and a nil
// mailer uses LogMailer.
func NewService(cache *Cache, users EmailLookup, mailer Mailer, generate CodeGenerator) *Service {
	if generate == nil {
		generate = RandomCode
	}
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &Service{cache: cache, users: users, mailer: mailer, generate: generate}
}

// Issue stores a fresh code for email and hands it to the mailer. It fails
// with CONFLICT when the email already belongs to a user.
func (s *Service) Issue(ctx context.Context, email string) error {
	email = key(email)
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return models.NewConflictError("User already exists with email: " + email)
	}

	code, err := s.generate()
	if err != nil {
		return models.NewInternalError(fmt.Errorf("generate otp: %w", err))
	}
	s.cache.Put(email, code)

	if err := s.mailer.SendCode(ctx, email, code); err != nil {
		s.cache.Invalidate(email)
		return models.NewDependencyFailureError("failed to deliver verification code", err)
	}
	return nil
}

// Verify reports whether code is the live code for email. A match consumes
// the code.
func (s *Service) Verify(email, code string) bool {
	stored, ok := s.cache.Get(email)
	if !ok {
		observability.OTPVerifications.WithLabelValues("missing").Inc()
		return false
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		observability.OTPVerifications.WithLabelValues("mismatch").Inc()
		return false
	}
	s.cache.Invalidate(email)
	observability.OTPVerifications.WithLabelValues("ok").Inc()
	return true
}
