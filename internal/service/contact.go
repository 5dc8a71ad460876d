package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/sakif/climate-hub/internal/apperror"
	"github.com/sakif/climate-hub/internal/metrics"
	"github.com/sakif/climate-hub/internal/model"
	"github.com/sakif/climate-hub/internal/repository"
)

const (
	MaxContactNameLength    = 100
	MaxContactMessageLength = 5000
)

// ContactService accepts "Send Us a Message" submissions.
type ContactService struct {
	repo    repository.ContactRepository
	metrics *metrics.Metrics
	logger  *slog.Logger
	now     func() time.Time
}

func NewContactService(repo repository.ContactRepository, m *metrics.Metrics, logger *slog.Logger) *ContactService {
	return &ContactService{
		repo:    repo,
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}
}

// ContactInput mirrors the contact form fields.
type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit validates and stores a message. All three fields are required; the
// email must be a bare address such as "ada@example.com".
func (s *ContactService) Submit(ctx context.Context, in ContactInput) (*model.ContactMessage, error) {
	name, err := sanitize("name", in.Name, MaxContactNameLength)
	if err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, apperror.ValidationFailed("email", "email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, apperror.ValidationFailed("email", "email must be a valid address")
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, apperror.ValidationFailed("message", "message is required")
	}
	if utf8.RuneCountInString(message) > MaxContactMessageLength {
		return nil, apperror.ValidationFailed("message",
			fmt.Sprintf("message must be at most %d characters", MaxContactMessageLength))
	}

	msg := &model.ContactMessage{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     addr.Address,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.SaveContact(ctx, msg); err != nil {
		return nil, fmt.Errorf("service/contact: saving message: %w", err)
	}
	s.metrics.ContactMessages.Inc()

	s.logger.Info("contact message received",
		slog.String("id", msg.ID),
		slog.String("email", msg.Email),
	)
	return msg, nil
}
