package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/abdul-maxwell/zetech-smart-attend/internal/dto"
)

var (
	ErrEmailContentMissing = errors.New("email content is required when AI drafting is off")
	ErrEmailPromptMissing  = errors.New("prompt is required when AI drafting is on")
)

// EmailDrafter turns a prompt into an HTML email body.
type EmailDrafter interface {
	GenerateEmailBody(ctx context.Context, prompt string) (string, error)
}

// EmailSender dispatches one HTML email and returns the provider
// message id.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlContent string) (string, error)
}

// NotificationService dispatches transactional email, optionally
// drafting the body with the text-generation provider first.
type NotificationService interface {
	SendEmail(ctx context.Context, req *dto.SendEmailRequest) (*dto.SendEmailResponse, error)
}

type notificationService struct {
	drafter EmailDrafter
	sender  EmailSender
	logger  *zap.Logger
}

// NewNotificationService creates a NotificationService instance.
func NewNotificationService(drafter EmailDrafter, sender EmailSender, logger *zap.Logger) NotificationService {
	return &notificationService{drafter: drafter, sender: sender, logger: logger}
}

func (s *notificationService) SendEmail(ctx context.Context, req *dto.SendEmailRequest) (*dto.SendEmailResponse, error) {
	content := req.Content

	if req.UseAI {
		if req.Prompt == "" {
			return nil, ErrEmailPromptMissing
		}
		drafted, err := s.drafter.GenerateEmailBody(ctx, req.Prompt)
		if err != nil {
			s.logger.Error("failed to draft email body", zap.Error(err))
			return nil, err
		}
		content = drafted
	} else if content == "" {
		return nil, ErrEmailContentMissing
	}

	messageID, err := s.sender.Send(ctx, req.To, req.Subject, content)
	if err != nil {
		s.logger.Error("failed to send email",
			zap.String("to", req.To),
			zap.String("subject", req.Subject),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("email dispatched",
		zap.String("to", req.To),
		zap.String("message_id", messageID),
		zap.Bool("ai_drafted", req.UseAI),
	)

	return &dto.SendEmailResponse{
		Success:   true,
		MessageID: messageID,
		Content:   content,
	}, nil
}
