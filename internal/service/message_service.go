package service

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/eduhub/eduhub-api/internal/dto"
	"github.com/eduhub/eduhub-api/internal/models"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
	"github.com/eduhub/eduhub-api/pkg/mailer"
)

type messageRepository interface {
	CreateWithRecipients(ctx context.Context, message *models.Message, recipientType models.RecipientType, recipientIDs []string) error
	ClassAudienceEmails(ctx context.Context, classIDs []string) ([]string, error)
}

type messageUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	EmailsByIDs(ctx context.Context, ids []string) ([]string, error)
}

// MessageService resolves recipient selectors to email addresses,
// persists the message, and fans out delivery.
type MessageService struct {
	repo      messageRepository
	users     messageUserRepository
	mail      mailer.Mailer
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs the message service. Metrics may be nil.
func NewMessageService(repo messageRepository, users messageUserRepository, mail mailer.Mailer, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &MessageService{repo: repo, users: users, mail: mail, metrics: metrics, validator: validate, logger: logger}
	svc.validator.RegisterValidation("recipient_type", func(fl validator.FieldLevel) bool {
		return models.RecipientType(fl.Field().String()).Valid()
	})
	return svc
}

// SendMessageRequest is the send payload. One selector type covers all
// listed ids.
type SendMessageRequest struct {
	RecipientType string   `json:"recipientType" validate:"required,recipient_type"`
	RecipientIDs  []string `json:"recipientIds" validate:"required,min=1,dive,required"`
	Subject       string   `json:"subject" validate:"required"`
	Body          string   `json:"body" validate:"required"`
	IsEmergency   bool     `json:"isEmergency"`
}

// Send persists the message with one recipient row per selector id, then
// dispatches one email per unique resolved address. Individual dispatch
// failures are counted, not raised: a partial send is a normal outcome
// and the response carries sent vs attempted totals.
func (s *MessageService) Send(ctx context.Context, senderID string, req SendMessageRequest) (*dto.SendMessageResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}

	sender, err := s.users.FindByID(ctx, senderID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sender")
	}

	recipientType := models.RecipientType(req.RecipientType)
	addresses, err := s.resolveRecipients(ctx, recipientType, req.RecipientIDs)
	if err != nil {
		return nil, err
	}

	message := &models.Message{
		SenderID:    senderID,
		Subject:     req.Subject,
		Body:        req.Body,
		IsEmail:     true,
		IsEmergency: req.IsEmergency,
	}
	if err := s.repo.CreateWithRecipients(ctx, message, recipientType, req.RecipientIDs); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save message")
	}

	sent := s.dispatch(ctx, sender, message, addresses)

	return &dto.SendMessageResponse{
		Success:         true,
		MessageID:       message.ID,
		EmailsSent:      sent,
		TotalRecipients: len(addresses),
	}, nil
}

// resolveRecipients expands a selector into a deduplicated address list.
// Dedup is exact-string: addresses differing only by case are distinct.
// Grade selectors are recorded for auditing but resolve to no addresses.
func (s *MessageService) resolveRecipients(ctx context.Context, recipientType models.RecipientType, ids []string) ([]string, error) {
	var addresses []string
	var err error
	switch recipientType {
	case models.RecipientUser:
		addresses, err = s.users.EmailsByIDs(ctx, ids)
	case models.RecipientClass:
		addresses, err = s.repo.ClassAudienceEmails(ctx, ids)
	case models.RecipientGrade:
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve recipients")
	}

	seen := make(map[string]struct{}, len(addresses))
	unique := addresses[:0]
	for _, addr := range addresses {
		if addr == "" {
			continue
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		unique = append(unique, addr)
	}
	return unique, nil
}

// dispatch sends to all addresses in parallel and waits for every send
// to settle. Returns the success count.
func (s *MessageService) dispatch(ctx context.Context, sender *models.User, message *models.Message, addresses []string) int {
	if s.mail == nil || len(addresses) == 0 {
		return 0
	}

	subject := message.Subject
	if message.IsEmergency {
		subject = "[URGENT] " + subject
	}
	email := mailer.Email{
		Subject: subject,
		HTML:    renderMessageHTML(sender, message),
		Text:    message.Body,
	}

	var sent int64
	var wg sync.WaitGroup
	for _, addr := range addresses {
		wg.Add(1)
		go func(to string) {
			defer wg.Done()
			out := email
			out.To = to
			if err := s.mail.Send(ctx, out); err != nil {
				s.metrics.RecordEmailDispatch(false)
				s.logger.Warn("email dispatch failed",
					zap.String("message_id", message.ID),
					zap.String("to", to),
					zap.Error(err),
				)
				return
			}
			s.metrics.RecordEmailDispatch(true)
			atomic.AddInt64(&sent, 1)
		}(addr)
	}
	wg.Wait()
	return int(atomic.LoadInt64(&sent))
}

func renderMessageHTML(sender *models.User, message *models.Message) string {
	var b strings.Builder
	if message.IsEmergency {
		b.WriteString(`<div style="background:#fef2f2;border:1px solid #ef4444;padding:12px;margin-bottom:16px;"><strong>Emergency notice</strong></div>`)
	}
	body := strings.ReplaceAll(html.EscapeString(message.Body), "\n", "<br>")
	fmt.Fprintf(&b, "<p>%s</p>", body)
	if sender != nil {
		fmt.Fprintf(&b, "<hr><p style=\"color:#6b7280;font-size:13px;\">Sent by %s via EduHub</p>", html.EscapeString(sender.FullName()))
	}
	return b.String()
}
