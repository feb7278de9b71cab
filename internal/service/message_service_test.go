package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/eduhub-api/internal/models"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
	"github.com/eduhub/eduhub-api/pkg/mailer"
)

type mockMessageRepo struct {
	saved          []models.Message
	savedType      models.RecipientType
	savedSelectors []string
	classEmails    []string
}

func (m *mockMessageRepo) CreateWithRecipients(ctx context.Context, message *models.Message, recipientType models.RecipientType, recipientIDs []string) error {
	message.ID = "msg-1"
	m.saved = append(m.saved, *message)
	m.savedType = recipientType
	m.savedSelectors = recipientIDs
	return nil
}

func (m *mockMessageRepo) ClassAudienceEmails(ctx context.Context, classIDs []string) ([]string, error) {
	return m.classEmails, nil
}

type mockMessageUsers struct {
	emails map[string]string
}

func (m *mockMessageUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return &models.User{ID: id, FirstName: "Pat", LastName: "Rivera", Role: models.RoleTeacher}, nil
}

func (m *mockMessageUsers) EmailsByIDs(ctx context.Context, ids []string) ([]string, error) {
	var out []string
	for _, id := range ids {
		if email, ok := m.emails[id]; ok {
			out = append(out, email)
		}
	}
	return out, nil
}

type recordingMailer struct {
	mu       sync.Mutex
	sent     []mailer.Email
	failAddr map[string]error
}

func (m *recordingMailer) Send(ctx context.Context, email mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failAddr[email.To]; ok {
		return err
	}
	m.sent = append(m.sent, email)
	return nil
}

func classMessageRequest() SendMessageRequest {
	return SendMessageRequest{
		RecipientType: "class",
		RecipientIDs:  []string{"c1"},
		Subject:       "Field trip forms",
		Body:          "Please return the forms by Friday.",
	}
}

func TestMessageSendDeduplicatesSharedParent(t *testing.T) {
	// Two students sharing one parent: the parent's address comes back
	// once per link but must be dispatched to exactly once.
	repo := &mockMessageRepo{classEmails: []string{
		"s1@school.test", "parent@home.test",
		"s2@school.test", "parent@home.test",
	}}
	mail := &recordingMailer{}
	svc := NewMessageService(repo, &mockMessageUsers{}, mail, nil, nil, nil)

	result, err := svc.Send(context.Background(), "u1", classMessageRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalRecipients)
	assert.Equal(t, 3, result.EmailsSent)
	assert.Len(t, mail.sent, 3)
}

func TestMessageSendPartialFailureIsNotAnError(t *testing.T) {
	repo := &mockMessageRepo{classEmails: []string{"a@x.test", "b@x.test", "c@x.test"}}
	mail := &recordingMailer{failAddr: map[string]error{"b@x.test": errors.New("550 rejected")}}
	svc := NewMessageService(repo, &mockMessageUsers{}, mail, nil, nil, nil)

	result, err := svc.Send(context.Background(), "u1", classMessageRequest())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "msg-1", result.MessageID)
	assert.Equal(t, 3, result.TotalRecipients)
	assert.Equal(t, 2, result.EmailsSent)
}

func TestMessageSendRecordsSelectorsNotAddresses(t *testing.T) {
	repo := &mockMessageRepo{classEmails: []string{"a@x.test", "b@x.test"}}
	svc := NewMessageService(repo, &mockMessageUsers{}, &recordingMailer{}, nil, nil, nil)

	_, err := svc.Send(context.Background(), "u1", classMessageRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RecipientClass, repo.savedType)
	assert.Equal(t, []string{"c1"}, repo.savedSelectors)
}

func TestMessageSendDedupIsCaseSensitive(t *testing.T) {
	repo := &mockMessageRepo{classEmails: []string{"Parent@home.test", "parent@home.test"}}
	mail := &recordingMailer{}
	svc := NewMessageService(repo, &mockMessageUsers{}, mail, nil, nil, nil)

	result, err := svc.Send(context.Background(), "u1", classMessageRequest())
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalRecipients)
	assert.Len(t, mail.sent, 2)
}

func TestMessageSendEmergencyPrefixesSubject(t *testing.T) {
	repo := &mockMessageRepo{classEmails: []string{"a@x.test"}}
	mail := &recordingMailer{}
	svc := NewMessageService(repo, &mockMessageUsers{}, mail, nil, nil, nil)

	req := classMessageRequest()
	req.IsEmergency = true
	_, err := svc.Send(context.Background(), "u1", req)
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "[URGENT] Field trip forms", mail.sent[0].Subject)
}

func TestMessageSendUserSelector(t *testing.T) {
	repo := &mockMessageRepo{}
	users := &mockMessageUsers{emails: map[string]string{"u2": "u2@x.test", "u3": "u3@x.test"}}
	mail := &recordingMailer{}
	svc := NewMessageService(repo, users, mail, nil, nil, nil)

	result, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientType: "user",
		RecipientIDs:  []string{"u2", "u3"},
		Subject:       "Conference slots",
		Body:          "Please pick a slot.",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.EmailsSent)
}

func TestMessageSendGradeSelectorResolvesNoAddresses(t *testing.T) {
	repo := &mockMessageRepo{}
	mail := &recordingMailer{}
	svc := NewMessageService(repo, &mockMessageUsers{}, mail, nil, nil, nil)

	result, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientType: "grade",
		RecipientIDs:  []string{"7"},
		Subject:       "Grade announcement",
		Body:          "Assembly moved to Monday.",
	})
	require.NoError(t, err)
	// Selector is persisted for auditing even though nothing is dispatched.
	assert.Equal(t, 0, result.TotalRecipients)
	assert.Equal(t, []string{"7"}, repo.savedSelectors)
	assert.Empty(t, mail.sent)
}

func TestMessageSendRejectsUnknownSelector(t *testing.T) {
	svc := NewMessageService(&mockMessageRepo{}, &mockMessageUsers{}, &recordingMailer{}, nil, nil, nil)

	_, err := svc.Send(context.Background(), "u1", SendMessageRequest{
		RecipientType: "district",
		RecipientIDs:  []string{"x"},
		Subject:       "s",
		Body:          "b",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
