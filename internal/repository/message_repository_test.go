package repository

import (
	"context"
	"errors"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/eduhub-api/internal/models"
)

func TestMessageRepositoryCreateWithRecipients(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMessageRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO messages").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO message_recipients").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), models.RecipientClass, "c1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO message_recipients").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), models.RecipientClass, "c2", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	message := &models.Message{SenderID: "u1", Subject: "Field trip", Body: "Forms due Friday.", IsEmail: true}
	require.NoError(t, repo.CreateWithRecipients(context.Background(), message, models.RecipientClass, []string{"c1", "c2"}))
	assert.NotEmpty(t, message.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryCreateRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMessageRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO messages").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.CreateWithRecipients(context.Background(), &models.Message{SenderID: "u1"}, models.RecipientUser, []string{"u2"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepositoryClassAudienceKeepsDuplicates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewMessageRepository(db)

	// A parent linked to two enrolled students appears once per link;
	// dedup is the caller's job.
	mock.ExpectQuery("UNION ALL").
		WithArgs("c1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"email"}).
			AddRow("s1@school.test").
			AddRow("s2@school.test").
			AddRow("parent@home.test").
			AddRow("parent@home.test"))

	emails, err := repo.ClassAudienceEmails(context.Background(), []string{"c1"})
	require.NoError(t, err)
	assert.Len(t, emails, 4)
	assert.NoError(t, mock.ExpectationsWereMet())

	none, err := repo.ClassAudienceEmails(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, none)
}
