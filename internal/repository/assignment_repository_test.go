package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/eduhub-api/internal/models"
)

func TestAssignmentRepositoryCreateLinksAllClasses(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignment_classes (id, assignment_id, class_id)")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "c1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assignment_classes (id, assignment_id, class_id)")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), "c2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assignment := &models.Assignment{
		TeacherID: "t1",
		Title:     "Chapter 5 homework",
		Type:      models.AssignmentHomework,
		DueDate:   time.Now().UTC(),
		Points:    100,
	}
	require.NoError(t, repo.Create(context.Background(), assignment, []string{"c1", "c2"}))
	assert.NotEmpty(t, assignment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryCreateRollsBackOnLinkFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO assignments").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO assignment_classes").
		WillReturnError(errors.New("foreign key violation"))
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Assignment{TeacherID: "t1", Title: "x", Type: models.AssignmentQuiz, Points: 10}, []string{"ghost"})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryMaterializeSkipsDuplicates(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (assignment_id, student_id) DO NOTHING")).
		WithArgs("a1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 25))
	created, err := repo.MaterializeStudents(context.Background(), "a1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 25, created)

	// Re-running materializes nothing new.
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (assignment_id, student_id) DO NOTHING")).
		WithArgs("a1", "c1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	created, err = repo.MaterializeStudents(context.Background(), "a1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryMaterializeRowsAffectedError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (assignment_id, student_id) DO NOTHING")).
		WithArgs("a1", "c1").
		WillReturnResult(sqlmock.NewErrorResult(errors.New("driver does not report rows")))
	_, err := repo.MaterializeStudents(context.Background(), "a1", "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows affected")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryClassLinks(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("WHERE ac.assignment_id IN").
		WithArgs("a1", "a2").
		WillReturnRows(sqlmock.NewRows([]string{"id", "assignment_id", "class_id", "class_name"}).
			AddRow("l1", "a1", "c1", "Algebra I").
			AddRow("l2", "a1", "c2", "Algebra II").
			AddRow("l3", "a2", "c1", "Algebra I"))

	links, err := repo.ClassLinks(context.Background(), []string{"a1", "a2"})
	require.NoError(t, err)
	assert.Len(t, links["a1"], 2)
	assert.Len(t, links["a2"], 1)
	assert.NoError(t, mock.ExpectationsWereMet())

	empty, err := repo.ClassLinks(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
