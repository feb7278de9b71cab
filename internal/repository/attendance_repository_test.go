package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/eduhub-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAttendanceRepositoryUpsertOverwrites(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "class_id", "student_id", "date", "period", "status", "marked_by", "created_at", "updated_at"}).
		AddRow("r1", "c1", "s1", date, nil, "LATE", "t1", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (class_id, student_id, date, COALESCE(period, -1))")).
		WithArgs(sqlmock.AnyArg(), "c1", "s1", date, nil, models.AttendanceLate, "t1", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	stored, err := repo.Upsert(context.Background(), &models.AttendanceRecord{
		ClassID:   "c1",
		StudentID: "s1",
		Date:      date,
		Status:    models.AttendanceLate,
		MarkedBy:  "t1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceLate, stored.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryForClassDateNullPeriod(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	date := time.Date(2026, 3, 2, 15, 4, 0, 0, time.UTC)
	dayStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE class_id = $1 AND date >= $2 AND date < $3 AND period IS NULL")).
		WithArgs("c1", dayStart, dayEnd).
		WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "student_id", "date", "period", "status", "marked_by", "created_at", "updated_at"}).
			AddRow("r1", "c1", "s1", dayStart, nil, "PRESENT", "t1", time.Now(), time.Now()))

	records, err := repo.ForClassDate(context.Background(), "c1", date, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Period)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryForClassDateWithPeriod(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	dayStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	period := 3
	mock.ExpectQuery(regexp.QuoteMeta("WHERE class_id = $1 AND date >= $2 AND date < $3 AND period = $4")).
		WithArgs("c1", dayStart, dayStart.Add(24*time.Hour), period).
		WillReturnRows(sqlmock.NewRows([]string{"id", "class_id", "student_id", "date", "period", "status", "marked_by", "created_at", "updated_at"}))

	records, err := repo.ForClassDate(context.Background(), "c1", dayStart, &period)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryRecentByStudentDefaultLimit(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.date DESC")).
		WithArgs("s1", 20).
		WillReturnRows(sqlmock.NewRows([]string{"date", "status", "class_name"}).
			AddRow(time.Now(), "ABSENT", "Algebra I"))

	rows, err := repo.RecentByStudent(context.Background(), "s1", 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Algebra I", rows[0].ClassName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
