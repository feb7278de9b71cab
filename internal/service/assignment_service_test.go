package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduhub/eduhub-api/internal/models"
	appErrors "github.com/eduhub/eduhub-api/pkg/errors"
)

type mockAssignmentRepo struct {
	created      []models.Assignment
	materialized map[string]map[string]struct{}
	failNext     error
}

func (m *mockAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment, classIDs []string) error {
	assignment.ID = "assignment-1"
	m.created = append(m.created, *assignment)
	return nil
}

func (m *mockAssignmentRepo) MaterializeStudents(ctx context.Context, assignmentID, classID string) (int, error) {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return 0, err
	}
	if m.materialized == nil {
		m.materialized = make(map[string]map[string]struct{})
	}
	if m.materialized[assignmentID] == nil {
		m.materialized[assignmentID] = make(map[string]struct{})
	}
	// Skip-duplicates semantics: one stub per class regardless of retries.
	if _, ok := m.materialized[assignmentID][classID]; ok {
		return 0, nil
	}
	m.materialized[assignmentID][classID] = struct{}{}
	return 1, nil
}

func (m *mockAssignmentRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.Assignment, error) {
	return m.created, nil
}

func (m *mockAssignmentRepo) ClassLinks(ctx context.Context, assignmentIDs []string) (map[string][]models.AssignmentClassLink, error) {
	links := make(map[string][]models.AssignmentClassLink)
	for _, id := range assignmentIDs {
		links[id] = []models.AssignmentClassLink{{AssignmentID: id, ClassID: "c1", ClassName: "Algebra I"}}
	}
	return links, nil
}

type mockInvalidator struct {
	patterns []string
}

func (m *mockInvalidator) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func validAssignmentRequest(classIDs ...string) CreateAssignmentRequest {
	return CreateAssignmentRequest{
		Title:    "Chapter 5 homework",
		Type:     "HOMEWORK",
		DueDate:  time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		Points:   100,
		ClassIDs: classIDs,
	}
}

func TestAssignmentCreateFansOutPerClass(t *testing.T) {
	roster := singleTeacherRoster("u1", "t1", "c1", "c2")
	repo := &mockAssignmentRepo{}
	invalidator := &mockInvalidator{}
	svc := NewAssignmentService(repo, roster, invalidator, nil, nil, nil)

	detail, err := svc.Create(context.Background(), "u1", validAssignmentRequest("c1", "c2"))
	require.NoError(t, err)
	assert.Equal(t, "assignment-1", detail.ID)
	assert.Equal(t, models.AssignmentHomework, detail.Type)
	assert.Len(t, repo.materialized["assignment-1"], 2)
	assert.ElementsMatch(t, []string{GradebookCacheKey("c1"), GradebookCacheKey("c2")}, invalidator.patterns)
}

func TestAssignmentCreateForbiddenIsWholeOperation(t *testing.T) {
	roster := singleTeacherRoster("u1", "t1", "c1")
	repo := &mockAssignmentRepo{}
	svc := NewAssignmentService(repo, roster, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "u1", validAssignmentRequest("c1", "c2"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	// Nothing is created for the authorized class either.
	assert.Empty(t, repo.created)
	assert.Empty(t, repo.materialized)
}

func TestAssignmentMaterializationIdempotentOnRetry(t *testing.T) {
	roster := singleTeacherRoster("u1", "t1", "c1", "c2")
	repo := &mockAssignmentRepo{failNext: errors.New("connection reset")}
	svc := NewAssignmentService(repo, roster, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "u1", validAssignmentRequest("c1", "c2"))
	require.Error(t, err)

	_, err = svc.Create(context.Background(), "u1", validAssignmentRequest("c1", "c2"))
	require.NoError(t, err)
	assert.Len(t, repo.materialized["assignment-1"], 2)
}

func TestAssignmentCreateRejectsInvalidPayload(t *testing.T) {
	roster := singleTeacherRoster("u1", "t1", "c1")
	svc := NewAssignmentService(&mockAssignmentRepo{}, roster, nil, nil, nil, nil)

	req := validAssignmentRequest("c1")
	req.Points = 0
	_, err := svc.Create(context.Background(), "u1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validAssignmentRequest("c1")
	req.Type = "ESSAY"
	_, err = svc.Create(context.Background(), "u1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	req = validAssignmentRequest()
	_, err = svc.Create(context.Background(), "u1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestAssignmentList(t *testing.T) {
	roster := singleTeacherRoster("u1", "t1", "c1")
	repo := &mockAssignmentRepo{}
	svc := NewAssignmentService(repo, roster, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "u1", validAssignmentRequest("c1"))
	require.NoError(t, err)

	list, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Len(t, list[0].Classes, 1)
	assert.Equal(t, "Algebra I", list[0].Classes[0].ClassName)
}
