package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConferenceRequiresAuth(t *testing.T) {
	handler := NewStudentHandler(nil)
	rec, c := testContext(t, http.MethodPost, "/teacher/students/s1/conference", `{"scheduledAt":"2026-09-10T15:30:00Z"}`, false)
	handler.Conference(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestConferenceRejectsMalformedBody(t *testing.T) {
	handler := NewStudentHandler(nil)
	rec, c := testContext(t, http.MethodPost, "/teacher/students/s1/conference", "{", true)
	handler.Conference(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
