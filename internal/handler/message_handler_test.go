package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageSendRequiresAuth(t *testing.T) {
	handler := NewMessageHandler(nil)
	rec, c := testContext(t, http.MethodPost, "/messages", `{"subject":"s"}`, false)
	handler.Send(c)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMessageSendRejectsMalformedBody(t *testing.T) {
	handler := NewMessageHandler(nil)
	rec, c := testContext(t, http.MethodPost, "/messages", "{", true)
	handler.Send(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
