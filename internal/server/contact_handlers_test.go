package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactFormSendsMail(t *testing.T) {
	t.Parallel()

	s, _, sent := newTestServer(t)
	app := authedApp(0)
	app.Post("/api/contact", s.Contact)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/contact", map[string]string{
		"name":    "방문자",
		"email":   "visitor@example.com",
		"message": "가입 문의드립니다.",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)

	select {
	case mail := <-sent:
		assert.Equal(t, s.config.AdminEmail, mail.To)
		assert.Contains(t, mail.Body, "가입 문의드립니다.")
	case <-time.After(2 * time.Second):
		t.Fatal("expected contact email")
	}
}

func TestContactFormRequiresMessage(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)
	app := authedApp(0)
	app.Post("/api/contact", s.Contact)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/contact", map[string]string{
		"name": "방문자",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestContactFormWithoutSMTPConfigured(t *testing.T) {
	t.Parallel()

	s, _, _ := newTestServer(t)
	s.config.SMTPHost = ""

	app := authedApp(0)
	app.Post("/api/contact", s.Contact)

	resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/contact", map[string]string{
		"name":    "방문자",
		"message": "문의",
	}))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
