package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/haridaggupatti/sb1-hyd/internal/docstore"
	"github.com/haridaggupatti/sb1-hyd/internal/interview"
	"github.com/haridaggupatti/sb1-hyd/internal/users"
)

type stubCompleter struct {
	answer string
	err    error
}

func (c stubCompleter) Complete(_ context.Context, _ []interview.Turn) (string, error) {
	return c.answer, c.err
}

func newTestServer(t *testing.T, completer interview.Completer) *httptest.Server {
	t.Helper()
	store := docstore.NewMemoryStore()
	registry := interview.NewRegistry()
	service := interview.NewService(interview.ServiceConfig{HistoryCap: 10}, registry, completer, store)

	mux := http.NewServeMux()
	New(service, users.NewStore(store)).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, payload any) (*http.Response, map[string]any) {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)

	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp, body
}

func TestInterviewFlow(t *testing.T) {
	server := newTestServer(t, stubCompleter{answer: "I built the billing service."})

	resp, body := postJSON(t, server.URL+"/api/interview/start", map[string]string{
		"document": "resume text",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	sessionID, ok := body["session_id"].(string)
	require.True(t, ok)
	require.NotEmpty(t, sessionID)

	resp, body = postJSON(t, server.URL+"/api/interview/ask", map[string]string{
		"session_id": sessionID,
		"question":   "What did you build?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "I built the billing service.", body["response"])

	resp, body = postJSON(t, server.URL+"/api/interview/end", map[string]string{
		"session_id": sessionID,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])

	// The ended session is gone
	resp, body = postJSON(t, server.URL+"/api/interview/ask", map[string]string{
		"session_id": sessionID,
		"question":   "Still there?",
	})
	assert.Equal(t, http.StatusGone, resp.StatusCode)
	assert.Equal(t, "session_expired", body["code"])
}

func TestAsk_UnknownSession(t *testing.T) {
	server := newTestServer(t, stubCompleter{answer: "unused"})

	resp, body := postJSON(t, server.URL+"/api/interview/ask", map[string]string{
		"session_id": "never-existed",
		"question":   "hello?",
	})

	assert.Equal(t, http.StatusGone, resp.StatusCode)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "session_expired", body["code"])
}

func TestAsk_CompletionFailed(t *testing.T) {
	server := newTestServer(t, stubCompleter{err: errors.New("upstream 500: secret detail")})

	resp, body := postJSON(t, server.URL+"/api/interview/start", map[string]string{
		"document": "resume text",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sessionID := body["session_id"].(string)

	resp, body = postJSON(t, server.URL+"/api/interview/ask", map[string]string{
		"session_id": sessionID,
		"question":   "question",
	})

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "completion_failed", body["code"])
	// Provider detail is not surfaced
	assert.NotContains(t, body["error"], "secret detail")
}

func TestEnd_UnknownSessionSucceeds(t *testing.T) {
	server := newTestServer(t, stubCompleter{})

	resp, body := postJSON(t, server.URL+"/api/interview/end", map[string]string{
		"session_id": "never-existed",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "success", body["status"])
}

func TestStart_MissingDocument(t *testing.T) {
	server := newTestServer(t, stubCompleter{})

	resp, body := postJSON(t, server.URL+"/api/interview/start", map[string]string{})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad_request", body["code"])
}

func TestStart_MethodNotAllowed(t *testing.T) {
	server := newTestServer(t, stubCompleter{})

	resp, err := http.Get(server.URL + "/api/interview/start")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "POST", resp.Header.Get("Allow"))
}

func TestUserCRUDOverHTTP(t *testing.T) {
	server := newTestServer(t, stubCompleter{})

	resp, body := postJSON(t, server.URL+"/api/users", map[string]string{
		"email": "pat@example.com",
		"name":  "Pat",
		"role":  "candidate",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id := body["id"].(string)
	require.NotEmpty(t, id)

	getResp, err := http.Get(server.URL + "/api/users/" + id)
	require.NoError(t, err)
	defer getResp.Body.Close()
	require.Equal(t, http.StatusOK, getResp.StatusCode)

	var got users.User
	require.NoError(t, json.NewDecoder(getResp.Body).Decode(&got))
	assert.Equal(t, "pat@example.com", got.Email)
	assert.Equal(t, "Pat", got.Name)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/api/users/"+id, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusOK, delResp.StatusCode)

	missingResp, err := http.Get(server.URL + "/api/users/" + id)
	require.NoError(t, err)
	defer missingResp.Body.Close()
	assert.Equal(t, http.StatusNotFound, missingResp.StatusCode)
}

func TestHealthz(t *testing.T) {
	server := newTestServer(t, stubCompleter{})

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
