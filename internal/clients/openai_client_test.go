package clients

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/moodmate/internal/chat"
	"github.com/spacesedan/moodmate/internal/models"
)

func TestNewOpenAIClient_MissingKey(t *testing.T) {
	t.Parallel()

	_, err := NewOpenAIClient(OpenAIConfig{Model: "gpt-4o-mini"})
	require.ErrorIs(t, err, chat.ErrConfiguration)
}

func TestOpenAIClient_Generate(t *testing.T) {
	t.Parallel()

	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	var authHeader string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		authHeader = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"You've got this."}}]}`)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	assert.Equal(t, "openai", client.Name())

	reply, err := client.Generate(context.Background(), chat.Prompt{
		System:  "You are MoodMate.",
		History: []models.ChatTurn{{Role: models.ChatRoleAssistant, Content: "How are you?"}},
		Message: "tired",
	})
	require.NoError(t, err)
	assert.Equal(t, "You've got this.", reply)

	assert.Equal(t, "Bearer sk-test", authHeader)
	assert.Equal(t, "gpt-4o-mini", body.Model)
	require.Len(t, body.Messages, 3)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "assistant", body.Messages[1].Role)
	assert.Equal(t, "user", body.Messages[2].Role)
	assert.Equal(t, "tired", body.Messages[2].Content)
}

func TestOpenAIClient_GenerateDoesNotRetry(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"error":{"message":"overloaded","type":"server_error"}}`)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), chat.Prompt{Message: "hello"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestOpenAIClient_HealthCheck(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/models/gpt-4o-mini") {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"gpt-4o-mini","object":"model","created":1,"owned_by":"openai"}`)
	}))
	defer srv.Close()

	client, err := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	assert.True(t, client.HealthCheck(context.Background()))

	client, err = NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", Model: "missing-model", BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	assert.False(t, client.HealthCheck(context.Background()))
}
