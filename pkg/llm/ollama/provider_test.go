package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-docchat-be/pkg/llm"
)

func TestChatReturnsMessageContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "llama3", req.Model)

		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "hello"},
			Done:    true,
		})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	got, err := provider.Chat(context.Background(), []llm.Message{{Role: "user", Content: "hi"}})

	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestChatMapsModelRoleToAssistant(t *testing.T) {
	var received ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(ollamaChatResponse{Done: true})
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	_, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "user", Content: "q"},
		{Role: "model", Content: "a"},
	})

	require.NoError(t, err)
	require.Len(t, received.Messages, 2)
	assert.Equal(t, "assistant", received.Messages[1].Role)
}

func TestChatStreamDeliversChunksInOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)

		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"A widget "},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"is a thing."},"done":false}`)
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":""},"done":true}`)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	chunks, err := provider.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "q"}})
	require.NoError(t, err)

	var fragments []string
	sawDone := false
	for chunk := range chunks {
		require.NoError(t, chunk.Err)
		if chunk.Done {
			sawDone = true
			continue
		}
		fragments = append(fragments, chunk.Content)
	}

	assert.Equal(t, []string{"A widget ", "is a thing."}, fragments)
	assert.True(t, sawDone)
}

func TestChatStreamSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"partial"},"done":false}`)
		fmt.Fprintln(w, `{"error":"model crashed"}`)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	chunks, err := provider.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "q"}})
	require.NoError(t, err)

	var last llm.StreamChunk
	var fragments []string
	for chunk := range chunks {
		last = chunk
		if chunk.Err == nil && !chunk.Done {
			fragments = append(fragments, chunk.Content)
		}
	}

	assert.Equal(t, []string{"partial"}, fragments)
	require.Error(t, last.Err)
	assert.Contains(t, last.Err.Error(), "model crashed")
}

func TestChatStreamTruncationIsAFault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"message":{"role":"assistant","content":"partial"},"done":false}`)
		// No done marker.
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	chunks, err := provider.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "q"}})
	require.NoError(t, err)

	var last llm.StreamChunk
	for chunk := range chunks {
		last = chunk
	}

	require.Error(t, last.Err)
	assert.Contains(t, last.Err.Error(), "completion marker")
}

func TestChatStreamNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	provider := NewOllamaProvider(server.URL, "llama3")
	_, err := provider.ChatStream(context.Background(), []llm.Message{{Role: "user", Content: "q"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
