package transcribe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transcribe", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		assert.Equal(t, "standup.wav", header.Filename)
		audio, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "fake-audio-bytes", string(audio))

		fmt.Fprint(w, `{"text": "we shipped the exporter yesterday"}`)
	}))
	defer server.Close()

	client := NewClient(server.URL + "/")
	text, err := client.Transcribe(context.Background(), "standup.wav", strings.NewReader("fake-audio-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "we shipped the exporter yesterday", text)
}

func TestTranscribeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Transcribe(context.Background(), "a.wav", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "model not loaded")
}
