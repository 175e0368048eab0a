package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToText(t *testing.T) {
	raw := `<html><head><title>T</title><style>body{color:red}</style>
<script>console.log("hidden")</script></head>
<body><h1>Paris</h1><p>Capital of France.</p><p>Known for the Eiffel Tower &amp; more.</p></body></html>`

	text := HTMLToText(raw)
	assert.Contains(t, text, "Paris")
	assert.Contains(t, text, "Capital of France.")
	assert.Contains(t, text, "Eiffel Tower & more.")
	assert.NotContains(t, text, "console.log")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "<p>")
}

func TestHTMLToText_BlockBoundariesBecomeNewlines(t *testing.T) {
	text := HTMLToText("<p>first</p><p>second</p>")
	assert.Equal(t, "first\nsecond", text)
}

func TestPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>page body</p></body></html>"))
	}))
	defer srv.Close()

	f := New(5 * time.Second)
	text, err := f.Page(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "page body", text)
}

func TestPage_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := New(5 * time.Second)
	_, err := f.Page(context.Background(), srv.URL)
	assert.Error(t, err)
}
