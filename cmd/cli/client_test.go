package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/mauv0809/head2head/internal/standings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHost(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	previous := host
	host = srv.URL + "/"
	t.Cleanup(func() { host = previous })
}

func TestGetJSON(t *testing.T) {
	withHost(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/standings", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"position": 1, "name": "Fatih", "points": 3}]`))
	})

	var table []standings.Standing
	require.NoError(t, getJSON("/standings", &table))
	require.Len(t, table, 1)
	assert.Equal(t, standings.Standing{Position: 1, PlayerRecord: ledger.PlayerRecord{Name: "Fatih", Points: 3}}, table[0])
}

func TestCall_ServerError(t *testing.T) {
	withHost(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid awayPlayer \"Fatih\": home and away player must differ"}`))
	})

	_, _, err := call(http.MethodPost, "/matches", "application/json", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "400")
	assert.Contains(t, err.Error(), "home and away player must differ")
}

func TestCall_PlainTextError(t *testing.T) {
	withHost(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Invalid Slack signature", http.StatusUnauthorized)
	})

	_, _, err := call(http.MethodGet, "/health", "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401: Invalid Slack signature")
}
