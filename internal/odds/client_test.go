package odds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/moduel/propdash/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountProjections(t *testing.T) {
	cases := []struct {
		body string
		want int
	}{
		{`{"data": [{"id": "1"}, {"id": "2"}]}`, 2},
		{`{"data": []}`, 0},
		{`[{"id": "1"}]`, 1},
		{`[]`, 0},
		{`{"included": []}`, 0},
		{`{"data": {"data": [1]}}`, 0},
		{``, 0},
	}
	for _, tc := range cases {
		got, err := CountProjections([]byte(tc.body))
		require.NoError(t, err, tc.body)
		assert.Equal(t, tc.want, got, tc.body)
	}

	_, err := CountProjections([]byte("<html>"))
	assert.Error(t, err)
}

func TestLeagueAvailable(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"id": "1"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "", time.Second)
	got, err := c.LeagueAvailable(context.Background())
	require.NoError(t, err)

	assert.True(t, got.Available)
	assert.Equal(t, 1, got.Projections)
	assert.Equal(t, "288", got.LeagueID)
	assert.Equal(t, "league_id=288&per_page=250&single_stat=true", gotQuery)
}

func TestLeagueNotAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": []}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, "288", time.Second).LeagueAvailable(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Available)
}

func TestLeagueAvailableUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "288", time.Second).LeagueAvailable(context.Background())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindUpstream))
	assert.Equal(t, "Failed to poll UNR league.", apperr.Message(err, ""))
}
