package predict

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/libsys-io/libsys/errors"
)

func TestHoldingDays(t *testing.T) {
	var got Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]float64{"predicted_days": 11.5})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zaptest.NewLogger(t).Sugar())
	days, err := c.HoldingDays(context.Background(), Request{
		MemberID: "M001",
		BookID:   "B001",
		Pages:    412,
		Role:     "Student",
		Category: "Fiction",
	})
	require.NoError(t, err)
	assert.InDelta(t, 11.5, days, 1e-9)
	assert.Equal(t, "M001", got.MemberID)
	assert.Equal(t, 412, got.Pages)
}

func TestHoldingDaysServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zaptest.NewLogger(t).Sugar())
	_, err := c.HoldingDays(context.Background(), Request{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.False(t, errors.Is(err, ErrUnavailable))
}

func TestHoldingDaysUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // shut down before the request

	c := NewClient(srv.URL, time.Second, zaptest.NewLogger(t).Sugar())
	_, err := c.HoldingDays(context.Background(), Request{})
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestNewClientAcceptsNilLogger(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]float64{"predicted_days": 7})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 0, nil)
	days, err := c.HoldingDays(context.Background(), Request{MemberID: "M001"})
	require.NoError(t, err)
	assert.InDelta(t, 7.0, days, 1e-9)
}

func TestHoldingDaysBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, zaptest.NewLogger(t).Sugar())
	_, err := c.HoldingDays(context.Background(), Request{})
	assert.Error(t, err)
}
