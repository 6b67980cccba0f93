package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cadence/internal/model"
)

func TestListIncomes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/incomes", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode([]model.Income{
			{ID: "i1", Name: "salary", Amount: decimal.NewFromInt(3200),
				PayCycle: model.PayCycleMonthly, IsMain: true},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123")
	incomes, err := c.ListIncomes(context.Background())
	require.NoError(t, err)
	require.Len(t, incomes, 1)
	assert.Equal(t, "salary", incomes[0].Name)
	assert.True(t, incomes[0].IsMain)
	assert.True(t, incomes[0].Amount.Equal(decimal.NewFromInt(3200)))
}

func TestListExpensesSendsWindow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/expenses", r.URL.Path)
		assert.Equal(t, "2025-03-01", r.URL.Query().Get("start"))
		assert.Equal(t, "2025-03-31", r.URL.Query().Get("end"))
		_ = json.NewEncoder(w).Encode([]model.Expense{})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	_, err := c.ListExpenses(context.Background(), start, end)
	require.NoError(t, err)
}

func TestSetMainIncome(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	require.NoError(t, c.SetMainIncome(context.Background(), "inc-42"))
	assert.Equal(t, "/incomes/inc-42/main", gotPath)
}

func TestLoginReturnsToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.c", req.Email)
		_ = json.NewEncoder(w).Encode(authResponse{Token: "tok-abc"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	tok, err := c.Login(context.Background(), "a@b.c", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", tok)
}

func TestUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "stale")
	_, err := c.ListIncomes(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.GetRatio(context.Background())
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "tok")
	_, err := c.ListIncomes(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestServerErrorMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "one-time income cannot be main"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.CreateIncome(context.Background(), model.Income{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "one-time income cannot be main")
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	got, err := TokenExpiry(signed)
	require.NoError(t, err)
	assert.True(t, got.Equal(exp), "expiry = %s, want %s", got, exp)

	assert.False(t, TokenExpired(signed, time.Now()))
	assert.True(t, TokenExpired(signed, exp.Add(time.Minute)))
}

func TestTokenExpiryMalformed(t *testing.T) {
	_, err := TokenExpiry("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenExpiryMissingClaim(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user-1"})
	signed, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = TokenExpiry(signed)
	assert.True(t, errors.Is(err, ErrNoExpiry))
}
