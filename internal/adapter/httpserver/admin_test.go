package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobdeck/jobdeck/internal/config"
)

func TestHashAndVerifyPassword(t *testing.T) {
	t.Parallel()
	hash, err := HashPassword("s3cret", defaultArgon2Params)
	require.NoError(t, err)

	assert.True(t, VerifyPassword("s3cret", hash))
	assert.False(t, VerifyPassword("wrong", hash))
	assert.False(t, VerifyPassword("s3cret", "not-a-hash"))
	assert.False(t, VerifyPassword("s3cret", "argon2id$3$65536$2$bad$parts"))
}

func TestAdminOnly(t *testing.T) {
	t.Parallel()
	hash, err := HashPassword("ops-pass", defaultArgon2Params)
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("disabled without credentials", func(t *testing.T) {
		h := AdminOnly(config.Config{})(next)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	cfg := config.Config{AdminUsername: "ops", AdminPasswordHash: hash}

	t.Run("rejects missing and wrong credentials", func(t *testing.T) {
		h := AdminOnly(cfg)(next)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code)

		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("ops", "wrong")
		rr = httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("accepts valid credentials", func(t *testing.T) {
		h := AdminOnly(cfg)(next)
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		req.SetBasicAuth("ops", "ops-pass")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}
