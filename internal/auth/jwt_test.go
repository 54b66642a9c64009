package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finpal/finpal-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	users map[string]models.User
}

func (s *stubResolver) GetUserByID(id string) (models.User, error) {
	if user, ok := s.users[id]; ok {
		return user, nil
	}
	return models.User{}, fmt.Errorf("user %s not found", id)
}

func TestGenerateAndValidate(t *testing.T) {
	tm := NewTokenManager("test-secret")
	user := models.User{ID: "u1", Email: "alice@example.com"}

	token, err := tm.Generate(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestValidateRejectsWrongKey(t *testing.T) {
	token, err := NewTokenManager("secret-a").Generate(models.User{ID: "u1"})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").Validate(token)
	assert.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	_, err := NewTokenManager("secret").Validate("not-a-token")
	assert.Error(t, err)
}

func newProtectedServer(tm *TokenManager, resolver UserResolver) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, user.ID)
	})
	return tm.Middleware(resolver)(next)
}

func TestMiddleware(t *testing.T) {
	tm := NewTokenManager("test-secret")
	user := models.User{ID: "u1", Email: "alice@example.com"}
	resolver := &stubResolver{users: map[string]models.User{"u1": user}}
	handler := newProtectedServer(tm, resolver)

	token, err := tm.Generate(user)
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Missing auth token", body["message"])
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer bogus")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u1", rec.Body.String())
	})

	t.Run("x-auth-token header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("x-auth-token", token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("query parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/?token="+token, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("user no longer exists", func(t *testing.T) {
		goneToken, err := tm.Generate(models.User{ID: "gone"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+goneToken)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
