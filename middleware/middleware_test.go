package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/raulgonca/projectsync/models"
	"github.com/raulgonca/projectsync/utils"
)

func claimsEcho(t *testing.T, wantUserID uint) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := CallerFromContext(r.Context())
		if !ok {
			t.Error("claims missing from request context")
			return
		}
		if claims.UserID != wantUserID {
			t.Errorf("claims user = %d, want %d", claims.UserID, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuth(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := utils.GenerateToken(&models.User{ID: 7, Email: "ana@example.com", Username: "ana"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	handler := JWTAuth(claimsEcho(t, 7))

	t.Run("valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/repos", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/repos", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/repos", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("query token not accepted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/repos?token="+token, nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})
}

func TestJWTAuthWithQueryToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token, err := utils.GenerateToken(&models.User{ID: 7, Email: "ana@example.com", Username: "ana"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	handler := JWTAuthWithQueryToken(claimsEcho(t, 7))

	t.Run("query token accepted", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/projects/1/files/download-zip?token="+token, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("header still works", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/projects/1/files/download-zip", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})
}
