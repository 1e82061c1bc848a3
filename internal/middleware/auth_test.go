package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apperrors "churchbooks/internal/errors"
)

func setupAuthRouter() *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"operator": c.GetString("operatorID"), "role": c.GetString("role")})
	})
	return r
}

func doAuthRequest(r *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func signClaims(t *testing.T, claims *JWTClaims, key []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	valid, err := GenerateAccessToken("op-1", "treasurer@example.org", "treasurer")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	expired := signClaims(t, &JWTClaims{
		OperatorID: "op-1",
		TokenType:  "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}, getJWTKey())

	refresh := signClaims(t, &JWTClaims{
		OperatorID: "op-1",
		TokenType:  "refresh",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, getJWTKey())

	subjectOnly := signClaims(t, &JWTClaims{
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "op-2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, getJWTKey())

	wrongKey := signClaims(t, &JWTClaims{
		OperatorID: "op-1",
		TokenType:  "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}, []byte("not-the-secret"))

	tests := []struct {
		name         string
		header       string
		wantStatus   int
		wantOperator string
	}{
		{"valid token", "Bearer " + valid, http.StatusOK, "op-1"},
		{"subject fallback", "Bearer " + subjectOnly, http.StatusOK, "op-2"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized, ""},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, ""},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized, ""},
		{"wrong key", "Bearer " + wrongKey, http.StatusUnauthorized, ""},
	}

	r := setupAuthRouter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doAuthRequest(r, tt.header)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := parseBody(t, rec)
			if tt.wantOperator != "" && body["operator"] != tt.wantOperator {
				t.Errorf("operator = %v, want %s", body["operator"], tt.wantOperator)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				errObj, _ := body["error"].(map[string]interface{})
				if errObj["code"] != "UNAUTHORIZED" {
					t.Errorf("expected UNAUTHORIZED code, got %v", body)
				}
			}
		})
	}
}

func TestErrorHandler(t *testing.T) {
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/conflict", func(c *gin.Context) {
		_ = c.Error(apperrors.WithResourceID(apperrors.ErrAlreadyProcessed, "bt-1"))
	})
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(http.ErrHandlerTimeout)
	})

	req := httptest.NewRequest(http.MethodGet, "/conflict", http.NoBody)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	errObj := parseBody(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "ALREADY_PROCESSED" || errObj["resource_id"] != "bt-1" {
		t.Errorf("unexpected error body %v", errObj)
	}

	req = httptest.NewRequest(http.MethodGet, "/boom", http.NoBody)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	errObj = parseBody(t, rec)["error"].(map[string]interface{})
	if errObj["code"] != "INTERNAL_ERROR" {
		t.Errorf("expected generic internal error, got %v", errObj)
	}
}
