package authapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/restok/internal/app/features/authapi"
	"github.com/dalemusser/restok/internal/app/membership"
	"go.uber.org/zap"
)

type fakeSignup struct {
	completeErr error
	validateErr error

	completedToken string
	completedPass  string
}

func (f *fakeSignup) CompleteSignup(ctx context.Context, token, password string) error {
	f.completedToken, f.completedPass = token, password
	return f.completeErr
}

func (f *fakeSignup) ValidateToken(ctx context.Context, token string) error {
	return f.validateErr
}

func do(t *testing.T, svc *fakeSignup, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	router := authapi.Routes(authapi.NewHandler(svc, zap.NewNop()))
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCompleteSignup(t *testing.T) {
	svc := &fakeSignup{}
	rec := do(t, svc, "/complete-signup", `{"token":"tok-1","password":"longenough"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.completedToken != "tok-1" || svc.completedPass != "longenough" {
		t.Errorf("engine called with token=%q pass=%q", svc.completedToken, svc.completedPass)
	}
}

func TestCompleteSignup_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing token", `{"password":"longenough"}`},
		{"short password", `{"token":"tok-1","password":"short"}`},
		{"garbage", `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, &fakeSignup{}, "/complete-signup", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
		})
	}
}

func TestCompleteSignup_TokenErrors(t *testing.T) {
	rec := do(t, &fakeSignup{completeErr: membership.ErrTokenExpired},
		"/complete-signup", `{"token":"tok-1","password":"longenough"}`)
	if rec.Code != http.StatusGone {
		t.Errorf("expired: got %d, want 410", rec.Code)
	}

	rec = do(t, &fakeSignup{completeErr: membership.ErrTokenInvalid},
		"/complete-signup", `{"token":"tok-1","password":"longenough"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid: got %d, want 400", rec.Code)
	}
}

func TestValidateToken(t *testing.T) {
	rec := do(t, &fakeSignup{}, "/validate-password-token", `{"token":"tok-1"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("valid: got %d", rec.Code)
	}

	rec = do(t, &fakeSignup{validateErr: membership.ErrTokenInvalid},
		"/validate-password-token", `{"token":"bogus"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid: got %d, want 400", rec.Code)
	}
}
