package orgapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/restok/internal/app/features/orgapi"
	"github.com/dalemusser/restok/internal/app/membership"
	"github.com/dalemusser/restok/internal/app/system/identity"
	"github.com/dalemusser/restok/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const testSecret = "orgapi-test-secret"

type fakeService struct {
	// scripted results
	createUID   string
	createErr   error
	inviteUID   string
	inviteErr   error
	removeErr   error
	changeErr   error
	transferErr error
	member      *models.User
	memberErr   error
	members     []models.User
	membersErr  error

	// recorded calls
	lastCaller string
	lastOrg    string
	lastTarget string
	lastRole   models.Role
}

func (f *fakeService) CreateMember(ctx context.Context, callerID, orgID, email, password string) (string, error) {
	f.lastCaller, f.lastOrg = callerID, orgID
	return f.createUID, f.createErr
}

func (f *fakeService) InviteMember(ctx context.Context, callerID, orgID, email string) (string, error) {
	f.lastCaller, f.lastOrg = callerID, orgID
	return f.inviteUID, f.inviteErr
}

func (f *fakeService) RemoveMember(ctx context.Context, callerID, targetUID string) error {
	f.lastCaller, f.lastTarget = callerID, targetUID
	return f.removeErr
}

func (f *fakeService) ChangeRole(ctx context.Context, callerID, targetUID string, newRole models.Role) error {
	f.lastCaller, f.lastTarget, f.lastRole = callerID, targetUID, newRole
	return f.changeErr
}

func (f *fakeService) TransferOwnership(ctx context.Context, actorID, orgID, newOwnerUID string) error {
	f.lastCaller, f.lastOrg, f.lastTarget = actorID, orgID, newOwnerUID
	return f.transferErr
}

func (f *fakeService) Member(ctx context.Context, uid string) (*models.User, error) {
	return f.member, f.memberErr
}

func (f *fakeService) Members(ctx context.Context, callerID, orgID string) ([]models.User, error) {
	return f.members, f.membersErr
}

func newTestRouter(t *testing.T, svc *fakeService) http.Handler {
	t.Helper()
	verifier, err := identity.NewVerifier(testSecret)
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	h := orgapi.NewHandler(svc, zap.NewNop())
	return orgapi.Routes(h, verifier, zap.NewNop())
}

func bearer(t *testing.T, uid string, internalAdmin bool) string {
	t.Helper()
	claims := identity.Claims{
		Email:         uid + "@example.com",
		InternalAdmin: internalAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uid,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + tok
}

func doJSON(t *testing.T, router http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateUser(t *testing.T) {
	svc := &fakeService{createUID: "uid-new"}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, "POST", "/create-user", bearer(t, "caller-1", false),
		`{"email":"new@example.com","password":"secret","orgId":"org-1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["success"] != true || body["uid"] != "uid-new" {
		t.Errorf("body: %v", body)
	}
	if svc.lastCaller != "caller-1" || svc.lastOrg != "org-1" {
		t.Errorf("engine called with caller=%q org=%q", svc.lastCaller, svc.lastOrg)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(t, svc)
	auth := bearer(t, "caller-1", false)

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"pw","orgId":"org-1"}`},
		{"bad email", `{"email":"nope","password":"pw","orgId":"org-1"}`},
		{"missing password", `{"email":"a@b.co","orgId":"org-1"}`},
		{"missing org", `{"email":"a@b.co","password":"pw"}`},
		{"garbage body", `{{{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, "POST", "/create-user", auth, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
		})
	}
}

func TestCreateUser_Unauthorized(t *testing.T) {
	router := newTestRouter(t, &fakeService{})
	rec := doJSON(t, router, "POST", "/create-user", "",
		`{"email":"a@b.co","password":"pw","orgId":"org-1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestInviteUser_SeatLimit(t *testing.T) {
	svc := &fakeService{inviteErr: membership.ErrSeatLimitReached}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, "POST", "/invite-user", bearer(t, "caller-1", false),
		`{"email":"new@example.com","orgId":"org-1"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "seat limit") {
		t.Errorf("body: %s", rec.Body.String())
	}
}

func TestDeleteUser_OwnerRejected(t *testing.T) {
	svc := &fakeService{removeErr: membership.ErrCannotRemoveOwner}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, "POST", "/delete-user", bearer(t, "caller-1", false),
		`{"uid":"owner-1"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
}

func TestUpdateRole(t *testing.T) {
	svc := &fakeService{}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, "POST", "/update-role", bearer(t, "caller-1", false),
		`{"uid":"member-1","role":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.lastTarget != "member-1" || svc.lastRole != models.RoleAdmin {
		t.Errorf("engine called with target=%q role=%q", svc.lastTarget, svc.lastRole)
	}
}

func TestTransferOwnership_RequiresInternalAdmin(t *testing.T) {
	orgID := "org-1"
	svc := &fakeService{member: &models.User{ID: "admin-1", OrganizationID: &orgID, Role: models.RoleAdmin}}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, "POST", "/transfer-ownership", bearer(t, "caller-1", false),
		`{"uid":"admin-1"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("without claim: got %d, want 403", rec.Code)
	}

	rec = doJSON(t, router, "POST", "/transfer-ownership", bearer(t, "ops-1", true),
		`{"uid":"admin-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("with claim: got %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.lastOrg != "org-1" || svc.lastTarget != "admin-1" {
		t.Errorf("engine called with org=%q target=%q", svc.lastOrg, svc.lastTarget)
	}
}

func TestTransferOwnership_UnaffiliatedTarget(t *testing.T) {
	svc := &fakeService{memberErr: membership.ErrNoOrganization}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, "POST", "/transfer-ownership", bearer(t, "ops-1", true),
		`{"uid":"loner"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no organization") {
		t.Errorf("body: %s", rec.Body.String())
	}
}

func TestServeMembers(t *testing.T) {
	orgID := "org-1"
	svc := &fakeService{
		member: &models.User{ID: "caller-1", OrganizationID: &orgID, Role: models.RoleMember},
		members: []models.User{
			{ID: "caller-1", Email: "caller@example.com", OrganizationID: &orgID, Role: models.RoleMember},
			{ID: "owner-1", Email: "owner@example.com", OrganizationID: &orgID, Role: models.RoleOwner},
		},
	}
	router := newTestRouter(t, svc)

	rec := doJSON(t, router, "GET", "/members", bearer(t, "caller-1", false), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Success bool          `json:"success"`
		Members []models.User `json:"members"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(body.Members) != 2 {
		t.Errorf("got %d members, want 2", len(body.Members))
	}
}
