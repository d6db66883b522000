package userstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/restok/internal/domain/models"
	"github.com/dalemusser/restok/internal/testutil"
)

func strptr(s string) *string { return &s }

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	created, err := store.Create(ctx, models.User{
		ID:             "uid-1",
		Email:          "  Owner@Example.COM ",
		OrganizationID: strptr("uid-1"),
		Role:           models.RoleOwner,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Email != "owner@example.com" {
		t.Errorf("email not normalized: %q", created.Email)
	}

	got, err := store.GetByID(ctx, "uid-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Role != models.RoleOwner {
		t.Errorf("role: got %q", got.Role)
	}

	byEmail, err := store.GetByEmail(ctx, "OWNER@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail.ID != "uid-1" {
		t.Errorf("id: got %q", byEmail.ID)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing lookup: got %v, want ErrNotFound", err)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	orgID := "uid-1"
	if _, err := store.Create(ctx, models.User{ID: "uid-1", Email: "a@example.com", OrganizationID: &orgID, Role: models.RoleOwner}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := store.Create(ctx, models.User{ID: "uid-2", Email: "A@example.com", OrganizationID: &orgID, Role: models.RoleMember})
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("duplicate Create: got %v, want ErrDuplicateEmail", err)
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	orgID := "org-1"

	if _, err := store.Create(ctx, models.User{ID: "u", Email: "a@b.com", OrganizationID: &orgID, Role: "boss"}); err == nil {
		t.Error("expected error for unknown role")
	}
	if _, err := store.Create(ctx, models.User{ID: "u", Email: "a@b.com", Role: models.RoleMember}); err == nil {
		t.Error("expected error for role without organization")
	}
}

func TestRolesAndCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	fx := testutil.NewFixtures(t, db)

	fx.CreateUser(ctx, "owner-1", "owner@example.com", models.RoleOwner, "org-1")
	fx.CreateUser(ctx, "admin-1", "admin@example.com", models.RoleAdmin, "org-1")
	fx.CreateUser(ctx, "member-1", "member@example.com", models.RoleMember, "org-1")
	fx.CreateUser(ctx, "other-1", "other@example.com", models.RoleOwner, "org-2")

	total, err := store.CountByOrg(ctx, "org-1")
	if err != nil || total != 3 {
		t.Fatalf("CountByOrg: got %d, %v", total, err)
	}
	privileged, err := store.CountPrivilegedByOrg(ctx, "org-1")
	if err != nil || privileged != 2 {
		t.Fatalf("CountPrivilegedByOrg: got %d, %v", privileged, err)
	}

	if err := store.UpdateRole(ctx, "member-1", models.RoleAdmin); err != nil {
		t.Fatalf("UpdateRole: %v", err)
	}
	privileged, _ = store.CountPrivilegedByOrg(ctx, "org-1")
	if privileged != 3 {
		t.Errorf("privileged after promotion: got %d, want 3", privileged)
	}

	if err := store.UpdateRole(ctx, "missing", models.RoleAdmin); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateRole missing: got %v, want ErrNotFound", err)
	}
}

func TestSetDisabled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	fx := testutil.NewFixtures(t, db)
	fx.CreateUser(ctx, "u1", "a@example.com", models.RoleMember, "org-1")

	if err := store.SetDisabled(ctx, "u1", true); err != nil {
		t.Fatalf("SetDisabled: %v", err)
	}
	got, err := store.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.Disabled {
		t.Error("disabled flag not set")
	}

	if err := store.SetDisabled(ctx, "u1", false); err != nil {
		t.Fatalf("SetDisabled clear: %v", err)
	}
	got, _ = store.GetByID(ctx, "u1")
	if got.Disabled {
		t.Error("disabled flag not cleared")
	}

	if err := store.SetDisabled(ctx, "missing", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetDisabled missing: got %v, want ErrNotFound", err)
	}
}

func TestListByOrg_SortedByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	fx := testutil.NewFixtures(t, db)

	fx.CreateUser(ctx, "u1", "zoe@example.com", models.RoleMember, "org-1")
	fx.CreateUser(ctx, "u2", "amy@example.com", models.RoleOwner, "org-1")
	fx.CreateUser(ctx, "u3", "meg@example.com", models.RoleAdmin, "org-1")

	list, err := store.ListByOrg(ctx, "org-1")
	if err != nil {
		t.Fatalf("ListByOrg: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len: got %d", len(list))
	}
	if list[0].Email != "amy@example.com" || list[2].Email != "zoe@example.com" {
		t.Errorf("not sorted by email: %v, %v, %v", list[0].Email, list[1].Email, list[2].Email)
	}

	privileged, err := store.ListPrivilegedByOrg(ctx, "org-1")
	if err != nil {
		t.Fatalf("ListPrivilegedByOrg: %v", err)
	}
	if len(privileged) != 2 {
		t.Errorf("privileged len: got %d, want 2", len(privileged))
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	fx := testutil.NewFixtures(t, db)
	fx.CreateUser(ctx, "u1", "a@example.com", models.RoleMember, "org-1")

	n, err := store.Delete(ctx, "u1")
	if err != nil || n != 1 {
		t.Fatalf("Delete: got %d, %v", n, err)
	}
	n, err = store.Delete(ctx, "u1")
	if err != nil || n != 0 {
		t.Errorf("second Delete: got %d, %v", n, err)
	}
}
