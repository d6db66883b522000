package organizationstore

import (
	"errors"
	"testing"

	"github.com/dalemusser/restok/internal/app/system/plans"
	"github.com/dalemusser/restok/internal/domain/models"
	"github.com/dalemusser/restok/internal/testutil"
)

func TestCreateAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)

	created, err := store.Create(ctx, models.Organization{
		ID:      "owner-1",
		OwnerID: "owner-1",
		Name:    "Acme Dental",
		Plan:    plans.Pro,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.NameCI == "" {
		t.Error("NameCI not folded")
	}

	got, err := store.GetByID(ctx, "owner-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Plan != plans.Pro || got.OwnerID != "owner-1" {
		t.Errorf("org: %+v", got)
	}

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing lookup: got %v, want ErrNotFound", err)
	}
}

func TestCreate_RejectsUnknownPlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if _, err := store.Create(ctx, models.Organization{ID: "o", OwnerID: "o", Name: "X", Plan: "platinum"}); err == nil {
		t.Error("expected error for unknown plan")
	}
}

func TestCreate_DuplicateID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	org := models.Organization{ID: "owner-1", OwnerID: "owner-1", Name: "One", Plan: plans.Basic}
	if _, err := store.Create(ctx, org); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := store.Create(ctx, org); !errors.Is(err, ErrDuplicateOrganization) {
		t.Errorf("duplicate Create: got %v, want ErrDuplicateOrganization", err)
	}
}

func TestSetOwnerAndPlan(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if _, err := store.Create(ctx, models.Organization{ID: "org-1", OwnerID: "owner-1", Name: "One", Plan: plans.Basic}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.SetOwner(ctx, "org-1", "owner-2"); err != nil {
		t.Fatalf("SetOwner: %v", err)
	}
	if err := store.SetPlan(ctx, "org-1", plans.Premium); err != nil {
		t.Fatalf("SetPlan: %v", err)
	}

	got, err := store.GetByID(ctx, "org-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.OwnerID != "owner-2" || got.Plan != plans.Premium {
		t.Errorf("org after updates: %+v", got)
	}

	if err := store.SetOwner(ctx, "missing", "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetOwner missing: got %v, want ErrNotFound", err)
	}
	if err := store.SetPlan(ctx, "org-1", "platinum"); err == nil {
		t.Error("expected error for unknown plan")
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if _, err := store.Create(ctx, models.Organization{ID: "org-1", OwnerID: "org-1", Name: "One", Plan: plans.Basic}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	n, err := store.Delete(ctx, "org-1")
	if err != nil || n != 1 {
		t.Fatalf("Delete: got %d, %v", n, err)
	}
	n, err = store.Delete(ctx, "org-1")
	if err != nil || n != 0 {
		t.Errorf("second Delete: got %d, %v", n, err)
	}
}
