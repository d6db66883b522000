package supplystore

import (
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/restok/internal/domain/models"
	"github.com/dalemusser/restok/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedItem(t *testing.T, store *Store, orgID, name string, days int) models.SupplyItem {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	item, err := store.Create(ctx, models.SupplyItem{
		OrganizationID:   orgID,
		Name:             name,
		ReorderEveryDays: days,
		CreatedBy:        "uid-1",
	})
	if err != nil {
		t.Fatalf("Create %q: %v", name, err)
	}
	return item
}

func TestCreateDefaultsNextReminder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	before := time.Now().UTC()
	item := seedItem(t, store, "org-1", "  Coffee filters  ", 30)

	if item.Name != "Coffee filters" {
		t.Errorf("name not trimmed: %q", item.Name)
	}
	if item.NameCI == "" {
		t.Error("NameCI not folded")
	}
	want := before.AddDate(0, 0, 30)
	if item.NextRemindAt.Before(want.Add(-time.Minute)) || item.NextRemindAt.After(want.Add(time.Minute)) {
		t.Errorf("NextRemindAt: got %s, want ~%s", item.NextRemindAt, want)
	}
	if item.LastOrderedAt != nil {
		t.Error("new item should have no LastOrderedAt")
	}
}

func TestCreate_Validation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	if _, err := store.Create(ctx, models.SupplyItem{OrganizationID: "org-1", Name: "  ", ReorderEveryDays: 30}); err == nil {
		t.Error("expected error for empty name")
	}
	if _, err := store.Create(ctx, models.SupplyItem{OrganizationID: "org-1", Name: "Coffee", ReorderEveryDays: 0}); err == nil {
		t.Error("expected error for zero cadence")
	}
}

func TestListByOrg_SortedByName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	seedItem(t, store, "org-1", "Printer paper", 14)
	seedItem(t, store, "org-1", "coffee filters", 30)
	seedItem(t, store, "org-2", "Gloves", 7)

	items, err := store.ListByOrg(ctx, "org-1")
	if err != nil {
		t.Fatalf("ListByOrg: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len: got %d, want 2", len(items))
	}
	// Case-insensitive sort via name_ci.
	if items[0].Name != "coffee filters" || items[1].Name != "Printer paper" {
		t.Errorf("order: %q, %q", items[0].Name, items[1].Name)
	}
}

func TestUpdateFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	item := seedItem(t, store, "org-1", "Coffee filters", 30)

	err := store.UpdateFields(ctx, item.ID, Update{
		Name:             "Coffee filters #4",
		Notes:            "size 4 cone",
		ReorderEveryDays: 21,
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Coffee filters #4" || got.Notes != "size 4 cone" || got.ReorderEveryDays != 21 {
		t.Errorf("item after update: %+v", got)
	}

	if err := store.UpdateFields(ctx, primitive.NewObjectID(), Update{Name: "X", ReorderEveryDays: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing update: got %v, want ErrNotFound", err)
	}
}

func TestMarkOrderedAdvancesReminder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	item := seedItem(t, store, "org-1", "Coffee filters", 30)

	at := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if err := store.MarkOrdered(ctx, item.ID, at); err != nil {
		t.Fatalf("MarkOrdered: %v", err)
	}

	got, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LastOrderedAt == nil || !got.LastOrderedAt.Equal(at) {
		t.Errorf("LastOrderedAt: %v", got.LastOrderedAt)
	}
	if want := at.AddDate(0, 0, 30); !got.NextRemindAt.Equal(want) {
		t.Errorf("NextRemindAt: got %s, want %s", got.NextRemindAt, want)
	}
}

func TestListDueAndSnooze(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	overdue := seedItem(t, store, "org-1", "Coffee filters", 30)
	seedItem(t, store, "org-1", "Printer paper", 14)

	// Pull the first item's reminder into the past.
	past := time.Now().UTC().Add(-24 * time.Hour)
	if err := store.Snooze(ctx, overdue.ID, past.AddDate(0, 0, -30)); err != nil {
		t.Fatalf("backdate via Snooze: %v", err)
	}

	due, err := store.ListDue(ctx, time.Now().UTC())
	if err != nil {
		t.Fatalf("ListDue: %v", err)
	}
	if len(due) != 1 || due[0].ID != overdue.ID {
		t.Fatalf("due: %+v", due)
	}

	now := time.Now().UTC()
	if err := store.Snooze(ctx, overdue.ID, now); err != nil {
		t.Fatalf("Snooze: %v", err)
	}
	due, err = store.ListDue(ctx, now)
	if err != nil {
		t.Fatalf("ListDue after snooze: %v", err)
	}
	if len(due) != 0 {
		t.Errorf("item still due after snooze: %+v", due)
	}
}

func TestDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := New(db)
	item := seedItem(t, store, "org-1", "Coffee filters", 30)

	n, err := store.Delete(ctx, item.ID)
	if err != nil || n != 1 {
		t.Fatalf("Delete: got %d, %v", n, err)
	}
	if _, err := store.GetByID(ctx, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted item lookup: got %v, want ErrNotFound", err)
	}
}
