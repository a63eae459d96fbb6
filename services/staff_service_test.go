package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"hotel-billing/config"
	"hotel-billing/models"
)

func seededDB(t *testing.T) *gorm.DB {
	t.Helper()
	t.Setenv("SEED_ADMIN_USERNAME", "admin@hotel.local")
	t.Setenv("SEED_ADMIN_PASSWORD", "admin123")
	db := newTestDB(t)
	config.Seed(db, 500)
	return db
}

func TestStaffLoginFlow(t *testing.T) {
	ctx := context.Background()
	staff := NewStaffService(seededDB(t))

	created, err := staff.Create(ctx, ownerIdentity(), CreateStaffRequest{
		FullName: "Meera Iyer",
		Username: " Meera ",
		Password: "kitchen-pass",
		Role:     "Chef",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Username != "meera" || created.Role == nil || created.Role.Name != models.RoleChef {
		t.Fatalf("created = %+v", created)
	}

	got, err := staff.Authenticate(ctx, "MEERA", "kitchen-pass")
	if err != nil || got.ID != created.ID {
		t.Fatalf("authenticate = %+v, %v", got, err)
	}
	_, err = staff.Authenticate(ctx, "meera", "wrong-pass")
	wantErr(t, err, ErrBadCredentials)
	_, err = staff.Authenticate(ctx, "nobody", "kitchen-pass")
	wantErr(t, err, ErrBadCredentials)

	id, err := staff.ResolveIdentity(ctx, created.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id.Role != models.RoleChef || !id.Can(models.PermOrderCreate) || id.Can(models.PermPaymentRecord) {
		t.Fatalf("identity = %+v", id)
	}

	if err := staff.Delete(ctx, ownerIdentity(), created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, err = staff.ResolveIdentity(ctx, created.ID)
	wantErr(t, err, ErrUnauthenticated)
}

func TestCreateStaffValidation(t *testing.T) {
	ctx := context.Background()
	staff := NewStaffService(seededDB(t))

	_, err := staff.Create(ctx, ownerIdentity(), CreateStaffRequest{FullName: "A", Username: "admin@hotel.local", Password: "password1", Role: "manager"})
	wantErr(t, err, ErrUsernameTaken)
	_, err = staff.Create(ctx, ownerIdentity(), CreateStaffRequest{FullName: "A", Username: "a", Password: "short", Role: "manager"})
	if KindOf(err) != KindValidation {
		t.Fatalf("short password: %v", err)
	}
	_, err = staff.Create(ctx, ownerIdentity(), CreateStaffRequest{FullName: "A", Username: "a", Password: "password1", Role: "janitor"})
	wantErr(t, err, ErrRoleNotFound)
	_, err = staff.Create(ctx, roleIdentity(models.RoleManager), CreateStaffRequest{FullName: "A", Username: "a", Password: "password1", Role: "chef"})
	wantErr(t, err, ErrForbidden)

	if err := staff.Delete(ctx, ownerIdentity(), 1); KindOf(err) != KindValidation {
		t.Fatalf("delete self: %v", err)
	}
	wantErr(t, staff.Delete(ctx, ownerIdentity(), 9999), ErrStaffNotFound)

	list, err := staff.List(ctx, ownerIdentity())
	if err != nil || len(list) != 1 || list[0].Role == nil || list[0].Role.Name != models.RoleOwner {
		t.Fatalf("list = %+v, %v", list, err)
	}
}

func TestUpdateRolePermissions(t *testing.T) {
	ctx := context.Background()
	db := seededDB(t)
	roles := NewRoleService(db)
	staff := NewStaffService(db)

	err := roles.UpdatePermissions(ctx, ownerIdentity(), "chef", []string{models.PermOrderView, "foodOrders.fly"})
	if KindOf(err) != KindValidation {
		t.Fatalf("unknown permission: %v", err)
	}
	if err := roles.UpdatePermissions(ctx, ownerIdentity(), "owner", nil); KindOf(err) != KindValidation {
		t.Fatalf("owner locked: %v", err)
	}
	wantErr(t, roles.UpdatePermissions(ctx, ownerIdentity(), "janitor", nil), ErrRoleNotFound)
	wantErr(t, roles.UpdatePermissions(ctx, roleIdentity(models.RoleManager), "chef", nil), ErrForbidden)

	err = roles.UpdatePermissions(ctx, ownerIdentity(), "CHEF", []string{models.PermOrderView, models.PermOrderView, models.PermPaymentView})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	chef, err := staff.Create(ctx, ownerIdentity(), CreateStaffRequest{FullName: "C", Username: "cook", Password: "password1", Role: "chef"})
	if err != nil {
		t.Fatalf("create chef: %v", err)
	}
	id, err := staff.ResolveIdentity(ctx, chef.ID)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(id.Permissions) != 2 || !id.Can(models.PermPaymentView) || id.Can(models.PermOrderCreate) {
		t.Fatalf("permissions = %v", id.Permissions)
	}

	views, err := roles.List(ctx, ownerIdentity())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var chefView *RoleView
	for i := range views {
		if views[i].Name == models.RoleChef {
			chefView = &views[i]
		}
	}
	if chefView == nil {
		t.Fatalf("chef role missing from %+v", views)
	}
	if !chefView.Permissions["foodOrders"]["view"] || chefView.Permissions["foodOrders"]["create"] {
		t.Fatalf("chef permissions = %v", chefView.Permissions)
	}
	if len(chefView.Members) != 1 || chefView.Members[0].Username != "cook" {
		t.Fatalf("chef members = %+v", chefView.Members)
	}
}
