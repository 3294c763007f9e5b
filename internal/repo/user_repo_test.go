package repo

import (
	"context"
	"testing"

	"gorm.io/datatypes"

	"github.com/tbourn/claims-backend/internal/domain"
)

func newUser(name string, role domain.Role) *domain.User {
	return &domain.User{
		Username:     name,
		PasswordHash: "$argon2id$stub",
		Role:         role,
		Permissions:  datatypes.NewJSONType(domain.PermissionSet{}),
	}
}

func TestCreateUser_AndLookups(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	u := newUser("ann", domain.RoleStaff)
	if err := CreateUser(ctx, db, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("expected generated id")
	}
	if err := CreateUser(ctx, db, newUser("ann", domain.RoleViewer)); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	byName, err := GetUserByUsername(ctx, db, "ann")
	if err != nil || byName.ID != u.ID {
		t.Fatalf("GetUserByUsername: %+v %v", byName, err)
	}
	byID, err := GetUserByID(ctx, db, u.ID)
	if err != nil || byID.Username != "ann" {
		t.Fatalf("GetUserByID: %+v %v", byID, err)
	}
	if _, err := GetUserByUsername(ctx, db, "bob"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNonAdminUsers_OrderedByID(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	for _, u := range []*domain.User{
		newUser("zed", domain.RoleViewer),
		newUser("root", domain.RoleAdmin),
		newUser("amy", domain.RoleStaff),
	} {
		if err := CreateUser(ctx, db, u); err != nil {
			t.Fatalf("seed %s: %v", u.Username, err)
		}
	}
	out, err := ListNonAdminUsers(ctx, db)
	if err != nil {
		t.Fatalf("ListNonAdminUsers: %v", err)
	}
	if len(out) != 2 || out[0].Username != "zed" || out[1].Username != "amy" {
		t.Fatalf("unexpected users: %+v", out)
	}
}

func TestDeleteUser_AndUpdatePassword(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	u := newUser("ann", domain.RoleStaff)
	if err := CreateUser(ctx, db, u); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := UpdatePasswordHash(ctx, db, u.ID, "$argon2id$new"); err != nil {
		t.Fatalf("UpdatePasswordHash: %v", err)
	}
	got, _ := GetUserByID(ctx, db, u.ID)
	if got.PasswordHash != "$argon2id$new" {
		t.Fatalf("hash not updated: %q", got.PasswordHash)
	}
	if err := UpdatePasswordHash(ctx, db, 999, "x"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := DeleteUser(ctx, db, u.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	if err := DeleteUser(ctx, db, u.ID); err != ErrNotFound {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}
