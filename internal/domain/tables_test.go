package domain

import (
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:domain_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Idempotency{}, &User{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestIdempotencyTable(t *testing.T) {
	db := newTestDB(t)
	m := db.Migrator()
	if !m.HasIndex(&Idempotency{}, "ux_user_scope_key") || !m.HasColumn(&Idempotency{}, "idem_key") {
		t.Fatal("idempotency table lacks its unique key")
	}

	exp := time.Now().UTC().Add(time.Hour)
	rec := Idempotency{ID: "id-1", UserID: "7", Scope: "POST /api/claims", Key: "k1", ResourceID: "CLM-1", Status: 201, ExpiresAt: exp}
	if err := db.Create(&rec).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	var got Idempotency
	if err := db.First(&got, "id = ?", "id-1").Error; err != nil {
		t.Fatal(err)
	}
	if got.ResourceID != "CLM-1" || got.CreatedAt.IsZero() {
		t.Fatalf("row = %+v", got)
	}

	dup := rec
	dup.ID, dup.ResourceID = "id-2", "CLM-2"
	if err := db.Create(&dup).Error; err == nil {
		t.Fatal("duplicate (user, scope, key) accepted")
	}
	dup.Scope = "POST /api/register"
	if err := db.Create(&dup).Error; err != nil {
		t.Fatalf("same key in another scope: %v", err)
	}
}

func TestUserTable_PermissionsRoundTrip(t *testing.T) {
	db := newTestDB(t)

	u := User{
		Username:     "adjuster",
		PasswordHash: "x",
		Role:         RoleStaff,
		Permissions:  datatypes.NewJSONType(NewPermissionSet(PermClaimsPurge)),
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := db.Create(&User{Username: "adjuster", PasswordHash: "y"}).Error; err == nil {
		t.Fatal("duplicate username accepted")
	}

	var got User
	if err := db.First(&got, u.ID).Error; err != nil {
		t.Fatal(err)
	}
	id := got.Identity()
	if id.UserID != u.ID || id.Role != RoleStaff || !id.Permissions.Has(PermClaimsPurge) {
		t.Fatalf("identity = %+v", id)
	}

	var bare User
	if err := db.Create(&User{Username: "viewer", PasswordHash: "z", Role: RoleViewer}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Where("username = ?", "viewer").First(&bare).Error; err != nil {
		t.Fatal(err)
	}
	if bare.Identity().Permissions == nil {
		t.Fatal("nil permission set")
	}
}
