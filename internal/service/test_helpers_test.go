package service_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/victormarques-ia/apex/internal/db"
	"github.com/victormarques-ia/apex/internal/identity"
	"github.com/victormarques-ia/apex/internal/model"
	"github.com/victormarques-ia/apex/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "apex.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func adminCtx() context.Context {
	return identity.WithActor(context.Background(), identity.Actor{Role: model.RoleAdmin})
}

func actorCtx(id string, role model.Role) context.Context {
	return identity.WithActor(context.Background(), identity.Actor{ID: id, Role: role})
}

func floatPtr(v float64) *float64 {
	return &v
}

func mustCreateAthlete(t *testing.T, sqldb *sql.DB, in service.CreateAthleteInput) string {
	t.Helper()
	id, err := service.CreateAthlete(adminCtx(), sqldb, in)
	if err != nil {
		t.Fatalf("create athlete %s: %v", in.Name, err)
	}
	return id
}

func mustCreateStaff(t *testing.T, sqldb *sql.DB, name, role string) string {
	t.Helper()
	id, err := service.CreateStaff(adminCtx(), sqldb, service.CreateStaffInput{Name: name, Role: role})
	if err != nil {
		t.Fatalf("create staff %s: %v", name, err)
	}
	return id
}

func mustCreateFood(t *testing.T, sqldb *sql.DB, in service.FoodInput) string {
	t.Helper()
	id, err := service.CreateFood(adminCtx(), sqldb, in)
	if err != nil {
		t.Fatalf("create food %s: %v", in.Name, err)
	}
	return id
}
