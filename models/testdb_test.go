package models_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/models"
	"github.com/gerobaknusa/backoffice_backend/utils"
	"github.com/google/uuid"
)

var phoneSeq atomic.Int64

// setupTestDB points the global connection at a fresh in-memory sqlite
// database and migrates the schema. Each test gets its own database.
func setupTestDB(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_SQLITE_PATH", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	t.Setenv("STORAGE_PROVIDER", "local")
	t.Setenv("STORAGE_LOCAL_DIR", t.TempDir())
	config.ConnectDatabaseWithRetry()
	models.MigrateTable()
}

func adminContext() context.Context {
	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test Admin")
	ctx = utils.SetUsernameInContext(ctx, "admin@test")
	ctx = utils.SetIsAdminInContext(ctx, true)
	return ctx
}

func userContext(userId int, name string) context.Context {
	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, userId)
	ctx = utils.SetUserNameInContext(ctx, name)
	ctx = utils.SetUsernameInContext(ctx, name)
	ctx = utils.SetIsAdminInContext(ctx, false)
	return ctx
}

func nextPhone() string {
	return fmt.Sprintf("0812%08d", phoneSeq.Add(1))
}

// seedBranchWithHead creates a head employee, a login user for the head and
// a branch headed by that employee.
func seedBranchWithHead(t *testing.T, ctx context.Context, branchId string, branchName string) (*models.Branch, *models.Employee, *models.User) {
	t.Helper()

	head, err := models.CreateEmployee(ctx, &models.NewEmployee{
		FullName: branchName + " Head",
		Phone:    nextPhone(),
		Role:     "branch head",
		JoinDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateEmployee (head): %v", err)
	}

	user, err := models.CreateUser(ctx, &models.NewUser{
		Username:   branchName + "-head@test",
		Name:       head.FullName,
		Password:   "headpass-123",
		EmployeeId: &head.ID,
	})
	if err != nil {
		t.Fatalf("CreateUser (head): %v", err)
	}
	head, err = models.UpdateEmployee(ctx, head.ID, &models.NewEmployee{
		FullName: head.FullName,
		Phone:    head.Phone,
		Role:     head.Role,
		JoinDate: head.JoinDate,
		UserId:   &user.ID,
	})
	if err != nil {
		t.Fatalf("UpdateEmployee (link user): %v", err)
	}

	branch, err := models.CreateBranch(ctx, &models.NewBranch{
		ID:             branchId,
		Name:           branchName,
		HeadEmployeeId: &head.ID,
	})
	if err != nil {
		t.Fatalf("CreateBranch: %v", err)
	}
	return branch, head, user
}

func seedPartner(t *testing.T, ctx context.Context, name string, branchId *string) *models.Employee {
	t.Helper()
	partner, err := models.CreateEmployee(ctx, &models.NewEmployee{
		FullName: name,
		Phone:    nextPhone(),
		Role:     "partner",
		JoinDate: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		BranchId: branchId,
	})
	if err != nil {
		t.Fatalf("CreateEmployee (partner): %v", err)
	}
	return partner
}

func seedReport(t *testing.T, ctx context.Context, branchId string, date time.Time) *models.BranchDayReport {
	t.Helper()
	report, err := models.CreateBranchDayReport(ctx, &models.NewBranchDayReport{
		BranchId:   branchId,
		ReportDate: date,
	})
	if err != nil {
		t.Fatalf("CreateBranchDayReport: %v", err)
	}
	return report
}
