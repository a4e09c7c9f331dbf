package models_test

import (
	"context"
	"testing"
	"time"

	"github.com/gerobaknusa/backoffice_backend/models"
	"github.com/shopspring/decimal"
)

func TestBranchHeadSeesOnlyOwnReports(t *testing.T) {
	setupTestDB(t)
	admin := adminContext()

	branchA, _, userA := seedBranchWithHead(t, admin, "BR01", "Tebet")
	branchB, _, _ := seedBranchWithHead(t, admin, "BR02", "Kemang")

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	reportA := seedReport(t, admin, branchA.ID, date)
	reportB := seedReport(t, admin, branchB.ID, date)

	headCtx := userContext(userA.ID, "tebet-head")

	if _, err := models.GetBranchDayReport(headCtx, reportA.ID); err != nil {
		t.Fatalf("head cannot read own report: %v", err)
	}
	if _, err := models.GetBranchDayReport(headCtx, reportB.ID); err == nil {
		t.Error("head can read another branch's report")
	}

	reports, err := models.ListBranchDayReports(headCtx, nil)
	if err != nil {
		t.Fatalf("ListBranchDayReports: %v", err)
	}
	if len(reports) != 1 || reports[0].ID != reportA.ID {
		t.Errorf("head sees %d reports, want only their own", len(reports))
	}

	// admins see everything
	reports, err = models.ListBranchDayReports(admin, nil)
	if err != nil {
		t.Fatalf("ListBranchDayReports (admin): %v", err)
	}
	if len(reports) != 2 {
		t.Errorf("admin sees %d reports, want 2", len(reports))
	}
}

func TestStaffLinkedActorScope(t *testing.T) {
	setupTestDB(t)
	admin := adminContext()

	branchA, _, userA := seedBranchWithHead(t, admin, "BR01", "Tebet")
	branchB, _, _ := seedBranchWithHead(t, admin, "BR02", "Kemang")

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	reportA := seedReport(t, admin, branchA.ID, date)
	seedReport(t, admin, branchB.ID, date)

	// context built from the login user carries the linked staff id,
	// which scopes through branches.head_employee_id directly
	headCtx := userA.ActorContext(context.Background())

	reports, err := models.ListBranchDayReports(headCtx, nil)
	if err != nil {
		t.Fatalf("ListBranchDayReports: %v", err)
	}
	if len(reports) != 1 || reports[0].ID != reportA.ID {
		t.Fatalf("staff-linked head sees %d reports, want only their own", len(reports))
	}

	choices, err := models.AllowedBranchChoices(headCtx)
	if err != nil {
		t.Fatalf("AllowedBranchChoices: %v", err)
	}
	if len(choices) != 1 || choices[0].ID != branchA.ID {
		t.Errorf("staff-linked head offered %d branches, want only their own", len(choices))
	}
}

func TestUnknownActorSeesNothing(t *testing.T) {
	setupTestDB(t)
	admin := adminContext()

	branch, _, _ := seedBranchWithHead(t, admin, "BR01", "Tebet")
	seedReport(t, admin, branch.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	// a non-admin user who heads no branch
	outsider, err := models.CreateUser(admin, &models.NewUser{
		Username: "outsider@test",
		Password: "outsider-123",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	reports, err := models.ListBranchDayReports(userContext(outsider.ID, "outsider"), nil)
	if err != nil {
		t.Fatalf("ListBranchDayReports: %v", err)
	}
	if len(reports) != 0 {
		t.Errorf("outsider sees %d reports, want 0", len(reports))
	}
}

func TestHeadCannotOpenForeignReport(t *testing.T) {
	setupTestDB(t)
	admin := adminContext()

	_, _, userA := seedBranchWithHead(t, admin, "BR01", "Tebet")
	branchB, _, _ := seedBranchWithHead(t, admin, "BR02", "Kemang")

	headCtx := userContext(userA.ID, "tebet-head")
	_, err := models.CreateBranchDayReport(headCtx, &models.NewBranchDayReport{
		BranchId:   branchB.ID,
		ReportDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Error("head opened a report for a branch they do not lead")
	}
}

func TestPartnerChoicesScopedToHeadedBranch(t *testing.T) {
	setupTestDB(t)
	admin := adminContext()

	branchA, _, userA := seedBranchWithHead(t, admin, "BR01", "Tebet")
	branchB, _, _ := seedBranchWithHead(t, admin, "BR02", "Kemang")
	ownPartner := seedPartner(t, admin, "Budi", &branchA.ID)
	foreignPartner := seedPartner(t, admin, "Sari", &branchB.ID)

	headCtx := userContext(userA.ID, "tebet-head")
	reportA := seedReport(t, headCtx, branchA.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	if _, err := models.CreateAttendanceEntry(headCtx, &models.NewAttendanceEntry{
		ReportId:  reportA.ID,
		PartnerId: ownPartner.ID,
	}); err != nil {
		t.Fatalf("attendance for own partner: %v", err)
	}
	if _, err := models.CreateAttendanceEntry(headCtx, &models.NewAttendanceEntry{
		ReportId:  reportA.ID,
		PartnerId: foreignPartner.ID,
	}); err == nil {
		t.Error("head registered a partner stationed at another branch")
	}

	choices, err := models.AllowedPartnerChoices(headCtx)
	if err != nil {
		t.Fatalf("AllowedPartnerChoices: %v", err)
	}
	for _, c := range choices {
		if c.ID == foreignPartner.ID {
			t.Error("foreign partner offered as a choice")
		}
	}
}

func TestExpenseEmployeeMustBeOnReport(t *testing.T) {
	setupTestDB(t)
	ctx := adminContext()

	branch, head, _ := seedBranchWithHead(t, ctx, "BR01", "Tebet")
	onDuty := seedPartner(t, ctx, "Budi", &branch.ID)
	offDuty := seedPartner(t, ctx, "Sari", &branch.ID)
	report := seedReport(t, ctx, branch.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	if _, err := models.CreateAttendanceEntry(ctx, &models.NewAttendanceEntry{
		ReportId:  report.ID,
		PartnerId: onDuty.ID,
	}); err != nil {
		t.Fatalf("CreateAttendanceEntry: %v", err)
	}

	if _, err := models.CreateExpenseEntry(ctx, &models.NewExpenseEntry{
		ReportId:   report.ID,
		Category:   models.ExpenseCategoryBonus,
		EmployeeId: &onDuty.ID,
		Item:       "daily bonus",
		Amount:     decimal.NewFromInt(20000),
	}); err != nil {
		t.Errorf("expense for on-duty partner rejected: %v", err)
	}

	// the branch head is always a valid payee
	if _, err := models.CreateExpenseEntry(ctx, &models.NewExpenseEntry{
		ReportId:   report.ID,
		Category:   models.ExpenseCategoryCashAdvance,
		EmployeeId: &head.ID,
		Item:       "cash advance",
		Amount:     decimal.NewFromInt(50000),
	}); err != nil {
		t.Errorf("expense for branch head rejected: %v", err)
	}

	if _, err := models.CreateExpenseEntry(ctx, &models.NewExpenseEntry{
		ReportId:   report.ID,
		Category:   models.ExpenseCategoryBonus,
		EmployeeId: &offDuty.ID,
		Item:       "daily bonus",
		Amount:     decimal.NewFromInt(20000),
	}); err == nil {
		t.Error("expense accepted for a partner not on this report")
	}
}
