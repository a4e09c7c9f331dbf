package models

import (
	"context"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/utils"
	"gorm.io/gorm"
)

// Row-level scoping for branch-day data. Administrators see everything;
// everyone else only sees reports of branches whose designated head is the
// employee linked to the acting user. Queries against foreign branches come
// back empty, never as an error.

func actorBypassesScope(ctx context.Context) bool {
	if skip, ok := utils.GetSkipBranchScopeFromContext(ctx); ok && skip {
		return true
	}
	isAdmin, ok := utils.GetIsAdminFromContext(ctx)
	return ok && isAdmin
}

// headedBranchIds builds a subquery of branch ids headed by the acting user.
func headedBranchIds(db *gorm.DB, userId int) *gorm.DB {
	return db.Model(&Branch{}).
		Select("branches.id").
		Joins("JOIN employees ON employees.id = branches.head_employee_id").
		Where("employees.user_id = ?", userId)
}

// actorHeadedBranchIds picks the branch-id subquery for the acting non-admin.
// A staff id already resolved into the context wins; otherwise the user link
// is followed. ok is false when the actor cannot be identified at all.
func actorHeadedBranchIds(ctx context.Context, db *gorm.DB) (*gorm.DB, bool) {
	if staffId, found := utils.GetStaffIdFromContext(ctx); found && staffId != "" {
		return db.Model(&Branch{}).
			Select("branches.id").
			Where("branches.head_employee_id = ?", staffId), true
	}
	if userId, found := utils.GetUserIdFromContext(ctx); found {
		return headedBranchIds(db, userId), true
	}
	return nil, false
}

// ReportVisibilityScope restricts BranchDayReport queries to what the acting
// identity may see. Apply with db.Scopes(ReportVisibilityScope(ctx)).
func ReportVisibilityScope(ctx context.Context) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if actorBypassesScope(ctx) {
			return tx
		}
		sub, ok := actorHeadedBranchIds(ctx, tx.Session(&gorm.Session{NewDB: true}))
		if !ok {
			return tx.Where("1 = 0")
		}
		return tx.Where("branch_day_reports.branch_id IN (?)", sub)
	}
}

// visibleReportIds is the same predicate expressed as a report-id subquery,
// for scoping attendance and expense rows through their parent report.
func visibleReportIds(ctx context.Context, db *gorm.DB) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&BranchDayReport{}).
		Select("branch_day_reports.id").
		Scopes(ReportVisibilityScope(ctx))
}

// AllowedBranchChoices lists the branches the actor may create reports for.
func AllowedBranchChoices(ctx context.Context) ([]*Branch, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Branch{})
	if !actorBypassesScope(ctx) {
		sub, ok := actorHeadedBranchIds(ctx, db.WithContext(ctx))
		if !ok {
			return []*Branch{}, nil
		}
		dbCtx = dbCtx.Where("branches.id IN (?)", sub)
	}
	var branches []*Branch
	if err := dbCtx.Order("id").Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

// AllowedPartnerChoices lists employees that may be put on an attendance
// slot: partner role, active, and (for non-admins) stationed at a branch the
// actor heads.
func AllowedPartnerChoices(ctx context.Context) ([]*Employee, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Employee{}).
		Where("role LIKE ?", "%partner%").
		Where("status = ?", EmployeeStatusActive)
	if !actorBypassesScope(ctx) {
		sub, ok := actorHeadedBranchIds(ctx, db.WithContext(ctx))
		if !ok {
			return []*Employee{}, nil
		}
		dbCtx = dbCtx.Where("employees.branch_id IN (?)", sub)
	}
	var employees []*Employee
	if err := dbCtx.Order("id").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func isAllowedPartnerChoice(ctx context.Context, partnerId string) (bool, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&Employee{}).
		Where("employees.id = ?", partnerId).
		Where("role LIKE ?", "%partner%").
		Where("status = ?", EmployeeStatusActive)
	if !actorBypassesScope(ctx) {
		sub, ok := actorHeadedBranchIds(ctx, db.WithContext(ctx))
		if !ok {
			return false, nil
		}
		dbCtx = dbCtx.Where("employees.branch_id IN (?)", sub)
	}
	var count int64
	if err := dbCtx.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AllowedExpenseEmployeeChoices lists employees an expense row may reference:
// anyone already on this report's attendance, plus the report branch's head.
// Only meaningful once the report exists.
func AllowedExpenseEmployeeChoices(ctx context.Context, reportId int) ([]*Employee, error) {
	report, err := GetBranchDayReport(ctx, reportId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var ids []string
	if err := db.WithContext(ctx).Model(&AttendanceEntry{}).
		Where("report_id = ?", report.ID).
		Pluck("partner_id", &ids).Error; err != nil {
		return nil, err
	}

	branch, err := GetBranch(ctx, report.BranchId)
	if err != nil {
		return nil, err
	}
	if branch.HeadEmployeeId != nil {
		ids = append(ids, *branch.HeadEmployeeId)
	}
	ids = utils.UniqueSlice(ids)
	if len(ids) == 0 {
		return []*Employee{}, nil
	}

	var employees []*Employee
	if err := db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func isAllowedExpenseEmployee(ctx context.Context, reportId int, employeeId string) (bool, error) {
	choices, err := AllowedExpenseEmployeeChoices(ctx, reportId)
	if err != nil {
		return false, err
	}
	for _, e := range choices {
		if e.ID == employeeId {
			return true, nil
		}
	}
	return false, nil
}
