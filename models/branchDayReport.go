package models

import (
	"context"
	"errors"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/utils"
)

// BranchDayReport scopes one branch's operations for one calendar date.
// Identity fields are immutable after creation; deleting a report cascades
// to its attendance entries, expenses and remittance summary.
type BranchDayReport struct {
	ID              int       `gorm:"primary_key" json:"id"`
	BranchId        string    `gorm:"size:10;not null;uniqueIndex:idx_report_branch_date,priority:1" json:"branch_id"`
	ReportDate      time.Time `gorm:"type:date;not null;uniqueIndex:idx_report_branch_date,priority:2" json:"report_date"`
	CreatedByUserId int       `gorm:"index" json:"created_by_user_id"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBranchDayReport struct {
	BranchId   string    `json:"branch_id" validate:"required"`
	ReportDate time.Time `json:"report_date" validate:"required"`
}

// report dates are stored date-only, midnight UTC
func normalizeReportDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (input *NewBranchDayReport) validate(ctx context.Context) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	if err := utils.ValidateResourceId[Branch](ctx, input.BranchId); err != nil {
		return errors.New("branch not found")
	}
	// non-admins may only open reports for branches they head
	if !actorBypassesScope(ctx) {
		allowed, err := AllowedBranchChoices(ctx)
		if err != nil {
			return err
		}
		found := false
		for _, b := range allowed {
			if b.ID == input.BranchId {
				found = true
				break
			}
		}
		if !found {
			return errors.New("branch not found")
		}
	}
	// one report per branch per date
	date := normalizeReportDate(input.ReportDate)
	count, err := utils.ResourceCountWhere[BranchDayReport](ctx, "branch_id = ? AND report_date = ?", input.BranchId, date)
	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("a report for this branch and date already exists")
	}
	return nil
}

func CreateBranchDayReport(ctx context.Context, input *NewBranchDayReport) (*BranchDayReport, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	userId, _ := utils.GetUserIdFromContext(ctx)
	report := BranchDayReport{
		BranchId:        input.BranchId,
		ReportDate:      normalizeReportDate(input.ReportDate),
		CreatedByUserId: userId,
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&report).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// GetBranchDayReport fetches one report, applying the actor's visibility
// scope. Reports outside the actor's branches surface as not found.
func GetBranchDayReport(ctx context.Context, id int) (*BranchDayReport, error) {
	db := config.GetDB()
	var report BranchDayReport
	err := db.WithContext(ctx).
		Scopes(ReportVisibilityScope(ctx)).
		First(&report, "branch_day_reports.id = ?", id).Error
	if err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &report, nil
}

// ListBranchDayReports lists visible reports, optionally for one date.
func ListBranchDayReports(ctx context.Context, date *time.Time) ([]*BranchDayReport, error) {
	db := config.GetDB()
	dbCtx := db.WithContext(ctx).
		Model(&BranchDayReport{}).
		Scopes(ReportVisibilityScope(ctx))
	if date != nil {
		dbCtx = dbCtx.Where("report_date = ?", normalizeReportDate(*date))
	}
	var reports []*BranchDayReport
	if err := dbCtx.Order("report_date DESC, branch_id").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

// DeleteBranchDayReport removes the report and everything under it in one
// transaction.
func DeleteBranchDayReport(ctx context.Context, id int) error {
	report, err := GetBranchDayReport(ctx, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Where("report_id = ?", report.ID).Delete(&AttendanceEntry{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Where("report_id = ?", report.ID).Delete(&ExpenseEntry{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Where("report_id = ?", report.ID).Delete(&RemittanceSummary{}).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.WithContext(ctx).Delete(report).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
