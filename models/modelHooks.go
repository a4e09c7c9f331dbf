package models

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func (r *BranchDayReport) AfterCreate(tx *gorm.DB) (err error) {

	description := fmt.Sprintf("Daily report opened for branch %s.", r.BranchId)
	if err := SaveHistoryCreate(tx, r.ID, "BranchDayReport", r, description); err != nil {
		return err
	}

	// the summary row exists from day one so the finance view never has
	// to special-case a report without totals
	summary := RemittanceSummary{ReportId: r.ID}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "report_id"}},
		DoNothing: true,
	}).Create(&summary).Error
}

func (r *BranchDayReport) AfterDelete(tx *gorm.DB) (err error) {
	if r.ID == 0 {
		return nil
	}
	return SaveHistoryDelete(tx, r.ID, "BranchDayReport", r, "Daily report deleted.")
}

func (e *AttendanceEntry) AfterCreate(tx *gorm.DB) (err error) {

	description := fmt.Sprintf("Attendance recorded for partner %s.", e.PartnerId)
	return SaveHistoryCreate(tx, e.ID, "AttendanceEntry", e, description)
}

// AfterSave fires on both create and update so the summary tracks every
// cash-affecting change within the same transaction.
func (e *AttendanceEntry) AfterSave(tx *gorm.DB) (err error) {
	return RecomputeRemittanceSummary(tx.Statement.Context, tx, e.ReportId)
}

func (e *AttendanceEntry) AfterDelete(tx *gorm.DB) (err error) {
	if e.ID == 0 {
		return nil
	}
	if err := SaveHistoryDelete(tx, e.ID, "AttendanceEntry", e, "Attendance entry deleted."); err != nil {
		return err
	}
	return RecomputeRemittanceSummary(tx.Statement.Context, tx, e.ReportId)
}

func (e *ExpenseEntry) AfterCreate(tx *gorm.DB) (err error) {

	description := fmt.Sprintf("Expense recorded: %s.", e.Item)
	return SaveHistoryCreate(tx, e.ID, "ExpenseEntry", e, description)
}

func (e *ExpenseEntry) AfterSave(tx *gorm.DB) (err error) {
	return RecomputeRemittanceSummary(tx.Statement.Context, tx, e.ReportId)
}

func (e *ExpenseEntry) AfterDelete(tx *gorm.DB) (err error) {
	if e.ID == 0 {
		return nil
	}
	if err := SaveHistoryDelete(tx, e.ID, "ExpenseEntry", e, "Expense entry deleted."); err != nil {
		return err
	}
	return RecomputeRemittanceSummary(tx.Statement.Context, tx, e.ReportId)
}
