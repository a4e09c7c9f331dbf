package models

import (
	"context"
	"errors"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AttendanceEntry reconciles one partner's production day. The four deduction
// fields are additive components of reported revenue, not subtractions; the
// naming is historical. Derived columns are always stored, never recomputed
// lazily.
type AttendanceEntry struct {
	ID        int              `gorm:"primary_key" json:"id"`
	ReportId  int              `gorm:"index;not null" json:"report_id"`
	PartnerId string           `gorm:"size:10;index;not null" json:"partner_id"`
	Status    AttendanceStatus `gorm:"size:10;not null;default:'Present'" json:"status"`

	ClockInMinutes  *int `json:"clock_in_minutes,omitempty"`
	ClockOutMinutes *int `json:"clock_out_minutes,omitempty"`

	DoughBroughtGrams  int `gorm:"not null;default:0" json:"dough_brought_grams"`
	DoughLeftoverGrams int `gorm:"not null;default:0" json:"dough_leftover_grams"`

	CashReceived      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cash_received"`
	IceDeduction      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"ice_deduction"`
	GasDeduction      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gas_deduction"`
	SuppliesDeduction decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"supplies_deduction"`
	QrisDeduction     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"qris_deduction"`

	TargetRevenue       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"target_revenue"`
	LeftoverValue       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"leftover_value"`
	GrossRevenue        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"gross_revenue"`
	Variance            decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"variance"`
	WorkDurationMinutes int             `gorm:"not null;default:0" json:"work_duration_minutes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewAttendanceEntry struct {
	ReportId  int              `json:"report_id" validate:"required"`
	PartnerId string           `json:"partner_id" validate:"required"`
	Status    AttendanceStatus `json:"status"`

	ClockInMinutes  *int `json:"clock_in_minutes"`
	ClockOutMinutes *int `json:"clock_out_minutes"`

	DoughBroughtGrams  int `json:"dough_brought_grams"`
	DoughLeftoverGrams int `json:"dough_leftover_grams"`

	CashReceived      decimal.Decimal `json:"cash_received"`
	IceDeduction      decimal.Decimal `json:"ice_deduction"`
	GasDeduction      decimal.Decimal `json:"gas_deduction"`
	SuppliesDeduction decimal.Decimal `json:"supplies_deduction"`
	QrisDeduction     decimal.Decimal `json:"qris_deduction"`
}

// validate input for both create & update. (excludeId = 0 for create)
func (input *NewAttendanceEntry) validate(ctx context.Context, excludeId int) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	if input.Status != "" && !input.Status.Valid() {
		return errors.New("invalid attendance status")
	}

	// the report must exist and be visible to the actor
	report, err := GetBranchDayReport(ctx, input.ReportId)
	if err != nil {
		return err
	}

	// partner choice is restricted: partner role, active, and for
	// non-admins stationed at a branch the actor heads
	allowed, err := isAllowedPartnerChoice(ctx, input.PartnerId)
	if err != nil {
		return err
	}
	if !allowed {
		return errors.New("partner not found or not assignable")
	}

	return checkDuplicateAttendance(ctx, input.PartnerId, report, excludeId)
}

// checkDuplicateAttendance enforces the one-entry-per-partner-per-day rule
// system-wide: a partner already logged at any branch on the report's date is
// rejected. The lookup deliberately ignores the actor's visibility scope.
func checkDuplicateAttendance(ctx context.Context, partnerId string, report *BranchDayReport, excludeId int) error {
	db := config.GetDB()

	var conflict AttendanceEntry
	err := db.WithContext(ctx).
		Joins("JOIN branch_day_reports ON branch_day_reports.id = attendance_entries.report_id").
		Where("attendance_entries.partner_id = ?", partnerId).
		Where("branch_day_reports.report_date = ?", report.ReportDate).
		Where("attendance_entries.id <> ?", excludeId).
		First(&conflict).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	var conflictReport BranchDayReport
	if err := db.WithContext(ctx).First(&conflictReport, conflict.ReportId).Error; err != nil {
		return err
	}
	var conflictBranch Branch
	if err := db.WithContext(ctx).First(&conflictBranch, "id = ?", conflictReport.BranchId).Error; err != nil {
		return err
	}

	partnerName := partnerId
	var partner Employee
	if err := db.WithContext(ctx).First(&partner, "id = ?", partnerId).Error; err != nil {
		config.LogError(config.GetLogger(), "models", "checkDuplicateAttendance", "partner name lookup", partnerId, err)
	} else {
		partnerName = partner.FullName
	}

	return &utils.DuplicateAttendanceError{
		PartnerName:        partnerName,
		ConflictBranchName: conflictBranch.Name,
		SameBranch:         conflictReport.BranchId == report.BranchId,
	}
}

// applyDerivedFields zeroes every quantity for non-present partners first,
// then derives the stored reconciliation columns.
func (e *AttendanceEntry) applyDerivedFields(pricePerGram decimal.Decimal) {
	if e.Status != AttendanceStatusPresent {
		e.ClockInMinutes = nil
		e.ClockOutMinutes = nil
		e.DoughBroughtGrams = 0
		e.DoughLeftoverGrams = 0
		e.CashReceived = decimal.Zero
		e.IceDeduction = decimal.Zero
		e.GasDeduction = decimal.Zero
		e.SuppliesDeduction = decimal.Zero
		e.QrisDeduction = decimal.Zero
	}

	e.TargetRevenue = decimal.NewFromInt(int64(e.DoughBroughtGrams)).Mul(pricePerGram)
	e.GrossRevenue = e.CashReceived.
		Add(e.IceDeduction).
		Add(e.GasDeduction).
		Add(e.SuppliesDeduction).
		Add(e.QrisDeduction)
	e.LeftoverValue = decimal.NewFromInt(int64(e.DoughLeftoverGrams)).Mul(pricePerGram)
	e.Variance = e.GrossRevenue.Add(e.LeftoverValue).Sub(e.TargetRevenue)

	if e.ClockInMinutes != nil && e.ClockOutMinutes != nil {
		duration := *e.ClockOutMinutes - *e.ClockInMinutes
		if duration < 0 {
			// negative spans (no overnight handling) clamp to zero
			duration = 0
		}
		e.WorkDurationMinutes = duration
	} else {
		e.WorkDurationMinutes = 0
	}
}

func (e *AttendanceEntry) fill(input *NewAttendanceEntry) {
	e.ReportId = input.ReportId
	e.PartnerId = input.PartnerId
	e.Status = input.Status
	if e.Status == "" {
		e.Status = AttendanceStatusPresent
	}
	e.ClockInMinutes = input.ClockInMinutes
	e.ClockOutMinutes = input.ClockOutMinutes
	e.DoughBroughtGrams = input.DoughBroughtGrams
	e.DoughLeftoverGrams = input.DoughLeftoverGrams
	e.CashReceived = input.CashReceived
	e.IceDeduction = input.IceDeduction
	e.GasDeduction = input.GasDeduction
	e.SuppliesDeduction = input.SuppliesDeduction
	e.QrisDeduction = input.QrisDeduction
}

func CreateAttendanceEntry(ctx context.Context, input *NewAttendanceEntry) (*AttendanceEntry, error) {
	if err := input.validate(ctx, 0); err != nil {
		return nil, err
	}

	rules, err := GetCompanyRules(ctx)
	if err != nil {
		return nil, err
	}

	var entry AttendanceEntry
	entry.fill(input)
	entry.applyDerivedFields(rules.PricePerGram)

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Create(&entry).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func UpdateAttendanceEntry(ctx context.Context, id int, input *NewAttendanceEntry) (*AttendanceEntry, error) {
	entry, err := GetAttendanceEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	rules, err := GetCompanyRules(ctx)
	if err != nil {
		return nil, err
	}

	before := *entry
	oldReportId := entry.ReportId
	entry.fill(input)
	entry.applyDerivedFields(rules.PricePerGram)

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Save(entry).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryUpdate(tx.WithContext(ctx), entry.ID, "AttendanceEntry", before, entry, "Attendance entry updated."); err != nil {
		tx.Rollback()
		return nil, err
	}
	// moving the entry between reports leaves the old summary stale
	if oldReportId != entry.ReportId {
		if err := RecomputeRemittanceSummary(ctx, tx, oldReportId); err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func GetAttendanceEntry(ctx context.Context, id int) (*AttendanceEntry, error) {
	db := config.GetDB()
	var entry AttendanceEntry
	err := db.WithContext(ctx).
		Where("attendance_entries.report_id IN (?)", visibleReportIds(ctx, db)).
		First(&entry, "attendance_entries.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func ListAttendanceEntries(ctx context.Context, reportId int) ([]*AttendanceEntry, error) {
	report, err := GetBranchDayReport(ctx, reportId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var entries []*AttendanceEntry
	if err := db.WithContext(ctx).Where("report_id = ?", report.ID).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func DeleteAttendanceEntry(ctx context.Context, id int) error {
	entry, err := GetAttendanceEntry(ctx, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(entry).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
