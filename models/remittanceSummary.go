package models

import (
	"context"
	"errors"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RemittanceSummary holds the derived cash position of one branch-day
// report. All totals are recomputed from scratch on every attendance or
// expense change; the transfer proof key is the only hand-edited field.
type RemittanceSummary struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	ReportId           int             `gorm:"uniqueIndex;not null" json:"report_id"`
	TotalCashCollected decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_cash_collected"`
	TotalExpenses      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total_expenses"`
	NetRemit           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"net_remit"`
	TransferProofKey   string          `gorm:"size:255" json:"transfer_proof_key"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// RecomputeRemittanceSummary rebuilds the summary row for reportId inside
// the caller's transaction. Net remit is cash minus expenses and may go
// negative; that is a signal for the finance team, not an error.
func RecomputeRemittanceSummary(ctx context.Context, tx *gorm.DB, reportId int) error {
	// batch deletes run hooks against a zero-value model
	if reportId == 0 {
		return nil
	}

	if config.RemittanceProofGated() {
		var withProof int64
		err := tx.WithContext(ctx).Model(&RemittanceSummary{}).
			Where("report_id = ? AND transfer_proof_key <> ''", reportId).
			Count(&withProof).Error
		if err != nil {
			return err
		}
		if withProof == 0 {
			return nil
		}
	}

	var totals struct {
		Cash     decimal.Decimal `json:"cash"`
		Expenses decimal.Decimal `json:"expenses"`
	}
	err := tx.WithContext(ctx).Raw(`
		SELECT
			(SELECT COALESCE(SUM(cash_received), 0) FROM attendance_entries WHERE report_id = ?) AS cash,
			(SELECT COALESCE(SUM(amount), 0) FROM expense_entries WHERE report_id = ?) AS expenses`,
		reportId, reportId).
		Scan(&totals).Error
	if err != nil {
		return err
	}

	summary := RemittanceSummary{
		ReportId:           reportId,
		TotalCashCollected: totals.Cash,
		TotalExpenses:      totals.Expenses,
		NetRemit:           totals.Cash.Sub(totals.Expenses),
	}
	return tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "report_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_cash_collected": summary.TotalCashCollected,
			"total_expenses":       summary.TotalExpenses,
			"net_remit":            summary.NetRemit,
		}),
	}).Create(&summary).Error
}

// AttachTransferProof records the bank-transfer proof attachment on the
// report's summary. Under the proof-gated policy this is also the moment
// the totals first materialize.
func AttachTransferProof(ctx context.Context, reportId int, attachmentKey string) (*RemittanceSummary, error) {
	report, err := GetBranchDayReport(ctx, reportId)
	if err != nil {
		return nil, err
	}
	if attachmentKey != "" {
		exists, err := utils.AttachmentExists(ctx, attachmentKey)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errors.New("transfer proof attachment not found")
		}
	}

	db := config.GetDB()
	tx := db.Begin()

	summary := RemittanceSummary{ReportId: report.ID, TransferProofKey: attachmentKey}
	err = tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "report_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"transfer_proof_key": attachmentKey,
		}),
	}).Create(&summary).Error
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := RecomputeRemittanceSummary(ctx, tx, report.ID); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return GetRemittanceSummary(ctx, report.ID)
}

func GetRemittanceSummary(ctx context.Context, reportId int) (*RemittanceSummary, error) {
	report, err := GetBranchDayReport(ctx, reportId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var summary RemittanceSummary
	if err := db.WithContext(ctx).First(&summary, "report_id = ?", report.ID).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &summary, nil
}
