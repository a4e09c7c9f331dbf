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

// ExpenseEntry is money spent out of a branch-day's cash drawer. The receipt
// is stored as an opaque attachment key; image normalization happens upstream.
type ExpenseEntry struct {
	ID         int             `gorm:"primary_key" json:"id"`
	ReportId   int             `gorm:"index;not null" json:"report_id"`
	Category   ExpenseCategory `gorm:"size:20;not null;default:'Operational'" json:"category"`
	EmployeeId *string         `gorm:"size:10;index" json:"employee_id,omitempty"`
	Item       string          `gorm:"size:100" json:"item"`
	Amount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	ReceiptKey string          `gorm:"size:255" json:"receipt_key"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewExpenseEntry struct {
	ReportId   int             `json:"report_id" validate:"required"`
	Category   ExpenseCategory `json:"category"`
	EmployeeId *string         `json:"employee_id"`
	Item       string          `json:"item"`
	Amount     decimal.Decimal `json:"amount"`
	ReceiptKey string          `json:"receipt_key"`
}

// validate input for both create & update.
func (input *NewExpenseEntry) validate(ctx context.Context) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	if input.Category != "" && !input.Category.Valid() {
		return errors.New("invalid expense category")
	}

	// the report must exist and be visible to the actor
	if _, err := GetBranchDayReport(ctx, input.ReportId); err != nil {
		return err
	}

	// bonus/cash-advance payouts may only reference partners already on this
	// report's attendance, or the branch head
	if input.EmployeeId != nil {
		allowed, err := isAllowedExpenseEmployee(ctx, input.ReportId, *input.EmployeeId)
		if err != nil {
			return err
		}
		if !allowed {
			return errors.New("employee is not on duty under this report")
		}
	}

	if input.ReceiptKey != "" {
		exists, err := utils.AttachmentExists(ctx, input.ReceiptKey)
		if err != nil {
			return err
		}
		if !exists {
			return errors.New("receipt attachment not found")
		}
	}
	return nil
}

func (e *ExpenseEntry) fill(input *NewExpenseEntry) {
	e.ReportId = input.ReportId
	e.Category = input.Category
	if e.Category == "" {
		e.Category = ExpenseCategoryOperational
	}
	e.EmployeeId = input.EmployeeId
	e.Item = input.Item
	e.Amount = input.Amount
	e.ReceiptKey = input.ReceiptKey
}

func CreateExpenseEntry(ctx context.Context, input *NewExpenseEntry) (*ExpenseEntry, error) {
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	var entry ExpenseEntry
	entry.fill(input)

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

func UpdateExpenseEntry(ctx context.Context, id int, input *NewExpenseEntry) (*ExpenseEntry, error) {
	entry, err := GetExpenseEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.validate(ctx); err != nil {
		return nil, err
	}

	before := *entry
	oldReportId := entry.ReportId
	entry.fill(input)

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Save(entry).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := SaveHistoryUpdate(tx.WithContext(ctx), entry.ID, "ExpenseEntry", before, entry, "Expense entry updated."); err != nil {
		tx.Rollback()
		return nil, err
	}
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

func GetExpenseEntry(ctx context.Context, id int) (*ExpenseEntry, error) {
	db := config.GetDB()
	var entry ExpenseEntry
	err := db.WithContext(ctx).
		Where("expense_entries.report_id IN (?)", visibleReportIds(ctx, db)).
		First(&entry, "expense_entries.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func ListExpenseEntries(ctx context.Context, reportId int) ([]*ExpenseEntry, error) {
	report, err := GetBranchDayReport(ctx, reportId)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var entries []*ExpenseEntry
	if err := db.WithContext(ctx).Where("report_id = ?", report.ID).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func DeleteExpenseEntry(ctx context.Context, id int) error {
	entry, err := GetExpenseEntry(ctx, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	tx := db.Begin()
	if err := tx.WithContext(ctx).Delete(entry).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	// best-effort receipt cleanup, the row is already gone
	if entry.ReceiptKey != "" {
		if err := utils.DeleteAttachment(ctx, entry.ReceiptKey); err != nil {
			config.LogError(config.GetLogger(), "models", "DeleteExpenseEntry", "receipt cleanup", entry.ReceiptKey, err)
		}
	}
	return nil
}
