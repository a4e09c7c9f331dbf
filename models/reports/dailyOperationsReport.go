package reports

import (
	"context"
	"errors"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/models"
	"github.com/gerobaknusa/backoffice_backend/utils"
	"github.com/shopspring/decimal"
)

type DailyOperationsRow struct {
	ReportId           int             `json:"report_id"`
	BranchId           string          `json:"branch_id"`
	BranchName         string          `json:"branch_name"`
	ReportDate         time.Time       `json:"report_date"`
	PartnersDispatched int             `json:"partners_dispatched"`
	PartnersPresent    int             `json:"partners_present"`
	TotalTarget        decimal.Decimal `json:"total_target"`
	TotalGross         decimal.Decimal `json:"total_gross"`
	TotalVariance      decimal.Decimal `json:"total_variance"`
	ShortfallCount     int             `json:"shortfall_count"`
	NetRemit           decimal.Decimal `json:"net_remit"`
}

// GetDailyOperations returns one row per visible branch-day report in the
// date range. Shortfall count is the number of entries whose variance went
// negative, the first thing the office checks each morning.
func GetDailyOperations(ctx context.Context, fromDate time.Time, toDate time.Time, branchId *string) ([]*DailyOperationsRow, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}

	if branchId != nil && *branchId != "" {
		if _, err := models.GetBranch(ctx, *branchId); err != nil {
			return nil, errors.New("branch not found")
		}
	}

	sqlTemplate := `
SELECT
    r.id AS report_id,
    r.branch_id,
    b.name AS branch_name,
    r.report_date,
    COUNT(ae.id) AS partners_dispatched,
    SUM(CASE WHEN ae.status = 'Present' THEN 1 ELSE 0 END) AS partners_present,
    COALESCE(SUM(ae.target_revenue), 0) AS total_target,
    COALESCE(SUM(ae.gross_revenue), 0) AS total_gross,
    COALESCE(SUM(ae.variance), 0) AS total_variance,
    SUM(CASE WHEN ae.variance < 0 THEN 1 ELSE 0 END) AS shortfall_count,
    COALESCE(rs.net_remit, 0) AS net_remit
FROM
    branch_day_reports AS r
    JOIN branches AS b ON b.id = r.branch_id
    LEFT JOIN attendance_entries AS ae ON ae.report_id = r.id
    LEFT JOIN remittance_summaries AS rs ON rs.report_id = r.id
WHERE
    r.report_date >= @fromDate
    AND r.report_date <= @toDate
    {{if .branchId}}AND r.branch_id = @branchId{{end}}
    {{if .scoped}}AND r.branch_id IN (
        SELECT hb.id FROM branches AS hb
        JOIN employees AS he ON he.id = hb.head_employee_id
        WHERE he.user_id = @userId
    ){{end}}
GROUP BY
    r.id, r.branch_id, b.name, r.report_date, rs.net_remit
ORDER BY
    r.report_date, b.name;
`
	isAdmin, _ := utils.GetIsAdminFromContext(ctx)
	skipScope, _ := utils.GetSkipBranchScopeFromContext(ctx)

	sql, err := utils.ExecTemplate(sqlTemplate, map[string]interface{}{
		"branchId": utils.DereferencePtr(branchId),
		"scoped":   !isAdmin && !skipScope,
	})
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*DailyOperationsRow
	err = db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"fromDate": fromDate,
		"toDate":   toDate,
		"branchId": branchId,
		"userId":   userId,
	}).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
