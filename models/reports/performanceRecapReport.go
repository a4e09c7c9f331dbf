package reports

import (
	"context"
	"errors"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/utils"
	"github.com/shopspring/decimal"
)

type PartnerRecapRow struct {
	EmployeeId    string          `json:"employee_id"`
	PartnerName   string          `json:"partner_name"`
	DaysOnDuty    int             `json:"days_on_duty"`
	TotalMinutes  int             `json:"total_minutes"`
	TotalGross    decimal.Decimal `json:"total_gross"`
	TotalVariance decimal.Decimal `json:"total_variance"`
	ShortfallDays int             `json:"shortfall_days"`
}

type BranchRecapRow struct {
	BranchId         string          `json:"branch_id"`
	BranchName       string          `json:"branch_name"`
	ReportCount      int             `json:"report_count"`
	DispatchCount    int             `json:"dispatch_count"`
	TotalGross       decimal.Decimal `json:"total_gross"`
	TotalNetRemitted decimal.Decimal `json:"total_net_remitted"`
}

// GetPartnerRecap aggregates each partner's duty record over the range,
// busiest partners first.
func GetPartnerRecap(ctx context.Context, fromDate time.Time, toDate time.Time) ([]*PartnerRecapRow, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}

	sqlTemplate := `
SELECT
    e.id AS employee_id,
    e.full_name AS partner_name,
    COUNT(ae.id) AS days_on_duty,
    COALESCE(SUM(ae.work_duration_minutes), 0) AS total_minutes,
    COALESCE(SUM(ae.gross_revenue), 0) AS total_gross,
    COALESCE(SUM(ae.variance), 0) AS total_variance,
    SUM(CASE WHEN ae.variance < 0 THEN 1 ELSE 0 END) AS shortfall_days
FROM
    attendance_entries AS ae
    JOIN employees AS e ON e.id = ae.partner_id
    JOIN branch_day_reports AS r ON r.id = ae.report_id
WHERE
    r.report_date >= @fromDate
    AND r.report_date <= @toDate
    {{if .scoped}}AND r.branch_id IN (
        SELECT hb.id FROM branches AS hb
        JOIN employees AS he ON he.id = hb.head_employee_id
        WHERE he.user_id = @userId
    ){{end}}
GROUP BY
    e.id, e.full_name
ORDER BY
    total_minutes DESC, e.full_name;
`
	isAdmin, _ := utils.GetIsAdminFromContext(ctx)
	skipScope, _ := utils.GetSkipBranchScopeFromContext(ctx)

	sql, err := utils.ExecTemplate(sqlTemplate, map[string]interface{}{
		"scoped": !isAdmin && !skipScope,
	})
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*PartnerRecapRow
	err = db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"fromDate": fromDate,
		"toDate":   toDate,
		"userId":   userId,
	}).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetBranchRecap aggregates dispatch volume and remittance per branch,
// busiest branches first.
func GetBranchRecap(ctx context.Context, fromDate time.Time, toDate time.Time) ([]*BranchRecapRow, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return nil, errors.New("user id is required")
	}

	sqlTemplate := `
SELECT
    b.id AS branch_id,
    b.name AS branch_name,
    COUNT(r.id) AS report_count,
    COALESCE(SUM(agg.dispatch_count), 0) AS dispatch_count,
    COALESCE(SUM(agg.total_gross), 0) AS total_gross,
    COALESCE(SUM(rs.net_remit), 0) AS total_net_remitted
FROM
    branches AS b
    JOIN branch_day_reports AS r ON r.branch_id = b.id
    LEFT JOIN (
        SELECT
            report_id,
            COUNT(id) AS dispatch_count,
            SUM(gross_revenue) AS total_gross
        FROM attendance_entries
        GROUP BY report_id
    ) AS agg ON agg.report_id = r.id
    LEFT JOIN remittance_summaries AS rs ON rs.report_id = r.id
WHERE
    r.report_date >= @fromDate
    AND r.report_date <= @toDate
    {{if .scoped}}AND b.id IN (
        SELECT hb.id FROM branches AS hb
        JOIN employees AS he ON he.id = hb.head_employee_id
        WHERE he.user_id = @userId
    ){{end}}
GROUP BY
    b.id, b.name
ORDER BY
    dispatch_count DESC, b.name;
`
	isAdmin, _ := utils.GetIsAdminFromContext(ctx)
	skipScope, _ := utils.GetSkipBranchScopeFromContext(ctx)

	sql, err := utils.ExecTemplate(sqlTemplate, map[string]interface{}{
		"scoped": !isAdmin && !skipScope,
	})
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	var results []*BranchRecapRow
	err = db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"fromDate": fromDate,
		"toDate":   toDate,
		"userId":   userId,
	}).Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
