package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ExportPerformanceRecap writes the partner and branch recaps for the date
// range into a two-sheet workbook at path.
func ExportPerformanceRecap(ctx context.Context, fromDate time.Time, toDate time.Time, path string) error {
	partners, err := GetPartnerRecap(ctx, fromDate, toDate)
	if err != nil {
		return err
	}
	branches, err := GetBranchRecap(ctx, fromDate, toDate)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const partnerSheet = "Partners"
	const branchSheet = "Branches"

	index, err := f.NewSheet(partnerSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(branchSheet); err != nil {
		return err
	}
	f.DeleteSheet("Sheet1")

	partnerHeaders := []string{"Partner", "Days On Duty", "Hours", "Gross Revenue", "Variance", "Shortfall Days"}
	for i, h := range partnerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(partnerSheet, cell, h)
	}
	for i, row := range partners {
		rowNo := fmt.Sprint(i + 2)
		f.SetCellValue(partnerSheet, "A"+rowNo, row.PartnerName)
		f.SetCellValue(partnerSheet, "B"+rowNo, row.DaysOnDuty)
		f.SetCellValue(partnerSheet, "C"+rowNo, float64(row.TotalMinutes)/60)
		f.SetCellValue(partnerSheet, "D"+rowNo, row.TotalGross.InexactFloat64())
		f.SetCellValue(partnerSheet, "E"+rowNo, row.TotalVariance.InexactFloat64())
		f.SetCellValue(partnerSheet, "F"+rowNo, row.ShortfallDays)
	}

	branchHeaders := []string{"Branch", "Reports", "Dispatches", "Gross Revenue", "Net Remitted"}
	for i, h := range branchHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(branchSheet, cell, h)
	}
	for i, row := range branches {
		rowNo := fmt.Sprint(i + 2)
		f.SetCellValue(branchSheet, "A"+rowNo, row.BranchName)
		f.SetCellValue(branchSheet, "B"+rowNo, row.ReportCount)
		f.SetCellValue(branchSheet, "C"+rowNo, row.DispatchCount)
		f.SetCellValue(branchSheet, "D"+rowNo, row.TotalGross.InexactFloat64())
		f.SetCellValue(branchSheet, "E"+rowNo, row.TotalNetRemitted.InexactFloat64())
	}

	return f.SaveAs(path)
}
