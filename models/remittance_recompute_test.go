package models_test

import (
	"testing"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/models"
	"github.com/gerobaknusa/backoffice_backend/utils"
	"github.com/shopspring/decimal"
)

func TestRemittanceSummaryLifecycle(t *testing.T) {
	setupTestDB(t)
	ctx := adminContext()

	branch, _, _ := seedBranchWithHead(t, ctx, "BR01", "Tebet")
	partnerA := seedPartner(t, ctx, "Budi", &branch.ID)
	partnerB := seedPartner(t, ctx, "Sari", &branch.ID)
	report := seedReport(t, ctx, branch.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	// opening a report materializes a zero summary
	summary, err := models.GetRemittanceSummary(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetRemittanceSummary after report create: %v", err)
	}
	if !summary.NetRemit.IsZero() {
		t.Fatalf("NetRemit = %s, want 0 for a fresh report", summary.NetRemit)
	}

	if _, err := models.CreateAttendanceEntry(ctx, &models.NewAttendanceEntry{
		ReportId:     report.ID,
		PartnerId:    partnerA.ID,
		CashReceived: decimal.NewFromInt(10000),
	}); err != nil {
		t.Fatalf("CreateAttendanceEntry A: %v", err)
	}
	if _, err := models.CreateAttendanceEntry(ctx, &models.NewAttendanceEntry{
		ReportId:     report.ID,
		PartnerId:    partnerB.ID,
		CashReceived: decimal.NewFromInt(20000),
	}); err != nil {
		t.Fatalf("CreateAttendanceEntry B: %v", err)
	}
	expense, err := models.CreateExpenseEntry(ctx, &models.NewExpenseEntry{
		ReportId: report.ID,
		Category: models.ExpenseCategoryOperational,
		Item:     "gas refill",
		Amount:   decimal.NewFromInt(5000),
	})
	if err != nil {
		t.Fatalf("CreateExpenseEntry: %v", err)
	}

	summary, err = models.GetRemittanceSummary(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetRemittanceSummary: %v", err)
	}
	if !summary.TotalCashCollected.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("TotalCashCollected = %s, want 30000", summary.TotalCashCollected)
	}
	if !summary.TotalExpenses.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("TotalExpenses = %s, want 5000", summary.TotalExpenses)
	}
	if !summary.NetRemit.Equal(decimal.NewFromInt(25000)) {
		t.Errorf("NetRemit = %s, want 25000", summary.NetRemit)
	}

	// deleting the expense restores the full cash position
	if err := models.DeleteExpenseEntry(ctx, expense.ID); err != nil {
		t.Fatalf("DeleteExpenseEntry: %v", err)
	}
	summary, err = models.GetRemittanceSummary(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetRemittanceSummary after delete: %v", err)
	}
	if !summary.NetRemit.Equal(decimal.NewFromInt(30000)) {
		t.Errorf("NetRemit = %s, want 30000 after expense delete", summary.NetRemit)
	}
}

func TestRemittanceNetCanGoNegative(t *testing.T) {
	setupTestDB(t)
	ctx := adminContext()

	branch, _, _ := seedBranchWithHead(t, ctx, "BR01", "Tebet")
	partner := seedPartner(t, ctx, "Budi", &branch.ID)
	report := seedReport(t, ctx, branch.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	if _, err := models.CreateAttendanceEntry(ctx, &models.NewAttendanceEntry{
		ReportId:     report.ID,
		PartnerId:    partner.ID,
		CashReceived: decimal.NewFromInt(10000),
	}); err != nil {
		t.Fatalf("CreateAttendanceEntry: %v", err)
	}
	if _, err := models.CreateExpenseEntry(ctx, &models.NewExpenseEntry{
		ReportId: report.ID,
		Category: models.ExpenseCategoryMaintenance,
		Item:     "cart wheel replacement",
		Amount:   decimal.NewFromInt(150000),
	}); err != nil {
		t.Fatalf("CreateExpenseEntry: %v", err)
	}

	summary, err := models.GetRemittanceSummary(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetRemittanceSummary: %v", err)
	}
	if !summary.NetRemit.Equal(decimal.NewFromInt(-140000)) {
		t.Errorf("NetRemit = %s, want -140000", summary.NetRemit)
	}
}

func TestRemittanceProofGatedRecompute(t *testing.T) {
	setupTestDB(t)
	t.Setenv("REMITTANCE_PROOF_GATED", "1")
	ctx := adminContext()

	branch, _, _ := seedBranchWithHead(t, ctx, "BR01", "Tebet")
	partner := seedPartner(t, ctx, "Budi", &branch.ID)
	report := seedReport(t, ctx, branch.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	if _, err := models.CreateAttendanceEntry(ctx, &models.NewAttendanceEntry{
		ReportId:     report.ID,
		PartnerId:    partner.ID,
		CashReceived: decimal.NewFromInt(10000),
	}); err != nil {
		t.Fatalf("CreateAttendanceEntry: %v", err)
	}

	// no proof yet, so the summary is withheld at zero
	summary, err := models.GetRemittanceSummary(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetRemittanceSummary: %v", err)
	}
	if !summary.TotalCashCollected.IsZero() {
		t.Fatalf("TotalCashCollected = %s, want 0 while proof is missing", summary.TotalCashCollected)
	}

	key, err := utils.StoreAttachment(ctx, "proofs/br01-2025-03-10.jpg", []byte("jpeg"), "image/jpeg")
	if err != nil {
		t.Fatalf("StoreAttachment: %v", err)
	}
	summary, err = models.AttachTransferProof(ctx, report.ID, key)
	if err != nil {
		t.Fatalf("AttachTransferProof: %v", err)
	}
	if !summary.TotalCashCollected.Equal(decimal.NewFromInt(10000)) {
		t.Errorf("TotalCashCollected = %s, want 10000 once proof attached", summary.TotalCashCollected)
	}
	if summary.TransferProofKey != key {
		t.Errorf("TransferProofKey = %q, want %q", summary.TransferProofKey, key)
	}
}

func TestRecomputeSummaryIsIdempotent(t *testing.T) {
	setupTestDB(t)
	ctx := adminContext()

	branch, _, _ := seedBranchWithHead(t, ctx, "BR01", "Tebet")
	partner := seedPartner(t, ctx, "Budi", &branch.ID)
	report := seedReport(t, ctx, branch.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	if _, err := models.CreateAttendanceEntry(ctx, &models.NewAttendanceEntry{
		ReportId:     report.ID,
		PartnerId:    partner.ID,
		CashReceived:  decimal.NewFromInt(45000),
		QrisDeduction: decimal.NewFromInt(5000),
	}); err != nil {
		t.Fatalf("CreateAttendanceEntry: %v", err)
	}
	if _, err := models.CreateExpenseEntry(ctx, &models.NewExpenseEntry{
		ReportId: report.ID,
		Item:     "charcoal",
		Amount:   decimal.NewFromInt(7000),
	}); err != nil {
		t.Fatalf("CreateExpenseEntry: %v", err)
	}

	before, err := models.GetRemittanceSummary(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetRemittanceSummary: %v", err)
	}

	// recomputing with no intervening writes must land on the same totals
	db := config.GetDB().WithContext(ctx)
	for i := 0; i < 2; i++ {
		if err := models.RecomputeRemittanceSummary(ctx, db, report.ID); err != nil {
			t.Fatalf("RecomputeRemittanceSummary (pass %d): %v", i+1, err)
		}
	}

	after, err := models.GetRemittanceSummary(ctx, report.ID)
	if err != nil {
		t.Fatalf("GetRemittanceSummary after recompute: %v", err)
	}
	if !after.TotalCashCollected.Equal(before.TotalCashCollected) {
		t.Errorf("TotalCashCollected drifted: %s -> %s", before.TotalCashCollected, after.TotalCashCollected)
	}
	if !after.TotalExpenses.Equal(before.TotalExpenses) {
		t.Errorf("TotalExpenses drifted: %s -> %s", before.TotalExpenses, after.TotalExpenses)
	}
	if !after.NetRemit.Equal(before.NetRemit) {
		t.Errorf("NetRemit drifted: %s -> %s", before.NetRemit, after.NetRemit)
	}
	if !after.NetRemit.Equal(decimal.NewFromInt(38000)) {
		t.Errorf("NetRemit = %s, want 38000", after.NetRemit)
	}
}

func TestGrossRevenueIgnoresDeductionOrder(t *testing.T) {
	setupTestDB(t)
	ctx := adminContext()

	branch, _, _ := seedBranchWithHead(t, ctx, "BR01", "Tebet")
	partnerA := seedPartner(t, ctx, "Budi", &branch.ID)
	partnerB := seedPartner(t, ctx, "Sari", &branch.ID)
	report := seedReport(t, ctx, branch.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	entryA, err := models.CreateAttendanceEntry(ctx, &models.NewAttendanceEntry{
		ReportId:          report.ID,
		PartnerId:         partnerA.ID,
		CashReceived:      decimal.NewFromInt(50000),
		IceDeduction:      decimal.NewFromInt(1000),
		GasDeduction:      decimal.NewFromInt(2000),
		SuppliesDeduction: decimal.NewFromInt(3000),
		QrisDeduction:     decimal.NewFromInt(4000),
	})
	if err != nil {
		t.Fatalf("CreateAttendanceEntry A: %v", err)
	}
	entryB, err := models.CreateAttendanceEntry(ctx, &models.NewAttendanceEntry{
		ReportId:          report.ID,
		PartnerId:         partnerB.ID,
		CashReceived:      decimal.NewFromInt(50000),
		IceDeduction:      decimal.NewFromInt(4000),
		GasDeduction:      decimal.NewFromInt(3000),
		SuppliesDeduction: decimal.NewFromInt(2000),
		QrisDeduction:     decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("CreateAttendanceEntry B: %v", err)
	}

	if !entryA.GrossRevenue.Equal(entryB.GrossRevenue) {
		t.Errorf("GrossRevenue differs across permuted deductions: %s vs %s", entryA.GrossRevenue, entryB.GrossRevenue)
	}
	if !entryA.GrossRevenue.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("GrossRevenue = %s, want 60000", entryA.GrossRevenue)
	}
}

func TestDeleteReportCascades(t *testing.T) {
	setupTestDB(t)
	ctx := adminContext()

	branch, _, _ := seedBranchWithHead(t, ctx, "BR01", "Tebet")
	partner := seedPartner(t, ctx, "Budi", &branch.ID)
	report := seedReport(t, ctx, branch.ID, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))

	if _, err := models.CreateAttendanceEntry(ctx, &models.NewAttendanceEntry{
		ReportId:  report.ID,
		PartnerId: partner.ID,
	}); err != nil {
		t.Fatalf("CreateAttendanceEntry: %v", err)
	}
	if _, err := models.CreateExpenseEntry(ctx, &models.NewExpenseEntry{
		ReportId: report.ID,
		Item:     "ice",
		Amount:   decimal.NewFromInt(3000),
	}); err != nil {
		t.Fatalf("CreateExpenseEntry: %v", err)
	}

	if err := models.DeleteBranchDayReport(ctx, report.ID); err != nil {
		t.Fatalf("DeleteBranchDayReport: %v", err)
	}

	if _, err := models.GetBranchDayReport(ctx, report.ID); err == nil {
		t.Error("report still readable after delete")
	}
	if _, err := models.GetRemittanceSummary(ctx, report.ID); err == nil {
		t.Error("summary still readable after delete")
	}
	entries, err := models.ListAttendanceEntries(ctx, report.ID)
	if err == nil && len(entries) > 0 {
		t.Error("attendance entries survived report delete")
	}
}
