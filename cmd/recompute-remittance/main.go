// recompute-remittance rebuilds remittance summaries for a branch/date
// range. Run it after hand-fixing attendance or expense rows in the
// database, or after toggling REMITTANCE_PROOF_GATED.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/models"
	"github.com/gerobaknusa/backoffice_backend/utils"
	"gorm.io/gorm"
)

func main() {
	branchID := flag.String("branch-id", "", "Optional: recompute only one branch. If empty, recomputes all branches.")
	from := flag.String("from", "", "Optional: start date (YYYY-MM-DD). Defaults to the earliest report.")
	to := flag.String("to", "", "Optional: end date (YYYY-MM-DD). Defaults to today.")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUserNameInContext(ctx, "RecomputeRemittance")
	ctx = utils.SetIsAdminInContext(ctx, true)
	ctx = utils.SetSkipBranchScopeInContext(ctx, true)

	query := db.WithContext(ctx).Model(&models.BranchDayReport{})
	if *branchID != "" {
		query = query.Where("branch_id = ?", *branchID)
	}
	if *from != "" {
		d, err := time.Parse("2006-01-02", *from)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -from date: %v\n", err)
			os.Exit(2)
		}
		query = query.Where("report_date >= ?", d)
	}
	toDate, err := utils.ConvertToDate(time.Now(), "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve today's date: %v\n", err)
		os.Exit(1)
	}
	if *to != "" {
		toDate, err = time.Parse("2006-01-02", *to)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid -to date: %v\n", err)
			os.Exit(2)
		}
	}
	query = query.Where("report_date <= ?", toDate)

	var reportIds []int
	if err := query.Order("id").Pluck("id", &reportIds).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to list reports: %v\n", err)
		os.Exit(1)
	}
	if len(reportIds) == 0 {
		fmt.Fprintln(os.Stderr, "no reports found to recompute")
		return
	}

	fmt.Printf("Recomputing remittance summaries for %d reports\n", len(reportIds))

	failed := 0
	for _, reportId := range reportIds {
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return models.RecomputeRemittanceSummary(ctx, tx, reportId)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "report %d recompute failed: %v\n", reportId, err)
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "Recompute finished with %d failures\n", failed)
		os.Exit(1)
	}
	fmt.Println("Recompute complete")
}
