// export-recap writes the partner and branch performance recap for a date
// range into an xlsx workbook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/models"
	"github.com/gerobaknusa/backoffice_backend/models/reports"
	"github.com/gerobaknusa/backoffice_backend/utils"
)

func main() {
	from := flag.String("from", "", "start date (YYYY-MM-DD, required)")
	to := flag.String("to", "", "end date (YYYY-MM-DD, required)")
	out := flag.String("out", "recap.xlsx", "output file path")
	flag.Parse()

	if *from == "" || *to == "" {
		fmt.Fprintln(os.Stderr, "-from and -to are required")
		os.Exit(2)
	}
	fromDate, err := time.Parse("2006-01-02", *from)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -from date: %v\n", err)
		os.Exit(2)
	}
	toDate, err := time.Parse("2006-01-02", *to)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -to date: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil)")
		os.Exit(1)
	}
	models.MigrateTable()

	ctx = utils.SetUserIdInContext(ctx, 0)
	ctx = utils.SetUserNameInContext(ctx, "ExportRecap")
	ctx = utils.SetIsAdminInContext(ctx, true)
	ctx = utils.SetSkipBranchScopeInContext(ctx, true)

	if err := reports.ExportPerformanceRecap(ctx, fromDate, toDate, *out); err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Recap written to %s\n", *out)
}
