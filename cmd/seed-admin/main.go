// seed-admin creates or updates the back-office admin user.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... go run ./cmd/seed-admin -password ...
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/models"
	"github.com/gerobaknusa/backoffice_backend/utils"
)

func main() {
	username := flag.String("username", "officeAdmin", "admin username")
	name := flag.String("name", "Office Admin", "admin display name")
	password := flag.String("password", "", "admin password (required)")
	flag.Parse()

	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(2)
	}

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}
	models.MigrateTable()

	// model hooks expect actor fields in context
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Seed")
	ctx = utils.SetUsernameInContext(ctx, *username)
	ctx = utils.SetIsAdminInContext(ctx, true)
	ctx = utils.SetSkipBranchScopeInContext(ctx, true)

	user, err := models.UpsertAdminUser(ctx, *username, *name, *password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed admin user: %v\n", err)
		os.Exit(1)
	}

	if _, err := models.AuthenticateUser(ctx, *username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "seeded admin failed login check: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Admin user ready: username=%q id=%d\n", user.Username, user.ID)
}
