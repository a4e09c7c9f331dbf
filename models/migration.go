package models

import (
	"log"

	"github.com/gerobaknusa/backoffice_backend/config"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&User{},
		&Department{}, &Employee{},
		&Branch{},
		&CompanyRuleSet{}, &PartnerBonusTier{}, &BranchBonusTier{},
		&BranchDayReport{}, &AttendanceEntry{}, &ExpenseEntry{}, &RemittanceSummary{},
		&History{},
	)
	if err != nil {
		log.Fatal(err)
	}
}
