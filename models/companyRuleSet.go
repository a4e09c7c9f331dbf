package models

import (
	"context"
	"errors"

	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CompanyRuleSet holds production and payroll parameters. The calculation
// engine only reads it; the first row wins, and its absence is not an error
// (see GetCompanyRules).
type CompanyRuleSet struct {
	ID                  int             `gorm:"primary_key" json:"id"`
	Name                string          `gorm:"size:100;not null;default:'Primary Configuration'" json:"name"`
	DoughYieldFactor    decimal.Decimal `gorm:"type:decimal(10,4);default:2.5" json:"dough_yield_factor"`
	PricePerGramTarget  decimal.Decimal `gorm:"type:decimal(20,4);default:92" json:"price_per_gram_target"`
	TrainingBaseSalary  decimal.Decimal `gorm:"type:decimal(20,4);default:1800000" json:"training_base_salary"`
	PermanentBaseSalary decimal.Decimal `gorm:"type:decimal(20,4);default:2000000" json:"permanent_base_salary"`
	AttendanceIncentive decimal.Decimal `gorm:"type:decimal(20,4);default:150000" json:"attendance_incentive"`

	PartnerBonusTiers []PartnerBonusTier `gorm:"foreignKey:RuleSetId" json:"partner_bonus_tiers"`
	BranchBonusTiers  []BranchBonusTier  `gorm:"foreignKey:RuleSetId" json:"branch_bonus_tiers"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// PartnerBonusTier grants a weekly bonus when a partner's daily revenue
// reaches the tier threshold.
type PartnerBonusTier struct {
	ID              int             `gorm:"primary_key" json:"id"`
	RuleSetId       int             `gorm:"index;not null" json:"rule_set_id"`
	MinDailyRevenue decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"min_daily_revenue"`
	WeeklyBonus     decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"weekly_bonus"`
}

// BranchBonusTier grants a branch bonus when enough partners were dispatched.
type BranchBonusTier struct {
	ID                    int             `gorm:"primary_key" json:"id"`
	RuleSetId             int             `gorm:"index;not null" json:"rule_set_id"`
	MinPartnersDispatched int             `gorm:"not null" json:"min_partners_dispatched"`
	BranchBonus           decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"branch_bonus"`
}

// CompanyRules is the typed view the calculation engine consumes.
type CompanyRules struct {
	PricePerGram decimal.Decimal
}

// defaultPricePerGram applies when no rule set row exists yet.
var defaultPricePerGram = decimal.NewFromInt(92)

// GetCompanyRules returns the first configured rule set, falling back to the
// built-in defaults silently when none exists.
func GetCompanyRules(ctx context.Context) (*CompanyRules, error) {
	db := config.GetDB()
	var ruleSet CompanyRuleSet
	err := db.WithContext(ctx).Order("id").First(&ruleSet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &CompanyRules{PricePerGram: defaultPricePerGram}, nil
		}
		return nil, err
	}
	return &CompanyRules{PricePerGram: ruleSet.PricePerGramTarget}, nil
}

func CreateCompanyRuleSet(ctx context.Context, ruleSet *CompanyRuleSet) (*CompanyRuleSet, error) {
	if ruleSet.Name == "" {
		ruleSet.Name = "Primary Configuration"
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(ruleSet).Error; err != nil {
		return nil, err
	}
	return ruleSet, nil
}
