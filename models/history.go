package models

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// History is an append-only audit row. Hooks write one per create, update
// and delete of reports, attendance and expenses; nothing ever edits them.
type History struct {
	ID            int       `gorm:"primary_key" json:"id"`
	ActionType    string    `gorm:"size:10;not null" json:"action_type"`
	Before        string    `gorm:"type:text" json:"before"`
	After         string    `gorm:"type:text" json:"after"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	ReferenceID   int       `gorm:"index" json:"reference_id"`
	ReferenceType string    `gorm:"size:100;index" json:"reference_type"`
	UserId        int       `gorm:"index;not null" json:"user_id"`
	UserName      string    `gorm:"size:100" json:"user_name"`
	CorrelationId string    `gorm:"size:36;index" json:"correlation_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func createHistory(tx *gorm.DB,
	actionType string,
	referenceId int,
	referenceType string,
	before interface{},
	after interface{},
	description string) error {

	var history History

	b, _ := json.Marshal(before)
	a, _ := json.Marshal(after)

	ctx := tx.Statement.Context
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok {
		return errors.New("user id is required")
	}
	userName, _ := utils.GetUserNameFromContext(ctx)
	if userName == "" {
		userName, _ = utils.GetUsernameFromContext(ctx)
	}
	correlationId, ok := utils.GetCorrelationIdFromContext(ctx)
	if !ok || correlationId == "" {
		correlationId = uuid.NewString()
	}

	history.ActionType = actionType
	history.Before = string(b)
	history.After = string(a)
	history.Description = description
	history.ReferenceID = referenceId
	history.ReferenceType = referenceType
	history.UserId = userId
	history.UserName = userName
	history.CorrelationId = correlationId

	return tx.Create(&history).Error
}

func SaveHistoryCreate(tx *gorm.DB, id int, referenceType string, obj interface{}, description string) error {
	return createHistory(tx, "CREATE", id, referenceType, nil, obj, description)
}

func SaveHistoryUpdate(tx *gorm.DB, id int, referenceType string, before interface{}, after interface{}, description string) error {
	return createHistory(tx, "UPDATE", id, referenceType, before, after, description)
}

func SaveHistoryDelete(tx *gorm.DB, id int, referenceType string, obj interface{}, description string) error {
	return createHistory(tx, "DELETE", id, referenceType, obj, nil, description)
}

func GetHistories(ctx context.Context, referenceId *int, referenceType *string, userId *int) ([]*History, error) {
	db := config.GetDB()
	var results []*History

	dbCtx := db.WithContext(ctx)
	if referenceId != nil && *referenceId > 0 {
		dbCtx = dbCtx.Where("reference_id = ?", referenceId)
	}
	if referenceType != nil && len(*referenceType) > 0 {
		dbCtx = dbCtx.Where("reference_type = ?", referenceType)
	}
	if userId != nil && *userId > 0 {
		dbCtx = dbCtx.Where("user_id = ?", userId)
	}
	if err := dbCtx.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
