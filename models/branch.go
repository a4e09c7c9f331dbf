package models

import (
	"context"
	"errors"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/utils"
)

type Branch struct {
	ID             string    `gorm:"primaryKey;size:10" json:"id"`
	Name           string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	HeadEmployeeId *string   `gorm:"size:10;index" json:"head_employee_id,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewBranch struct {
	ID             string  `json:"id" validate:"required"`
	Name           string  `json:"name" validate:"required"`
	HeadEmployeeId *string `json:"head_employee_id"`
}

// validate input for both create & update. (id = "" for create)
func (input *NewBranch) validate(ctx context.Context, id string) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	if err := utils.ValidateUnique[Branch](ctx, "name", input.Name, id); err != nil {
		return err
	}
	// the designated head must carry a "branch head" role
	if input.HeadEmployeeId != nil {
		count, err := utils.ResourceCountWhere[Employee](ctx, "id = ? AND role LIKE ?", *input.HeadEmployeeId, "%branch head%")
		if err != nil {
			return err
		}
		if count == 0 {
			return errors.New("head employee not found or not a branch head")
		}
	}
	return nil
}

func CreateBranch(ctx context.Context, input *NewBranch) (*Branch, error) {
	if err := input.validate(ctx, ""); err != nil {
		return nil, err
	}

	branch := Branch{
		ID:             input.ID,
		Name:           input.Name,
		HeadEmployeeId: input.HeadEmployeeId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func UpdateBranch(ctx context.Context, id string, input *NewBranch) (*Branch, error) {
	if err := utils.ValidateResourceId[Branch](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var branch Branch
	if err := db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		return nil, err
	}

	branch.Name = input.Name
	branch.HeadEmployeeId = input.HeadEmployeeId

	if err := db.WithContext(ctx).Save(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

func GetBranch(ctx context.Context, id string) (*Branch, error) {
	db := config.GetDB()
	var branch Branch
	if err := db.WithContext(ctx).First(&branch, "id = ?", id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &branch, nil
}

// DeleteBranch removes the branch and all of its daily reports (cascade).
func DeleteBranch(ctx context.Context, id string) error {
	if err := utils.ValidateResourceId[Branch](ctx, id); err != nil {
		return err
	}

	db := config.GetDB()
	var reports []BranchDayReport
	if err := db.WithContext(ctx).Where("branch_id = ?", id).Find(&reports).Error; err != nil {
		return err
	}
	for _, report := range reports {
		if err := DeleteBranchDayReport(ctx, report.ID); err != nil {
			return err
		}
	}
	return db.WithContext(ctx).Delete(&Branch{}, "id = ?", id).Error
}
