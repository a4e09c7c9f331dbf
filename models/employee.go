package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gerobaknusa/backoffice_backend/config"
	"github.com/gerobaknusa/backoffice_backend/utils"
)

type Department struct {
	ID        string    `gorm:"primaryKey;size:10" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Employee covers everyone on the payroll: field partners ("partner" role),
// branch heads ("branch head" role) and office staff. Role is free text and
// matched with LIKE, mirroring how the choice sets are restricted.
type Employee struct {
	ID           string         `gorm:"primaryKey;size:10" json:"id"`
	UserId       *int           `gorm:"index" json:"user_id,omitempty"`
	FullName     string         `gorm:"size:255;not null" json:"full_name"`
	Phone        string         `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	DepartmentId *string        `gorm:"size:10;index" json:"department_id,omitempty"`
	Role         string         `gorm:"size:100;not null" json:"role"`
	JoinDate     time.Time      `gorm:"type:date;not null" json:"join_date"`
	Status       EmployeeStatus `gorm:"size:10;not null;default:'Active'" json:"status"`
	BranchId     *string        `gorm:"size:10;index" json:"branch_id,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewEmployee struct {
	FullName     string         `json:"full_name" validate:"required"`
	Phone        string         `json:"phone" validate:"required"`
	DepartmentId *string        `json:"department_id"`
	Role         string         `json:"role" validate:"required"`
	JoinDate     time.Time      `json:"join_date" validate:"required"`
	Status       EmployeeStatus `json:"status"`
	BranchId     *string        `json:"branch_id"`
	UserId       *int           `json:"user_id"`
}

// validate input for both create & update. (id = "" for create)
func (input *NewEmployee) validate(ctx context.Context, id string) error {
	if err := validate.Struct(input); err != nil {
		return err
	}
	if input.Status != "" && !input.Status.Valid() {
		return errors.New("invalid employee status")
	}
	if err := utils.ValidatePhoneNumber(input.Phone, "ID"); err != nil {
		return errors.New("invalid phone number")
	}
	if err := utils.ValidateUnique[Employee](ctx, "phone", input.Phone, id); err != nil {
		return err
	}
	if input.DepartmentId != nil {
		if err := utils.ValidateResourceId[Department](ctx, *input.DepartmentId); err != nil {
			return errors.New("department not found")
		}
	}
	if input.BranchId != nil {
		if err := utils.ValidateResourceId[Branch](ctx, *input.BranchId); err != nil {
			return errors.New("branch not found")
		}
	}
	return nil
}

// nextEmployeeId issues the auto staff code (DS0001, DS0002, ...) using the
// current row count as the starting guess, skipping codes already taken.
func nextEmployeeId(ctx context.Context) (string, error) {
	db := config.GetDB()

	var count int64
	if err := db.WithContext(ctx).Model(&Employee{}).Count(&count).Error; err != nil {
		return "", err
	}
	n := count + 1
	for {
		candidate := fmt.Sprintf("DS%04d", n)
		var exists int64
		if err := db.WithContext(ctx).Model(&Employee{}).Where("id = ?", candidate).Count(&exists).Error; err != nil {
			return "", err
		}
		if exists == 0 {
			return candidate, nil
		}
		n++
	}
}

func CreateEmployee(ctx context.Context, input *NewEmployee) (*Employee, error) {
	if err := input.validate(ctx, ""); err != nil {
		return nil, err
	}

	id, err := nextEmployeeId(ctx)
	if err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		status = EmployeeStatusActive
	}

	employee := Employee{
		ID:           id,
		UserId:       input.UserId,
		FullName:     input.FullName,
		Phone:        input.Phone,
		DepartmentId: input.DepartmentId,
		Role:         input.Role,
		JoinDate:     input.JoinDate,
		Status:       status,
		BranchId:     input.BranchId,
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func UpdateEmployee(ctx context.Context, id string, input *NewEmployee) (*Employee, error) {
	if err := utils.ValidateResourceId[Employee](ctx, id); err != nil {
		return nil, err
	}
	if err := input.validate(ctx, id); err != nil {
		return nil, err
	}

	db := config.GetDB()
	var employee Employee
	if err := db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, err
	}

	employee.UserId = input.UserId
	employee.FullName = input.FullName
	employee.Phone = input.Phone
	employee.DepartmentId = input.DepartmentId
	employee.Role = input.Role
	employee.JoinDate = input.JoinDate
	if input.Status != "" {
		employee.Status = input.Status
	}
	employee.BranchId = input.BranchId

	if err := db.WithContext(ctx).Save(&employee).Error; err != nil {
		return nil, err
	}
	return &employee, nil
}

func GetEmployee(ctx context.Context, id string) (*Employee, error) {
	db := config.GetDB()
	var employee Employee
	if err := db.WithContext(ctx).First(&employee, "id = ?", id).Error; err != nil {
		return nil, utils.ErrorRecordNotFound
	}
	return &employee, nil
}

func CreateDepartment(ctx context.Context, id string, name string) (*Department, error) {
	if id == "" || name == "" {
		return nil, errors.New("department id and name are required")
	}
	department := Department{ID: id, Name: name}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&department).Error; err != nil {
		return nil, err
	}
	return &department, nil
}
