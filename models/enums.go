package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusSick    AttendanceStatus = "Sick"
	AttendanceStatusLeave   AttendanceStatus = "Leave"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
)

func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusSick, AttendanceStatusLeave, AttendanceStatusAbsent:
		return true
	}
	return false
}

func (s *AttendanceStatus) Scan(value interface{}) error {
	str, err := scanString(value)
	if err != nil {
		return fmt.Errorf("attendance status: %w", err)
	}
	*s = AttendanceStatus(str)
	return nil
}

func (s AttendanceStatus) Value() (driver.Value, error) {
	return string(s), nil
}

type ExpenseCategory string

const (
	ExpenseCategoryOperational ExpenseCategory = "Operational"
	ExpenseCategoryMaintenance ExpenseCategory = "Maintenance"
	ExpenseCategoryCashAdvance ExpenseCategory = "CashAdvance"
	ExpenseCategoryBonus       ExpenseCategory = "Bonus"
	ExpenseCategoryTraining    ExpenseCategory = "Training"
	ExpenseCategoryMeals       ExpenseCategory = "Meals"
	ExpenseCategoryOther       ExpenseCategory = "Other"
)

func (c ExpenseCategory) Valid() bool {
	switch c {
	case ExpenseCategoryOperational, ExpenseCategoryMaintenance, ExpenseCategoryCashAdvance,
		ExpenseCategoryBonus, ExpenseCategoryTraining, ExpenseCategoryMeals, ExpenseCategoryOther:
		return true
	}
	return false
}

func (c *ExpenseCategory) Scan(value interface{}) error {
	str, err := scanString(value)
	if err != nil {
		return fmt.Errorf("expense category: %w", err)
	}
	*c = ExpenseCategory(str)
	return nil
}

func (c ExpenseCategory) Value() (driver.Value, error) {
	return string(c), nil
}

type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "Active"
	EmployeeStatusResigned EmployeeStatus = "Resigned"
	EmployeeStatusOnLeave  EmployeeStatus = "OnLeave"
)

func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusResigned, EmployeeStatusOnLeave:
		return true
	}
	return false
}

func (s *EmployeeStatus) Scan(value interface{}) error {
	str, err := scanString(value)
	if err != nil {
		return fmt.Errorf("employee status: %w", err)
	}
	*s = EmployeeStatus(str)
	return nil
}

func (s EmployeeStatus) Value() (driver.Value, error) {
	return string(s), nil
}

func scanString(value interface{}) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	default:
		return "", errors.New("value must be string")
	}
}
