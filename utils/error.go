package utils

import (
	"errors"
	"fmt"
)

var ErrorRecordNotFound = errors.New("record not found")

// DuplicateAttendanceError rejects a second attendance entry for the same
// partner on the same calendar date, regardless of branch. SameBranch tells
// the caller whether the conflicting entry lives in the same report's branch.
type DuplicateAttendanceError struct {
	PartnerName        string
	ConflictBranchName string
	SameBranch         bool
}

func (e *DuplicateAttendanceError) Error() string {
	if e.SameBranch {
		return fmt.Sprintf("sorry, %s is already registered in this report. Please check again.", e.PartnerName)
	}
	return fmt.Sprintf("sorry, %s is already on duty at %s. Please check again.", e.PartnerName, e.ConflictBranchName)
}

func IsDuplicateAttendance(err error) bool {
	var dup *DuplicateAttendanceError
	return errors.As(err, &dup)
}
