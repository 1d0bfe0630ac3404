package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequisitionStatusIsValid(t *testing.T) {
	valid := []RequisitionStatus{
		RequisitionPendingAdminApproval, RequisitionPendingOwnerApproval,
		RequisitionAdminApproved, RequisitionOwnerApproved,
		RequisitionCompleted, RequisitionRejected,
	}
	for _, s := range valid {
		assert.True(t, s.IsValid(), "%s should be valid", s)
	}
	assert.False(t, RequisitionStatus("pending").IsValid())
	assert.False(t, RequisitionStatus("").IsValid())
}

func TestRequisitionStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   RequisitionStatus
		to     RequisitionStatus
		wantOK bool
	}{
		{"admin pending to admin approved", RequisitionPendingAdminApproval, RequisitionAdminApproved, true},
		{"admin pending to owner approved is blocked", RequisitionPendingAdminApproval, RequisitionOwnerApproved, false},
		{"owner pending to owner approved", RequisitionPendingOwnerApproval, RequisitionOwnerApproved, true},
		{"owner pending to admin approved is blocked", RequisitionPendingOwnerApproval, RequisitionAdminApproved, false},
		{"admin approved to completed", RequisitionAdminApproved, RequisitionCompleted, true},
		{"owner approved to completed", RequisitionOwnerApproved, RequisitionCompleted, true},
		{"pending cannot skip to completed", RequisitionPendingAdminApproval, RequisitionCompleted, false},
		{"reject from admin pending", RequisitionPendingAdminApproval, RequisitionRejected, true},
		{"reject from owner pending", RequisitionPendingOwnerApproval, RequisitionRejected, true},
		{"reject from admin approved", RequisitionAdminApproved, RequisitionRejected, true},
		{"reject from owner approved", RequisitionOwnerApproved, RequisitionRejected, true},
		{"re-reject is blocked", RequisitionRejected, RequisitionRejected, false},
		{"completed is terminal", RequisitionCompleted, RequisitionRejected, false},
		{"rejected is terminal", RequisitionRejected, RequisitionCompleted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOK, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestRequisitionStatusIsTerminal(t *testing.T) {
	assert.True(t, RequisitionCompleted.IsTerminal())
	assert.True(t, RequisitionRejected.IsTerminal())
	assert.False(t, RequisitionPendingAdminApproval.IsTerminal())
	assert.False(t, RequisitionAdminApproved.IsTerminal())
}
