package model

import "time"

// CaseStatus is the closed set of states a verification case moves through.
type CaseStatus string

const (
	CasePending    CaseStatus = "PENDING"
	CaseAssigned   CaseStatus = "ASSIGNED"
	CaseInProgress CaseStatus = "IN_PROGRESS"
	CaseCompleted  CaseStatus = "COMPLETED"
	CaseRejected   CaseStatus = "REJECTED"
)

// ParseCaseStatus normalizes raw input to a CaseStatus.
func ParseCaseStatus(raw string) (CaseStatus, bool) {
	switch CaseStatus(trimUpper(raw)) {
	case CasePending:
		return CasePending, true
	case CaseAssigned:
		return CaseAssigned, true
	case CaseInProgress:
		return CaseInProgress, true
	case CaseCompleted:
		return CaseCompleted, true
	case CaseRejected:
		return CaseRejected, true
	}
	return "", false
}

// caseTransitions encodes the permitted status moves. Assignment is the
// only way to reach ASSIGNED; field agents drive the rest.
var caseTransitions = map[CaseStatus][]CaseStatus{
	CaseAssigned:   {CaseInProgress, CaseRejected},
	CaseInProgress: {CaseCompleted, CaseRejected},
}

// CanTransition reports whether a case in status from may move to status to.
func CanTransition(from, to CaseStatus) bool {
	for _, next := range caseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Case mirrors the `cases` table: one verification job raised by a client
// against a subject, optionally assigned to a FIELD user.
type Case struct {
	ID             uint64     `json:"id"`
	CaseNumber     string     `json:"caseNumber"`
	ClientID       uint64     `json:"clientId"`
	ProductID      uint64     `json:"productId"`
	SubjectName    string     `json:"subjectName"`
	SubjectPhone   string     `json:"subjectPhone,omitempty"`
	SubjectAddress string     `json:"subjectAddress"`
	Status         CaseStatus `json:"status"`
	AssignedTo     uint64     `json:"assignedTo,omitempty"`
	Remarks        string     `json:"remarks,omitempty"`
	CreatedBy      uint64     `json:"createdBy"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}
