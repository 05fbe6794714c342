package types

// CaseStatus represents the status of a case. The set is open-ended:
// unknown statuses are carried through verbatim rather than rejected.
type CaseStatus string

const (
	CaseStatusActive  CaseStatus = "active"
	CaseStatusPending CaseStatus = "pending"
	CaseStatusClosed  CaseStatus = "closed"
)

// KnownCaseStatuses returns the statuses this module knows about.
func KnownCaseStatuses() []CaseStatus {
	return []CaseStatus{
		CaseStatusActive,
		CaseStatusPending,
		CaseStatusClosed,
	}
}

// Normalize returns the status, treating empty as CaseStatusActive.
func (s CaseStatus) Normalize() CaseStatus {
	if s == "" {
		return CaseStatusActive
	}
	return s
}

// String returns the string representation of the case status
func (s CaseStatus) String() string {
	return string(s)
}
