package entity

// CaseStatus is the case lifecycle state. Transitions only ever move
// forward: open -> in_review -> pending_approval -> completed, with a
// direct-response bypass straight to completed.
type CaseStatus string

const (
	StatusOpen            CaseStatus = "open"
	StatusInReview        CaseStatus = "in_review"
	StatusPendingApproval CaseStatus = "pending_approval"
	StatusCompleted       CaseStatus = "completed"
)

// Unassigned is the assignee sentinel for a case nobody owns yet.
const Unassigned = ""

func (s CaseStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusInReview, StatusPendingApproval, StatusCompleted:
		return true
	}
	return false
}

// Case is one client request ("chamado") and its lifecycle record.
//
// ClientName, Phone and Description are supplied by the client at
// submission and are immutable afterwards. PublicResponse is non-empty
// if and only if the case is completed.
type Case struct {
	ID               int64      `gorm:"primaryKey"`
	ClientName       string     `gorm:"not null"`
	Phone            string     `gorm:"not null"`
	Description      string     `gorm:"not null"`
	OpenedAt         int64      `gorm:"not null"`
	InternalResponse string     `gorm:"not null"`
	PublicResponse   string     `gorm:"not null"`
	Assignee         string     `gorm:"not null"` // display name, or Unassigned
	Status           CaseStatus `gorm:"not null;type:text"`

	// Version guards state transitions against racing writers. Every
	// update is conditional on the expected status and bumps it by one.
	Version int64 `gorm:"not null;default:0"`
}

func (c *Case) Completed() bool {
	return c.Status == StatusCompleted
}
