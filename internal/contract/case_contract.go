package contract

const MaxAttachmentSizeBytes = 30 * 1024 * 1024

type CaseResponse struct {
	ID               int64  `json:"id"`
	ClientName       string `json:"client_name"`
	Phone            string `json:"phone,omitempty"`
	Description      string `json:"description"`
	Status           string `json:"status"`
	Assignee         string `json:"assignee,omitempty"`
	InternalResponse string `json:"internal_response,omitempty"`
	PublicResponse   string `json:"public_response,omitempty"`
	OpenedAt         string `json:"opened_at"`
}

// ProtocolResponse is the public, unauthenticated view of a case. It
// never exposes the internal draft or the assignee.
type ProtocolResponse struct {
	ID             int64  `json:"protocol"`
	Status         string `json:"status"`
	PublicResponse string `json:"public_response,omitempty"`
	OpenedAt       string `json:"opened_at"`
}

type CreateCaseRequest struct {
	ClientName  string `form:"client_name" json:"client_name" validate:"required,min=2,max=120"`
	Phone       string `form:"phone" json:"phone" validate:"max=40"`
	Description string `form:"description" json:"description" validate:"required,max=10000"`
}

type CreateCaseResponse struct {
	Protocol int64 `json:"protocol"`
}

type AssignRequest struct {
	Username string `json:"username" validate:"required,nospaces,max=80"`
}

type RespondRequest struct {
	Response string `form:"response" json:"response" validate:"required,max=100000"`
}

type ReviewRequest struct {
	Draft string `form:"draft" json:"draft" validate:"required,max=100000"`
}

type ApproveRequest struct {
	FinalText string `json:"final_text" validate:"required,max=100000"`
}

type CaseStatsResponse struct {
	Total           int64 `json:"total"`
	Open            int64 `json:"open"`
	InReview        int64 `json:"in_review"`
	PendingApproval int64 `json:"pending_approval"`
	Completed       int64 `json:"completed"`
}

type AttachmentListResponse struct {
	CaseID   int64    `json:"case_id"`
	Uploader string   `json:"uploader"`
	Files    []string `json:"files"`
}
