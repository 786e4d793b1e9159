package service

import (
	"errors"
	"io"
	"mime/multipart"
	"os"

	"lawdesk/internal/contract"
	"lawdesk/internal/domain/entity"
	"lawdesk/internal/infrastructure/disk"
	"lawdesk/internal/utils"
	"lawdesk/internal/utils/apierror"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type CaseRepository interface {
	Create(c *entity.Case) error
	FindByID(id int64) (*entity.Case, error)
	FindAll() ([]*entity.Case, error)
	FindByStatus(status entity.CaseStatus) ([]*entity.Case, error)
	FindActiveByAssignee(assignee string) ([]*entity.Case, error)
	CountByStatus() (map[entity.CaseStatus]int64, error)
	UpdateFromStatus(id int64, from entity.CaseStatus, fields map[string]any) (bool, error)
	UpdateAnyStatus(id int64, fields map[string]any) (bool, error)
}

// AssigneeDirectory resolves delegation targets. Satisfied by the user
// repository.
type AssigneeDirectory interface {
	FindByUsername(username string) (*entity.User, error)
}

type CaseService struct {
	CaseRepo CaseRepository
	Users    AssigneeDirectory
	Files    disk.AttachmentStore
	Validate *validator.Validate
}

func NewCaseService(caseRepo CaseRepository, users AssigneeDirectory, files disk.AttachmentStore, validate *validator.Validate) *CaseService {
	return &CaseService{
		CaseRepo: caseRepo,
		Users:    users,
		Files:    files,
		Validate: validate,
	}
}

// CreateCase opens a new case from a client submission and returns its
// protocol number. There is no duplicate detection: resubmitting creates
// a new case.
func (s *CaseService) CreateCase(req *contract.CreateCaseRequest, files []*multipart.FileHeader) (*contract.CreateCaseResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return nil, apierror.FromValidationError(err)
	}

	c := &entity.Case{
		ClientName:  req.ClientName,
		Phone:       req.Phone,
		Description: req.Description,
		OpenedAt:    utils.NowUTC(),
		Assignee:    entity.Unassigned,
		Status:      entity.StatusOpen,
	}

	if err := s.CaseRepo.Create(c); err != nil {
		log.Errorf("failed to create case: %v", err)
		return nil, apierror.InternalServerError
	}

	if apierr := s.saveFiles(c.ID, disk.UploaderClient, files); apierr != nil {
		return nil, apierr
	}
	return &contract.CreateCaseResponse{Protocol: c.ID}, nil
}

// GetProtocol is the public lookup: clients query by protocol number
// without authenticating and see only the public fields.
func (s *CaseService) GetProtocol(id int64) (*contract.ProtocolResponse, apierror.ErrorResponse) {
	c, apierr := s.fetchCase(id)
	if apierr != nil {
		return nil, apierr
	}

	return &contract.ProtocolResponse{
		ID:             c.ID,
		Status:         string(c.Status),
		PublicResponse: c.PublicResponse,
		OpenedAt:       utils.FormatEpoch(c.OpenedAt),
	}, nil
}

func (s *CaseService) GetCase(actor *entity.User, id int64) (*contract.CaseResponse, apierror.ErrorResponse) {
	c, apierr := s.fetchCase(id)
	if apierr != nil {
		return nil, apierr
	}
	return toCaseResponse(c), nil
}

// ListCases returns the actor's working set: owners see every case,
// optionally narrowed to one status, staff see their own non-completed
// assignments (the filter is ignored for staff).
func (s *CaseService) ListCases(actor *entity.User, status string) ([]*contract.CaseResponse, apierror.ErrorResponse) {
	var (
		cases []*entity.Case
		err   error
	)

	switch {
	case !actor.IsOwner():
		cases, err = s.CaseRepo.FindActiveByAssignee(actor.DisplayName)
	case status != "":
		if !entity.CaseStatus(status).Valid() {
			return nil, apierror.NewInvalidParamTypeError("status", "open|in_review|pending_approval|completed")
		}
		cases, err = s.CaseRepo.FindByStatus(entity.CaseStatus(status))
	default:
		cases, err = s.CaseRepo.FindAll()
	}

	if err != nil {
		log.Errorf("failed to list cases for %s: %v", actor.Username, err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*contract.CaseResponse, len(cases))
	for i, c := range cases {
		resp[i] = toCaseResponse(c)
	}
	return resp, nil
}

func (s *CaseService) Stats(actor *entity.User) (*contract.CaseStatsResponse, apierror.ErrorResponse) {
	if !actor.Role.CanTriage() {
		return nil, apierror.NewForbiddenError("only the owner can view case statistics")
	}

	counts, err := s.CaseRepo.CountByStatus()
	if err != nil {
		log.Errorf("failed to count cases by status: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := &contract.CaseStatsResponse{
		Open:            counts[entity.StatusOpen],
		InReview:        counts[entity.StatusInReview],
		PendingApproval: counts[entity.StatusPendingApproval],
		Completed:       counts[entity.StatusCompleted],
	}
	resp.Total = resp.Open + resp.InReview + resp.PendingApproval + resp.Completed
	return resp, nil
}

// Assign delegates an open case to a staff member, moving it to
// in_review. The update is conditional on the case still being open, so
// two racing triages cannot both win.
func (s *CaseService) Assign(actor *entity.User, id int64, req *contract.AssignRequest) apierror.ErrorResponse {
	if !actor.Role.CanTriage() {
		return apierror.NewForbiddenError("only the owner can delegate cases")
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	target, err := s.Users.FindByUsername(req.Username)
	if err != nil {
		log.Errorf("failed to resolve assignee %s: %v", req.Username, err)
		return apierror.InternalServerError
	}

	if target == nil {
		return apierror.NotFoundError
	}

	if !target.Role.CanBeAssigned() {
		return apierror.NotAssignableError
	}

	if _, apierr := s.fetchCase(id); apierr != nil {
		return apierr
	}

	ok, err := s.CaseRepo.UpdateFromStatus(id, entity.StatusOpen, map[string]any{
		"assignee": target.DisplayName,
		"status":   entity.StatusInReview,
	})
	if err != nil {
		log.Errorf("failed to assign case %d: %v", id, err)
		return apierror.InternalServerError
	}

	if !ok {
		return apierror.StateConflictError
	}
	return nil
}

// RespondDirectly is the owner's escape valve: it completes a case at
// any stage, bypassing the review step entirely.
func (s *CaseService) RespondDirectly(actor *entity.User, id int64, req *contract.RespondRequest, files []*multipart.FileHeader) apierror.ErrorResponse {
	if !actor.Role.CanTriage() {
		return apierror.NewForbiddenError("only the owner can respond directly")
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	if _, apierr := s.fetchCase(id); apierr != nil {
		return apierr
	}

	ok, err := s.CaseRepo.UpdateAnyStatus(id, map[string]any{
		"public_response": req.Response,
		"status":          entity.StatusCompleted,
		"assignee":        actor.DisplayName,
	})
	if err != nil {
		log.Errorf("failed to respond to case %d: %v", id, err)
		return apierror.InternalServerError
	}

	if !ok {
		return apierror.NotFoundError
	}
	return s.saveFiles(id, disk.UploaderStaff, files)
}

// SubmitForReview files the staff draft and hands the case to the owner
// for approval. Any staff member may submit for any case id; matching
// the assignee is deliberately not enforced.
func (s *CaseService) SubmitForReview(actor *entity.User, id int64, req *contract.ReviewRequest, files []*multipart.FileHeader) apierror.ErrorResponse {
	if !actor.Role.CanBeAssigned() {
		return apierror.NewForbiddenError("only staff members submit drafts for review")
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	if _, apierr := s.fetchCase(id); apierr != nil {
		return apierr
	}

	ok, err := s.CaseRepo.UpdateFromStatus(id, entity.StatusInReview, map[string]any{
		"internal_response": req.Draft,
		"status":            entity.StatusPendingApproval,
	})
	if err != nil {
		log.Errorf("failed to submit case %d for review: %v", id, err)
		return apierror.InternalServerError
	}

	if !ok {
		return apierror.StateConflictError
	}
	return s.saveFiles(id, disk.UploaderStaff, files)
}

// Approve publishes the final answer. The text is editable at approval
// time and need not equal the staff draft.
func (s *CaseService) Approve(actor *entity.User, id int64, req *contract.ApproveRequest) apierror.ErrorResponse {
	if !actor.Role.CanTriage() {
		return apierror.NewForbiddenError("only the owner can approve drafts")
	}

	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	if _, apierr := s.fetchCase(id); apierr != nil {
		return apierr
	}

	ok, err := s.CaseRepo.UpdateFromStatus(id, entity.StatusPendingApproval, map[string]any{
		"public_response": req.FinalText,
		"status":          entity.StatusCompleted,
	})
	if err != nil {
		log.Errorf("failed to approve case %d: %v", id, err)
		return apierror.InternalServerError
	}

	if !ok {
		return apierror.StateConflictError
	}
	return nil
}

// ListAttachments returns the filenames of one (case, uploader) bucket.
// Anyone who knows the protocol number can list and download; this is an
// accepted limitation of the intake flow.
func (s *CaseService) ListAttachments(id int64, uploader string) (*contract.AttachmentListResponse, apierror.ErrorResponse) {
	if !disk.ValidUploader(uploader) {
		return nil, apierror.NewInvalidParamTypeError("uploader", "client|staff")
	}

	if _, apierr := s.fetchCase(id); apierr != nil {
		return nil, apierr
	}

	files, err := s.Files.List(id, uploader)
	if err != nil {
		log.Errorf("failed to list attachments of case %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	return &contract.AttachmentListResponse{
		CaseID:   id,
		Uploader: uploader,
		Files:    files,
	}, nil
}

// OpenAttachment returns a readable handle on one stored file for
// download.
func (s *CaseService) OpenAttachment(id int64, uploader, name string) (io.ReadCloser, apierror.ErrorResponse) {
	if !disk.ValidUploader(uploader) {
		return nil, apierror.NewInvalidParamTypeError("uploader", "client|staff")
	}

	if _, apierr := s.fetchCase(id); apierr != nil {
		return nil, apierr
	}

	rc, err := s.Files.Open(id, uploader, name)
	if errors.Is(err, os.ErrNotExist) || errors.Is(err, disk.ErrEmptyFilename) {
		return nil, apierror.NotFoundError
	}

	if err != nil {
		log.Errorf("failed to open attachment %s of case %d: %v", name, id, err)
		return nil, apierror.InternalServerError
	}
	return rc, nil
}

func (s *CaseService) fetchCase(id int64) (*entity.Case, apierror.ErrorResponse) {
	c, err := s.CaseRepo.FindByID(id)
	if err != nil {
		log.Errorf("failed to fetch case %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	if c == nil {
		return nil, apierror.NotFoundError
	}
	return c, nil
}

func (s *CaseService) saveFiles(caseID int64, uploader string, files []*multipart.FileHeader) apierror.ErrorResponse {
	for _, fh := range files {
		if fh.Size > contract.MaxAttachmentSizeBytes {
			return apierror.AttachmentTooLargeError
		}

		src, err := fh.Open()
		if err != nil {
			log.Errorf("failed to open upload %s for case %d: %v", fh.Filename, caseID, err)
			return apierror.InternalServerError
		}

		_, err = s.Files.Save(caseID, uploader, fh.Filename, src)
		src.Close()
		if err != nil {
			log.Errorf("failed to store upload %s for case %d: %v", fh.Filename, caseID, err)
			return apierror.InternalServerError
		}
	}
	return nil
}

func toCaseResponse(c *entity.Case) *contract.CaseResponse {
	return &contract.CaseResponse{
		ID:               c.ID,
		ClientName:       c.ClientName,
		Phone:            c.Phone,
		Description:      c.Description,
		Status:           string(c.Status),
		Assignee:         c.Assignee,
		InternalResponse: c.InternalResponse,
		PublicResponse:   c.PublicResponse,
		OpenedAt:         utils.FormatEpoch(c.OpenedAt),
	}
}
