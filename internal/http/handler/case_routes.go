package handler

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"lawdesk/internal/contract"
	"lawdesk/internal/domain/entity"
	"lawdesk/internal/infrastructure/disk"
	"lawdesk/internal/utils"
	"lawdesk/internal/utils/apierror"

	"github.com/labstack/echo/v4"
)

type CaseService interface {
	CreateCase(req *contract.CreateCaseRequest, files []*multipart.FileHeader) (*contract.CreateCaseResponse, apierror.ErrorResponse)
	GetProtocol(id int64) (*contract.ProtocolResponse, apierror.ErrorResponse)
	GetCase(actor *entity.User, id int64) (*contract.CaseResponse, apierror.ErrorResponse)
	ListCases(actor *entity.User, status string) ([]*contract.CaseResponse, apierror.ErrorResponse)
	Stats(actor *entity.User) (*contract.CaseStatsResponse, apierror.ErrorResponse)
	Assign(actor *entity.User, id int64, req *contract.AssignRequest) apierror.ErrorResponse
	RespondDirectly(actor *entity.User, id int64, req *contract.RespondRequest, files []*multipart.FileHeader) apierror.ErrorResponse
	SubmitForReview(actor *entity.User, id int64, req *contract.ReviewRequest, files []*multipart.FileHeader) apierror.ErrorResponse
	Approve(actor *entity.User, id int64, req *contract.ApproveRequest) apierror.ErrorResponse
	ListAttachments(id int64, uploader string) (*contract.AttachmentListResponse, apierror.ErrorResponse)
	OpenAttachment(id int64, uploader, name string) (io.ReadCloser, apierror.ErrorResponse)
}

type DefaultCaseRoute struct {
	CaseService CaseService
}

func NewCaseDefault(caseService CaseService) *DefaultCaseRoute {
	return &DefaultCaseRoute{CaseService: caseService}
}

// CreateCase is the public intake endpoint: form fields plus optional
// attachments under the "files" key.
func (h *DefaultCaseRoute) CreateCase(c echo.Context) error {
	var req contract.CreateCaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := h.CaseService.CreateCase(&req, formFiles(c))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

// GetProtocol serves the unauthenticated "consult my protocol" lookup.
func (h *DefaultCaseRoute) GetProtocol(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	resp, apierr := h.CaseService.GetProtocol(id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *DefaultCaseRoute) GetCase(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := caseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	resp, apierr := h.CaseService.GetCase(user, id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *DefaultCaseRoute) ListCases(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	cases, apierr := h.CaseService.ListCases(user, c.QueryParam("status"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"cases": cases}
	return c.JSON(http.StatusOK, &resp)
}

func (h *DefaultCaseRoute) GetStats(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	resp, apierr := h.CaseService.Stats(user)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *DefaultCaseRoute) AssignCase(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := caseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	var req contract.AssignRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr := h.CaseService.Assign(user, id, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultCaseRoute) RespondCase(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := caseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	var req contract.RespondRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr := h.CaseService.RespondDirectly(user, id, &req, formFiles(c)); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultCaseRoute) ReviewCase(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := caseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	var req contract.ReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr := h.CaseService.SubmitForReview(user, id, &req, formFiles(c)); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultCaseRoute) ApproveCase(c echo.Context) error {
	user, cerr := utils.GetUserFromContext(c)
	if cerr != nil {
		return c.JSON(cerr.Code(), cerr)
	}

	id, err := caseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	var req contract.ApproveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if apierr := h.CaseService.Approve(user, id, &req); apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *DefaultCaseRoute) ListAttachments(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	uploader := c.QueryParam("uploader")
	if uploader == "" {
		uploader = disk.UploaderClient
	}

	resp, apierr := h.CaseService.ListAttachments(id, uploader)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *DefaultCaseRoute) DownloadAttachment(c echo.Context) error {
	id, err := caseID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewInvalidParamTypeError("id", "int64"))
	}

	uploader := c.Param("uploader")
	name, err := formatParamName(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("name"))
	}

	rc, apierr := h.CaseService.OpenAttachment(id, uploader, name)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	defer rc.Close()

	mimeType := mime.TypeByExtension(filepath.Ext(name))
	if mimeType == "" {
		mimeType = echo.MIMEOctetStream
	}

	stored := disk.SanitizeFilename(name)
	c.Response().Header().
		Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", stored))
	return c.Stream(http.StatusOK, mimeType, rc)
}

func caseID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func formatParamName(c echo.Context) (string, error) {
	name, err := url.PathUnescape(c.Param("name"))
	if err != nil || name == "" {
		return "", fmt.Errorf("missing or malformed name parameter")
	}
	return name, nil
}

// formFiles returns the uploaded attachments, or nil for a plain JSON
// request.
func formFiles(c echo.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["files"]
}
