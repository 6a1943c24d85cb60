package leaverequest

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"spice-hr/internal/shared/apperror"
	"spice-hr/internal/shared/contextutil"
	"spice-hr/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leaverequest.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActor(c *gin.Context) contextutil.Actor {
	if actor, ok := contextutil.GetActor(c.Request.Context()); ok {
		return actor
	}
	return contextutil.Actor{
		EmployeeID:   c.GetString("employee_id"),
		EmployeeName: c.GetString("employee_name"),
		Role:         c.GetString("role"),
	}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"Please fix the highlighted fields", valErr.Fields)
		return
	}

	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request operation failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// bindInput accepts either a JSON body or a multipart form carrying the
// certification file under "certificationFile".
func bindInput[T any](c *gin.Context, input *T) (*CertificationFile, error) {
	if c.ContentType() != "multipart/form-data" {
		return nil, c.ShouldBindJSON(input)
	}

	if err := c.ShouldBind(input); err != nil {
		return nil, err
	}

	fileHeader, err := c.FormFile("certificationFile")
	if err != nil {
		// A multipart submission without the file is a valid edit shape;
		// the validator decides whether the file was actually required.
		return nil, nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Read one byte past the cap so oversized uploads fail validation
	// instead of being silently truncated.
	data, err := io.ReadAll(io.LimitReader(f, maxCertBytes+1))
	if err != nil {
		return nil, err
	}

	return &CertificationFile{Name: fileHeader.Filename, Data: data}, nil
}

func (h *Handler) Create(c *gin.Context) {
	actor := getActor(c)

	var input CreateLeaveRequestInput
	cert, err := bindInput(c, &input)
	if err != nil {
		h.logger.Warn("http create leave request bind failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actor, input, cert)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	ctx := c.Request.Context()
	actor := getActor(c)

	filter := ListFilter{
		Category:     c.Query("category"),
		EmployeeID:   c.Query("employeeId"),
		EmployeeName: c.Query("employeeName"),
		Status:       c.Query("status"),
	}

	resp, err := h.service.GetAll(ctx, actor, filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Update handles both PUT shapes: a bare {"status": ...} body is routed to
// the decision path, everything else is a full submitter edit.
func (h *Handler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	actor := getActor(c)

	var input UpdateLeaveRequestInput
	cert, err := bindInput(c, &input)
	if err != nil {
		h.logger.Warn("http update leave request bind failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	var resp LeaveRequestResponse
	if input.IsStatusOnly() {
		switch input.Status {
		case StatusApproved:
			resp, err = h.service.Approve(ctx, actor, id)
		case StatusRejected:
			resp, err = h.service.Reject(ctx, actor, id)
		default:
			response.Error(c, http.StatusBadRequest, "INVALID_STATE",
				"status must be approved or rejected", nil)
			return
		}
	} else {
		resp, err = h.service.Update(ctx, actor, id, input, cert)
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	resp, err := h.service.Approve(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	resp, err := h.service.Reject(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), getActor(c), c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) Certification(c *gin.Context) {
	file, mime, err := h.service.Certification(c.Request.Context(), getActor(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+file.Name+`"`)
	c.Data(http.StatusOK, mime, file.Data)
}

func (h *Handler) CategorySummary(c *gin.Context) {
	resp, err := h.service.CategorySummary(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
