package leave

import (
	"context"
	"io"
	"net/http"
	"strconv"

	leaveerrors "go-selfservice/internal/leave/errors"
	"go-selfservice/internal/middleware"
	"go-selfservice/internal/shared/apperror"
	"go-selfservice/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const maxSignatureSize = 5 << 20

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

// NewHandler builds the leave handler. rdb may be nil, in which case
// idempotent responses are not cached.
func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) ListApproval(c *gin.Context) {
	h.list(c, h.service.ListApproval)
}

func (h *Handler) ListPersonal(c *gin.Context) {
	h.list(c, h.service.ListPersonal)
}

func (h *Handler) list(c *gin.Context, fetch func(context.Context, string, ListQuery) (ListResult, error)) {
	employeeID := c.GetString("employee_id")
	h.logger.Debug("http list leave requests", zap.String("employee_id", employeeID), zap.String("path", c.FullPath()))

	q, err := parseListQuery(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	res, err := fetch(c.Request.Context(), employeeID, q)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var meta *response.PaginationMeta
	if q.Paginated() {
		m := response.NewPaginationMeta(res.Total, *q.PageNumber, *q.PageSize)
		meta = &m
	}
	response.SuccessWithIncluded(c, http.StatusOK, res.Items, res.Included, meta)
}

func parseListQuery(c *gin.Context) (ListQuery, error) {
	var q ListQuery
	for _, s := range c.QueryArray("filter[status]") {
		st := Status(s)
		if !st.Valid() {
			return ListQuery{}, leaveerrors.ErrInvalidStatusFilter
		}
		q.Statuses = append(q.Statuses, st)
	}

	var err error
	if q.PageNumber, err = queryInt(c, "page[number]", 0); err != nil {
		return ListQuery{}, err
	}
	if q.PageSize, err = queryInt(c, "page[size]", 1); err != nil {
		return ListQuery{}, err
	}
	return q, nil
}

func queryInt(c *gin.Context, key string, lo int) (*int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo {
		return nil, leaveerrors.ErrInvalidPagination.WithParameter(key)
	}
	return &n, nil
}

func (h *Handler) Create(c *gin.Context) {
	defer middleware.ReleaseIdempotencyLock(c, h.rdb)

	employeeID := c.GetString("employee_id")
	h.logger.Debug("http create leave request", zap.String("employee_id", employeeID))

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create leave request validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	middleware.RememberIdempotentResponse(c, h.rdb, http.StatusCreated, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	employeeID := c.GetString("employee_id")
	id := c.Param("leaveRequestId")
	h.logger.Debug("http update leave request", zap.String("employee_id", employeeID), zap.String("leave_request_id", id))

	var req UpdateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update leave request validation failed", zap.Error(err))
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Update(c.Request.Context(), employeeID, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UploadSignature(c *gin.Context) {
	defer middleware.ReleaseIdempotencyLock(c, h.rdb)

	employeeID := c.GetString("employee_id")
	id := c.Param("leaveRequestId")
	h.logger.Debug("http upload signature", zap.String("employee_id", employeeID), zap.String("leave_request_id", id))

	file, err := io.ReadAll(io.LimitReader(c.Request.Body, maxSignatureSize+1))
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidSignatureFile.WithErr(err))
		return
	}
	if len(file) > maxSignatureSize {
		h.writeServiceError(c, leaveerrors.ErrInvalidSignatureFile.WithDetail("Signature file exceeds 5 MiB."))
		return
	}

	resp, err := h.service.UploadSignature(c.Request.Context(), employeeID, id, file)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	middleware.RememberIdempotentResponse(c, h.rdb, http.StatusCreated, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}
