package response

import (
	"github.com/gin-gonic/gin"
)

// PaginationMeta describes one zero-based page of a collection.
type PaginationMeta struct {
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

func NewPaginationMeta(total int64, page, size int) PaginationMeta {
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return PaginationMeta{
		Number:        page,
		Size:          size,
		TotalPages:    totalPages,
		TotalElements: total,
	}
}

type ApiEnvelope struct {
	Ok       bool            `json:"ok"`
	Data     any             `json:"data,omitempty"`
	Included any             `json:"included,omitempty"`
	Meta     *PaginationMeta `json:"meta,omitempty"`
	Error    any             `json:"error,omitempty"`
}

func Success(c *gin.Context, status int, data interface{}, meta *PaginationMeta) {
	c.JSON(status, ApiEnvelope{
		Ok:   true,
		Data: data,
		Meta: meta,
	})
}

// SuccessWithIncluded is Success plus side-loaded resources referenced by data.
func SuccessWithIncluded(c *gin.Context, status int, data, included interface{}, meta *PaginationMeta) {
	c.JSON(status, ApiEnvelope{
		Ok:       true,
		Data:     data,
		Included: included,
		Meta:     meta,
	})
}

func Error(c *gin.Context, status int, errorCode string, message string, details interface{}) {
	c.JSON(status, ApiEnvelope{
		Ok: false,
		Error: map[string]interface{}{
			"code":    errorCode,
			"message": message,
			"details": details,
		},
	})
}
