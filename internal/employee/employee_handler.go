package employee

import (
	"net/http"
	"strconv"

	"jjc-attendance/internal/shared/apperror"
	"jjc-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CreateRequest struct {
	Barcode  string `json:"barcode" binding:"required"`
	FullName string `json:"full_name" binding:"required"`
}

type EmployeeResponse struct {
	ID       string `json:"id"`
	Barcode  string `json:"barcode"`
	FullName string `json:"full_name"`
	Active   bool   `json:"active"`
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	emp := Employee{
		ID:       uuid.New().String(),
		Barcode:  req.Barcode,
		FullName: req.FullName,
		Active:   true,
	}
	if err := h.repo.Create(c.Request.Context(), &emp); err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}
	response.Success(c, http.StatusCreated, mapToResponse(emp), nil)
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if size < 1 || size > 200 {
		size = 50
	}

	total, err := h.repo.Count(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}
	rows, err := h.repo.FindPage(c.Request.Context(), (page-1)*size, size)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	res := make([]EmployeeResponse, len(rows))
	for i, r := range rows {
		res[i] = mapToResponse(r)
	}
	meta := response.NewPaginationMeta(total, page, size)
	response.Success(c, http.StatusOK, res, &meta)
}

func mapToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:       e.ID,
		Barcode:  e.Barcode,
		FullName: e.FullName,
		Active:   e.Active,
	}
}

func RegisterRoutes(api *gin.RouterGroup, h *Handler) {
	group := api.Group("/employees")
	{
		group.POST("", h.Create)
		group.GET("", h.List)
	}
}
