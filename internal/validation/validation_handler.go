package validation

import (
	"net/http"

	"jjc-attendance/internal/shared/apperror"
	"jjc-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type ValidateRequest struct {
	StartDate      string `json:"start_date" binding:"required"`
	EndDate        string `json:"end_date" binding:"required"`
	EmployeeID     string `json:"employee_id"`
	AutoCorrect    bool   `json:"auto_correct"`
	RebuildSummary bool   `json:"rebuild_summary"`
}

type Handler struct {
	validator *Validator
}

func NewHandler(validator *Validator) *Handler {
	return &Handler{validator: validator}
}

func (h *Handler) Validate(c *gin.Context) {
	var req ValidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	report, err := h.validator.Validate(c.Request.Context(), Params{
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		EmployeeID:     req.EmployeeID,
		AutoCorrect:    req.AutoCorrect,
		RebuildSummary: req.RebuildSummary,
	})
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, report, nil)
}

func RegisterRoutes(api *gin.RouterGroup, h *Handler) {
	api.POST("/attendance/validate", h.Validate)
}
