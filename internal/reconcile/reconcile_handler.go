package reconcile

import (
	"net/http"

	"jjc-attendance/internal/shared/apperror"
	"jjc-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type CompareRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	result, err := h.engine.Compare(c.Request.Context(), req.StartDate, req.EndDate)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

type ApplyRequest struct {
	Actions []Action `json:"actions" binding:"required,dive"`
}

// Apply executes a reviewed resolution list from a prior comparison.
func (h *Handler) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	result, err := h.engine.ApplyActions(c.Request.Context(), req.Actions)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

// Sync triggers a full fetch-apply-validate cycle outside the schedule.
func (h *Handler) Sync(c *gin.Context) {
	result, err := h.engine.Trigger(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) Status(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"running":         h.engine.Running(),
		"last_comparison": h.engine.LastComparison(),
	}, nil)
}

func RegisterRoutes(api *gin.RouterGroup, h *Handler) {
	api.GET("/reconcile/compare", h.Compare)
	api.POST("/reconcile/apply", h.Apply)
	api.POST("/reconcile/sync", h.Sync)
	api.GET("/reconcile/status", h.Status)
}
