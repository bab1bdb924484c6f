package summary

import (
	"net/http"
	"time"

	"jjc-attendance/internal/clockevent"
	"jjc-attendance/internal/shared/apperror"
	"jjc-attendance/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type SummaryResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	Date           string  `json:"date"`
	MorningHours   float64 `json:"morning_hours"`
	AfternoonHours float64 `json:"afternoon_hours"`
	EveningHours   float64 `json:"evening_hours"`
	OvertimeHours  float64 `json:"overtime_hours"`
	RegularTotal   float64 `json:"regular_total"`
	OvertimeTotal  float64 `json:"overtime_total"`
	Incomplete     bool    `json:"incomplete"`
	Late           bool    `json:"late"`
	HasOvertime    bool    `json:"has_overtime"`
	SyncState      string  `json:"sync_state"`
}

type Handler struct {
	repo Repository
}

func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) GetRange(c *gin.Context) {
	today := time.Now().Format(clockevent.DateLayout)
	start := c.DefaultQuery("start_date", today)
	end := c.DefaultQuery("end_date", today)
	employeeID := c.Query("employee_id")

	rows, err := h.repo.FindByRange(c.Request.Context(), start, end, employeeID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	res := make([]SummaryResponse, len(rows))
	for i, r := range rows {
		res[i] = SummaryResponse{
			ID:             r.ID,
			EmployeeID:     r.EmployeeID,
			Date:           r.Date,
			MorningHours:   r.MorningHours,
			AfternoonHours: r.AfternoonHours,
			EveningHours:   r.EveningHours,
			OvertimeHours:  r.OvertimeHours,
			RegularTotal:   r.RegularTotal,
			OvertimeTotal:  r.OvertimeTotal,
			Incomplete:     r.Incomplete,
			Late:           r.Late,
			HasOvertime:    r.HasOvertime,
			SyncState:      r.SyncState,
		}
	}
	response.Success(c, http.StatusOK, res, nil)
}

func RegisterRoutes(api *gin.RouterGroup, h *Handler) {
	api.GET("/summaries", h.GetRange)
}
