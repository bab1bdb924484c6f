package clockevent

import "github.com/gin-gonic/gin"

func RegisterRoutes(api *gin.RouterGroup, h *Handler) {
	group := api.Group("/attendance")
	{
		group.POST("/scan", h.Scan)
		group.GET("", h.GetRange)
	}
}
