package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

func (s *Server) GetRoyalties(c *gin.Context) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(c.Query("organization_id")))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	month := strings.TrimSpace(c.Query("month"))

	if c.Query("summary") == "network" {
		summary, err := s.royaltySvc.ComputeNetworkSummary(c.Request.Context(), orgID, month)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
		return
	}

	breakdown, err := s.royaltySvc.ComputeRoyalties(c.Request.Context(), orgID, month)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, breakdown)
}
