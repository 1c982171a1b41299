package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) RunDecay(c *gin.Context) {
	result, err := s.decayJob.RunDecay(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
