package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

type dispatchRequest struct {
	DossierID  string `json:"dossier_id"`
	PostalCode string `json:"postal_code"`
}

func (s *Server) DispatchDossier(c *gin.Context) {
	var req dispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	dossierID, err := snowflake.ParseString(strings.TrimSpace(req.DossierID))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.dispatchSvc.Dispatch(c.Request.Context(), dossierID, strings.TrimSpace(req.PostalCode))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

type dispatchRunRequest struct {
	HeadOfficeID string `json:"head_office_id"`
}

func (s *Server) DispatchAllPending(c *gin.Context) {
	var req dispatchRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	headOfficeID, err := snowflake.ParseString(strings.TrimSpace(req.HeadOfficeID))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.dispatchSvc.DispatchAllPending(c.Request.Context(), headOfficeID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
