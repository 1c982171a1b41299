package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	onboardingdomain "github.com/formanet/formanet/internal/onboarding/domain"
)

type onboardRequest struct {
	AdminPassword string `json:"admin_password"`
	Siret         string `json:"siret"`
	City          string `json:"city"`
	ZipCode       string `json:"zip_code"`
	Address       string `json:"address"`
}

func (s *Server) OnboardCandidate(c *gin.Context) {
	candidateID, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var req onboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	org, err := s.onboardingSvc.Onboard(c.Request.Context(), onboardingdomain.OnboardRequest{
		CandidateID:   candidateID,
		AdminPassword: req.AdminPassword,
		Siret:         strings.TrimSpace(req.Siret),
		City:          strings.TrimSpace(req.City),
		ZipCode:       strings.TrimSpace(req.ZipCode),
		Address:       strings.TrimSpace(req.Address),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, org)
}
