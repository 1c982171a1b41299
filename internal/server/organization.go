package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	organizationdomain "github.com/formanet/formanet/internal/organization/domain"
)

type createOrganizationRequest struct {
	Name        string   `json:"name"`
	NetworkType string   `json:"network_type"`
	ParentID    string   `json:"parent_id"`
	RoyaltyRate *float64 `json:"royalty_rate"`
	LeadFeeRate *float64 `json:"lead_fee_rate"`
	Siret       string   `json:"siret"`
}

func (s *Server) CreateOrganization(c *gin.Context) {
	var req createOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var parentID *snowflake.ID
	if raw := strings.TrimSpace(req.ParentID); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		parentID = &id
	}

	org, err := s.organizationSvc.Create(c.Request.Context(), organizationdomain.CreateOrganizationRequest{
		Name:        strings.TrimSpace(req.Name),
		NetworkType: organizationdomain.NetworkType(strings.ToUpper(strings.TrimSpace(req.NetworkType))),
		ParentID:    parentID,
		RoyaltyRate: req.RoyaltyRate,
		LeadFeeRate: req.LeadFeeRate,
		Siret:       strings.TrimSpace(req.Siret),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, org)
}

func (s *Server) GetOrganization(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	org, err := s.organizationSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, org)
}
