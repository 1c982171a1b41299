package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	territorydomain "github.com/formanet/formanet/internal/territory/domain"
)

type createTerritoryRequest struct {
	OrganizationID string   `json:"organization_id"`
	Name           string   `json:"name"`
	ZipCodes       []string `json:"zip_codes"`
	IsExclusive    bool     `json:"is_exclusive"`
}

func (s *Server) CreateTerritory(c *gin.Context) {
	var req createTerritoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	orgID, err := snowflake.ParseString(strings.TrimSpace(req.OrganizationID))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	territory, err := s.territorySvc.Create(c.Request.Context(), territorydomain.CreateTerritoryRequest{
		OrgID:       orgID,
		Name:        strings.TrimSpace(req.Name),
		ZipCodes:    req.ZipCodes,
		IsExclusive: req.IsExclusive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, territory)
}

func (s *Server) ListTerritories(c *gin.Context) {
	orgID, err := snowflake.ParseString(strings.TrimSpace(c.Query("organization_id")))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	territories, err := s.territorySvc.ListByOrganization(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": territories})
}

// CheckTerritoryConflicts is the dry-run variant of CreateTerritory: same
// conflict scan, no write. zip_codes is comma-separated.
func (s *Server) CheckTerritoryConflicts(c *gin.Context) {
	zipCodes := strings.Split(c.Query("zip_codes"), ",")

	var excludeOrgID snowflake.ID
	if raw := strings.TrimSpace(c.Query("organization_id")); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		excludeOrgID = id
	}

	conflicts, err := s.territorySvc.CheckConflicts(c.Request.Context(), zipCodes, excludeOrgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"conflicts": conflicts})
}

func (s *Server) DeactivateTerritory(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.territorySvc.Deactivate(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}
