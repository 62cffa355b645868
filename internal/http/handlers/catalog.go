package handlers

import (
	"net/http"

	"washbay/internal/domain/models"
	"washbay/internal/repositories"
	"washbay/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/services?all=1
func GetServices(c *gin.Context) {
	catalog := repositories.ServiceRepository{}
	activeOnly := c.Query("all") == ""
	out, err := catalog.List(activeOnly)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"services": out})
}

// GET /api/services/:id
func GetServiceByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	catalog := repositories.ServiceRepository{}
	svc, err := catalog.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc})
}

type serviceRequest struct {
	Name            *string  `json:"name"`
	Description     *string  `json:"description"`
	BasePrice       *float64 `json:"base_price"`
	DurationMinutes *int     `json:"duration_minutes"`
	Category        *string  `json:"category"`
	IsActive        *bool    `json:"is_active"`
	DisplayOrder    *int     `json:"display_order"`
}

// POST /api/services
func CreateService(c *gin.Context) {
	var req serviceRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.Name == nil || utils.TrimOrEmpty(*req.Name) == "" {
		RespondError(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	if req.BasePrice == nil || *req.BasePrice < 0 {
		RespondError(c, http.StatusBadRequest, "base_price must be 0 or greater", nil)
		return
	}

	svc := models.Service{
		Name:            utils.TrimOrEmpty(*req.Name),
		BasePrice:       *req.BasePrice,
		DurationMinutes: models.DefaultItemMinutes,
		IsActive:        true,
		CreatedAt:       utils.NowUTC(),
	}
	if req.Description != nil {
		svc.Description = utils.TrimOrEmpty(*req.Description)
	}
	if req.DurationMinutes != nil && *req.DurationMinutes > 0 {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Category != nil {
		svc.Category = utils.TrimOrEmpty(*req.Category)
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		svc.DisplayOrder = *req.DisplayOrder
	}

	catalog := repositories.ServiceRepository{}
	if err := catalog.Insert(&svc); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"service": svc})
}

// PUT /api/services/:id
func UpdateService(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req serviceRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	catalog := repositories.ServiceRepository{}
	svc, err := catalog.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if req.Name != nil {
		name := utils.TrimOrEmpty(*req.Name)
		if name == "" {
			RespondError(c, http.StatusBadRequest, "name must not be empty", nil)
			return
		}
		svc.Name = name
	}
	if req.Description != nil {
		svc.Description = utils.TrimOrEmpty(*req.Description)
	}
	if req.BasePrice != nil {
		if *req.BasePrice < 0 {
			RespondError(c, http.StatusBadRequest, "base_price must be 0 or greater", nil)
			return
		}
		svc.BasePrice = *req.BasePrice
	}
	if req.DurationMinutes != nil && *req.DurationMinutes > 0 {
		svc.DurationMinutes = *req.DurationMinutes
	}
	if req.Category != nil {
		svc.Category = utils.TrimOrEmpty(*req.Category)
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		svc.DisplayOrder = *req.DisplayOrder
	}

	if err := catalog.Update(svc); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service": svc})
}
