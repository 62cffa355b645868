package handlers

import (
	"net/http"

	"washbay/internal/domain"
	"washbay/internal/domain/models"
	"washbay/internal/repositories"
	"washbay/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/vehicles?customer_id= / ?q=
func GetVehicles(c *gin.Context) {
	vehicles := repositories.VehicleRepository{}

	if q := utils.TrimOrEmpty(c.Query("q")); q != "" {
		out, err := vehicles.SearchByRegistration(q, 50)
		if err != nil {
			RespondDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"vehicles": out})
		return
	}

	customerID, ok := queryID(c, "customer_id")
	if !ok {
		return
	}
	out, err := vehicles.ListByCustomer(customerID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": out})
}

// GET /api/vehicles/:id
func GetVehicleByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	vehicles := repositories.VehicleRepository{}
	v, err := vehicles.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v, "display_name": v.DisplayName()})
}

type vehicleRequest struct {
	CustomerID         int64  `json:"customer_id"`
	RegistrationNumber string `json:"registration_number"`
	Make               string `json:"make"`
	Model              string `json:"model"`
	Color              string `json:"color"`
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	reg := models.NormalizeRegistration(req.RegistrationNumber)
	if !models.ValidRegistration(reg) {
		RespondError(c, http.StatusBadRequest, "registration_number must be at least 3 characters", nil)
		return
	}
	if req.CustomerID <= 0 {
		RespondError(c, http.StatusBadRequest, "customer_id is required", nil)
		return
	}

	customers := repositories.CustomerRepository{}
	if _, err := customers.GetByID(req.CustomerID); err != nil {
		RespondDomainError(c, err)
		return
	}

	vehicles := repositories.VehicleRepository{}
	if _, err := vehicles.GetByRegistration(reg); err == nil {
		RespondError(c, http.StatusConflict, "vehicle with this registration already exists", nil)
		return
	} else if !domain.IsNotFound(err) {
		RespondDomainError(c, err)
		return
	}

	v := models.Vehicle{
		CustomerID:         req.CustomerID,
		RegistrationNumber: reg,
		Make:               utils.TrimOrEmpty(req.Make),
		Model:              utils.TrimOrEmpty(req.Model),
		Color:              utils.TrimOrEmpty(req.Color),
		CreatedAt:          utils.NowUTC(),
	}
	if err := vehicles.Insert(&v); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"vehicle": v})
}

// PUT /api/vehicles/:id
func UpdateVehicle(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req vehicleRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	vehicles := repositories.VehicleRepository{}
	v, err := vehicles.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if reg := models.NormalizeRegistration(req.RegistrationNumber); reg != "" {
		if !models.ValidRegistration(reg) {
			RespondError(c, http.StatusBadRequest, "registration_number must be at least 3 characters", nil)
			return
		}
		v.RegistrationNumber = reg
	}
	v.Make = utils.TrimOrEmpty(req.Make)
	v.Model = utils.TrimOrEmpty(req.Model)
	v.Color = utils.TrimOrEmpty(req.Color)

	if err := vehicles.Update(v); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v})
}
