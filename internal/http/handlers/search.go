package handlers

import (
	"net/http"

	"washbay/internal/repositories"
	"washbay/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/search?q=
// Matches customers by phone/name, vehicles by registration and orders by
// order number in one pass for the front-desk lookup box.
func Search(c *gin.Context) {
	q := utils.TrimOrEmpty(c.Query("q"))
	if len(q) < 2 {
		RespondError(c, http.StatusBadRequest, "q must be at least 2 characters", nil)
		return
	}

	customers := repositories.CustomerRepository{}
	vehicles := repositories.VehicleRepository{}
	orders := repositories.OrderRepository{}

	foundCustomers, err := customers.Search(q, 10)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	foundVehicles, err := vehicles.SearchByRegistration(q, 10)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	foundOrders, err := orders.SearchByNumber(q, 10)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"customers": foundCustomers,
		"vehicles":  foundVehicles,
		"orders":    foundOrders,
	})
}
