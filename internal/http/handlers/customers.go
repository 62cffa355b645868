package handlers

import (
	"net/http"

	"washbay/internal/domain"
	"washbay/internal/domain/models"
	"washbay/internal/repositories"
	"washbay/internal/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/customers?q=
func GetCustomers(c *gin.Context) {
	customers := repositories.CustomerRepository{}

	q := utils.TrimOrEmpty(c.Query("q"))
	var (
		out []models.Customer
		err error
	)
	if q != "" {
		out, err = customers.Search(q, 50)
	} else {
		out, err = customers.List(50)
	}
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": out})
}

// GET /api/customers/:id
func GetCustomerByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}

	customers := repositories.CustomerRepository{}
	vehicles := repositories.VehicleRepository{}

	customer, err := customers.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	owned, err := vehicles.ListByCustomer(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"customer":     customer,
		"is_returning": customer.IsReturning(),
		"vehicles":     owned,
	})
}

type customerRequest struct {
	PhoneNumber string `json:"phone_number"`
	Name        string `json:"name"`
	Email       string `json:"email"`
}

// POST /api/customers
func CreateCustomer(c *gin.Context) {
	var req customerRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	phone := utils.TrimOrEmpty(req.PhoneNumber)
	if phone == "" {
		RespondError(c, http.StatusBadRequest, "phone_number is required", nil)
		return
	}

	customers := repositories.CustomerRepository{}
	if _, err := customers.GetByPhone(phone); err == nil {
		RespondError(c, http.StatusConflict, "customer with this phone number already exists", nil)
		return
	} else if !domain.IsNotFound(err) {
		RespondDomainError(c, err)
		return
	}

	now := utils.NowUTC()
	customer := models.Customer{
		PhoneNumber: phone,
		Name:        utils.TrimOrEmpty(req.Name),
		Email:       utils.TrimOrEmpty(req.Email),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := customers.Insert(&customer); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

// PUT /api/customers/:id
func UpdateCustomer(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req customerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	customers := repositories.CustomerRepository{}
	customer, err := customers.GetByID(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	if phone := utils.TrimOrEmpty(req.PhoneNumber); phone != "" {
		customer.PhoneNumber = phone
	}
	customer.Name = utils.TrimOrEmpty(req.Name)
	customer.Email = utils.TrimOrEmpty(req.Email)

	if err := customers.Update(customer); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": customer})
}
