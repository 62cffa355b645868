package handlers

import (
	"net/http"
	"strconv"

	"washbay/internal/http/middleware"
	"washbay/internal/repositories"
	"washbay/internal/services"
	"washbay/internal/utils"

	"github.com/gin-gonic/gin"
)

func orderService(c *gin.Context) services.OrderService {
	reqID := middleware.GetRequestID(c)
	return services.OrderService{
		RequestID:   reqID,
		Assignments: services.AssignmentService{RequestID: reqID},
	}
}

// GET /api/orders?status=&page=&page_size=
func GetOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	svc := orderService(c)
	orders, total, err := svc.List(utils.TrimOrEmpty(c.Query("status")), page, pageSize)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders":    orders,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GET /api/orders/queue
func GetOrderQueue(c *gin.Context) {
	svc := orderService(c)
	orders, err := svc.Queue()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GET /api/orders/:id
func GetOrderByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	svc := orderService(c)
	detail, err := svc.Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": detail})
}

// POST /api/orders
func CreateOrder(c *gin.Context) {
	var in services.CreateOrderInput
	if !BindJSONOrError(c, &in) {
		return
	}
	svc := orderService(c)
	detail, err := svc.Create(middleware.GetUserID(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": detail})
}

// POST /api/orders/:id/start
func StartOrder(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	svc := orderService(c)
	if err := svc.Start(middleware.GetUserID(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	detail, err := svc.Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": detail})
}

// POST /api/orders/:id/complete
func CompleteOrder(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	svc := orderService(c)
	if err := svc.Complete(middleware.GetUserID(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	detail, err := svc.Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": detail})
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

// POST /api/orders/:id/cancel
func CancelOrder(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req reasonRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}
	svc := orderService(c)
	if err := svc.Cancel(middleware.GetUserID(c), id, utils.TrimOrEmpty(req.Reason)); err != nil {
		RespondDomainError(c, err)
		return
	}
	detail, err := svc.Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": detail})
}

// GET /api/orders/:id/history
func GetOrderHistory(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	audit := repositories.AuditRepository{}
	events, err := audit.ListByOrder(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// POST /api/order-items/:id/complete
func CompleteOrderItem(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	svc := orderService(c)
	if err := svc.CompleteItem(middleware.GetUserID(c), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service completed"})
}

// POST /api/order-items/:id/cancel
func CancelOrderItem(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req reasonRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if !BindJSONOrError(c, &req) {
			return
		}
	}
	svc := orderService(c)
	if err := svc.CancelItem(middleware.GetUserID(c), id, utils.TrimOrEmpty(req.Reason)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service cancelled"})
}

type updatePriceRequest struct {
	Price  float64 `json:"price"`
	Reason string  `json:"reason"`
}

// PUT /api/order-items/:id/price
func UpdateOrderItemPrice(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req updatePriceRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := orderService(c)
	if err := svc.UpdateItemPrice(middleware.GetUserID(c), id, req.Price, utils.TrimOrEmpty(req.Reason)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "price updated"})
}

func assignmentService(c *gin.Context) services.AssignmentService {
	return services.AssignmentService{RequestID: middleware.GetRequestID(c)}
}

// GET /api/order-items/:id/assignments
func GetItemAssignments(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	svc := assignmentService(c)
	out, err := svc.ListByItem(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": out})
}

type assignRequest struct {
	StaffID int64  `json:"staff_id"`
	Role    string `json:"role"`
}

// POST /api/order-items/:id/assignments
func AssignStaff(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req assignRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.StaffID <= 0 {
		RespondError(c, http.StatusBadRequest, "staff_id is required", nil)
		return
	}
	svc := assignmentService(c)
	if err := svc.Assign(middleware.GetUserID(c), id, req.StaffID, utils.TrimOrEmpty(req.Role)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "staff assigned"})
}

// DELETE /api/order-items/:id/assignments/:staffID
func RemoveStaffAssignment(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	staffID, ok := ParamID(c, "staffID")
	if !ok {
		return
	}
	svc := assignmentService(c)
	if err := svc.Remove(middleware.GetUserID(c), id, staffID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "assignment removed"})
}

type reassignRequest struct {
	OldStaffID int64 `json:"old_staff_id"`
	NewStaffID int64 `json:"new_staff_id"`
}

// PUT /api/order-items/:id/assignments
func ReassignStaff(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req reassignRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.OldStaffID <= 0 || req.NewStaffID <= 0 {
		RespondError(c, http.StatusBadRequest, "old_staff_id and new_staff_id are required", nil)
		return
	}
	svc := assignmentService(c)
	if err := svc.Reassign(middleware.GetUserID(c), id, req.OldStaffID, req.NewStaffID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "staff reassigned"})
}
