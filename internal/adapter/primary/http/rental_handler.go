package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rentflow/payment-gateway/internal/core"
	"github.com/rentflow/payment-gateway/internal/port/input"
)

// TenantHandler is a primary adapter for lease management
type TenantHandler struct {
	tenantService input.TenantService
}

// NewTenantHandler creates a new tenant handler
func NewTenantHandler(tenantService input.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// CreateTenantRequest represents the HTTP request to create a lease
type CreateTenantRequest struct {
	UserID     string  `json:"user"`
	PropertyID string  `json:"property"`
	LeaseStart string  `json:"lease_start"`
	LeaseEnd   string  `json:"lease_end"`
	RentAmount float64 `json:"rent_amount"`
	Deposit    float64 `json:"deposit"`
}

// UpdateTenantRequest represents the HTTP request to update a lease
type UpdateTenantRequest struct {
	LeaseStart *string  `json:"lease_start"`
	LeaseEnd   *string  `json:"lease_end"`
	RentAmount *float64 `json:"rent_amount"`
	Deposit    *float64 `json:"deposit"`
	Status     *string  `json:"status"`
}

// CreateTenant handles lease creation
func (h *TenantHandler) CreateTenant(c echo.Context) error {
	var req CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid user ID"})
	}
	propertyID, err := uuid.Parse(req.PropertyID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}
	leaseStart, err := time.Parse(time.RFC3339, req.LeaseStart)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lease start"})
	}
	leaseEnd, err := time.Parse(time.RFC3339, req.LeaseEnd)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lease end"})
	}

	tenant, err := h.tenantService.CreateTenant(c.Request().Context(), input.CreateTenantRequest{
		UserID:     userID,
		PropertyID: propertyID,
		LeaseStart: leaseStart,
		LeaseEnd:   leaseEnd,
		RentAmount: req.RentAmount,
		Deposit:    req.Deposit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, tenant)
}

// GetTenant handles lease retrieval by ID
func (h *TenantHandler) GetTenant(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid tenant ID"})
	}
	tenant, err := h.tenantService.GetTenant(c.Request().Context(), principal, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// ListTenants handles role-scoped lease listing
func (h *TenantHandler) ListTenants(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
	}
	tenants, err := h.tenantService.ListTenants(c.Request().Context(), principal)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tenants)
}

// UpdateTenant handles lease updates
func (h *TenantHandler) UpdateTenant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid tenant ID"})
	}
	var req UpdateTenantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	update := input.UpdateTenantRequest{
		RentAmount: req.RentAmount,
		Deposit:    req.Deposit,
	}
	if req.LeaseStart != nil {
		t, err := time.Parse(time.RFC3339, *req.LeaseStart)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lease start"})
		}
		update.LeaseStart = &t
	}
	if req.LeaseEnd != nil {
		t, err := time.Parse(time.RFC3339, *req.LeaseEnd)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid lease end"})
		}
		update.LeaseEnd = &t
	}
	if req.Status != nil {
		status := core.TenantStatus(*req.Status)
		update.Status = &status
	}

	tenant, err := h.tenantService.UpdateTenant(c.Request().Context(), id, update)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, tenant)
}

// DeleteTenant handles lease deletion
func (h *TenantHandler) DeleteTenant(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid tenant ID"})
	}
	if err := h.tenantService.DeleteTenant(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// PropertyHandler is a primary adapter for property management
type PropertyHandler struct {
	propertyService input.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService input.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// CreatePropertyRequest represents the HTTP request to create a property
type CreatePropertyRequest struct {
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	LandlordID  string  `json:"landlord"`
	ManagerID   *string `json:"manager"`
	RentAmount  float64 `json:"rent_amount"`
	Description string  `json:"description"`
}

// UpdatePropertyRequest represents the HTTP request to update a property
type UpdatePropertyRequest struct {
	Name        *string  `json:"name"`
	Address     *string  `json:"address"`
	ManagerID   *string  `json:"manager"`
	RentAmount  *float64 `json:"rent_amount"`
	Description *string  `json:"description"`
}

// CreateProperty handles property creation
func (h *PropertyHandler) CreateProperty(c echo.Context) error {
	var req CreatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	landlordID, err := uuid.Parse(req.LandlordID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid landlord ID"})
	}
	var managerID *uuid.UUID
	if req.ManagerID != nil {
		id, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid manager ID"})
		}
		managerID = &id
	}

	property, err := h.propertyService.CreateProperty(c.Request().Context(), input.CreatePropertyRequest{
		Name:        req.Name,
		Address:     req.Address,
		LandlordID:  landlordID,
		ManagerID:   managerID,
		RentAmount:  req.RentAmount,
		Description: req.Description,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, property)
}

// GetProperty handles property retrieval by ID
func (h *PropertyHandler) GetProperty(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}
	property, err := h.propertyService.GetProperty(c.Request().Context(), principal, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, property)
}

// ListProperties handles role-scoped property listing
func (h *PropertyHandler) ListProperties(c echo.Context) error {
	principal, ok := principalFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Please authenticate."})
	}
	properties, err := h.propertyService.ListProperties(c.Request().Context(), principal)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, properties)
}

// UpdateProperty handles property updates
func (h *PropertyHandler) UpdateProperty(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}
	var req UpdatePropertyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	update := input.UpdatePropertyRequest{
		Name:        req.Name,
		Address:     req.Address,
		RentAmount:  req.RentAmount,
		Description: req.Description,
	}
	if req.ManagerID != nil {
		managerID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid manager ID"})
		}
		update.ManagerID = &managerID
	}

	property, err := h.propertyService.UpdateProperty(c.Request().Context(), id, update)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, property)
}

// DeleteProperty handles property deletion
func (h *PropertyHandler) DeleteProperty(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid property ID"})
	}
	if err := h.propertyService.DeleteProperty(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
