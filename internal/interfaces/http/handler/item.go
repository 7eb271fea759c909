package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	catalogapp "github.com/shoplink/backend/internal/application/catalog"
	"github.com/shoplink/backend/internal/domain/shared"
	"github.com/shoplink/backend/internal/interfaces/http/dto"
)

// toDecimal lifts a JSON price into the decimal type the domain uses.
func toDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// ItemHandler handles seller catalog item endpoints
type ItemHandler struct {
	BaseHandler
	itemService *catalogapp.ItemService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *catalogapp.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

// CreateItemRequest represents a request to create a native catalog item
// @Description Request body for creating a catalog item
type CreateItemRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=200" example:"Espresso Beans 1kg"`
	Description *string  `json:"description" binding:"omitempty,max=2000" example:"Dark roast"`
	Price       float64  `json:"price" binding:"min=0" example:"18.50"`
	Category    string   `json:"category" binding:"max=100" example:"coffee"`
	ImageURLs   []string `json:"image_urls" binding:"omitempty,dive,url"`
}

// UpdateItemRequest represents a request to update a native catalog item
// @Description Request body for updating a catalog item
type UpdateItemRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=200" example:"Espresso Beans 1kg"`
	Description *string  `json:"description" binding:"omitempty,max=2000" example:"Medium roast"`
	Price       float64  `json:"price" binding:"min=0" example:"19.00"`
	Category    string   `json:"category" binding:"max=100" example:"coffee"`
	ImageURLs   []string `json:"image_urls" binding:"omitempty,dive,url"`
}

// SetAvailabilityRequest represents a request to toggle item availability
// @Description Request body for toggling item availability
type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required" example:"false"`
}

// itemID parses the item ID path parameter
func (h *ItemHandler) itemID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid item ID format")
		return uuid.Nil, false
	}
	return id, true
}

// Create godoc
// @Summary      Create a catalog item
// @Description  Create a seller-authored item in the catalog
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        request body CreateItemRequest true "Item creation request"
// @Success      201 {object} dto.Response{data=ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/items [post]
func (h *ItemHandler) Create(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.CreateItem(c.Request.Context(), sellerID, catalogapp.CreateItemRequest{
		Name:        req.Name,
		Description: req.Description,
		Price:       toDecimal(req.Price),
		Category:    req.Category,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toItemResponse(item))
}

// GetByID godoc
// @Summary      Get catalog item
// @Description  Retrieve one item from the seller's catalog
// @Tags         items
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} dto.Response{data=ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/items/{id} [get]
func (h *ItemHandler) GetByID(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	id, ok := h.itemID(c)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(c.Request.Context(), sellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toItemResponse(item))
}

// List godoc
// @Summary      List catalog items
// @Description  List the seller's catalog with pagination and optional name search
// @Tags         items
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Name substring filter"
// @Success      200 {object} dto.Response{data=[]ItemResponse}
// @Router       /catalog/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	items, total, err := h.itemService.ListItems(c.Request.Context(), sellerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, toItemResponses(items), total, req.Page, req.PageSize)
}

// Update godoc
// @Summary      Update a catalog item
// @Description  Update a seller-authored item; provider-managed items are rejected
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body UpdateItemRequest true "Item update request"
// @Success      200 {object} dto.Response{data=ItemResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/items/{id} [put]
func (h *ItemHandler) Update(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	id, ok := h.itemID(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.UpdateItem(c.Request.Context(), sellerID, id, catalogapp.UpdateItemRequest{
		Name:        req.Name,
		Description: req.Description,
		Price:       toDecimal(req.Price),
		Category:    req.Category,
		ImageURLs:   req.ImageURLs,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toItemResponse(item))
}

// SetAvailability godoc
// @Summary      Toggle item availability
// @Description  Show or hide a seller-authored item without deleting it
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body SetAvailabilityRequest true "Availability toggle"
// @Success      200 {object} dto.Response{data=ItemResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/items/{id}/availability [patch]
func (h *ItemHandler) SetAvailability(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	id, ok := h.itemID(c)
	if !ok {
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.itemService.SetAvailability(c.Request.Context(), sellerID, id, *req.Available)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toItemResponse(item))
}

// Delete godoc
// @Summary      Delete a catalog item
// @Description  Delete a seller-authored item; provider-managed items are rejected
// @Tags         items
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        id path string true "Item ID" format(uuid)
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /catalog/items/{id} [delete]
func (h *ItemHandler) Delete(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	id, ok := h.itemID(c)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(c.Request.Context(), sellerID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers catalog item routes on the given router group
func (h *ItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/catalog/items")
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/:id", h.GetByID)
		items.PUT("/:id", h.Update)
		items.PATCH("/:id/availability", h.SetAvailability)
		items.DELETE("/:id", h.Delete)
	}
}
