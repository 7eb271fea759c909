package handler

import (
	"github.com/gin-gonic/gin"

	connectionapp "github.com/shoplink/backend/internal/application/connection"
	"github.com/shoplink/backend/internal/domain/connection"
)

// IntegrationHandler handles provider connection lifecycle endpoints
type IntegrationHandler struct {
	BaseHandler
	connectionService *connectionapp.Service
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(connectionService *connectionapp.Service) *IntegrationHandler {
	return &IntegrationHandler{
		connectionService: connectionService,
	}
}

// ConnectRequest represents a request to connect a provider
// @Description Request body for connecting a messaging or catalog provider
type ConnectRequest struct {
	Provider    string `json:"provider" binding:"required" example:"shopify"`
	AccountID   string `json:"account_id" binding:"required,max=200" example:"my-shop"`
	AccessToken string `json:"access_token" binding:"required,max=500" example:"shpat_xxx"`
	StoreDomain string `json:"store_domain" binding:"max=200" example:"my-shop.myshopify.com"`
}

// kindParam parses and validates the provider kind path parameter
func (h *IntegrationHandler) kindParam(c *gin.Context) (connection.ProviderKind, bool) {
	kind := connection.ProviderKind(c.Param("kind"))
	if !kind.IsValid() {
		h.BadRequest(c, "Provider kind must be 'messaging' or 'catalog'")
		return "", false
	}
	return kind, true
}

// Connect godoc
// @Summary      Connect a provider
// @Description  Validate and probe the submitted credential, then connect the provider for the seller
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        kind path string true "Provider kind" Enums(messaging, catalog)
// @Param        request body ConnectRequest true "Provider credential"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integrations/{kind}/connect [post]
func (h *IntegrationHandler) Connect(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	kind, ok := h.kindParam(c)
	if !ok {
		return
	}

	var req ConnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := connection.CredentialInput{
		Code:        connection.ProviderCode(req.Provider),
		AccountID:   req.AccountID,
		AccessToken: req.AccessToken,
		StoreDomain: req.StoreDomain,
	}

	result, err := h.connectionService.Connect(c.Request.Context(), sellerID, kind, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ConfirmActivation godoc
// @Summary      Confirm provider activation
// @Description  Complete the out-of-band activation handshake for a pending messaging provider
// @Tags         integrations
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        kind path string true "Provider kind" Enums(messaging, catalog)
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integrations/{kind}/activation/confirm [post]
func (h *IntegrationHandler) ConfirmActivation(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	kind, ok := h.kindParam(c)
	if !ok {
		return
	}

	result, err := h.connectionService.ConfirmActivation(c.Request.Context(), sellerID, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Sync godoc
// @Summary      Run a catalog sync
// @Description  Run one full reconciliation pass against the connected catalog provider
// @Tags         integrations
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        kind path string true "Provider kind" Enums(catalog)
// @Success      200 {object} dto.Response
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /integrations/{kind}/sync [post]
func (h *IntegrationHandler) Sync(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	kind, ok := h.kindParam(c)
	if !ok {
		return
	}

	summary, err := h.connectionService.Sync(c.Request.Context(), sellerID, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// Disconnect godoc
// @Summary      Disconnect a provider
// @Description  Remove the stored credential; imported catalog items are kept but marked unavailable
// @Tags         integrations
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        kind path string true "Provider kind" Enums(messaging, catalog)
// @Success      200 {object} dto.Response
// @Router       /integrations/{kind} [delete]
func (h *IntegrationHandler) Disconnect(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	kind, ok := h.kindParam(c)
	if !ok {
		return
	}

	result, err := h.connectionService.Disconnect(c.Request.Context(), sellerID, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// GetState godoc
// @Summary      Get connection state
// @Description  Report the current connection state for one provider kind
// @Tags         integrations
// @Produce      json
// @Param        X-Seller-ID header string true "Seller ID"
// @Param        kind path string true "Provider kind" Enums(messaging, catalog)
// @Success      200 {object} dto.Response
// @Router       /integrations/{kind} [get]
func (h *IntegrationHandler) GetState(c *gin.Context) {
	sellerID, err := getSellerID(c)
	if err != nil {
		h.Unauthorized(c, "Invalid seller ID")
		return
	}

	kind, ok := h.kindParam(c)
	if !ok {
		return
	}

	result, err := h.connectionService.GetState(c.Request.Context(), sellerID, kind)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RegisterRoutes registers integration routes on the given router group
func (h *IntegrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	integrations := rg.Group("/integrations")
	{
		integrations.POST("/:kind/connect", h.Connect)
		integrations.POST("/:kind/activation/confirm", h.ConfirmActivation)
		integrations.POST("/:kind/sync", h.Sync)
		integrations.DELETE("/:kind", h.Disconnect)
		integrations.GET("/:kind", h.GetState)
	}
}
