package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hartawan/keymart-backend/internal/platform/logger"
	"github.com/hartawan/keymart-backend/internal/platform/pagination"
	"github.com/hartawan/keymart-backend/internal/promo/domain"
	"github.com/hartawan/keymart-backend/internal/promo/repository"
	"github.com/hartawan/keymart-backend/internal/promo/service"
)

type PromoHandler struct {
	promoService service.PromoService
}

func NewPromoHandler(ps service.PromoService) *PromoHandler {
	return &PromoHandler{promoService: ps}
}

func (h *PromoHandler) RegisterRoutes(router *gin.RouterGroup) {
	promoRoutes := router.Group("/promo-codes")
	{
		promoRoutes.POST("", h.CreatePromoCode)
		promoRoutes.GET("", h.ListPromoCodes)
		promoRoutes.GET("/:code", h.GetPromoCode)
	}
}

func (h *PromoHandler) CreatePromoCode(c *gin.Context) {
	var req domain.CreatePromoCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload: " + err.Error()})
		return
	}

	promo, err := h.promoService.CreatePromoCode(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDiscount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, repository.ErrPromoConflict):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			logger.Error("CreatePromoCode Hdl: service error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promo code"})
		}
		return
	}
	c.JSON(http.StatusCreated, promo)
}

func (h *PromoHandler) ListPromoCodes(c *gin.Context) {
	page, err := pagination.Parse(c.Query("page"), c.Query("limit"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	promos, total, err := h.promoService.ListPromoCodes(c.Request.Context(), c.Query("search"), page)
	if err != nil {
		logger.Error("ListPromoCodes Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve promo codes"})
		return
	}
	c.JSON(http.StatusOK, pagination.NewEnvelope("Promo codes retrieved successfully", promos, total, page))
}

func (h *PromoHandler) GetPromoCode(c *gin.Context) {
	promo, err := h.promoService.GetPromoCodeByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, repository.ErrPromoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("GetPromoCode Hdl: service error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve promo code"})
		return
	}
	c.JSON(http.StatusOK, promo)
}
