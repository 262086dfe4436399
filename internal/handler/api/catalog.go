package api

import (
	"errors"
	"net/http"

	resdto "questbook/internal/handler/dto/response"
	"questbook/internal/pkg/clock"
	"questbook/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalog usecase.CatalogService
	clock   clock.Clock
}

func NewCatalogHandler(catalog usecase.CatalogService, clk clock.Clock) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, clock: clk}
}

func (h *CatalogHandler) ListExtraServices(c *gin.Context) {
	items, err := h.catalog.ExtraServices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromExtraServices(items))
}

func (h *CatalogHandler) GetPromo(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Promo code is required",
		})
		return
	}

	p, err := h.catalog.Promo(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, usecase.ErrPromoNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Promo code not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromPromo(p, h.clock.Now()))
}
