package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "questbook/internal/handler/dto/request"
	"questbook/internal/usecase"

	"github.com/gin-gonic/gin"
)

// PartnerHandler is the aggregator-facing surface. Unlike the admin API,
// business rejections come back as ordinary 200 responses with a message in
// the body, because that is the convention the partner integrates against.
type PartnerHandler struct {
	partner usecase.PartnerService
}

func NewPartnerHandler(partner usecase.PartnerService) *PartnerHandler {
	return &PartnerHandler{partner: partner}
}

func (h *PartnerHandler) Schedule(c *gin.Context) {
	days, _ := strconv.Atoi(c.Query("days"))

	items, err := h.partner.Schedule(c.Request.Context(), c.Param("slug"), days)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *PartnerHandler) SubmitOrder(c *gin.Context) {
	var req reqdto.PartnerOrderRequest
	if bindErr := c.ShouldBind(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}
	in, err := req.ToInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid date format",
		})
		return
	}

	result, err := h.partner.SubmitOrder(c.Request.Context(), c.Param("slug"), in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PartnerHandler) Tariff(c *gin.Context) {
	tariffs, err := h.partner.Tariff(c.Request.Context(), c.Param("slug"), c.Query("slot_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tariffs)
}

func (h *PartnerHandler) Prepay(c *gin.Context) {
	orderID := c.Query("order_id")
	amount := c.Query("amount")
	signature := c.Query("signature")

	if h.partner.VerifyPrepay(orderID, amount, signature) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusForbidden, gin.H{"success": false})
}

func (h *PartnerHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrQuestNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Quest not found",
		})
	case errors.Is(err, usecase.ErrBadSignature):
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Invalid signature",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
