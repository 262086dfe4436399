package api

import (
	"errors"
	"net/http"

	reqdto "questbook/internal/handler/dto/request"
	resdto "questbook/internal/handler/dto/response"
	"questbook/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BlacklistHandler struct {
	blacklist usecase.BlacklistService
}

func NewBlacklistHandler(blacklist usecase.BlacklistService) *BlacklistHandler {
	return &BlacklistHandler{blacklist: blacklist}
}

func (h *BlacklistHandler) ListEntries(c *gin.Context) {
	entries, err := h.blacklist.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.JSON(http.StatusOK, resdto.FromBlacklistEntries(entries))
}

func (h *BlacklistHandler) GetEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid entry ID format",
		})
		return
	}

	entry, err := h.blacklist.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBlacklistEntry(entry))
}

func (h *BlacklistHandler) CreateEntry(c *gin.Context) {
	var req reqdto.BlacklistEntryRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	entry, err := h.blacklist.Create(c.Request.Context(), req.ToInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBlacklistEntry(entry))
}

func (h *BlacklistHandler) UpdateEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid entry ID format",
		})
		return
	}

	var req reqdto.BlacklistEntryRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	entry, err := h.blacklist.Update(c.Request.Context(), id, req.ToInput())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromBlacklistEntry(entry))
}

func (h *BlacklistHandler) DeleteEntry(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid entry ID format",
		})
		return
	}

	if err := h.blacklist.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BlacklistHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrBlacklistEntryNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Blacklist entry not found",
		})
	case errors.Is(err, usecase.ErrBlacklistInvalid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Entry needs a name and at least one valid contact",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}
