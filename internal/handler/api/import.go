package api

import (
	"io"
	"net/http"

	resdto "questbook/internal/handler/dto/response"
	"questbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// 20 MB covers years of legacy exports with room to spare.
const maxImportSize = 20 << 20

type ImportHandler struct {
	importCommands commands.ImportCommands
}

func NewImportHandler(importCommands commands.ImportCommands) *ImportHandler {
	return &ImportHandler{importCommands: importCommands}
}

// Import accepts the legacy export either as a multipart upload under the
// "file" field or as a raw request body.
func (h *ImportHandler) Import(c *gin.Context) {
	raw, err := h.readPayload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Could not read import payload",
		})
		return
	}
	if len(raw) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Import payload is empty",
		})
		return
	}

	result, err := h.importCommands.Run(c.Request.Context(), string(raw))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": "Import file could not be parsed",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromImportResult(result))
}

func (h *ImportHandler) readPayload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxImportSize))
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize))
}
