package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	infralogger "github.com/drijfveer/linkmanager/infrastructure/logger"
	"github.com/drijfveer/linkmanager/internal/importer"
)

const maxSheetBytes = 10 << 20

type parseRequest struct {
	Sources string `json:"sources"`
	Anchors string `json:"anchors"`
	Targets string `json:"targets"`
}

// ParseBulk zips three newline separated blocks against the current
// registry. Mismatched line counts reject the whole input.
func (h *Handler) ParseBulk(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sites, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := importer.ParseLines(req.Sources, req.Anchors, req.Targets, sites)
	if err != nil {
		h.rejectParse(c, err)
		return
	}

	h.log(c).Info("Bulk input parsed",
		infralogger.Int("valid", result.ValidCount),
		infralogger.Int("invalid", result.InvalidCount),
	)
	c.JSON(http.StatusOK, result)
}

// ParseBulkSheet does the same for an uploaded .xlsx in the "file" field.
func (h *Handler) ParseBulkSheet(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "file is required")
		return
	}
	if fh.Size > maxSheetBytes {
		detail(c, http.StatusRequestEntityTooLarge, "file is too large")
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	sites, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}

	result, err := importer.ParseLinkSheet(f, sites)
	if err != nil {
		h.rejectParse(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) rejectParse(c *gin.Context, err error) {
	var mismatch *importer.LineCountMismatchError
	if errors.As(err, &mismatch) {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail":  mismatch.Error(),
			"sources": mismatch.Sources,
			"anchors": mismatch.Anchors,
			"targets": mismatch.Targets,
		})
		return
	}
	h.log(c).Debug("Bulk input rejected", infralogger.Error(err))
	detail(c, http.StatusBadRequest, err.Error())
}
