// Package handler provides HTTP handlers for the FolderIndex REST API.
package handler

import (
	"errors"
	"log"
	"mime"
	"net/http"
	"os"

	"github.com/CageChen/folderindex/internal/config"
	"github.com/CageChen/folderindex/internal/index"
	"github.com/gin-gonic/gin"
)

// IndexHandler renders indexes of the configured folders
type IndexHandler struct {
	folders *FolderHandler
}

// NewIndexHandler creates a new index handler resolving aliases through
// folders
func NewIndexHandler(folders *FolderHandler) *IndexHandler {
	return &IndexHandler{folders: folders}
}

// GetHome renders the HTML index of the first configured folder. Served
// pages reload themselves when the folder changes.
func (h *IndexHandler) GetHome(c *gin.Context) {
	folder, settings, ok := h.folders.first()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "no folders configured",
		})
		return
	}
	settings.Output = index.OutputHTML
	settings.LiveReloadAlias = folder.Alias
	h.render(c, folder, settings)
}

// GetPage renders the HTML index of the folder named by the alias parameter
func (h *IndexHandler) GetPage(c *gin.Context) {
	folder, settings, ok := h.folders.lookup(c.Param("alias"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "folder not found",
		})
		return
	}
	settings.Output = index.OutputHTML
	settings.LiveReloadAlias = folder.Alias
	h.render(c, folder, settings)
}

// GetIndex returns the index of a folder in the format given by the format
// query parameter, or the configured output when it is absent. With
// download=1 the index is sent as an attachment.
func (h *IndexHandler) GetIndex(c *gin.Context) {
	folder, settings, ok := h.folders.lookup(c.Param("alias"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "folder not found",
		})
		return
	}

	if format := c.Query("format"); format != "" {
		output, err := index.ParseOutput(format)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		settings.Output = output
	}

	if c.Query("download") == "1" {
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": folder.Alias + settings.Output.Extension(),
		}))
	}
	h.render(c, folder, settings)
}

func (h *IndexHandler) render(c *gin.Context, folder config.Folder, settings index.Settings) {
	out, err := index.Index(c.Request.Context(), fsForFolder(folder), "", settings)
	if err != nil {
		log.Printf("Warning: failed to index %s: %v", folder.Alias, err)
		c.JSON(indexErrorStatus(err), gin.H{
			"error": err.Error(),
		})
		return
	}
	c.Data(http.StatusOK, settings.Output.ContentType(), []byte(out))
}

func indexErrorStatus(err error) int {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, os.ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, index.ErrNotDirectory), errors.Is(err, index.ErrUnknownOutput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
