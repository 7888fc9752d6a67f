package handler

import (
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/CageChen/folderindex/internal/config"
	mfs "github.com/CageChen/folderindex/internal/fs"
	"github.com/CageChen/folderindex/internal/index"
	"github.com/gin-gonic/gin"
)

// FolderHandler handles folder management API requests and owns the
// configuration shared with the index endpoints.
type FolderHandler struct {
	cfg       *config.Config
	mu        sync.RWMutex
	onAdded   []func(config.Folder)
	onRemoved []func(config.Folder)
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(cfg *config.Config) *FolderHandler {
	return &FolderHandler{cfg: cfg}
}

// OnFolderAdded registers a callback run after a folder has been added and
// the configuration saved.
func (h *FolderHandler) OnFolderAdded(cb func(config.Folder)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onAdded = append(h.onAdded, cb)
}

// OnFolderRemoved registers a callback run after a folder has been removed
// and the configuration saved.
func (h *FolderHandler) OnFolderRemoved(cb func(config.Folder)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRemoved = append(h.onRemoved, cb)
}

// fsForFolder returns the appropriate FileSystem for a folder config.
func fsForFolder(folder config.Folder) mfs.FileSystem {
	if folder.GitRef != "" {
		return mfs.NewGitFS(folder.Path, folder.GitRef)
	}
	return mfs.NewLocalFS(folder.Path)
}

// lookup returns the folder registered under alias together with a copy of
// the indexer settings.
func (h *FolderHandler) lookup(alias string) (config.Folder, index.Settings, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	folder, ok := h.cfg.FolderByAlias(alias)
	return folder, h.cfg.Indexer, ok
}

// first returns the first configured folder.
func (h *FolderHandler) first() (config.Folder, index.Settings, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.cfg.Folders) == 0 {
		return config.Folder{}, h.cfg.Indexer, false
	}
	return h.cfg.Folders[0], h.cfg.Indexer, true
}

func (h *FolderHandler) folders() []config.Folder {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]config.Folder{}, h.cfg.Folders...)
}

// GetFolders returns the list of configured folders
func (h *FolderHandler) GetFolders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"folders": h.folders(),
	})
}

// AddFolderRequest represents a request to add a folder
type AddFolderRequest struct {
	Path   string `json:"path" binding:"required"`
	Alias  string `json:"alias"`
	GitRef string `json:"git_ref"`
}

// AddFolder adds a new folder to the configuration
func (h *FolderHandler) AddFolder(c *gin.Context) {
	var req AddFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "path is required",
		})
		return
	}

	// The path must be a directory on disk even for git_ref folders
	info, err := os.Stat(req.Path)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "path does not exist: " + req.Path,
		})
		return
	}
	if !info.IsDir() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "path is not a directory",
		})
		return
	}

	if req.GitRef != "" {
		fs := fsForFolder(config.Folder{Path: req.Path, GitRef: req.GitRef})
		if _, err := fs.Stat(""); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid git ref: " + req.GitRef,
			})
			return
		}
	}

	h.mu.Lock()
	if err := h.cfg.AddFolder(req.Path, req.Alias, req.GitRef); err != nil {
		h.mu.Unlock()
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrDuplicateAlias) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	if err := h.cfg.Save(); err != nil {
		h.mu.Unlock()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to save config: " + err.Error(),
		})
		return
	}
	added := h.cfg.Folders[len(h.cfg.Folders)-1]
	folders := append([]config.Folder{}, h.cfg.Folders...)
	callbacks := append([]func(config.Folder){}, h.onAdded...)
	h.mu.Unlock()

	for _, cb := range callbacks {
		cb(added)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "folder added",
		"folders": folders,
	})
}

// RemoveFolderRequest represents a request to remove a folder, by alias when
// given and by index otherwise
type RemoveFolderRequest struct {
	Index *int   `json:"index"`
	Alias string `json:"alias"`
}

// RemoveFolder removes a folder from the configuration
func (h *FolderHandler) RemoveFolder(c *gin.Context) {
	var req RemoveFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.Index == nil && req.Alias == "") {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "index or alias is required",
		})
		return
	}

	h.mu.Lock()
	i := -1
	if req.Alias != "" {
		for j, f := range h.cfg.Folders {
			if f.Alias == req.Alias {
				i = j
				break
			}
		}
	} else {
		i = *req.Index
	}
	if i < 0 || i >= len(h.cfg.Folders) {
		h.mu.Unlock()
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid folder index",
		})
		return
	}

	removed := h.cfg.Folders[i]
	h.cfg.RemoveFolderByIndex(i)

	if err := h.cfg.Save(); err != nil {
		h.mu.Unlock()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to save config: " + err.Error(),
		})
		return
	}
	folders := append([]config.Folder{}, h.cfg.Folders...)
	callbacks := append([]func(config.Folder){}, h.onRemoved...)
	h.mu.Unlock()

	for _, cb := range callbacks {
		cb(removed)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "folder removed",
		"folders": folders,
	})
}
