package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AnweshaPanigrahi/File-integrity/internal/monitor"
)

// recentChangeCount is how many watcher events a changes report includes
const recentChangeCount = 10

// RegisterDirectory handles POST /api/directories
func (h *Handler) RegisterDirectory(c *gin.Context) {
	var req struct {
		Path string `json:"path" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	dir, err := h.Registry.Register(req.Path)
	switch {
	case errors.Is(err, monitor.ErrNotADirectory):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid directory path"})
		return
	case errors.Is(err, monitor.ErrAlreadyRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": "Directory already registered"})
		return
	case err != nil:
		h.Logger.Error("failed to register directory", zap.String("path", req.Path), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register directory"})
		return
	}

	if h.Watcher != nil {
		if err := h.Watcher.Watch(dir.Path); err != nil {
			h.Logger.Warn("failed to watch directory", zap.String("path", dir.Path), zap.Error(err))
		}
	}

	h.Logger.Info("registered directory",
		zap.String("path", dir.Path),
		zap.Int("files_registered", dir.FilesRegistered))

	c.JSON(http.StatusCreated, dir)
}

// DirectoryChanges handles GET /api/directories/:name/changes
func (h *Handler) DirectoryChanges(c *gin.Context) {
	changes, err := h.Registry.Rescan(c.Param("name"))
	if err != nil {
		if errors.Is(err, monitor.ErrNotRegistered) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Directory not registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rescan directory"})
		return
	}

	var recent []string
	if h.Changes != nil {
		recent = h.Changes.Recent(recentChangeCount)
	}

	c.JSON(http.StatusOK, gin.H{
		"directory":      changes.Directory,
		"added":          changes.Added,
		"deleted":        changes.Deleted,
		"modified":       changes.Modified,
		"recent_changes": recent,
	})
}

// ListDirectoryFiles handles GET /api/directories/:name/files
func (h *Handler) ListDirectoryFiles(c *gin.Context) {
	dirPath, files, err := h.Registry.ListFiles(c.Param("name"))
	if err != nil {
		if errors.Is(err, monitor.ErrNotRegistered) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Directory not registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"directory":   dirPath,
		"total_files": len(files),
		"files":       files,
	})
}

// UnregisterDirectory handles DELETE /api/directories/:name
func (h *Handler) UnregisterDirectory(c *gin.Context) {
	path, err := h.Registry.Unregister(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Directory not registered"})
		return
	}

	if h.Watcher != nil {
		h.Watcher.Unwatch(path)
	}

	c.Status(http.StatusNoContent)
}
