package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taxpadi/internal/service"
)

// FileHandler maneja la subida de adjuntos a una conversación.
type FileHandler struct {
	logger   *zap.Logger
	fileServ *service.FileService
	convServ *service.ConversationService
}

func NewFileHandler(logger *zap.Logger, fileServ *service.FileService, convServ *service.ConversationService) *FileHandler {
	return &FileHandler{
		logger:   logger,
		fileServ: fileServ,
		convServ: convServ,
	}
}

// Upload maneja POST /conversations/:id/upload con multipart field "file".
func (h *FileHandler) Upload(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	// La conversación debe existir y ser del usuario antes de tocar disco.
	if _, err := h.convServ.Get(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		switch {
		case errors.Is(err, service.ErrConversationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "conversation not found"})
		case errors.Is(err, service.ErrConversationForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "conversation belongs to another user"})
		default:
			h.logger.Error("get conversation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	uploaded, err := h.fileServ.Save(
		claims.UserID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		fileHeader.Size,
		f,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file size exceeds 10MB"})
		case errors.Is(err, service.ErrFileTypeNotAllowed):
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "file type is not allowed"})
		default:
			h.logger.Error("save file failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save file"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"file": uploaded})
}
