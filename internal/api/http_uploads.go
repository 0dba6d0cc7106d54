package api

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"leilao/internal/storage"
)

// 5 MiB per banner upload.
const maxUploadBytes = 5 << 20

var allowedImageExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"svg":  true,
}

// UploadBanner accepts a multipart image upload and stores it in the
// configured backend. The returned path goes into the banner/logo fields of
// campaigns, items and settings.
func (h *HTTPHandler) UploadBanner(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "Arquivo não fornecido!")
		return
	}
	if fileHeader.Size <= 0 || fileHeader.Size > maxUploadBytes {
		BadRequest(c, "Arquivo deve ter entre 1 byte e 5MB!")
		return
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	if !allowedImageExtensions[ext] {
		BadRequest(c, "Formato de imagem não suportado!")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("open upload failed")
		InternalError(c)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		logrus.WithError(err).Error("read upload failed")
		InternalError(c)
		return
	}
	if len(data) > maxUploadBytes {
		BadRequest(c, "Arquivo deve ter entre 1 byte e 5MB!")
		return
	}

	category := storage.SanitizeToken(c.DefaultPostForm("categoria", "banners"))
	if category == "" {
		category = "banners"
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	path, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  category,
		Extension: ext,
	})
	if err != nil {
		logrus.WithError(err).Error("store upload failed")
		InternalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"path": path,
		"url":  h.publicURL(path),
	})
}
