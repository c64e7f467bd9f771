package api

import (
	"errors"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/terraincognita07/freelancer-admin/internal/storage"
)

const uploadsURLPrefix = "/uploads/"

// Only image folders are public. Calendar credentials share the store.
var publicUploadFolders = []string{"logos/", "branding/"}

var errUploadTooLarge = errors.New("upload too large")

// readUpload returns the bytes of a multipart file field, or nil when the
// field was not submitted.
func readUpload(c *fiber.Ctx, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil || header == nil || header.Size == 0 {
		return nil, nil
	}
	if header.Size > maxUploadBytes {
		return nil, errUploadTooLarge
	}
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
}

// storeUploadedImage normalizes an uploaded image into folder and returns its
// public URL. An empty URL means nothing was uploaded.
func (handler *Handler) storeUploadedImage(c *fiber.Ctx, field string, folder string) (string, error) {
	data, err := readUpload(c, field)
	if err != nil || data == nil {
		return "", err
	}
	normalized, err := storage.NormalizeImage(data)
	if err != nil {
		return "", err
	}
	key := storage.NewImageKey(folder)
	if err := handler.uploads.Put(c.UserContext(), key, normalized, "image/png"); err != nil {
		return "", err
	}
	return uploadsURLPrefix + key, nil
}

func (handler *Handler) ServeUpload(c *fiber.Ctx) error {
	key, err := storage.CleanKey(c.Params("*"))
	if err != nil || !isPublicUploadKey(key) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	data, err := handler.uploads.Get(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		handler.logger.Error(c.UserContext(), "read upload failed", "key", key, "error", err)
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	return c.Send(data)
}

func isPublicUploadKey(key string) bool {
	for _, folder := range publicUploadFolders {
		if strings.HasPrefix(key, folder) && len(key) > len(folder) {
			return true
		}
	}
	return false
}
