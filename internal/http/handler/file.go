package handler

import (
	"errors"
	"mime/multipart"
	"net/url"
	"path"

	"github.com/gofiber/fiber/v2"

	"fingerprintapi/internal/service"
)

type base64UploadRequest struct {
	Base64Data  string `json:"base64_data"`
	FileName    string `json:"file_name"`
	ImageFormat string `json:"image_format"`
}

// UploadFile stores one multipart file (form field "file") and returns its
// stored path reference.
//
// @Summary      Upload file
// @Tags         file
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "file to store"
// @Success      200 {object} map[string]any
// @Failure      400 {object} errorPayload
// @Router       /file [post]
func UploadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "form field 'file' is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to read uploaded file")
		}
		defer f.Close()

		ref, err := svc.Store(c.UserContext(), f, fh.Filename, fh.Size)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to store file")
		}

		return c.JSON(fiber.Map{"path": ref})
	}
}

// UploadFiles stores a multipart batch (form field "files") and returns the
// stored path references in input order.
//
// @Summary      Upload multiple files
// @Tags         file
// @Accept       multipart/form-data
// @Produce      json
// @Param        files formData file true "files to store"
// @Success      200 {object} map[string]any
// @Failure      400 {object} errorPayload
// @Router       /file/multi [post]
func UploadFiles(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "multipart form expected")
		}

		headers := form.File["files"]
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "form field 'files' is required")
		}

		uploads := make([]service.Upload, 0, len(headers))
		opened := make([]multipart.File, 0, len(headers))
		defer func() {
			for _, f := range opened {
				f.Close()
			}
		}()
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to read uploaded file")
			}
			opened = append(opened, f)
			uploads = append(uploads, service.Upload{
				Reader:   f,
				Filename: fh.Filename,
				Size:     fh.Size,
			})
		}

		refs, err := svc.StoreBatch(c.UserContext(), uploads)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to store files")
		}

		return c.JSON(fiber.Map{"paths": refs})
	}
}

// UploadBase64 decodes a base64 payload and stores it as an image file.
//
// @Summary      Upload base64 image
// @Tags         file
// @Accept       json
// @Produce      json
// @Param        request body base64UploadRequest true "base64 payload"
// @Success      200 {object} map[string]any
// @Failure      400 {object} errorPayload
// @Router       /file/base64 [post]
func UploadBase64(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req base64UploadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "malformed request body")
		}
		if req.Base64Data == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION", "base64_data is required")
		}
		if req.FileName == "" {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION", "file_name is required")
		}

		ref, err := svc.StoreBase64(c.UserContext(), req.Base64Data, req.FileName, req.ImageFormat)
		if err != nil {
			if errors.Is(err, service.ErrInvalidBase64) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BASE64", "base64_data is not valid base64")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to store image")
		}

		return c.JSON(fiber.Map{
			"message":  "File uploaded successfully",
			"filePath": ref,
			"fileName": path.Base(ref),
		})
	}
}

// DownloadFile streams a stored file back by its stored name.
//
// @Summary      Download file
// @Tags         file
// @Produce      octet-stream
// @Param        fileName path string true "stored file name"
// @Success      200 {file} binary
// @Failure      404 {object} errorPayload
// @Router       /file/download/{fileName} [get]
func DownloadFile(svc service.FileService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileName, err := url.PathUnescape(c.Params("fileName"))
		if err != nil || fileName == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_NAME", "file name is required")
		}

		rc, contentType, err := svc.Retrieve(c.UserContext(), fileName)
		if err != nil {
			if errors.Is(err, service.ErrFileNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "file not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "failed to retrieve file")
		}

		c.Set(fiber.HeaderContentType, contentType)
		return c.SendStream(rc)
	}
}
