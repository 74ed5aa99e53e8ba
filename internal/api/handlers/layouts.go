package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/tablegeom/internal/authoring"
	"github.com/playmatatu/tablegeom/internal/models"
)

// LayoutService is what the layout handlers need; *layout.Service implements it.
type LayoutService interface {
	UploadBinary(ctx context.Context, name string, blob []byte, by string) (*models.TableLayout, error)
	UploadAuthoring(ctx context.Context, name string, rec *authoring.TableRecord, by string) (*models.TableLayout, error)
	View(ctx context.Context, name string) ([]byte, error)
	Get(ctx context.Context, name string) (*models.TableLayout, error)
	List(ctx context.Context) ([]models.LayoutSummary, error)
	Delete(ctx context.Context, name string) error
	Authoring(ctx context.Context, name string) (*authoring.TableRecord, error)
}

// UploadLayout stores a layout under :name. The body is either a binary
// layout (application/octet-stream) or an authoring document in JSON or
// YAML, which is built and encoded first.
func UploadLayout(svc LayoutService, maxBytes int) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		by := c.GetString("admin")

		body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, int64(maxBytes)))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "layout exceeds size limit"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}

		var saved *models.TableLayout
		switch c.ContentType() {
		case "application/octet-stream":
			saved, err = svc.UploadBinary(c.Request.Context(), name, body, by)
		case "application/json":
			rec, perr := authoring.ParseJSON(body)
			if perr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
				return
			}
			saved, err = svc.UploadAuthoring(c.Request.Context(), name, rec, by)
		case "application/x-yaml", "application/yaml", "text/yaml":
			rec, perr := authoring.ParseYAML(body)
			if perr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": perr.Error()})
				return
			}
			saved, err = svc.UploadAuthoring(c.Request.Context(), name, rec, by)
		default:
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "unsupported content type"})
			return
		}
		if err != nil {
			respondError(c, "upload "+name, err)
			return
		}

		c.Header("ETag", strconv.Quote(saved.Checksum))
		c.Header("X-Layout-Checksum", saved.Checksum)
		c.JSON(http.StatusCreated, saved)
	}
}

// ListLayouts returns every stored layout without blobs.
func ListLayouts(svc LayoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, "list", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"layouts": list})
	}
}

// GetLayoutView returns the decoded layout as JSON.
func GetLayoutView(svc LayoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.View(c.Request.Context(), c.Param("name"))
		if err != nil {
			respondError(c, "view "+c.Param("name"), err)
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", view)
	}
}

// GetLayoutBlob returns the stored binary layout. The checksum is the ETag.
func GetLayoutBlob(svc LayoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		row, err := svc.Get(c.Request.Context(), c.Param("name"))
		if err != nil {
			respondError(c, "blob "+c.Param("name"), err)
			return
		}

		etag := strconv.Quote(row.Checksum)
		c.Header("ETag", etag)
		c.Header("X-Layout-Checksum", row.Checksum)
		if c.GetHeader("If-None-Match") == etag {
			c.Status(http.StatusNotModified)
			return
		}
		c.Data(http.StatusOK, "application/octet-stream", row.Blob)
	}
}

// GetLayoutAuthoring returns the authoring document, as YAML when
// ?format=yaml is given.
func GetLayoutAuthoring(svc LayoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := svc.Authoring(c.Request.Context(), c.Param("name"))
		if err != nil {
			respondError(c, "authoring "+c.Param("name"), err)
			return
		}
		if c.Query("format") == "yaml" {
			c.Header("Content-Type", "application/x-yaml")
			c.Status(http.StatusOK)
			if err := authoring.WriteYAML(c.Writer, rec); err != nil {
				respondError(c, "authoring yaml", err)
			}
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

// DeleteLayout removes :name.
func DeleteLayout(svc LayoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("name")); err != nil {
			respondError(c, "delete "+c.Param("name"), err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
