package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foodfriend/backend/internal/types"
)

const (
	uploadField  = "file"
	maxImageSize = 10 << 20
)

// readImage pulls the uploaded photo out of a multipart request. On
// failure the response has already been written.
func readImage(c *gin.Context) ([]byte, string, bool) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			badRequest(c, "missing image file in form field \"file\"")
		} else {
			badRequest(c, "invalid multipart request")
		}
		return nil, "", false
	}
	if header.Size > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: "image exceeds 10MB"})
		return nil, "", false
	}

	f, err := header.Open()
	if err != nil {
		badRequest(c, "unreadable image file")
		return nil, "", false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
	if err != nil || len(data) == 0 {
		badRequest(c, "unreadable image file")
		return nil, "", false
	}
	if len(data) > maxImageSize {
		c.JSON(http.StatusRequestEntityTooLarge, types.ErrorResponse{Error: "image exceeds 10MB"})
		return nil, "", false
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusUnsupportedMediaType, types.ErrorResponse{Error: "file is not an image"})
		return nil, "", false
	}
	return data, contentType, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: msg})
}
