package upload

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mcdev12/tplauction/go/clients"
)

// MaxImageBytes is the largest accepted upload, 5 MB.
const MaxImageBytes = 5 * 1024 * 1024

var (
	ErrNotImage = errors.New("Please select a valid image file")
	ErrTooLarge = errors.New("Image must be less than 5MB")
)

// Image is a picked file waiting to be submitted with a form.
type Image struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// NewImage validates a picked file. An empty contentType is sniffed from the
// data. The returned error text is operator-facing.
func NewImage(fileName, contentType string, data []byte) (*Image, error) {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, ErrNotImage
	}
	if len(data) > MaxImageBytes {
		return nil, ErrTooLarge
	}

	return &Image{
		FileName:    fileName,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// PreviewDataURL renders the image inline for display only.
func (i *Image) PreviewDataURL() string {
	if i == nil {
		return ""
	}
	return fmt.Sprintf("data:%s;base64,%s", i.ContentType, base64.StdEncoding.EncodeToString(i.Data))
}

// FormFile converts the image into a multipart part. The field name is
// filled in by the client method that owns the endpoint.
func (i *Image) FormFile() *clients.FormFile {
	if i == nil {
		return nil
	}
	return &clients.FormFile{
		FileName:    i.FileName,
		ContentType: i.ContentType,
		Data:        i.Data,
	}
}
