package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"docverify/internal/domain"
)

func init() {
	// Keep pdfcpu from writing a config directory under $HOME.
	api.DisableConfigDir()
}

// inspectedUpload is what the service learns about an upload before extraction.
type inspectedUpload struct {
	FileType    domain.FileType
	ContentType string
	PageCount   int
}

// inspectUpload checks the extension, size and sniffed content of an
// upload. PDFs must parse and report a page count.
func inspectUpload(name string, data []byte, maxBytes int64) (*inspectedUpload, error) {
	if _, err := domain.FileTypeFromName(name); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, &domain.ValidationError{Field: "file", Reason: "file is empty", Err: domain.ErrEmptyFile}
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, &domain.ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("file exceeds maximum size of %d MB", maxBytes/(1024*1024)),
			Err:    domain.ErrFileTooLarge,
		}
	}

	detected := http.DetectContentType(data)
	fileType, ok := domain.AllowedContentTypes[detected]
	if !ok {
		return nil, &domain.ValidationError{
			Field:  "file",
			Reason: "file content is not a PNG, JPEG or PDF document",
			Err:    domain.ErrUnsupportedFileType,
		}
	}

	out := &inspectedUpload{FileType: fileType, ContentType: detected, PageCount: 1}
	if fileType == domain.FileTypePDF {
		pages, err := pdfPageCount(data)
		if err != nil || pages == 0 {
			return nil, &domain.ValidationError{Field: "file", Reason: "could not read PDF document", Err: domain.ErrUnreadablePDF}
		}
		out.PageCount = pages
	}
	return out, nil
}

func pdfPageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return api.PageCount(bytes.NewReader(data), conf)
}

func dataURL(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// objectKey is the storage key of a document's original upload.
func objectKey(docID, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "upload"
	}
	return fmt.Sprintf("documents/%s/%s", docID, name)
}
