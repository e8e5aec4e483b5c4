package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/abhisek/studyforge/internal/study"
)

// UploadRequest is a syllabus document to upload.
type UploadRequest struct {
	FileName    string
	File        io.Reader
	Title       string
	Description string
}

// maxUploadBytes matches the backend's multipart limit.
const maxUploadBytes = 10 << 20

// Upload sends a syllabus document for the signed-in user.
func (c *Client) Upload(ctx context.Context, req UploadRequest) (study.Syllabus, error) {
	userID, err := c.userID()
	if err != nil {
		return study.Syllabus{}, err
	}
	if strings.TrimSpace(req.Title) == "" {
		req.Title = strings.TrimSuffix(filepath.Base(req.FileName), filepath.Ext(req.FileName))
	}

	body, contentType, err := encodeUpload(req, userID)
	if err != nil {
		return study.Syllabus{}, fmt.Errorf("encode upload: %w", err)
	}

	var out study.Syllabus
	err = c.send(ctx, call{
		method:      http.MethodPost,
		path:        "/syllabi/upload",
		raw:         body,
		contentType: contentType,
		schema:      syllabusSchema,
		out:         &out,
	})
	return out, err
}

// UploadFile uploads the document at path.
func (c *Client) UploadFile(ctx context.Context, path, title, description string) (study.Syllabus, error) {
	f, err := os.Open(path)
	if err != nil {
		return study.Syllabus{}, err
	}
	defer f.Close()
	return c.Upload(ctx, UploadRequest{FileName: path, File: f, Title: title, Description: description})
}

func encodeUpload(req UploadRequest, userID int64) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", filepath.Base(req.FileName))
	if err != nil {
		return nil, "", err
	}
	n, err := io.Copy(part, io.LimitReader(req.File, maxUploadBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", req.FileName, err)
	}
	if n > maxUploadBytes {
		return nil, "", fmt.Errorf("%s is larger than %d MB", req.FileName, maxUploadBytes>>20)
	}

	fields := [][2]string{
		{"title", req.Title},
		{"description", req.Description},
		{"userId", strconv.FormatInt(userID, 10)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

// DocumentTypeFor guesses the backend document type from a file name.
func DocumentTypeFor(name string) study.DocumentType {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return study.DocumentPDF
	case ".doc", ".docx":
		return study.DocumentWord
	case ".txt", ".md":
		return study.DocumentText
	default:
		return study.DocumentOther
	}
}
