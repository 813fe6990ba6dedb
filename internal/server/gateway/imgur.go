package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/ndenisov/imgvault/internal/common"
)

// ImgurHost uploads to an Imgur-style API: multipart POST authenticated with
// a Client-ID header, delete by appending the delete hash to the delete URL.
type ImgurHost struct {
	uploadURL  string
	deleteURL  string
	clientID   string
	httpClient *http.Client
}

// NewImgurHost builds an ImgurHost. The timeout bounds every outbound call;
// it must be finite.
func NewImgurHost(uploadURL, deleteURL, clientID string, timeout time.Duration) *ImgurHost {
	return &ImgurHost{
		uploadURL:  uploadURL,
		deleteURL:  deleteURL,
		clientID:   clientID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// imgurResponse mirrors the host's JSON envelope.
type imgurResponse struct {
	Success bool `json:"success"`
	Status  int  `json:"status"`
	Data    struct {
		Link       string `json:"link"`
		DeleteHash string `json:"deletehash"`
	} `json:"data"`
}

func (h *ImgurHost) Upload(ctx context.Context, content []byte) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("image", "image")
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.uploadURL, &body)
	if err != nil {
		return nil, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+h.clientID)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: host returned status %d", common.ErrUploadFailed, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", common.ErrUploadFailed, err)
	}

	var parsed imgurResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", common.ErrUploadFailed, err)
	}
	if !parsed.Success || parsed.Data.Link == "" || parsed.Data.DeleteHash == "" {
		return nil, fmt.Errorf("%w: rejected by host (status %d)", common.ErrUploadFailed, parsed.Status)
	}

	return &UploadResult{URL: parsed.Data.Link, DeleteHash: parsed.Data.DeleteHash}, nil
}

func (h *ImgurHost) Delete(ctx context.Context, deleteHash string) error {
	url := h.deleteURL
	if !strings.HasSuffix(url, "/") {
		url += "/"
	}
	url += deleteHash

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("building delete request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+h.clientID)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDeleteFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: host returned status %d", common.ErrDeleteFailed, resp.StatusCode)
	}

	return nil
}
