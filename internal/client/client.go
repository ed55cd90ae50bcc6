// Package client talks to a docver server over HTTP: multipart uploads,
// listings and votes.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jpl-au/docver/internal/metadata"
	"github.com/jpl-au/docver/internal/store"
)

// DefaultChangeDescription is sent when neither the caller nor the metadata
// file provides one.
const DefaultChangeDescription = "Uploaded via client script"

// ErrNoDocID is returned when the metadata file has no doc_id.
var ErrNoDocID = errors.New("metadata must contain a 'doc_id' field")

// Client is a docver HTTP client.
type Client struct {
	base string
	http *http.Client
}

// New returns a client for the server at base (e.g. http://localhost:5000).
func New(base string) *Client {
	return &Client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: 5 * time.Minute},
	}
}

// Options describes one upload.
type Options struct {
	PDF               string   // path of the primary file
	HTML              []string // paths of HTML renditions
	MetadataFile      string   // JSON object with at least doc_id
	ChangeDescription string   // overrides the metadata's change_description
}

// UploadResponse is the server's reply to a successful upload.
type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	DocID   string `json:"doc_id"`
	Version int    `json:"version"`
}

// Error is a non-2xx response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// ReadMetadata reads a metadata file. It must be a JSON object with a
// non-empty doc_id.
func ReadMetadata(path string) (metadata.Metadata, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read metadata: %w", err)
	}
	md, err := metadata.Parse(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	docID, ok := md.DocID()
	if !ok {
		return nil, "", fmt.Errorf("%s: %w", path, ErrNoDocID)
	}
	return md, docID, nil
}

// Upload posts the files in opts to /upload.
func (c *Client) Upload(ctx context.Context, opts Options) (UploadResponse, error) {
	var res UploadResponse

	md, docID, err := ReadMetadata(opts.MetadataFile)
	if err != nil {
		return res, err
	}
	change := opts.ChangeDescription
	if change == "" {
		change, _ = md["change_description"].(string)
	}
	if change == "" {
		change = DefaultChangeDescription
	}
	enc, err := metadata.Encode(md)
	if err != nil {
		return res, err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"doc_id":             docID,
		"metadata":           enc,
		"change_description": change,
	} {
		if err := w.WriteField(k, v); err != nil {
			return res, err
		}
	}
	if err := attach(w, "file", opts.PDF); err != nil {
		return res, err
	}
	for _, h := range opts.HTML {
		if err := attach(w, "html_files", h); err != nil {
			return res, err
		}
	}
	if err := w.Close(); err != nil {
		return res, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/upload", &body)
	if err != nil {
		return res, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	err = c.do(req, &res)
	return res, err
}

func attach(w *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	fw, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// Documents lists every document on the server.
func (c *Client) Documents(ctx context.Context) ([]store.DocumentView, error) {
	var docs []store.DocumentView
	err := c.get(ctx, "/documents", &docs)
	return docs, err
}

// Search runs a substring search on the server.
func (c *Client) Search(ctx context.Context, q string) ([]store.DocumentView, error) {
	var docs []store.DocumentView
	err := c.get(ctx, "/search?q="+url.QueryEscape(q), &docs)
	return docs, err
}

// VoteCounts returns the server's vote aggregates.
func (c *Client) VoteCounts(ctx context.Context) ([]store.VoteCount, error) {
	var counts []store.VoteCount
	err := c.get(ctx, "/vote_counts", &counts)
	return counts, err
}

// Vote casts a vote. The server records the caller's address as voter.
func (c *Client) Vote(ctx context.Context, docID string, version int, voteType string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"doc_id":    docID,
		"version":   version,
		"vote_type": voteType,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/vote", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var res struct {
		Message string `json:"message"`
	}
	err = c.do(req, &res)
	return res.Message, err
}

// DeleteVersion deletes one version on the server.
func (c *Client) DeleteVersion(ctx context.Context, docID string, version int) (string, error) {
	u := c.base + "/documents/" + url.PathEscape(docID) + "/versions/" + strconv.Itoa(version)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return "", err
	}
	var res struct {
		Message string `json:"message"`
	}
	err = c.do(req, &res)
	return res.Message, err
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, v)
}

// do sends req and decodes a 2xx JSON body into v. Other statuses become
// *Error carrying the server's "error" field.
func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(data))
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
