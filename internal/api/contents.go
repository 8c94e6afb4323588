package api

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// FileContent is the contents API representation of a single file.
type FileContent struct {
	Type     string `json:"type"`
	Encoding string `json:"encoding"`
	Size     int    `json:"size"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Content  string `json:"content"`
	SHA      string `json:"sha"`
}

// Decode returns the raw file bytes.
func (f FileContent) Decode() ([]byte, error) {
	switch f.Encoding {
	case "base64":
		// GitHub wraps base64 payloads at 60 columns.
		data, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(f.Content, "\n", ""))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Path, err)
		}
		return data, nil
	case "", "utf-8":
		return []byte(f.Content), nil
	default:
		return nil, fmt.Errorf("decode %s: unsupported encoding %q", f.Path, f.Encoding)
	}
}

func contentsPath(path, ref string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	p := "contents/" + strings.Join(segments, "/")
	if ref != "" {
		p += "?ref=" + url.QueryEscape(ref)
	}
	return p
}

func (c *Client) GetContent(ctx context.Context, path, ref string) (*FileContent, error) {
	var fc FileContent
	if err := c.Get(ctx, contentsPath(path, ref), &fc); err != nil {
		return nil, fmt.Errorf("get %s from %s: %w", path, c.RepoNWO(), err)
	}
	if fc.Type != "" && fc.Type != "file" {
		return nil, fmt.Errorf("get %s from %s: not a file (%s)", path, c.RepoNWO(), fc.Type)
	}
	return &fc, nil
}

// FetchFile downloads and decodes a file at ref ("" for the default branch).
func (c *Client) FetchFile(ctx context.Context, path, ref string) ([]byte, error) {
	fc, err := c.GetContent(ctx, path, ref)
	if err != nil {
		return nil, err
	}
	return fc.Decode()
}
