package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"yttmp3/types"
)

// Client represents the yttmp3 API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		baseURL: baseURL,
		// Conversions can take minutes; the download call blocks for the
		// whole pipeline.
		httpClient: &http.Client{Timeout: 20 * time.Minute},
	}
}

// GetEnvOrDefault returns the value of an environment variable or a default value
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// FetchInfo requests metadata for a YouTube URL.
func (c *Client) FetchInfo(url string) (*types.VideoInfo, error) {
	payload, _ := json.Marshal(map[string]string{"url": url})

	resp, err := c.httpClient.Post(c.baseURL+"/api/video-info", "application/json", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp)
	}

	var info types.VideoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode video info: %w", err)
	}
	return &info, nil
}

// Download converts the video and saves the MP3 into destDir, returning the
// saved path and size.
func (c *Client) Download(url, title, signature, destDir string) (string, int64, error) {
	payload, _ := json.Marshal(map[string]string{
		"url":       url,
		"title":     title,
		"signature": signature,
	})

	resp, err := c.httpClient.Post(c.baseURL+"/api/download", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, apiError(resp)
	}

	name := strings.ReplaceAll(title, "/", "-")
	if name == "" {
		name = "audio"
	}
	path := destDir + "/" + name + ".mp3"

	out, err := os.Create(path)
	if err != nil {
		return "", 0, err
	}
	defer out.Close()

	size, err := io.Copy(out, resp.Body)
	if err != nil {
		return "", 0, err
	}
	return path, size, nil
}

// Progress polls conversion progress for a video ID. known is false until the
// server has recorded any progress for it.
func (c *Client) Progress(videoID string) (percent int, known bool, err error) {
	resp, err := c.httpClient.Get(c.baseURL + "/api/progress/" + videoID)
	if err != nil {
		return 0, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return 0, false, apiError(resp)
	}

	var body struct {
		Progress int `json:"progress"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, false, fmt.Errorf("failed to decode progress: %w", err)
	}
	return body.Progress, true, nil
}

// apiError extracts the error field from a JSON error response.
func apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return fmt.Errorf("%s (status %d)", body.Error, resp.StatusCode)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
