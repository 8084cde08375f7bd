package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

type apiError struct {
	Error string `json:"error"`
}

// call sends a request to the server and returns the response body. Non-2xx
// responses become errors carrying the server's message.
func call(method, endpoint, contentType string, body io.Reader) (*http.Response, []byte, error) {
	req, err := http.NewRequest(method, strings.TrimRight(host, "/")+endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 300 {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error != "" {
			return resp, raw, fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return resp, raw, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return resp, raw, nil
}

func getJSON(endpoint string, v any) error {
	_, raw, err := call(http.MethodGet, endpoint, "", nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}
