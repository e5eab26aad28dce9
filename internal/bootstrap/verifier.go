package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrVerificationRejected means the server examined the payload and
// refused it. Not retryable within the same page load.
var ErrVerificationRejected = errors.New("bootstrap: verification rejected")

// HTTPVerifier calls the backend's POST /api/telegram-login endpoint.
type HTTPVerifier struct {
	baseURL string
	client  *http.Client
}

func NewHTTPVerifier(baseURL string, client *http.Client) *HTTPVerifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPVerifier{
		baseURL: baseURL,
		client:  client,
	}
}

type verifyRequest struct {
	InitData string `json:"initData"`
}

type verifyResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Error   string `json:"error"`
}

func (v *HTTPVerifier) Verify(ctx context.Context, initData string) (string, error) {
	body, err := json.Marshal(verifyRequest{InitData: initData})
	if err != nil {
		return "", fmt.Errorf("bootstrap: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		v.baseURL+"/api/telegram-login",
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("bootstrap: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("bootstrap: verify call: %w", err)
	}
	defer resp.Body.Close()

	var decoded verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("bootstrap: decode response: %w", err)
	}

	if !decoded.Success || decoded.Token == "" {
		return "", fmt.Errorf("%w: %s", ErrVerificationRejected, decoded.Error)
	}
	return decoded.Token, nil
}
