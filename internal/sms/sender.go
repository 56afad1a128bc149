// nexus-sms - SMS gateway test bench
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Sender is the outbound half of the bench: a single JSON POST, no retries.
type Sender interface {
	Send(ctx context.Context, url string, body any) ([]byte, error)
}

// HTTPSender posts JSON bodies with net/http.
type HTTPSender struct {
	httpClient *http.Client
}

// NewHTTPSender creates an HTTPSender whose requests give up after timeout.
// A zero timeout means no client-side limit.
func NewHTTPSender(timeout time.Duration) *HTTPSender {
	return &HTTPSender{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Send marshals body, POSTs it to url with Content-Type application/json and
// returns the raw response body. It returns a non-nil error when the exchange
// does not complete or the peer answers with a non-2xx status.
func (s *HTTPSender) Send(ctx context.Context, url string, body any) ([]byte, error) {
	buf, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return respBody, fmt.Errorf("%w: %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(respBody))
	}
	return respBody, nil
}
