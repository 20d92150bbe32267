// ABOUTME: Client for the chat collaborator streaming assistant replies
// ABOUTME: Sends the full history plus reading context and relays deltas as they arrive

package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"studyflow-api/core/errors"
	"studyflow-api/core/interfaces"
)

// Client calls the chat service
type Client struct {
	http     interfaces.HTTPClient
	endpoint string
	logger   interfaces.Logger
}

// NewClient creates a chat service client for endpoint
func NewClient(http interfaces.HTTPClient, endpoint string, logger interfaces.Logger) *Client {
	return &Client{http: http, endpoint: endpoint, logger: logger}
}

// Stream sends req and calls onDelta for each content chunk. It returns the
// complete reply once the stream ends.
func (c *Client) Stream(ctx context.Context, req interfaces.ChatRequest, onDelta func(delta string)) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	start := time.Now()
	resp, err := c.http.Post(ctx, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.WrapError(err, "chat request failed")
	}
	defer resp.Body().Close()

	if resp.StatusCode() >= 400 {
		return "", &errors.ExternalAPIError{API: "chat", StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
	}

	var reply strings.Builder
	decoder := NewDecoder(resp.Body())
	for {
		delta, err := decoder.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return reply.String(), ctxErr
			}
			return reply.String(), errors.WrapError(err, "chat stream interrupted")
		}
		reply.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}

	c.logger.Debug("Chat reply streamed", map[string]interface{}{
		"messages": len(req.Messages),
		"length":   reply.Len(),
		"duration": time.Since(start).String(),
	})
	return reply.String(), nil
}

func errorMessage(resp interfaces.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body()).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return fmt.Sprintf("Request failed: %d", resp.StatusCode())
}
