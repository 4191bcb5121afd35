package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const sseDataPrefix = "data: "

// streamChat posts body to url and consumes the SSE response line by line,
// invoking onDelta for each non-empty text delta. The accumulated content is
// returned once the stream ends.
func streamChat(ctx context.Context, client *http.Client, url string, header http.Header, body any, requirePrefix bool, onDelta StreamCallback) (*Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ai: failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("ai: failed to create request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			httpReq.Header.Set(k, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("ai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseAPIError(resp)
	}

	var content strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		delta, ok := parseStreamLine(line, requirePrefix)
		if !ok || delta == "" {
			continue
		}
		content.WriteString(delta)
		if onDelta != nil {
			onDelta(delta)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("ai: stream read failed: %w", err)
	}

	return &Response{Content: content.String()}, nil
}

// parseStreamLine extracts the text delta from one SSE line. It returns
// ok=false for terminator lines ([DONE], finish_reason) and anything that is
// not a well-formed delta event.
func parseStreamLine(line string, requirePrefix bool) (string, bool) {
	payload := line
	if requirePrefix {
		if !strings.HasPrefix(line, sseDataPrefix) {
			return "", false
		}
		payload = line[len(sseDataPrefix):]
	} else {
		payload = strings.TrimPrefix(payload, sseDataPrefix)
	}
	if payload == "[DONE]" {
		return "", false
	}

	var event struct {
		Choices []struct {
			FinishReason *string `json:"finish_reason"`
			Delta        struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return "", false
	}
	if len(event.Choices) == 0 {
		return "", false
	}
	if event.Choices[0].FinishReason != nil {
		return "", false
	}
	return event.Choices[0].Delta.Content, true
}

func parseAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	msg := "unknown error"
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
