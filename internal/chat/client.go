// Copyright (c) 2025 qiaoxue
// BridgeLab - bridge engineering classroom backend
// This source code is licensed under the MIT license found in the LICENSE file.

// package chat talks to a Coze v3 chat bot and falls back to canned
// bridge-engineering answers when the bot is not configured or fails.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/qiaoxue/bridgelab/internal/config"
	"github.com/qiaoxue/bridgelab/internal/logging"
)

const (
	pollInterval = 500 * time.Millisecond
	askTimeout   = 30 * time.Second
)

// Client drives the asynchronous v3 chat flow: create a chat, poll its
// status until completion, then fetch the assistant's answer.
type Client struct {
	apiKey  string
	botID   string
	baseURL string
	http    *http.Client
}

// NewClient builds a client from the chat configuration.
func NewClient(cfg config.Chat) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		botID:   cfg.BotID,
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.botID != ""
}

type apiEnvelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type chatState struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversation_id"`
	Status         string `json:"status"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("chat api status %d", resp.StatusCode)
	}

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return err
	}
	if env.Code != 0 {
		return fmt.Errorf("chat api code %d: %s", env.Code, env.Msg)
	}
	if out != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

// Ask sends one user message and waits for the assistant's answer.
func (c *Client) Ask(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, askTimeout)
	defer cancel()

	createBody := map[string]interface{}{
		"bot_id":            c.botID,
		"user_id":           uuid.NewString(),
		"stream":            false,
		"auto_save_history": true,
		"additional_messages": []map[string]string{
			{"role": "user", "content": message, "content_type": "text"},
		},
	}
	var state chatState
	if err := c.call(ctx, http.MethodPost, "/v3/chat", nil, createBody, &state); err != nil {
		return "", err
	}

	query := url.Values{}
	query.Set("chat_id", state.ID)
	query.Set("conversation_id", state.ConversationID)

	for state.Status != "completed" {
		if state.Status == "failed" || state.Status == "requires_action" {
			return "", fmt.Errorf("chat ended with status %q", state.Status)
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(pollInterval):
		}
		if err := c.call(ctx, http.MethodGet, "/v3/chat/retrieve", query, nil, &state); err != nil {
			return "", err
		}
	}

	var messages []chatMessage
	if err := c.call(ctx, http.MethodGet, "/v3/chat/message/list", query, nil, &messages); err != nil {
		return "", err
	}
	for _, m := range messages {
		if m.Role == "assistant" && m.Type == "answer" && m.Content != "" {
			return m.Content, nil
		}
	}
	return "", fmt.Errorf("chat completed without an answer")
}

// Service answers student questions, preferring the live bot and
// degrading to the canned knowledge base.
type Service struct {
	client *Client
}

// NewService wraps a client; a nil client means fallback-only.
func NewService(client *Client) *Service {
	return &Service{client: client}
}

// Configured reports whether the live bot can be reached at all.
func (s *Service) Configured() bool {
	return s.client != nil && s.client.Configured()
}

// Reply returns the answer text and whether it came from the live bot.
// Bot failures are logged and absorbed; the student always gets a reply.
func (s *Service) Reply(ctx context.Context, message string) (string, bool) {
	if s.Configured() {
		answer, err := s.client.Ask(ctx, message)
		if err == nil {
			return answer, true
		}
		logging.Warnf("chat: bot request failed, using fallback: %v", err)
	}
	return fallbackReply(message), false
}
