package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Config holds the connection details for an Ollama-compatible server.
type Config struct {
	Host string // e.g. "http://localhost:11434"
}

// Client is a minimal chat client for an Ollama-compatible backend. It only
// covers the non-streaming /api/chat call with tool declarations, which is all
// the bottle import pipeline depends on; any server speaking the same shape
// can be substituted.
type Client struct {
	host       string
	httpClient *http.Client
}

// NewClient creates a new Ollama client.
func NewClient(cfg Config) *Client {
	return &Client{
		host: strings.TrimRight(cfg.Host, "/"),
		httpClient: &http.Client{
			// Vision models can take a while on a cold start.
			Timeout: 120 * time.Second,
		},
	}
}

// Message is a single turn of a chat conversation. Images carry base64
// encoded payloads attached to the turn.
type Message struct {
	Role    string   `json:"role"`
	Content string   `json:"content"`
	Images  []string `json:"images,omitempty"`
}

// ToolProperty describes one parameter of a tool's JSON schema.
type ToolProperty struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// ToolParameters is the JSON schema of a tool's arguments.
type ToolParameters struct {
	Type       string                  `json:"type"`
	Properties map[string]ToolProperty `json:"properties"`
	Required   []string                `json:"required,omitempty"`
}

// ToolFunction names and describes a callable tool.
type ToolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  ToolParameters `json:"parameters"`
}

// Tool is a tool declaration offered to the model.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// Options are the decoding options for a chat call.
type Options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature"`
}

// ChatRequest is the payload of a /api/chat call.
type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Tools    []Tool    `json:"tools,omitempty"`
	Stream   bool      `json:"stream"`
	Options  *Options  `json:"options,omitempty"`
}

// ToolCallFunction is the function invocation emitted by the model.
type ToolCallFunction struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// ToolCall is one structured tool invocation in a response.
type ToolCall struct {
	Function ToolCallFunction `json:"function"`
}

// ResponseMessage is the assistant turn of a chat response.
type ResponseMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// ChatResponse is the result of a non-streaming chat call.
type ChatResponse struct {
	Model   string          `json:"model"`
	Message ResponseMessage `json:"message"`
	Done    bool            `json:"done"`
}

// HasToolCalls reports whether the model invoked at least one tool. The
// distinction between "has tool calls" and "text only" is decided here, once,
// so callers never poke at optional fields themselves.
func (r *ChatResponse) HasToolCalls() bool {
	return r != nil && len(r.Message.ToolCalls) > 0
}

// TextContent returns the model's free-text content, empty if none.
func (r *ChatResponse) TextContent() string {
	if r == nil {
		return ""
	}
	return r.Message.Content
}

// Chat sends a non-streaming chat request and decodes the response.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	req.Stream = false

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("chat request returned status %d: %s", resp.StatusCode, string(msg))
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode chat response: %w", err)
	}
	return &chatResp, nil
}
