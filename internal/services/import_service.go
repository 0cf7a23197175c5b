package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"smartbar/pkg/ollama"
)

// ChatClient is the slice of the Ollama client the import pipeline depends
// on. Tests substitute a fake emitting canned responses.
type ChatClient interface {
	Chat(ctx context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, error)
}

// BottleImportData is the structured output extracted from a bottle label
// photograph. It is a draft for the caller to review, never persisted as-is.
type BottleImportData struct {
	Name          string `json:"name"`
	Brand         string `json:"brand"`
	FlavorProfile string `json:"flavor_profile"`
	CapacityML    int    `json:"capacity_ml"`
	SpiritType    string `json:"spirit_type"`
}

// BottleAnalysisResult is the outcome of a bottle image analysis. It always
// carries a Success flag; model failures are reported through Error rather
// than surfaced as transport errors, so the client can render whatever
// partial context is available (including the raw model text).
type BottleAnalysisResult struct {
	Success     bool              `json:"success"`
	Data        *BottleImportData `json:"data,omitempty"`
	LLMResponse string            `json:"llm_response,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// importBottleTool is the tool contract offered to the vision model. All five
// parameters are required; the spirit_type enum pins the output to a closed
// set so downstream validation stays trivial.
var importBottleTool = ollama.Tool{
	Type: "function",
	Function: ollama.ToolFunction{
		Name:        "import_bottle",
		Description: "Import a bottle into the database with extracted information from the image",
		Parameters: ollama.ToolParameters{
			Type: "object",
			Properties: map[string]ollama.ToolProperty{
				"name": {
					Type:        "string",
					Description: "Full product name as shown on the bottle label",
				},
				"brand": {
					Type:        "string",
					Description: "Manufacturer or brand name",
				},
				"flavor_profile": {
					Type:        "string",
					Description: "Flavor notes and characteristics (Be direct, attempt to research the bottle, and do not state anything except flavor notes like e.g. 'smooth, vanilla, oak' or 'citrus, herbal, bitter')",
				},
				"capacity_ml": {
					Type:        "integer",
					Description: "Bottle size in milliliters (e.g. 750, 1000, 375)",
				},
				"spirit_type": {
					Type:        "string",
					Enum:        []string{"Vodka", "Whiskey", "Rum", "Gin", "Tequila", "Brandy", "Liqueur", "Wine", "Beer", "Other"},
					Description: "Type/category of spirit",
				},
			},
			Required: []string{"name", "brand", "flavor_profile", "capacity_ml", "spirit_type"},
		},
	},
}

// BottleImportService drives a vision-capable model through the import_bottle
// tool-call protocol to extract bottle attributes from a photograph.
type BottleImportService struct {
	client ChatClient
	model  string

	// Retries and RetryDelay bound the invocation loop. Tool-call emission is
	// non-deterministic per call, so a small fixed budget tolerates transient
	// non-compliance while keeping latency bounded.
	Retries    int
	RetryDelay time.Duration

	publisher EventPublisher
}

// NewBottleImportService creates a new BottleImportService using the given
// chat client and model name.
func NewBottleImportService(client ChatClient, model string, publisher EventPublisher) *BottleImportService {
	return &BottleImportService{
		client:     client,
		model:      model,
		Retries:    3,
		RetryDelay: time.Second,
		publisher:  publisher,
	}
}

// AnalyzeBottleImage analyzes a base64-encoded bottle photograph. It never
// returns an error: every failure mode ends up in the result's Error field.
func (s *BottleImportService) AnalyzeBottleImage(ctx context.Context, imageBase64 string) BottleAnalysisResult {
	messages := []ollama.Message{
		{
			Role:    "user",
			Content: "Deeply analyze this bottle image and extract the bottle information to import it into a database. Use the import_bottle tool to submit the extracted data.",
			Images:  []string{imageBase64},
		},
	}

	response, lastResponse := s.callWithRetries(ctx, ollama.ChatRequest{
		Model:    s.model,
		Messages: messages,
		Tools:    []ollama.Tool{importBottleTool},
		Options:  &ollama.Options{NumPredict: 500, Temperature: 0.2},
	})

	llmText := lastResponse.TextContent()

	if response == nil {
		// Tool call never arrived; hand the model's prose back for context.
		return BottleAnalysisResult{
			Success:     false,
			LLMResponse: llmText,
			Error:       "The AI did not use the import tool. It may not have recognized a bottle in the image.",
		}
	}

	data, err := parseImportArguments(response.Message.ToolCalls[0].Function.Arguments)
	if err != nil {
		log.Printf("Error parsing bottle import arguments: %v", err)
		return BottleAnalysisResult{
			Success:     false,
			LLMResponse: llmText,
			Error:       err.Error(),
		}
	}

	log.Printf("Bottle analysis result: %+v", *data)
	s.publishImported(data)

	return BottleAnalysisResult{
		Success:     true,
		Data:        data,
		LLMResponse: llmText,
	}
}

// callWithRetries invokes the model until a response contains a tool call or
// the retry budget is exhausted. It returns the accepted response (nil if
// none) and the last response observed for error reporting.
func (s *BottleImportService) callWithRetries(ctx context.Context, req ollama.ChatRequest) (*ollama.ChatResponse, *ollama.ChatResponse) {
	var lastResponse *ollama.ChatResponse

	for attempt := 1; attempt <= s.Retries; attempt++ {
		response, err := s.client.Chat(ctx, req)
		if err != nil {
			log.Printf("Attempt %d/%d: Error calling model: %v", attempt, s.Retries, err)
		} else {
			lastResponse = response
			if response.HasToolCalls() {
				return response, lastResponse
			}
			log.Printf("Attempt %d/%d: Check failed - no tool calls in response", attempt, s.Retries)
			if content := response.TextContent(); content != "" {
				log.Printf("LLM response: %s", content)
			}
		}

		if attempt < s.Retries {
			time.Sleep(s.RetryDelay)
		}
	}

	log.Printf("All retries failed")
	return nil, lastResponse
}

// parseImportArguments converts a tool call's argument map into
// BottleImportData, rejecting calls missing any required parameter.
func parseImportArguments(arguments map[string]interface{}) (*BottleImportData, error) {
	for _, key := range importBottleTool.Function.Parameters.Required {
		if _, ok := arguments[key]; !ok {
			return nil, fmt.Errorf("tool call is missing required argument %q", key)
		}
	}

	raw, err := json.Marshal(arguments)
	if err != nil {
		return nil, fmt.Errorf("failed to encode tool call arguments: %w", err)
	}
	var data BottleImportData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode tool call arguments: %w", err)
	}
	return &data, nil
}

func (s *BottleImportService) publishImported(data *BottleImportData) {
	if s.publisher == nil {
		return
	}
	body, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", EventBottleImported, err)
		return
	}
	if err := s.publisher.Publish(EventBottleImported, body); err != nil {
		log.Printf("Warning: Failed to publish %s event: %v", EventBottleImported, err)
	}
}
