package synth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"deckplan/pkg/schema"
)

// OpenAIClient implements Client using the official openai-go SDK. It
// also drives OpenAI-compatible providers through a custom base URL.
type OpenAIClient struct {
	Model   string
	Timeout time.Duration
	Opts    []option.RequestOption
}

// NewOpenAIClient creates a synthesis client for the given model
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		Model:   model,
		Timeout: 60 * time.Second,
		Opts:    []option.RequestOption{option.WithAPIKey(apiKey)},
	}
}

// WithBaseURL points the client at an OpenAI-compatible endpoint
func (c *OpenAIClient) WithBaseURL(baseURL string) *OpenAIClient {
	if baseURL != "" {
		c.Opts = append(c.Opts, option.WithBaseURL(baseURL))
	}
	return c
}

// WithTimeout sets the per-call timeout
func (c *OpenAIClient) WithTimeout(timeout time.Duration) *OpenAIClient {
	c.Timeout = timeout
	return c
}

// AnalyzeDocument extracts a structured analysis from a document
func (c *OpenAIClient) AnalyzeDocument(ctx context.Context, document string) (*DocumentAnalysis, error) {
	output, err := c.complete(ctx,
		"You are an expert business analyst.",
		fmt.Sprintf(documentAnalysisPrompt, document))
	if err != nil {
		return nil, &Error{Op: "analyze", Err: err}
	}

	payload, err := extractJSON(output)
	if err != nil {
		return nil, &Error{Op: "analyze", Err: err}
	}
	var analysis DocumentAnalysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		return nil, &Error{Op: "analyze", Err: fmt.Errorf("failed to unmarshal analysis: %w", err)}
	}
	return &analysis, nil
}

// GeneratePlan creates a presentation plan from an analysis and document
func (c *OpenAIClient) GeneratePlan(ctx context.Context, analysis *DocumentAnalysis, document string) (*schema.PresentationPlan, error) {
	analysisText := "No analysis available"
	if analysis != nil {
		data, err := json.MarshalIndent(analysis, "", "  ")
		if err != nil {
			return nil, &Error{Op: "generate", Err: fmt.Errorf("failed to marshal analysis: %w", err)}
		}
		analysisText = string(data)
	}

	output, err := c.complete(ctx,
		"You are an expert presentation designer.",
		fmt.Sprintf(planGenerationPrompt, analysisText, document, slideTypesDescription))
	if err != nil {
		return nil, &Error{Op: "generate", Err: err}
	}
	plan, err := parsePlan(output)
	if err != nil {
		return nil, &Error{Op: "generate", Err: err}
	}
	return plan, nil
}

// RevisePlan produces a revised plan from the current plan and feedback
func (c *OpenAIClient) RevisePlan(ctx context.Context, plan *schema.PresentationPlan, feedback, document string) (*schema.PresentationPlan, error) {
	planText := "No plan available"
	if plan != nil {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return nil, &Error{Op: "revise", Err: fmt.Errorf("failed to marshal plan: %w", err)}
		}
		planText = string(data)
	}

	output, err := c.complete(ctx,
		"You are an expert presentation designer helping to refine a presentation.",
		fmt.Sprintf(planRevisionPrompt, planText, feedback, document, slideTypesDescription))
	if err != nil {
		return nil, &Error{Op: "revise", Err: err}
	}
	revised, err := parsePlan(output)
	if err != nil {
		return nil, &Error{Op: "revise", Err: err}
	}
	return revised, nil
}

// complete sends one system+user exchange and returns the raw response text
func (c *OpenAIClient) complete(ctx context.Context, system, user string) (string, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	client := openai.NewClient(c.Opts...)
	resp, err := client.Chat.Completions.New(ctxWithTimeout, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty choices in completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// parsePlan extracts and validates a presentation plan from model output
func parsePlan(output string) (*schema.PresentationPlan, error) {
	payload, err := extractJSON(output)
	if err != nil {
		return nil, err
	}

	var plan schema.PresentationPlan
	if err := json.Unmarshal([]byte(payload), &plan); err != nil {
		return nil, fmt.Errorf("failed to unmarshal plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// extractJSON slices the first top-level JSON object out of model
// output, tolerating surrounding prose and code fences
func extractJSON(output string) (string, error) {
	jsonStart := strings.Index(output, "{")
	jsonEnd := strings.LastIndex(output, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return "", errors.New("could not find valid JSON in output")
	}
	return output[jsonStart : jsonEnd+1], nil
}
