package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"github.com/silverforge/mend/internal/evaluate"
)

// Default model, overridable via environment for newer snapshots.
const (
	defaultModel = "claude-sonnet-4-5-20250929"
	envModel     = "MEND_MODEL"
	envAPIKey    = "ANTHROPIC_API_KEY"
)

// semanticSampleLimit caps how much of the document the semantic scorer
// sees. Quality judgments stabilize well before full-document context.
const semanticSampleLimit = 12000

// ClaudeConfig configures the Claude-backed adapter.
type ClaudeConfig struct {
	APIKey         string      // falls back to ANTHROPIC_API_KEY
	Model          string      // falls back to MEND_MODEL, then defaultModel
	Retry          RetryConfig // zero value selects defaults
	RequestsPerMin int         // client-side rate limit (0 = unlimited)
	MaxConcurrent  int         // concurrent API call cap (0 = unlimited)
}

// Claude implements both the decision policy adapter and the production-mode
// semantic scorer on the Anthropic Messages API.
type Claude struct {
	client  *anthropic.Client
	model   string
	retry   RetryConfig
	breaker *circuitBreaker
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

var (
	_ Adapter                 = (*Claude)(nil)
	_ evaluate.SemanticScorer = (*Claude)(nil)
)

// NewClaude creates a Claude-backed adapter.
func NewClaude(cfg ClaudeConfig) (*Claude, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(envAPIKey)
		if apiKey == "" {
			return nil, fmt.Errorf("%s not set", envAPIKey)
		}
	}

	model := cfg.Model
	if model == "" {
		model = os.Getenv(envModel)
	}
	if model == "" {
		model = defaultModel
	}

	retry := cfg.Retry
	if retry.MaxRetries == 0 {
		retry = DefaultRetryConfig()
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	c := &Claude{
		client:  &client,
		model:   model,
		retry:   retry,
		breaker: newCircuitBreaker(retry.FailureThreshold, retry.OpenTimeout),
	}
	if cfg.MaxConcurrent > 0 {
		c.sem = semaphore.NewWeighted(int64(cfg.MaxConcurrent))
	}
	if cfg.RequestsPerMin > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMin)/60.0), 1)
	}
	return c, nil
}

// SelectAction asks the model to pick the next repair tool.
func (c *Claude) SelectAction(ctx context.Context, req Request) (Decision, error) {
	prompt, err := buildDecisionPrompt(req)
	if err != nil {
		return Decision{}, err
	}

	text, err := c.complete(ctx, "action selection", prompt, 1024)
	if err != nil {
		return Decision{}, err
	}
	return parseResponse[Decision](text, "decision response")
}

// ScoreSemantics asks the model for the production-mode semantic signal.
func (c *Claude) ScoreSemantics(ctx context.Context, text string) (evaluate.SemanticScores, error) {
	sample := text
	if len(sample) > semanticSampleLimit {
		sample = sample[:semanticSampleLimit] + "\n\n... (document truncated)"
	}

	response, err := c.complete(ctx, "semantic scoring", buildSemanticPrompt(sample), 512)
	if err != nil {
		return evaluate.SemanticScores{}, err
	}
	return parseResponse[evaluate.SemanticScores](response, "semantic response")
}

// complete performs one rate-limited, retried Messages API call and returns
// the concatenated text blocks of the response.
func (c *Claude) complete(ctx context.Context, operation, prompt string, maxTokens int64) (string, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return "", fmt.Errorf("acquiring concurrency slot: %w", err)
		}
		defer c.sem.Release(1)
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limiter: %w", err)
		}
	}

	var response *anthropic.Message
	err := c.retryWithBackoff(ctx, operation, func(attemptCtx context.Context) error {
		resp, apiErr := c.client.Messages.New(attemptCtx, anthropic.MessageNewParams{
			Model:     anthropic.Model(c.model),
			MaxTokens: maxTokens,
			Messages: []anthropic.MessageParam{
				anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
			},
		})
		if apiErr != nil {
			return apiErr
		}
		response = resp
		return nil
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

func buildDecisionPrompt(req Request) (string, error) {
	reportJSON, err := json.MarshalIndent(req.Report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}

	var catalog strings.Builder
	for _, t := range req.AvailableTools {
		fmt.Fprintf(&catalog, "- %s (targets %s): %s\n", t.Name, t.TargetMetric, t.Description)
	}

	blacklist := "none"
	if len(req.Blacklisted) > 0 {
		blacklist = strings.Join(req.Blacklisted, ", ")
	}

	return fmt.Sprintf(`You are selecting the next repair action for a machine-parsed Markdown document.

CURRENT QUALITY REPORT:
%s

ISSUES:
%s

AVAILABLE TOOLS:
%s
BLACKLISTED (previously caused a regression, never select these): %s

Pick the single tool most likely to improve the metric most responsible for
the low overall score. If no listed tool would help, or the document is
already good enough, answer with action "DONE".

Respond with JSON only:
{"action": "<tool name or DONE>", "reason": "<one sentence>", "target_metric": "<metric field the tool targets>"}`,
		reportJSON, formatIssues(req.Issues), catalog.String(), blacklist), nil
}

func buildSemanticPrompt(sample string) string {
	return fmt.Sprintf(`You are grading the semantic quality of a Markdown document produced by a PDF parser.

[DOCUMENT]
%s

Grade three aspects, each from 0.0 to 1.0:
1. logic_score: do the sections flow in a sensible order?
2. completeness_score: are the expected parts of the document present?
3. consistency_score: is the content coherent and readable?

Respond with JSON only:
{"logic_score": 0.8, "completeness_score": 0.9, "consistency_score": 0.7}`, sample)
}

func formatIssues(issues []string) string {
	if len(issues) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, issue := range issues {
		b.WriteString("- ")
		b.WriteString(issue)
		b.WriteString("\n")
	}
	return b.String()
}
