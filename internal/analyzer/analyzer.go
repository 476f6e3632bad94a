package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"github.com/punkouter26/PoSeeReview-sub001/internal/retry"
)

// Analysis is the analyzer's verdict on a set of review texts.
type Analysis struct {
	Score      int    // 0-100
	PanelCount int    // 1-4
	Narrative  string // short story used to render the panels
}

// Analyzer scores review texts for strangeness.
type Analyzer interface {
	Analyze(ctx context.Context, texts []string) (Analysis, error)
}

const analyzePrompt = `You are rating how strange, surreal or unusual the following venue reviews are, and turning them into a short comic narrative.

Rate the overall strangeness from 0 (completely mundane) to 100 (utterly bizarre). Choose a panel count between 1 and 4 that fits the story. Then write a short narrative (max 300 chars) that a comic artist could draw.

Format your response EXACTLY like this:
SCORE: <0-100>
PANELS: <1-4>
NARRATIVE: <one short paragraph>

Reviews:
%s`

// Gemini is the genai-backed Analyzer.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Analyze(ctx context.Context, texts []string) (Analysis, error) {
	const op = "analyzer.analyze"

	if len(texts) == 0 {
		return Analysis{}, retry.Validation(op, errors.New("no review texts"))
	}

	var sb strings.Builder
	for _, t := range texts {
		sb.WriteString("- ")
		sb.WriteString(t)
		sb.WriteString("\n")
	}
	prompt := fmt.Sprintf(analyzePrompt, sb.String())

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return Analysis{}, classify(op, err)
	}
	if blocked(resp) {
		return Analysis{}, retry.ContentPolicy(op, errors.New("prompt blocked by safety filter"))
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return Analysis{}, retry.Transient(op, errors.New("empty model response"))
	}
	return parseAnalysis(text), nil
}

// parseAnalysis extracts the SCORE/PANELS/NARRATIVE lines and clamps them to
// their valid ranges. Missing fields fall back to the mildest values.
func parseAnalysis(text string) Analysis {
	a := Analysis{Score: 0, PanelCount: 1}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "SCORE:"):
			if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "SCORE:"))); err == nil {
				a.Score = ClampScore(n)
			}
		case strings.HasPrefix(line, "PANELS:"):
			if n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "PANELS:"))); err == nil {
				a.PanelCount = ClampPanels(n)
			}
		case strings.HasPrefix(line, "NARRATIVE:"):
			a.Narrative = strings.TrimSpace(strings.TrimPrefix(line, "NARRATIVE:"))
		}
	}
	return a
}

func ClampScore(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}

func ClampPanels(n int) int {
	if n < 1 {
		return 1
	}
	if n > 4 {
		return 4
	}
	return n
}

func blocked(resp *genai.GenerateContentResponse) bool {
	if resp == nil {
		return false
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return true
	}
	for _, c := range resp.Candidates {
		if c.FinishReason == genai.FinishReasonSafety ||
			c.FinishReason == genai.FinishReasonProhibitedContent {
			return true
		}
	}
	return false
}

// classify maps a genai transport error onto the retry taxonomy. A 400 is a
// permanent validation failure; rate limits, server-side failures and unknown
// transport errors (timeouts, resets) count as transient.
func classify(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 400 {
		return retry.Validation(op, err)
	}
	return retry.Transient(op, err)
}
