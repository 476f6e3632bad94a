package imagegen

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/punkouter26/PoSeeReview-sub001/internal/retry"
)

// Generator renders a comic narrative into raw PNG bytes.
type Generator interface {
	Generate(ctx context.Context, narrative string, panelCount int) ([]byte, error)
}

const renderPrompt = `Draw a %d-panel comic strip in a light hand-drawn style, no speech bubbles, suitable for all audiences, telling this story:

%s`

// Gemini is the genai-backed Generator using an image-capable model.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash-image-preview"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, narrative string, panelCount int) ([]byte, error) {
	const op = "imagegen.generate"

	if narrative == "" {
		return nil, retry.Validation(op, errors.New("empty narrative"))
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	}
	prompt := fmt.Sprintf(renderPrompt, panelCount, narrative)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return nil, classify(op, err)
	}
	if refused(resp) {
		return nil, retry.ContentPolicy(op, errors.New("image request refused by safety filter"))
	}

	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}
	return nil, retry.Transient(op, errors.New("no image data in response"))
}

func refused(resp *genai.GenerateContentResponse) bool {
	if resp == nil {
		return false
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return true
	}
	for _, c := range resp.Candidates {
		if c.FinishReason == genai.FinishReasonSafety ||
			c.FinishReason == genai.FinishReasonProhibitedContent ||
			c.FinishReason == genai.FinishReasonImageSafety {
			return true
		}
	}
	return false
}

func classify(op string, err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 400 {
		return retry.Validation(op, err)
	}
	return retry.Transient(op, err)
}
