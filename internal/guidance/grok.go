// Package guidance asks an LLM which detected faces are worth swapping.
// It is strictly optional: without an API key the pipeline swaps every
// qualifying face.
package guidance

import (
	"context"
	_ "embed"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

//go:embed prompts/guide_swap.txt
var guideSwapPrompt string

// Guidance is the model's verdict on a meme image.
type Guidance struct {
	FaceIndexes []int  `json:"face_indexes"`
	Caption     string `json:"caption"`
	Reasoning   string `json:"reasoning"`
}

// Grok talks to an OpenAI-compatible chat endpoint (xAI by default).
type Grok struct {
	client *openai.Client
	model  string
}

// NewGrok returns nil when apiKey is empty so callers can treat guidance
// as disabled with a plain nil check.
func NewGrok(apiKey, baseURL, model string) *Grok {
	if apiKey == "" {
		return nil
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if model == "" {
		model = "grok-2-vision-latest"
	}
	client := openai.NewClient(opts...)
	return &Grok{client: &client, model: model}
}

// GuideSwap shows the model the meme and asks which of the numbered faces
// to swap. Indexes outside the detected range are dropped; an empty valid
// set is an error so callers fall back to swapping everything.
func (g *Grok) GuideSwap(ctx context.Context, imageData []byte, faceCount int) (*Guidance, error) {
	if faceCount < 1 {
		return nil, errors.New("no faces to guide")
	}

	systemPrompt := fmt.Sprintf(guideSwapPrompt, faceCount, faceCount-1)
	imageURL := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(imageData)

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String(systemPrompt),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfArrayOfContentParts: []openai.ChatCompletionContentPartUnionParam{
							openai.TextContentPart("Which faces should be swapped?"),
							openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
								URL:    imageURL,
								Detail: "low",
							}),
						},
					},
				},
			},
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
		MaxTokens: openai.Int(300),
	})
	if err != nil {
		return nil, fmt.Errorf("guidance API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errors.New("no response from guidance model")
	}

	var guidance Guidance
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &guidance); err != nil {
		return nil, fmt.Errorf("could not parse guidance JSON: %w", err)
	}

	valid := guidance.FaceIndexes[:0]
	for _, idx := range guidance.FaceIndexes {
		if idx >= 0 && idx < faceCount {
			valid = append(valid, idx)
		}
	}
	guidance.FaceIndexes = valid

	if len(guidance.FaceIndexes) == 0 {
		return nil, errors.New("guidance selected no usable faces")
	}
	return &guidance, nil
}
