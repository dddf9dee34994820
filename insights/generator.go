// Package insights turns the engine's numeric digest into prose relationship
// insights via the OpenAI Responses API. The engine itself never imports this
// package; it is an external collaborator consuming an InsightPayload.
package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"

	"github.com/chatlytics/chatlytics/engine"
	"github.com/chatlytics/chatlytics/fileutils"
)

// Insights is the schema-constrained model output.
type Insights struct {
	Personality          string   `json:"personality"`
	RelationshipDynamics string   `json:"relationship_dynamics"`
	ConversationStyle    string   `json:"conversation_style"`
	FunFacts             []string `json:"fun_facts"`
	OverallSummary       string   `json:"overall_summary"`
}

var insightsSchema = strictSchema[Insights]()

// Generator produces insights for analysis payloads using one model.
type Generator struct {
	client *openai.Client
	model  string
}

func NewGenerator(client *openai.Client, model string) *Generator {
	return &Generator{client: client, model: model}
}

// Generate sends the numeric payload and decodes the structured reply. The
// payload carries no message text, so nothing from the transcript itself
// leaves the process.
func (g *Generator) Generate(ctx context.Context, payload engine.InsightPayload) (Insights, error) {
	if g.client == nil {
		return Insights{}, errors.New("Generate: client is nil")
	}
	if g.model == "" {
		return Insights{}, errors.New("Generate: model is empty")
	}

	input, err := json.Marshal(payload)
	if err != nil {
		return Insights{}, fmt.Errorf("Generate: marshal payload: %w", err)
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "RelationshipInsights",
			Schema:      insightsSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Relationship insights JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           g.model,
		MaxOutputTokens: openai.Int(1500),
		Instructions:    openai.String(insightsPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(string(input), responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := generateWithRetry(ctx, g.client, defaultRetryPolicy, params)
	if err != nil {
		return Insights{}, fmt.Errorf("Generate: %w", err)
	}

	var out Insights
	if err := fileutils.DecodeModelJSON(resp.OutputText(), &out); err != nil {
		return Insights{}, fmt.Errorf("Generate: unmarshal insights: %w", err)
	}
	out.Personality = strings.TrimSpace(out.Personality)
	out.RelationshipDynamics = strings.TrimSpace(out.RelationshipDynamics)
	out.ConversationStyle = strings.TrimSpace(out.ConversationStyle)
	out.OverallSummary = strings.TrimSpace(out.OverallSummary)
	return out, nil
}
