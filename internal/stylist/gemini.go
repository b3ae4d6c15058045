package stylist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"closet-sync/internal/models"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const systemPrompt = `You are a personal stylist. Suggest outfits using only the garments listed in the closet.
Answer with a JSON object: {"reply": "<text for the user>", "topId": "", "bottomId": "", "shoesId": "", "reason": ""}.
Leave an id empty when you do not recommend that category.`

// Gemini answers with a Gemini model.
type Gemini struct {
	client *genai.Client
	model  string
	log    *zap.Logger
}

func NewGemini(ctx context.Context, apiKey, model string, log *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Gemini{client: client, model: model, log: log.Named("gemini")}, nil
}

func (g *Gemini) Reply(ctx context.Context, closet []models.ClothingItem, history []models.ChatMessage, message string) (Answer, error) {
	model := g.client.GenerativeModel(g.model)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt + "\n\nCloset:\n" + closetListing(closet))},
	}

	cs := model.StartChat()
	cs.History = toContents(history)

	resp, err := cs.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return Answer{}, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return Answer{}, fmt.Errorf("no content generated")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	answer := parseAnswer(text.String(), closet)
	g.log.Debug("reply generated", zap.Int("recommendations", len(answer.Recommendations)))
	return answer, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

type modelAnswer struct {
	Reply    string `json:"reply"`
	TopID    string `json:"topId"`
	BottomID string `json:"bottomId"`
	ShoesID  string `json:"shoesId"`
	Reason   string `json:"reason"`
}

// parseAnswer reads the model's JSON answer. Plain text is used verbatim.
func parseAnswer(raw string, closet []models.ClothingItem) Answer {
	raw = strings.TrimSpace(raw)
	var ma modelAnswer
	if err := json.Unmarshal([]byte(raw), &ma); err != nil || ma.Reply == "" {
		return Answer{Content: raw}
	}

	answer := Answer{Content: ma.Reply}
	rec := knownIDs(closet, models.Recommendation{
		TopID:    ma.TopID,
		BottomID: ma.BottomID,
		ShoesID:  ma.ShoesID,
		Reason:   ma.Reason,
	})
	if rec.TopID != "" || rec.BottomID != "" || rec.ShoesID != "" {
		answer.Recommendations = []models.Recommendation{rec}
	}
	return answer
}

func toContents(history []models.ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return contents
}

func closetListing(closet []models.ClothingItem) string {
	var b strings.Builder
	for _, item := range closet {
		if item.IsUnused {
			continue
		}
		fmt.Fprintf(&b, "- id=%s category=%s label=%q\n", item.ID, item.Category, item.Label)
	}
	return b.String()
}
