// Package stylist produces the assistant side of a style chat.
package stylist

import (
	"context"
	"fmt"
	"strings"

	"closet-sync/internal/models"
)

// Replier answers a user message given the user's closet and the transcript
// so far.
type Replier interface {
	Reply(ctx context.Context, closet []models.ClothingItem, history []models.ChatMessage, message string) (Answer, error)
}

// Answer is the text of the reply plus any outfit it suggests.
type Answer struct {
	Content         string
	Recommendations []models.Recommendation
}

// Canned suggests the first available top, bottom and pair of shoes. It needs
// no external service.
type Canned struct{}

func (Canned) Reply(_ context.Context, closet []models.ClothingItem, _ []models.ChatMessage, message string) (Answer, error) {
	rec := suggest(closet)
	if rec.TopID == "" && rec.BottomID == "" {
		return Answer{Content: "Add a few tops and bottoms to your closet and I can start putting outfits together."}, nil
	}

	rec.Reason = fmt.Sprintf("A reliable pick for %q.", strings.TrimSpace(message))
	labels := describe(closet, rec)
	return Answer{
		Content:         "How about " + strings.Join(labels, " with ") + "?",
		Recommendations: []models.Recommendation{rec},
	}, nil
}

func suggest(closet []models.ClothingItem) models.Recommendation {
	var rec models.Recommendation
	for _, item := range closet {
		if item.IsUnused {
			continue
		}
		switch item.Category {
		case models.CategoryTop:
			if rec.TopID == "" {
				rec.TopID = item.ID
			}
		case models.CategoryBottom:
			if rec.BottomID == "" {
				rec.BottomID = item.ID
			}
		case models.CategoryShoes:
			if rec.ShoesID == "" {
				rec.ShoesID = item.ID
			}
		}
	}
	return rec
}

func describe(closet []models.ClothingItem, rec models.Recommendation) []string {
	var out []string
	for _, id := range []string{rec.TopID, rec.BottomID, rec.ShoesID} {
		if id == "" {
			continue
		}
		for _, item := range closet {
			if item.ID != id {
				continue
			}
			name := item.Label
			if name == "" {
				name = "your " + string(item.Category)
			}
			out = append(out, name)
		}
	}
	return out
}

// knownIDs drops recommendation ids that are not in the closet.
func knownIDs(closet []models.ClothingItem, rec models.Recommendation) models.Recommendation {
	ids := make(map[string]bool, len(closet))
	for _, item := range closet {
		ids[item.ID] = true
	}
	for _, p := range []*string{&rec.TopID, &rec.BottomID, &rec.ShoesID} {
		if !ids[*p] {
			*p = ""
		}
	}
	return rec
}
