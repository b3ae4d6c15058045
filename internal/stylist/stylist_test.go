package stylist

import (
	"context"
	"testing"

	"closet-sync/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var closet = []models.ClothingItem{
	{ID: "t0", Category: models.CategoryTop, Label: "Old tee", IsUnused: true},
	{ID: "t1", Category: models.CategoryTop, Label: "White shirt"},
	{ID: "b1", Category: models.CategoryBottom, Label: "Black jeans"},
	{ID: "s1", Category: models.CategoryShoes},
}

func TestCanned_SuggestsFirstInClosetItems(t *testing.T) {
	answer, err := Canned{}.Reply(context.Background(), closet, nil, "date night")
	require.NoError(t, err)

	require.Len(t, answer.Recommendations, 1)
	rec := answer.Recommendations[0]
	assert.Equal(t, "t1", rec.TopID)
	assert.Equal(t, "b1", rec.BottomID)
	assert.Equal(t, "s1", rec.ShoesID)
	assert.Equal(t, "How about White shirt with Black jeans with your shoes?", answer.Content)
}

func TestCanned_EmptyCloset(t *testing.T) {
	answer, err := Canned{}.Reply(context.Background(), nil, nil, "anything")
	require.NoError(t, err)
	assert.Empty(t, answer.Recommendations)
	assert.NotEmpty(t, answer.Content)
}

func TestParseAnswer(t *testing.T) {
	answer := parseAnswer(`{"reply":"Try this","topId":"t1","bottomId":"ghost","reason":"clean"}`, closet)
	assert.Equal(t, "Try this", answer.Content)
	require.Len(t, answer.Recommendations, 1)
	assert.Equal(t, "t1", answer.Recommendations[0].TopID)
	assert.Empty(t, answer.Recommendations[0].BottomID)

	plain := parseAnswer("just text", closet)
	assert.Equal(t, "just text", plain.Content)
	assert.Empty(t, plain.Recommendations)
}

func TestToContents_MapsRoles(t *testing.T) {
	contents := toContents([]models.ChatMessage{
		{Role: models.RoleUser, Content: "hi"},
		{Role: models.RoleAssistant, Content: "hello"},
	})
	require.Len(t, contents, 2)
	assert.Equal(t, "user", contents[0].Role)
	assert.Equal(t, "model", contents[1].Role)
}

func TestClosetListing_SkipsUnused(t *testing.T) {
	listing := closetListing(closet)
	assert.NotContains(t, listing, "t0")
	assert.Contains(t, listing, `id=t1 category=top label="White shirt"`)
}

func TestNewGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "gemini-1.5-flash", nil)
	assert.Error(t, err)
}
