package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalAssistant(t *testing.T) *AssistantService {
	t.Helper()

	db := newTestDB(t)
	// No API key configured: every message resolves locally
	return NewAssistantService(NewCatalogService(db), AssistantConfig{
		BaseURL: "http://127.0.0.1:0",
		Model:   "test",
		Timeout: time.Second,
	})
}

func TestAssistantLocalResolver(t *testing.T) {
	assistant := newLocalAssistant(t)
	ctx := context.Background()

	t.Run("DeliveryQuestionsGetTheThresholdAnswer", func(t *testing.T) {
		reply := assistant.Respond(ctx, "Do I qualify for free delivery?")
		assert.Contains(t, reply, "₹2000")
	})

	t.Run("DiscountQuestionsExplainStreaks", func(t *testing.T) {
		reply := assistant.Respond(ctx, "How do discounts work?")
		assert.Contains(t, strings.ToLower(reply), "streak")
	})

	t.Run("KeywordMatchingIsCaseInsensitive", func(t *testing.T) {
		lower := assistant.Respond(ctx, "tell me about my streak")
		upper := assistant.Respond(ctx, "TELL ME ABOUT MY STREAK")
		assert.Equal(t, lower, upper)
	})

	t.Run("ShowIntentListsCatalogProducts", func(t *testing.T) {
		reply := assistant.Respond(ctx, "show me some snacks")
		assert.Contains(t, reply, "Mixed Namkeen Pack")
	})

	t.Run("RecommendIntentMatchesTags", func(t *testing.T) {
		reply := assistant.Respond(ctx, "can you recommend turmeric")
		assert.Contains(t, reply, "Turmeric Powder")
	})

	t.Run("UnmatchedMessagesGetGenericHelp", func(t *testing.T) {
		reply := assistant.Respond(ctx, "xyzzy")
		assert.NotEmpty(t, reply)
	})

	t.Run("NeverFailsWhenUpstreamIsDown", func(t *testing.T) {
		for _, message := range []string{"hello", "discount", "show rice", "???", ""} {
			reply := assistant.Respond(ctx, message)
			require.NotEmpty(t, reply)
		}
	})
}
