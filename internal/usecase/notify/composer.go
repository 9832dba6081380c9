// Package notify composes and serves user-facing match notifications.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/refind-app/refind/internal/domain"
)

// Composer turns a match into a subject/message pair. Composing never
// fails: when the text generator is disabled, errors, or returns something
// unparsable, the output degrades to a deterministic template so the
// matching loop is never blocked on notification wording.
type Composer struct {
	gen    Generator
	logger *zap.Logger
}

// NewComposer creates a notification composer. gen may be nil.
func NewComposer(gen Generator, logger *zap.Logger) *Composer {
	return &Composer{gen: gen, logger: logger}
}

// Compose produces notification content for the owner of the lost item.
func (c *Composer) Compose(ctx context.Context, lost, found domain.Item, score float64) domain.NotificationContent {
	if c.gen == nil || !c.gen.Enabled() {
		return fallbackContent(lost, score)
	}

	raw, err := c.gen.Generate(ctx, buildPrompt(lost, found, score))
	if err != nil {
		c.logger.Warn("Notification generation failed, using template",
			zap.String("lost_item_id", lost.ID),
			zap.Error(err),
		)
		return fallbackContent(lost, score)
	}

	// Strict decode first; on any failure keep the raw text as the message
	// body under a templated subject. A parse error never surfaces.
	var parsed struct {
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || parsed.Message == "" {
		return domain.NotificationContent{
			Subject: fallbackSubject(lost),
			Message: raw,
		}
	}

	subject := parsed.Subject
	if subject == "" {
		subject = fallbackSubject(lost)
	}
	return domain.NotificationContent{Subject: subject, Message: parsed.Message}
}

func fallbackSubject(lost domain.Item) string {
	return fmt.Sprintf("Possible match for your lost item: %s", lost.Title)
}

func fallbackContent(lost domain.Item, score float64) domain.NotificationContent {
	return domain.NotificationContent{
		Subject: fallbackSubject(lost),
		Message: fmt.Sprintf(
			"A found item posted by someone closely matches your lost item titled %q. Confidence: %d%%.",
			lost.Title, int(math.Round(score*100)),
		),
	}
}

func buildPrompt(lost, found domain.Item, score float64) string {
	return fmt.Sprintf(`You are an assistant that writes short, polite notifications for a lost-item owner.
Context:
- Lost item title: %s
- Lost item description: %s
- Lost item location: %s
- Found item title: %s
- Found item description: %s
- Found item location: %s
- Similarity score: %.1f%%

Task:
Return a JSON object exactly with keys "subject" and "message".
Keep the message 2-4 sentences, polite and instructive. Include a step to verify the item and encourage meeting in a public place.

Example output:
{"subject":"Possible match for your lost item","message":"..."}`,
		lost.Title, lost.Description, lost.Location,
		found.Title, found.Description, found.Location,
		score*100,
	)
}
