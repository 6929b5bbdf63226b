package explain

import (
	"context"
	"fmt"
	"strings"

	"github.com/samadjamali123/FloraGuard/src/core/providers"
	"github.com/samadjamali123/FloraGuard/src/core/utils"
)

// explanationPrompt embeds the disease name and whatever the analysis
// observed. Empty lists are spelled out rather than omitted so the model does
// not invent specifics.
const explanationPrompt = `Provide a concise but informative explanation (2-3 short paragraphs) about the plant disease "%s".

Known symptoms: %s
Possible causes: %s

Cover:
1. What this disease is and how it damages plants
2. How it spreads and favorable conditions
3. Key prevention tips

Keep it simple and farmer-friendly. No markdown formatting.`

const listPlaceholder = "Not specified"

// TextGenerator is the generative fallback dependency; satisfied by the llm
// providers. A nil generator simply disables the generative step.
type TextGenerator interface {
	Chat(ctx context.Context, messages []providers.Message) (string, error)
}

// Enricher resolves a human-readable disease explanation through an ordered
// strategy chain: knowledge base, then generative fallback, then a templated
// sentence, then nothing. Failures inside the chain never escape it; only the
// final nil is a true absence.
type Enricher struct {
	generator TextGenerator
	logger    *utils.Logger
}

func NewEnricher(generator TextGenerator, logger *utils.Logger) *Enricher {
	return &Enricher{
		generator: generator,
		logger:    logger,
	}
}

type strategy func(ctx context.Context, diseaseName string, symptoms, causes []string) (string, bool)

// Explain returns the explanation text, or nil when no strategy produced one.
func (e *Enricher) Explain(ctx context.Context, diseaseName string, symptoms, causes []string) *string {
	strategies := []strategy{
		e.fromKnowledgeBase,
		e.fromGenerator,
		e.fromTemplate,
	}

	for _, s := range strategies {
		if text, ok := s(ctx, diseaseName, symptoms, causes); ok {
			return &text
		}
	}
	return nil
}

func (e *Enricher) fromKnowledgeBase(_ context.Context, diseaseName string, _, _ []string) (string, bool) {
	return lookupKnowledge(diseaseName)
}

// fromGenerator asks the text model for an explanation. Any failure (missing
// generator, network, auth, empty reply) falls through to the next strategy;
// this step never raises to the caller.
func (e *Enricher) fromGenerator(ctx context.Context, diseaseName string, symptoms, causes []string) (string, bool) {
	if e.generator == nil {
		return "", false
	}

	prompt := fmt.Sprintf(explanationPrompt, diseaseName, joinOrPlaceholder(symptoms), joinOrPlaceholder(causes))
	reply, err := e.generator.Chat(ctx, []providers.Message{
		{Role: "user", Content: prompt},
	})
	if err != nil {
		e.logger.Warn("generative explanation failed, falling back", map[string]interface{}{
			"disease": diseaseName,
			"error":   err.Error(),
		})
		return "", false
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", false
	}
	return reply, true
}

// fromTemplate synthesizes a generic sentence when at least one of the lists
// is non-empty.
func (e *Enricher) fromTemplate(_ context.Context, diseaseName string, symptoms, causes []string) (string, bool) {
	if len(symptoms) == 0 && len(causes) == 0 {
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s is a plant disease that requires attention. ", diseaseName)
	if len(symptoms) > 0 {
		fmt.Fprintf(&b, "Common symptoms include: %s. ", strings.Join(symptoms, ", "))
	}
	if len(causes) > 0 {
		fmt.Fprintf(&b, "This condition is typically caused by: %s. ", strings.Join(causes, ", "))
	}
	b.WriteString("Monitor your plants closely, remove affected parts, ensure good air circulation, and consider applying appropriate treatments as recommended above.")
	return b.String(), true
}

func joinOrPlaceholder(items []string) string {
	if len(items) == 0 {
		return listPlaceholder
	}
	return strings.Join(items, ", ")
}
