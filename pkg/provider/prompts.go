package provider

import (
	"fmt"
	"strings"

	"meridian-hq/minos/pkg/law"
	"meridian-hq/minos/pkg/trace"
)

const evaluateSystemPrompt = `You are a compliance judge. Evaluate the draft content strictly against the ` +
	`laws provided. If the content violates any law, respond with violation=true, cite the id of the single ` +
	`most severe violated law in article_id, copy that law's severity, and explain the violation in reasoning. ` +
	`If the content is compliant, respond with violation=false and empty article_id. ` +
	`Respond with a JSON object: {"violation": bool, "article_id": string, "severity": string, "reasoning": string}.`

const generateSystemPrompt = `You are a compliance reviser. Rewrite the draft so it no longer violates the ` +
	`cited law while preserving as much of the original intent as possible. Respond with the revised draft ` +
	`text only, no commentary.`

// evaluateUserPrompt formats the laws and draft into the evaluation request.
// Laws are rendered in the order given; the judge passes them pre-sorted so
// the presentation is deterministic.
func evaluateUserPrompt(draft string, laws []law.Law) string {
	var b strings.Builder
	b.WriteString("--- LAWS ---\n")
	for _, l := range laws {
		fmt.Fprintf(&b, "Law ID: %s\nTier: %s\nSeverity: %s\nText: %s\n\n", l.ID, l.Tier, l.Severity, l.Text)
	}
	b.WriteString("--- DRAFT CONTENT ---\n")
	b.WriteString(draft)
	return b.String()
}

// generateUserPrompt formats the draft and critique into the revision request.
func generateUserPrompt(draft string, critique trace.Critique, cited *law.Law) string {
	var b strings.Builder
	b.WriteString("--- ORIGINAL DRAFT ---\n")
	b.WriteString(draft)
	b.WriteString("\n\n--- CRITIQUE ---\n")
	fmt.Fprintf(&b, "Violated law: %s (severity %s)\n", critique.ArticleID, critique.Severity)
	if cited != nil {
		fmt.Fprintf(&b, "Law text: %s\n", cited.Text)
	}
	fmt.Fprintf(&b, "Reasoning: %s\n", critique.Reasoning)
	return b.String()
}
