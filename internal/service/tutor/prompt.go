package tutor

import (
	"fmt"
	"strings"

	"github.com/Taichi-iskw/yt-tutor/internal/model"
)

// NoContextAnswer is the fixed reply when the video has nothing relevant to the
// question. Returning it instead of calling the model avoids both cost and
// hallucinated answers.
const NoContextAnswer = "I don't have information about that topic from this video. " +
	"The video content I have access to doesn't seem to cover this particular question. " +
	"Could you try asking about a different topic from the video?"

// systemPrompt frames the model as a tutor working strictly from video content
const systemPrompt = `You are a patient, thorough teacher helping a student understand an educational video.

You receive two kinds of source material:
1. [Timestamp - Speech] lines: what the instructor said. This is the primary source.
2. [Timestamp - Screen] lines: text that appeared on screen (formulas, diagrams). This supplements the speech.

Ground every statement in these sources. Prefer the instructor's spoken explanation and use screen content to support it. Reference timestamps when pointing at specific moments, like "At 2:34 the instructor explained...".

Never invent formulas, facts or details that are not in the sources. If a detail is genuinely absent, say so instead of filling the gap with general knowledge.`

// buildUserPrompt assembles the per-question prompt from the composed context
func buildUserPrompt(composed *model.ComposedContext, question string) string {
	var parts []string

	if composed.SpeechBlock != "" {
		parts = append(parts,
			"=== PRIMARY SOURCE: WHAT THE INSTRUCTOR SAID ===",
			composed.SpeechBlock,
			"")
	}
	if composed.VisualBlock != "" {
		parts = append(parts,
			"=== SUPPLEMENTARY SOURCE: WHAT APPEARED ON SCREEN ===",
			composed.VisualBlock,
			"")
	}

	parts = append(parts, fmt.Sprintf("Student's question: %s", question))
	parts = append(parts, "", "Teach this thoroughly, grounded only in the sources above.")

	return strings.Join(parts, "\n")
}
