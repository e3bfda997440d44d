package llm

import "strings"

// Recognized keys in the model's line-oriented output.
const (
	keyCategory  = "Category"
	keyOccasion  = "Occasion/Sentiment"
	keyRecipient = "Recipient(s)"
	keyFrontText = "Front Page Text"
	keyInside    = "Inside Message"
)

// ParseBrief builds a CardBrief from the model's free-text response.
// Each line is split on its first colon; keys and values are trimmed.
// Lines without a colon and unrecognized keys are ignored.
func ParseBrief(raw string) CardBrief {
	var brief CardBrief
	for _, line := range strings.Split(raw, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case keyCategory:
			brief.Category = value
		case keyOccasion:
			brief.Occasion = value
		case keyRecipient:
			brief.Recipients = value
		case keyFrontText:
			brief.FrontText = value
		case keyInside:
			brief.InsideMessage = value
		}
	}
	return brief
}
