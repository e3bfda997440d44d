package llm

import "testing"

func TestParseBriefFullResponse(t *testing.T) {
	raw := "Category: birthday\n" +
		"Occasion/Sentiment: 30th birthday celebration\n" +
		"Recipient(s): my sister Maya\n" +
		"Front Page Text: Happy 30th Birthday, Maya!\n" +
		"Inside Message: Wishing you a year as bright as you are."

	brief := ParseBrief(raw)

	if brief.Category != "birthday" {
		t.Fatalf("expected category birthday, got %q", brief.Category)
	}
	if brief.Occasion != "30th birthday celebration" {
		t.Fatalf("unexpected occasion %q", brief.Occasion)
	}
	if brief.Recipients != "my sister Maya" {
		t.Fatalf("unexpected recipients %q", brief.Recipients)
	}
	if brief.FrontText != "Happy 30th Birthday, Maya!" {
		t.Fatalf("unexpected front text %q", brief.FrontText)
	}
	if brief.InsideMessage != "Wishing you a year as bright as you are." {
		t.Fatalf("unexpected inside message %q", brief.InsideMessage)
	}
}

func TestParseBriefSplitsOnFirstColonOnly(t *testing.T) {
	brief := ParseBrief("Inside Message: Dear Sam: see you at 10:30!")
	if brief.InsideMessage != "Dear Sam: see you at 10:30!" {
		t.Fatalf("expected value to keep later colons, got %q", brief.InsideMessage)
	}
}

func TestParseBriefIgnoresNoise(t *testing.T) {
	raw := "Here is your card\n" +
		"Category: anniversary\n" +
		"Mood: cheerful\n" +
		"   \n" +
		"Front Page Text:   Happy Anniversary   "

	brief := ParseBrief(raw)

	if brief.Category != "anniversary" {
		t.Fatalf("unexpected category %q", brief.Category)
	}
	if brief.FrontText != "Happy Anniversary" {
		t.Fatalf("expected trimmed front text, got %q", brief.FrontText)
	}
	if brief.Occasion != "" || brief.Recipients != "" || brief.InsideMessage != "" {
		t.Fatalf("expected unset fields to stay empty, got %+v", brief)
	}
}

func TestParseBriefEmptyInput(t *testing.T) {
	if brief := ParseBrief(""); brief != (CardBrief{}) {
		t.Fatalf("expected zero brief, got %+v", brief)
	}
}
