package usecase

import (
	"fmt"
	"strings"

	"cryptopulse/internal/domain"
)

// Supported answer languages.
const (
	LanguageHU = "hu"
	LanguageEN = "en"
)

// ChatPromptBuilder renders the system prompt that grounds the assistant in
// one video's content.
type ChatPromptBuilder struct{}

func NewChatPromptBuilder() *ChatPromptBuilder {
	return &ChatPromptBuilder{}
}

// Build returns the language-specific system prompt. Unknown languages fall
// back to English.
func (b *ChatPromptBuilder) Build(vc domain.VideoContext, language string) string {
	if language == LanguageHU {
		return b.buildHU(vc)
	}
	return b.buildEN(vc)
}

func (b *ChatPromptBuilder) buildHU(vc domain.VideoContext) string {
	var sb strings.Builder
	sb.WriteString("Te egy segítőkész AI asszisztens vagy, aki egy YouTube videóval kapcsolatos kérdésekre válaszol.\n\n")
	fmt.Fprintf(&sb, "A videó címe: %q\n\n", vc.Title)
	sb.WriteString("A videó összefoglalója:\n")
	sb.WriteString(vc.Summary)
	sb.WriteString("\n\nFőbb pontok:\n")
	writeKeyPoints(&sb, vc.KeyPoints)
	if vc.Transcript != "" {
		sb.WriteString("\nA videó átirata:\n")
		sb.WriteString(vc.Transcript)
		sb.WriteString("\n")
	}
	sb.WriteString("\nKérlek, válaszolj a felhasználó kérdéseire a videó tartalma alapján. ")
	sb.WriteString("Legyél informatív és segítőkész. Ha valamit nem tudsz biztosan a videóból, jelezd ezt. ")
	sb.WriteString("Válaszolj magyarul.")
	return sb.String()
}

func (b *ChatPromptBuilder) buildEN(vc domain.VideoContext) string {
	var sb strings.Builder
	sb.WriteString("You are a helpful AI assistant answering questions about a YouTube video.\n\n")
	fmt.Fprintf(&sb, "Video title: %q\n\n", vc.Title)
	sb.WriteString("Video summary:\n")
	sb.WriteString(vc.Summary)
	sb.WriteString("\n\nKey points:\n")
	writeKeyPoints(&sb, vc.KeyPoints)
	if vc.Transcript != "" {
		sb.WriteString("\nVideo transcript:\n")
		sb.WriteString(vc.Transcript)
		sb.WriteString("\n")
	}
	sb.WriteString("\nPlease answer the user's questions based on the video content. ")
	sb.WriteString("Be informative and helpful. If you're not certain about something from the video, indicate this. ")
	sb.WriteString("Answer in English.")
	return sb.String()
}

func writeKeyPoints(sb *strings.Builder, points []string) {
	for i, p := range points {
		fmt.Fprintf(sb, "%d. %s\n", i+1, p)
	}
}
