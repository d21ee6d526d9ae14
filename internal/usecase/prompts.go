package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/glowadvisor/backend/internal/domain"
)

const (
	advisorSystemPrompt = "You are a real L'Oréal advisor. Provide detailed information about L'Oréal products, " +
		"help users pick suitable products, and assist them in generating personalized routines. " +
		"Answer follow-up questions about routines and products."

	routineSystemPrompt = "You are a helpful beauty and skincare assistant for L'Oréal."

	advisorTitle = "Beauty Advisor"
	routineTitle = "Personalized Routine"
	userTitle    = "You"
	systemTitle  = "Assistant"

	advisorTypingText     = "Beauty Advisor is typing..."
	routineGeneratingText = "Generating your personalized routine..."
	noSelectionText       = "Please select products before generating a routine."
	connectivityErrorText = "Sorry, there was a problem connecting to the API."
	apiErrorFormat        = "Sorry, there was an error: %s"
)

// The separator class accepts any Unicode space, so "1.\u00a0Cleanse" splits
// like "1. Cleanse".
var stepNumberRegex = regexp.MustCompile(`\d+\.[\s\v\p{Z}\x{FEFF}]`)

// BuildRoutinePrompt enumerates the selected products as "name (brand)"
func BuildRoutinePrompt(items []domain.Product) string {
	names := make([]string, 0, len(items))
	for _, p := range items {
		names = append(names, fmt.Sprintf("%s (%s)", p.Name, p.Brand))
	}
	return fmt.Sprintf(
		"Create a personalized beauty routine using these L'Oréal products: %s. "+
			"List the steps and explain how to use each product.",
		strings.Join(names, ", "),
	)
}

// FormatRoutineSteps puts a line break before every "<number>. " in text
func FormatRoutineSteps(text string) string {
	return stepNumberRegex.ReplaceAllString(text, "\n$0")
}
