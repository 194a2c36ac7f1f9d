package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	choicePlaceholderPrefixConstant     = "<"
	choicePlaceholderSuffixConstant     = ">"
	choiceSeparatorConstant             = "|"
	choiceListSeparatorConstant         = ", "
	choiceUsageEmptyTemplateConstant    = "`%s`"
	choiceUsageFullTemplateConstant     = "`%s` %s"
	choiceValueTypeConstant             = "string"
	choiceRejectedErrorTemplateConstant = "invalid value %q, expected one of: %s"
)

// AddChoiceFlag registers a string flag restricted to choices, compared case-insensitively.
// The stored value uses the spelling from choices. The usage placeholder capitalizes the default.
func AddChoiceFlag(flagSet *pflag.FlagSet, target *string, name string, defaultValue string, choices []string, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	flagSet.Var(newChoiceValue(defaultValue, choices, target), name, FormatChoiceUsage(defaultValue, choices, usage))
}

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderPrefixConstant + strings.Join(highlightDefaultChoice(defaultChoice, choices), choiceSeparatorConstant) + choicePlaceholderSuffixConstant
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplateConstant, placeholder, trimmedDescription)
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	highlighted := make([]string, 0, len(choices))
	for _, choice := range uniqueChoices(choices) {
		if strings.EqualFold(choice, strings.TrimSpace(defaultChoice)) {
			highlighted = append(highlighted, strings.ToUpper(choice))
			continue
		}
		highlighted = append(highlighted, choice)
	}
	return highlighted
}

func uniqueChoices(choices []string) []string {
	unique := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(trimmedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}
		unique = append(unique, trimmedChoice)
	}
	return unique
}

type choiceValue struct {
	choices []string
	current string
	target  *string
}

func newChoiceValue(defaultValue string, choices []string, target *string) *choiceValue {
	if target != nil {
		*target = defaultValue
	}
	return &choiceValue{choices: uniqueChoices(choices), current: defaultValue, target: target}
}

func (value *choiceValue) Set(rawValue string) error {
	trimmedValue := strings.TrimSpace(rawValue)
	for _, choice := range value.choices {
		if strings.EqualFold(choice, trimmedValue) {
			value.current = choice
			if value.target != nil {
				*value.target = choice
			}
			return nil
		}
	}
	return fmt.Errorf(choiceRejectedErrorTemplateConstant, rawValue, strings.Join(value.choices, choiceListSeparatorConstant))
}

func (value *choiceValue) String() string {
	if value == nil {
		return ""
	}
	return value.current
}

func (value *choiceValue) Type() string {
	return choiceValueTypeConstant
}
