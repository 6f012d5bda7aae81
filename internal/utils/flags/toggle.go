package flags

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleValueTypeNameConstant       = "toggle"
	toggleTrueLiteralConstant         = "true"
	toggleTrueChoiceConstant          = "yes"
	toggleFalseChoiceConstant         = "no"
	toggleParseErrorTemplateConstant  = "invalid toggle value %q (expected yes, no, true, false, on, off, 1, or 0)"
	choicePlaceholderTemplateConstant = "%s `<%s>`"
	choiceSeparatorConstant           = "|"
	toggleArgumentPrefixConstant      = "--"
	toggleArgumentAssignmentConstant  = "="
)

// toggleValue implements pflag.Value for boolean flags that accept yes/no
// style literals in addition to Go's booleans. The flag can also be supplied
// bare, in which case it behaves like a regular boolean switch.
type toggleValue struct {
	target *bool
}

func newToggleValue(defaultValue bool, target *bool) *toggleValue {
	*target = defaultValue
	return &toggleValue{target: target}
}

func (value *toggleValue) String() string {
	if value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleValue) Set(raw string) error {
	parsedValue, parseError := parseToggleValue(raw)
	if parseError != nil {
		return parseError
	}
	*value.target = parsedValue
	return nil
}

func (value *toggleValue) Type() string {
	return toggleValueTypeNameConstant
}

// AddToggleFlag registers a boolean flag that accepts toggle literals. When
// target is nil the flag keeps its own backing storage.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}
	if target == nil {
		target = new(bool)
	}

	defaultChoice := toggleFalseChoiceConstant
	if defaultValue {
		defaultChoice = toggleTrueChoiceConstant
	}

	flagValue := newToggleValue(defaultValue, target)
	decoratedUsage := FormatChoiceUsage(defaultChoice, []string{toggleTrueChoiceConstant, toggleFalseChoiceConstant}, usage)
	registeredFlag := flagSet.VarPF(flagValue, name, shorthand, decoratedUsage)
	registeredFlag.NoOptDefVal = toggleTrueLiteralConstant
}

func parseToggleValue(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	default:
		return false, fmt.Errorf(toggleParseErrorTemplateConstant, raw)
	}
}

// NormalizeToggleArguments rewrites "--flag value" pairs into "--flag=value"
// form whenever the value is a toggle literal. Toggle flags use NoOptDefVal,
// so pflag would otherwise treat the literal as a positional argument.
func NormalizeToggleArguments(arguments []string) []string {
	normalized := make([]string, 0, len(arguments))
	for argumentIndex := 0; argumentIndex < len(arguments); argumentIndex++ {
		argument := arguments[argumentIndex]
		if isNormalizableFlagArgument(argument) && argumentIndex+1 < len(arguments) {
			if _, parseError := parseToggleValue(arguments[argumentIndex+1]); parseError == nil {
				normalized = append(normalized, argument+toggleArgumentAssignmentConstant+arguments[argumentIndex+1])
				argumentIndex++
				continue
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func isNormalizableFlagArgument(argument string) bool {
	if !strings.HasPrefix(argument, toggleArgumentPrefixConstant) {
		return false
	}
	if len(argument) <= len(toggleArgumentPrefixConstant) {
		return false
	}
	return !strings.Contains(argument, toggleArgumentAssignmentConstant)
}

// FormatChoiceUsage appends a back-quoted placeholder listing the accepted
// choices with the default uppercased, so help output renders the literals
// instead of the flag's value type.
func FormatChoiceUsage(defaultValue string, choices []string, usage string) string {
	rendered := make([]string, 0, len(choices))
	for _, choice := range choices {
		if strings.EqualFold(choice, defaultValue) {
			rendered = append(rendered, strings.ToUpper(choice))
			continue
		}
		rendered = append(rendered, choice)
	}
	return fmt.Sprintf(choicePlaceholderTemplateConstant, usage, strings.Join(rendered, choiceSeparatorConstant))
}
