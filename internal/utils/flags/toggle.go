// Package flags provides helpers for binding standardized flags to Cobra
// commands.
package flags

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValue               = "true"
	toggleFalseCanonicalValue              = "false"
	toggleParseErrorTemplate               = "invalid toggle value %q"
	toggleArgumentTruePlaceholderConstant  = "<YES|no>"
	toggleArgumentFalsePlaceholderConstant = "<yes|NO>"
	toggleUsageTemplateConstant            = "%s %s"
)

var trueLiteralSet = map[string]struct{}{
	toggleTrueCanonicalValue: {},
	"yes":                    {},
	"on":                     {},
	"1":                      {},
	"t":                      {},
	"y":                      {},
}

var falseLiteralSet = map[string]struct{}{
	toggleFalseCanonicalValue: {},
	"no":                      {},
	"off":                     {},
	"0":                       {},
	"f":                       {},
	"n":                       {},
}

// AddToggleFlag registers a boolean toggle flag that accepts yes/no style
// values and defaults to true when supplied without a value.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	toggleValue := newToggleFlagValue(defaultValue, target)
	if len(shorthand) > 0 {
		flagSet.VarP(toggleValue, name, shorthand, usage)
	} else {
		flagSet.Var(toggleValue, name, usage)
	}

	registeredFlag := flagSet.Lookup(name)
	if registeredFlag == nil {
		return
	}
	registeredFlag.NoOptDefVal = toggleTrueCanonicalValue
	registeredFlag.Usage = formatToggleUsage(usage, defaultValue)
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleArgumentFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleArgumentTruePlaceholderConstant
	}
	if len(strings.TrimSpace(description)) == 0 {
		return placeholder
	}
	return fmt.Sprintf(toggleUsageTemplateConstant, placeholder, description)
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func newToggleFlagValue(defaultValue bool, target *bool) *toggleFlagValue {
	value := &toggleFlagValue{currentValue: defaultValue, target: target}
	if target != nil {
		*target = defaultValue
	}
	return value
}

// Set parses yes/no style literals into the toggle state.
func (value *toggleFlagValue) Set(rawValue string) error {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if _, isTrue := trueLiteralSet[normalizedValue]; isTrue {
		value.assign(true)
		return nil
	}
	if _, isFalse := falseLiteralSet[normalizedValue]; isFalse {
		value.assign(false)
		return nil
	}
	return fmt.Errorf(toggleParseErrorTemplate, rawValue)
}

// String reports the canonical true/false rendering of the current state.
func (value *toggleFlagValue) String() string {
	if value.currentValue {
		return toggleTrueCanonicalValue
	}
	return toggleFalseCanonicalValue
}

// Type identifies the flag value type in usage output.
func (value *toggleFlagValue) Type() string {
	return "toggle"
}

func (value *toggleFlagValue) assign(state bool) {
	value.currentValue = state
	if value.target != nil {
		*value.target = state
	}
}
