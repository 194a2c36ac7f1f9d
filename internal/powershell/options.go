package powershell

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
)

const (
	invalidOptionNameMessageConstant      = "option name is not a PowerShell member name"
	unsupportedOptionValueMessageConstant = "option value must be a string, boolean, or finite number"
	optionErrorTemplateConstant           = "dialog option %q: %v"
	optionAssignmentTemplateConstant      = "$%s.%s = %s"
	quotedLiteralTemplateConstant         = `"%s"`
	powerShellTrueLiteralConstant         = "$true"
	powerShellFalseLiteralConstant        = "$false"
	floatFormatConstant                   = 'g'
	floatBitSizeConstant                  = 64
)

var (
	// ErrInvalidOptionName indicates an option name that cannot appear after a member-access dot.
	ErrInvalidOptionName = errors.New(invalidOptionNameMessageConstant)
	// ErrUnsupportedOptionValue indicates an option value of a type the serializer cannot render.
	ErrUnsupportedOptionValue = errors.New(unsupportedOptionValueMessageConstant)

	optionNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
)

// Option assigns Value to the property Name of the native dialog object.
type Option struct {
	Name  string
	Value any
}

// Options is an ordered set of extra dialog properties. Statements are emitted in slice order.
type Options []Option

// OptionError reports the option that failed validation.
type OptionError struct {
	Name  string
	Cause error
}

// Error describes the rejected option.
func (optionError OptionError) Error() string {
	return fmt.Sprintf(optionErrorTemplateConstant, optionError.Name, optionError.Cause)
}

// Unwrap exposes ErrInvalidOptionName or ErrUnsupportedOptionValue.
func (optionError OptionError) Unwrap() error {
	return optionError.Cause
}

// With returns options extended by name=value. An existing entry with the same name keeps its
// position and takes the new value.
func (options Options) With(name string, value any) Options {
	extended := append(Options{}, options...)
	for index := range extended {
		if extended[index].Name == name {
			extended[index].Value = value
			return extended
		}
	}
	return append(extended, Option{Name: name, Value: value})
}

// Sanitized returns a copy whose string values passed through SanitizeString.
func (options Options) Sanitized() Options {
	if len(options) == 0 {
		return nil
	}
	sanitized := make(Options, len(options))
	for index, option := range options {
		sanitized[index] = option
		if stringValue, isString := option.Value.(string); isString {
			sanitized[index].Value = SanitizeString(stringValue)
		}
	}
	return sanitized
}

// Validate checks every option name and value type without rendering statements.
func (options Options) Validate() error {
	for _, option := range options {
		if _, literalError := renderOption(option); literalError != nil {
			return literalError
		}
	}
	return nil
}

// SerializeOptions renders one assignment statement per option onto the PowerShell variable
// targetVariable (without the leading $). String values are quoted verbatim, so callers sanitize
// them first. Booleans render as $true/$false and numbers unquoted. Empty options produce no statements.
//
// Names are restricted to PowerShell member identifiers (letters, digits and underscores, with dotted
// paths for nested members); any other name fails with ErrInvalidOptionName. Whether the member exists
// on the dialog object is not checked.
func SerializeOptions(targetVariable string, options Options) ([]string, error) {
	if len(options) == 0 {
		return nil, nil
	}

	statements := make([]string, 0, len(options))
	for _, option := range options {
		literal, literalError := renderOption(option)
		if literalError != nil {
			return nil, literalError
		}
		statements = append(statements, fmt.Sprintf(optionAssignmentTemplateConstant, targetVariable, option.Name, literal))
	}
	return statements, nil
}

func renderOption(option Option) (string, error) {
	if !optionNamePattern.MatchString(option.Name) {
		return "", OptionError{Name: option.Name, Cause: ErrInvalidOptionName}
	}
	literal, supported := renderLiteral(option.Value)
	if !supported {
		return "", OptionError{Name: option.Name, Cause: ErrUnsupportedOptionValue}
	}
	return literal, nil
}

// renderLiteral renders strings quoted and booleans as $true/$false. PowerShell converts any
// non-empty string, including "false", to $true when assigned to a Boolean property.
func renderLiteral(value any) (string, bool) {
	switch typedValue := value.(type) {
	case string:
		return quoteLiteral(typedValue), true
	case bool:
		return BooleanLiteral(typedValue), true
	}

	reflectedValue := reflect.ValueOf(value)
	switch reflectedValue.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(reflectedValue.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(reflectedValue.Uint(), 10), true
	case reflect.Float32, reflect.Float64:
		floatValue := reflectedValue.Float()
		if math.IsNaN(floatValue) || math.IsInf(floatValue, 0) {
			return "", false
		}
		return strconv.FormatFloat(floatValue, floatFormatConstant, -1, floatBitSizeConstant), true
	default:
		return "", false
	}
}

// BooleanLiteral renders a PowerShell Boolean literal.
func BooleanLiteral(value bool) string {
	if value {
		return powerShellTrueLiteralConstant
	}
	return powerShellFalseLiteralConstant
}

func quoteLiteral(value string) string {
	return fmt.Sprintf(quotedLiteralTemplateConstant, value)
}
