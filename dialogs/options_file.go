package dialogs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/psdialog/internal/powershell"
)

const (
	optionsPathRequiredMessageConstant    = "options file path must be provided"
	optionsReadErrorTemplateConstant      = "failed to read options file: %w"
	optionsParseErrorTemplateConstant     = "failed to parse options: %w"
	optionsMappingRequiredMessageConstant = "options must be a mapping of property names to values"
	optionsScalarRequiredTemplateConstant = "option %q must be a scalar value (line %d)"
	optionsKeyRequiredTemplateConstant    = "option names must be scalars (line %d)"
	optionsValueDecodeTemplateConstant    = "option %q: %w"
	yamlBooleanTagConstant                = "!!bool"
	yamlIntegerTagConstant                = "!!int"
	yamlFloatTagConstant                  = "!!float"
	yamlStringTagConstant                 = "!!str"
)

var errOptionsMappingRequired = errors.New(optionsMappingRequiredMessageConstant)

// LoadOptionsFile reads extra dialog options from a YAML or JSON file.
func LoadOptionsFile(filePath string) (Options, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return nil, errors.New(optionsPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return nil, fmt.Errorf(optionsReadErrorTemplateConstant, readError)
	}

	return ParseOptions(contentBytes)
}

// ParseOptions decodes a YAML mapping into Options, keeping document order as insertion order.
// Booleans, integers, and floats keep their type; other scalars become strings.
func ParseOptions(content []byte) (Options, error) {
	var document yaml.Node
	if unmarshalError := yaml.Unmarshal(content, &document); unmarshalError != nil {
		return nil, fmt.Errorf(optionsParseErrorTemplateConstant, unmarshalError)
	}

	if len(document.Content) == 0 {
		return nil, nil
	}

	mapping := document.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf(optionsParseErrorTemplateConstant, errOptionsMappingRequired)
	}

	options := make(Options, 0, len(mapping.Content)/2)
	for index := 0; index+1 < len(mapping.Content); index += 2 {
		keyNode := mapping.Content[index]
		valueNode := mapping.Content[index+1]

		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf(optionsKeyRequiredTemplateConstant, keyNode.Line)
		}
		if valueNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf(optionsScalarRequiredTemplateConstant, keyNode.Value, valueNode.Line)
		}

		value, decodeError := decodeScalar(valueNode)
		if decodeError != nil {
			return nil, fmt.Errorf(optionsValueDecodeTemplateConstant, keyNode.Value, decodeError)
		}

		options = options.With(keyNode.Value, value)
	}

	if validationError := options.Validate(); validationError != nil {
		return nil, validationError
	}

	return options, nil
}

func decodeScalar(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case yamlBooleanTagConstant:
		var booleanValue bool
		decodeError := node.Decode(&booleanValue)
		return booleanValue, decodeError
	case yamlIntegerTagConstant:
		var integerValue int64
		decodeError := node.Decode(&integerValue)
		return integerValue, decodeError
	case yamlFloatTagConstant:
		var floatValue float64
		decodeError := node.Decode(&floatValue)
		return floatValue, decodeError
	case yamlStringTagConstant:
		return node.Value, nil
	default:
		return nil, powershell.ErrUnsupportedOptionValue
	}
}
