// Package pathutils resolves user-supplied directory arguments before they reach a dialog script.
package pathutils

import (
	"os"
	"strings"
	"sync"
)

const (
	tildeSymbolConstant       = "~"
	forwardSlashConstant      = "/"
	backslashConstant         = `\`
	windowsSeparatorsConstant = `/\`
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander replaces a leading ~ with the user's home directory. Both / and \ are accepted
// after the tilde, and the joined path keeps the separator style of the home directory.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	homeDirectory         string
	homeDirectoryError    error
	resolveOnce           sync.Once
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves ~, ~/rest, and ~\rest. Other values, including ~user forms, are returned unchanged,
// as are all values when the home directory cannot be determined.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, tildeSymbolConstant)
	if len(remainder) > 0 && !strings.ContainsAny(remainder[:1], windowsSeparatorsConstant) {
		return candidatePath
	}

	homeDirectory := expander.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	relativePath := strings.TrimLeft(remainder, windowsSeparatorsConstant)
	if len(relativePath) == 0 {
		return homeDirectory
	}

	separator := forwardSlashConstant
	if strings.Contains(homeDirectory, backslashConstant) {
		separator = backslashConstant
		relativePath = strings.ReplaceAll(relativePath, forwardSlashConstant, backslashConstant)
	}
	return strings.TrimRight(homeDirectory, windowsSeparatorsConstant) + separator + relativePath
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.resolveOnce.Do(func() {
		expander.homeDirectory, expander.homeDirectoryError = expander.homeDirectoryProvider()
	})
	if expander.homeDirectoryError != nil {
		return ""
	}
	return expander.homeDirectory
}
