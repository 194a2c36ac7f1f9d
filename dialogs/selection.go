package dialogs

import (
	"regexp"
	"strings"
)

var selectionLineBreakPattern = regexp.MustCompile(`\r?\n`)

// Selection is the pending result of a dialog started in the background.
type Selection struct {
	done  chan struct{}
	value string
	err   error
}

func startSelection(open func() (string, error)) *Selection {
	selection := &Selection{done: make(chan struct{})}
	go func() {
		defer close(selection.done)
		selection.value, selection.err = open()
	}()
	return selection
}

// Done is closed once the dialog process has exited.
func (selection *Selection) Done() <-chan struct{} {
	return selection.done
}

// Wait blocks until the dialog closes and returns its selection or error.
func (selection *Selection) Wait() (string, error) {
	<-selection.done
	return selection.value, selection.err
}

// SplitSelection splits a multi-select result into individual paths, skipping blank lines.
func SplitSelection(selection string) []string {
	lines := selectionLineBreakPattern.Split(selection, -1)
	paths := make([]string, 0, len(lines))
	for _, line := range lines {
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		paths = append(paths, line)
	}
	return paths
}
