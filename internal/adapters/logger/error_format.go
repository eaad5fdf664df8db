package logger

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// messager is implemented by zerr.Error and reports the message without the chain.
type messager interface {
	Message() string
}

// metadataCarrier is implemented by zerr.Error.
type metadataCarrier interface {
	Metadata() map[string]any
}

// ErrorEntry is one level of an error chain.
type ErrorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain of err. Levels without a message of
// their own hand their metadata to the next level.
func collectErrorEntries(err error) []ErrorEntry {
	var entries []ErrorEntry
	var carried map[string]any

	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, ErrorEntry{Message: current.Error(), Metadata: carried})
			break
		}

		var meta map[string]any
		if c, ok := current.(metadataCarrier); ok {
			meta = c.Metadata()
		}
		if carried != nil {
			if meta == nil {
				meta = make(map[string]any, len(carried))
			}
			maps.Copy(meta, carried)
			carried = nil
		}

		next := errors.Unwrap(current)
		if m.Message() == "" && next != nil {
			carried = meta
			current = next
			continue
		}

		entries = append(entries, ErrorEntry{Message: m.Message(), Metadata: meta})
		current = next
	}

	return entries
}

// formatErrorEntries renders entries as an indented cause chain.
func formatErrorEntries(entries []ErrorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")
		head, cont, metaIndent := "Error: ", "       ", "       "
		if i > 0 {
			if i == 1 {
				lines = append(lines, "", "  Caused by:")
			}
			head, cont, metaIndent = "    → ", "      ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, line := range msgLines[1:] {
			lines = append(lines, cont+line)
		}
		for _, key := range slices.Sorted(maps.Keys(entry.Metadata)) {
			lines = append(lines, fmt.Sprintf("%s%s: %v", metaIndent, key, entry.Metadata[key]))
		}
	}

	return strings.Join(lines, "\n")
}
