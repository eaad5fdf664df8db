package manifest

import (
	"slices"

	"go.trai.ch/isolate/internal/jsondoc"
)

// adaptScripts keeps only the picked scripts, or all but the omitted ones.
// Without either list every script is removed.
func adaptScripts(doc *jsondoc.Object, pick, omit []string) {
	scripts, ok := doc.GetObject("scripts")
	if !ok {
		return
	}

	switch {
	case len(pick) > 0:
		scripts.Filter(func(name string, _ any) bool { return slices.Contains(pick, name) })
	case len(omit) > 0:
		scripts.Filter(func(name string, _ any) bool { return !slices.Contains(omit, name) })
	default:
		doc.Delete("scripts")
		return
	}

	if scripts.Len() == 0 {
		doc.Delete("scripts")
	}
}
