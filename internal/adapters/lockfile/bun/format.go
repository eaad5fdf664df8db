package bun

import (
	"bytes"

	"go.trai.ch/isolate/internal/jsondoc"
)

const indent = "  "

// Marshal renders doc the way bun writes bun.lock: nested objects and arrays
// carry trailing commas, package tuples sit on one line each separated by a
// blank line, and the last top-level field has no trailing comma.
func Marshal(doc *jsondoc.Object) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")

	keys := doc.Keys()
	for i, key := range keys {
		buf.WriteString(indent)
		if err := jsondoc.WriteScalar(&buf, key); err != nil {
			return nil, err
		}
		buf.WriteString(": ")

		value, _ := doc.Get(key)
		var err error
		if packages, ok := value.(*jsondoc.Object); ok && key == fieldPackages {
			err = writePackages(&buf, packages)
		} else {
			err = writeBlock(&buf, value, indent)
		}
		if err != nil {
			return nil, err
		}

		if i < len(keys)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}

	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func writeBlock(buf *bytes.Buffer, v any, prefix string) error {
	inner := prefix + indent
	switch t := v.(type) {
	case *jsondoc.Object:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for _, key := range t.Keys() {
			buf.WriteString(inner)
			if err := jsondoc.WriteScalar(buf, key); err != nil {
				return err
			}
			buf.WriteString(": ")
			value, _ := t.Get(key)
			if err := writeBlock(buf, value, inner); err != nil {
				return err
			}
			buf.WriteString(",\n")
		}
		buf.WriteString(prefix + "}")
		return nil
	case []any:
		if len(t) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for _, elem := range t {
			buf.WriteString(inner)
			if err := writeBlock(buf, elem, inner); err != nil {
				return err
			}
			buf.WriteString(",\n")
		}
		buf.WriteString(prefix + "]")
		return nil
	default:
		return jsondoc.WriteScalar(buf, t)
	}
}

func writePackages(buf *bytes.Buffer, packages *jsondoc.Object) error {
	if packages.Len() == 0 {
		buf.WriteString("{}")
		return nil
	}

	inner := indent + indent
	buf.WriteString("{\n")
	for i, key := range packages.Keys() {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(inner)
		if err := jsondoc.WriteScalar(buf, key); err != nil {
			return err
		}
		buf.WriteString(": ")
		value, _ := packages.Get(key)
		if err := writeInline(buf, value); err != nil {
			return err
		}
		buf.WriteString(",\n")
	}
	buf.WriteString(indent + "}")
	return nil
}

func writeInline(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case *jsondoc.Object:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{ ")
		for i, key := range t.Keys() {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := jsondoc.WriteScalar(buf, key); err != nil {
				return err
			}
			buf.WriteString(": ")
			value, _ := t.Get(key)
			if err := writeInline(buf, value); err != nil {
				return err
			}
		}
		buf.WriteString(" }")
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range t {
			if i > 0 {
				buf.WriteString(", ")
			}
			if err := writeInline(buf, elem); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	default:
		return jsondoc.WriteScalar(buf, t)
	}
}
