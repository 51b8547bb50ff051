package argset

import (
	"fmt"
	"reflect"
)

// Format renders value as the tokens that, parsed against s, bind value to d.
// Collections produce one token (or token pair) per element.
func (s *Schema) Format(d *Descriptor, value any) ([]string, error) {
	if d.binding.collection {
		rv := reflect.ValueOf(value)
		if rv.Kind() != reflect.Slice {
			return nil, fmt.Errorf("%w: %s expects a slice, got %T", ErrTypeMismatch, d.longName, value)
		}
		var tokens []string
		for i := range rv.Len() {
			elem, err := s.formatOne(d, rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, elem...)
		}
		return tokens, nil
	}
	return s.formatOne(d, value)
}

func (s *Schema) formatOne(d *Descriptor, value any) ([]string, error) {
	vt := d.binding.Type
	if c, ok := vt.(collectionType); ok {
		vt = c.elem
	}

	text, err := vt.Format(value)
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", d.longName, err)
	}
	if d.positional {
		if s.looksNamed(text) {
			return []string{"--", text}, nil
		}
		return []string{text}, nil
	}

	name := s.opts.PreferredLongPrefix() + d.longName
	if sw, ok := isSwitch(d.binding.Type); ok && d.IsSwitch() {
		if reflect.DeepEqual(value, sw.SwitchValue(true)) {
			return []string{name}, nil
		}
		if reflect.DeepEqual(value, sw.SwitchValue(false)) {
			return []string{name + "-"}, nil
		}
	}
	if sep := s.opts.PreferredSeparator(); sep != 0 {
		return []string{name + string(sep) + text}, nil
	}
	return []string{name, text}, nil
}

// looksNamed reports whether a positional value would be mistaken for a
// named argument, an answer file or the end-of-options marker.
func (s *Schema) looksNamed(text string) bool {
	if text == "--" {
		return true
	}
	if longestPrefix(text, s.opts.NamedArgumentPrefixes) > 0 || longestPrefix(text, s.opts.ShortNameArgumentPrefixes) > 0 {
		return true
	}
	prefix := s.opts.AnswerFileArgumentPrefix
	return prefix != "" && len(text) > len(prefix) && text[:len(prefix)] == prefix
}
