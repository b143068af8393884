package dom

import (
	"regexp"
	"slices"
	"strings"
)

// Attribute is one attribute of an element.
type Attribute struct {
	Key string
	// Value is entity-decoded.
	Value string
	// Raw is the value as written (or as encoded by SetAttribute).
	Raw string
}

var attributePattern = regexp.MustCompile(`(?i)([a-z][-.:0-9_a-z]*)(\s*=\s*("([^"]*)"|'([^']*)'|(\S+)))?`)

// keyAttributes extracts the decoded id and class from raw attribute text
// without keeping the full attribute list. Keys must be lower case and the
// last occurrence wins, as in the attribute map.
func keyAttributes(raw string) (id string, classNames []string) {
	var class string
	for _, m := range attributePattern.FindAllStringSubmatch(raw, -1) {
		switch m[1] {
		case "id":
			id = entities.Decode(m[4] + m[5] + m[6])
		case "class":
			class = entities.Decode(m[4] + m[5] + m[6])
		}
	}
	return id, strings.Fields(class)
}

func parseAttributes(raw string) []Attribute {
	attrs := []Attribute{}
	for _, m := range attributePattern.FindAllStringSubmatch(raw, -1) {
		// Only one of the three value groups can match.
		v := m[4] + m[5] + m[6]
		a := Attribute{Key: m[1], Value: entities.Decode(v), Raw: v}
		if i := indexAttr(attrs, a.Key); i >= 0 {
			attrs[i] = a
			continue
		}
		attrs = append(attrs, a)
	}
	return attrs
}

func indexAttr(attrs []Attribute, key string) int {
	return slices.IndexFunc(attrs, func(a Attribute) bool { return a.Key == key })
}

func (e *Element) attributeList() []Attribute {
	if !e.attrsParsed {
		e.attrs = parseAttributes(e.rawAttrs)
		e.attrsParsed = true
	}
	return e.attrs
}

// AttributeList returns the attributes in source order.
func (e *Element) AttributeList() []Attribute {
	return slices.Clone(e.attributeList())
}

// Attributes returns the decoded attribute values by key.
func (e *Element) Attributes() map[string]string {
	out := make(map[string]string, len(e.attributeList()))
	for _, a := range e.attrs {
		out[a.Key] = a.Value
	}
	return out
}

// RawAttributes returns the attribute values as written, by key.
func (e *Element) RawAttributes() map[string]string {
	out := make(map[string]string, len(e.attributeList()))
	for _, a := range e.attrs {
		out[a.Key] = a.Raw
	}
	return out
}

// Attribute returns the decoded value of key and whether it is present.
func (e *Element) Attribute(key string) (string, bool) {
	attrs := e.attributeList()
	if i := indexAttr(attrs, key); i >= 0 {
		return attrs[i].Value, true
	}
	return "", false
}

// GetAttribute returns the decoded value of key, or "" when absent.
func (e *Element) GetAttribute(key string) string {
	v, _ := e.Attribute(key)
	return v
}

// HasAttribute reports whether key is present.
func (e *Element) HasAttribute(key string) bool {
	_, ok := e.Attribute(key)
	return ok
}

// SetAttribute sets key to the plain value, adding it at the end when new.
func (e *Element) SetAttribute(key, value string) {
	switch key {
	case "id":
		e.id = value
	case "class":
		e.classNames = strings.Fields(value)
	}
	a := Attribute{Key: key, Value: value, Raw: entities.Encode(value)}
	attrs := e.attributeList()
	if i := indexAttr(attrs, key); i >= 0 {
		attrs[i] = a
	} else {
		e.attrs = append(attrs, a)
	}
	e.syncRawAttrs()
}

// RemoveAttribute deletes key.
func (e *Element) RemoveAttribute(key string) {
	switch key {
	case "id":
		e.id = ""
	case "class":
		e.classNames = nil
	}
	e.attrs = slices.DeleteFunc(e.attributeList(), func(a Attribute) bool { return a.Key == key })
	e.syncRawAttrs()
}

// SetAttributes replaces every attribute. Keys are stored in sorted order.
func (e *Element) SetAttributes(attrs map[string]string) {
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	e.attrs = make([]Attribute, 0, len(keys))
	for _, k := range keys {
		e.attrs = append(e.attrs, Attribute{Key: k, Value: attrs[k], Raw: entities.Encode(attrs[k])})
	}
	e.attrsParsed = true
	e.id = attrs["id"]
	e.classNames = strings.Fields(attrs["class"])
	e.syncRawAttrs()
}

// syncRawAttrs rebuilds the serialized attribute text from the list.
func (e *Element) syncRawAttrs() {
	parts := make([]string, 0, len(e.attrs))
	for _, a := range e.attrs {
		if a.Value == "" {
			parts = append(parts, a.Key)
			continue
		}
		parts = append(parts, a.Key+`="`+entities.Encode(a.Value)+`"`)
	}
	e.rawAttrs = strings.Join(parts, " ")
}
