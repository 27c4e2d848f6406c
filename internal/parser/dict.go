package parser

import (
	"fmt"
	"io"
	"os"
	"sort"

	"howett.net/plist"
)

// Keys used by the .stringsdict property-list format.
const (
	FormatKey          = "NSStringLocalizedFormatKey"
	VariableSpecKey    = "NSStringFormatSpecTypeKey"
	VariableValueKey   = "NSStringFormatValueTypeKey"
	PluralRuleSpecType = "NSStringPluralRuleType"
)

// PluralCategories lists the plural forms in canonical order.
var PluralCategories = []string{"zero", "one", "two", "few", "many", "other"}

// Variable is one plural-rule variable of a .stringsdict entry. A nil field
// means the form is absent.
type Variable struct {
	ValueType *string `json:"value_type,omitempty"`
	Zero      *string `json:"zero,omitempty"`
	One       *string `json:"one,omitempty"`
	Two       *string `json:"two,omitempty"`
	Few       *string `json:"few,omitempty"`
	Many      *string `json:"many,omitempty"`
	Other     *string `json:"other,omitempty"`
}

func (v *Variable) form(category string) **string {
	switch category {
	case "zero":
		return &v.Zero
	case "one":
		return &v.One
	case "two":
		return &v.Two
	case "few":
		return &v.Few
	case "many":
		return &v.Many
	case "other":
		return &v.Other
	}
	return nil
}

// Forms returns the present plural forms keyed by category.
func (v *Variable) Forms() map[string]string {
	forms := make(map[string]string)
	for _, c := range PluralCategories {
		if p := *v.form(c); p != nil {
			forms[c] = *p
		}
	}
	return forms
}

// DictEntry is one key of a .stringsdict file.
type DictEntry struct {
	Key       string               `json:"key"`
	Value     string               `json:"value"`
	Variables map[string]*Variable `json:"variables"`
}

// StringsDictFormat returns the property-list dictionary for the entry.
func (e *DictEntry) StringsDictFormat() map[string]any {
	out := map[string]any{FormatKey: e.Value}
	for name, v := range e.Variables {
		d := map[string]any{VariableSpecKey: PluralRuleSpecType}
		if v.ValueType != nil {
			d[VariableValueKey] = *v.ValueType
		}
		for c, s := range v.Forms() {
			d[c] = s
		}
		out[name] = d
	}
	return out
}

// Merge copies variables from other into e, preferring other's values.
// Only variables e already defines are touched.
func (e *DictEntry) Merge(other *DictEntry) {
	for name, v := range e.Variables {
		if ov, ok := other.Variables[name]; ok && ov != nil {
			*v = *ov.clone()
		}
	}
}

func (v *Variable) clone() *Variable {
	out := &Variable{ValueType: cloneString(v.ValueType)}
	for _, c := range PluralCategories {
		*out.form(c) = cloneString(*v.form(c))
	}
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	s := *p
	return &s
}

// LoadsDict parses a .stringsdict property list (XML, binary or OpenStep).
// Entries are returned sorted by key.
func LoadsDict(data []byte) ([]DictEntry, error) {
	var root map[string]any
	if _, err := plist.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("stringsdict format is incorrect: %w", err)
	}

	keys := make([]string, 0, len(root))
	for k := range root {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]DictEntry, 0, len(keys))
	for _, key := range keys {
		body, ok := root[key].(map[string]any)
		if !ok {
			return nil, &MalformedDictError{Key: key, Reason: "entry is not a dictionary"}
		}
		entry, err := parseDictEntry(key, body)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadDict reads r to the end and parses it as LoadsDict does.
func LoadDict(r io.Reader) ([]DictEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read stringsdict: %w", err)
	}
	return LoadsDict(data)
}

// LoadDictFile parses the .stringsdict file at path.
func LoadDictFile(path string) ([]DictEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	entries, err := LoadsDict(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return entries, nil
}

// MarshalDict encodes entries as an XML property list.
func MarshalDict(entries []DictEntry) ([]byte, error) {
	root := make(map[string]any, len(entries))
	for i := range entries {
		root[entries[i].Key] = entries[i].StringsDictFormat()
	}
	out, err := plist.MarshalIndent(root, plist.XMLFormat, "\t")
	if err != nil {
		return nil, fmt.Errorf("encode stringsdict: %w", err)
	}
	return out, nil
}

func parseDictEntry(key string, body map[string]any) (DictEntry, error) {
	format, ok := body[FormatKey]
	if !ok {
		return DictEntry{}, &MalformedDictError{Key: key, Field: FormatKey, Reason: "missing"}
	}
	value, ok := format.(string)
	if !ok {
		return DictEntry{}, &MalformedDictError{Key: key, Field: FormatKey, Reason: "not a string"}
	}

	entry := DictEntry{Key: key, Value: value, Variables: make(map[string]*Variable)}
	for name, raw := range body {
		if name == FormatKey {
			continue
		}
		contents, ok := raw.(map[string]any)
		if !ok {
			return DictEntry{}, &MalformedDictError{Key: key, Field: name, Reason: "variable is not a dictionary"}
		}
		v, err := parseVariable(key, name, contents)
		if err != nil {
			return DictEntry{}, err
		}
		entry.Variables[name] = v
	}
	return entry, nil
}

func parseVariable(key, name string, contents map[string]any) (*Variable, error) {
	spec, ok := contents[VariableSpecKey]
	if !ok {
		return nil, &MalformedDictError{Key: key, Field: name + "." + VariableSpecKey, Reason: "missing"}
	}
	if spec != PluralRuleSpecType {
		return nil, &MalformedDictError{
			Key:    key,
			Field:  name + "." + VariableSpecKey,
			Reason: fmt.Sprintf("expected %s, got %v", PluralRuleSpecType, spec),
		}
	}

	v := &Variable{ValueType: optionalString(contents[VariableValueKey])}
	for _, c := range PluralCategories {
		*v.form(c) = optionalString(contents[c])
	}
	return v, nil
}

func optionalString(raw any) *string {
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	return &s
}
