package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// detectUnknownFields compares the decoded YAML document with the known
// struct fields. Unknown fields are ignored with a warning.
func detectUnknownFields(raw any) []string {
	root, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	var warnings []string
	known := getYAMLFields(reflect.TypeOf(Config{}))
	for _, key := range sortedKeys(root) {
		if key == "$schema" {
			continue
		}
		section, isKnown := known[key]
		if !isKnown {
			warnings = append(warnings, fmt.Sprintf("unknown field %q at root level (ignored)", key))
			continue
		}
		fields, ok := root[key].(map[string]any)
		if !ok {
			continue
		}
		sectionFields := getYAMLFields(section)
		for _, field := range sortedKeys(fields) {
			if _, ok := sectionFields[field]; !ok {
				warnings = append(warnings, fmt.Sprintf("unknown field %q in %s (ignored)", field, key))
			}
		}
	}
	return warnings
}

// getYAMLFields maps the YAML field names of a struct type to their types.
func getYAMLFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name != "" {
			fields[name] = field.Type
		}
	}
	return fields
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
