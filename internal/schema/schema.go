// Package schema validates JSON request bodies against a compiled JSON
// Schema and reports every violation, not just the first.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Schema is a compiled JSON Schema. It is read-only after Compile and safe
// for concurrent use.
type Schema struct {
	compiled *jsonschema.Schema
	doc      any
}

// resourceBase makes schema names absolute so the compiler never tries to
// load them from disk.
const resourceBase = "https://bookcatalog.local/schemas/"

// Compile parses and compiles doc. name identifies the schema in errors.
func Compile(name string, doc []byte) (*Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft7
	c.AssertFormat = true

	url := resourceBase + name
	if err := c.AddResource(url, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", name, err)
	}
	var raw any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", name, err)
	}
	return &Schema{compiled: compiled, doc: raw}, nil
}

// MustCompile is Compile for schemas embedded in the binary.
func MustCompile(name string, doc []byte) *Schema {
	s, err := Compile(name, doc)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks body and returns one message per violation. A nil result
// means the body is valid.
func (s *Schema) Validate(body []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return []string{"request body must be valid JSON"}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return []string{"request body must contain a single JSON value"}
	}

	err := s.compiled.Validate(doc)
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}

	var messages []string
	s.collect(doc, ve, &messages)
	sort.Strings(messages)
	return messages
}

func (s *Schema) collect(doc any, ve *jsonschema.ValidationError, out *[]string) {
	if len(ve.Causes) == 0 {
		if missing := s.missing(doc, ve); len(missing) > 0 {
			*out = append(*out, missing...)
			return
		}
		*out = append(*out, format(ve))
		return
	}
	for _, cause := range ve.Causes {
		s.collect(doc, cause, out)
	}
}

// missing splits a failed "required" keyword into one message per absent
// property. It returns nil when the keyword cannot be resolved.
func (s *Schema) missing(doc any, ve *jsonschema.ValidationError) []string {
	if path.Base(ve.KeywordLocation) != "required" {
		return nil
	}
	names, ok := pointer(s.doc, ve.KeywordLocation).([]any)
	if !ok {
		return nil
	}
	obj, ok := pointer(doc, ve.InstanceLocation).(map[string]any)
	if !ok {
		return nil
	}

	prefix := field(ve.InstanceLocation)
	if prefix != "" {
		prefix += "."
	}
	var messages []string
	for _, n := range names {
		name, ok := n.(string)
		if !ok {
			continue
		}
		if _, present := obj[name]; !present {
			messages = append(messages, prefix+name+": missing property")
		}
	}
	return messages
}

// pointer resolves a JSON pointer against a decoded document.
func pointer(v any, ptr string) any {
	if ptr == "" {
		return v
	}
	for _, tok := range strings.Split(strings.TrimPrefix(ptr, "/"), "/") {
		tok = strings.NewReplacer("~1", "/", "~0", "~").Replace(tok)
		switch node := v.(type) {
		case map[string]any:
			v = node[tok]
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			v = node[i]
		default:
			return nil
		}
	}
	return v
}

func field(instanceLocation string) string {
	return strings.ReplaceAll(strings.TrimPrefix(instanceLocation, "/"), "/", ".")
}

func format(ve *jsonschema.ValidationError) string {
	f := field(ve.InstanceLocation)
	if f == "" {
		return ve.Message
	}
	return f + ": " + ve.Message
}
