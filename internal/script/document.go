// Package script turns a free-form video idea into a structured script
// document by conversing with a model backend: one classification turn to
// pick the video format, then one turn per field of that format.
package script

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Variant is the classified kind of video document. It is resolved once
// per generation call, right after the classification turn, and never
// changes afterward.
type Variant string

const (
	VariantTopic          Variant = "TopicVideo"
	VariantTextMessage    Variant = "TextMessageVideo"
	VariantWouldYouRather Variant = "WouldYouRatherVideo"
	VariantRanking        Variant = "RankingVideo"
	VariantQuiz           Variant = "QuizVideo"
)

// Variants returns the closed set of known variants in declaration order.
func Variants() []Variant {
	return []Variant{
		VariantTopic,
		VariantTextMessage,
		VariantWouldYouRather,
		VariantRanking,
		VariantQuiz,
	}
}

func (v Variant) String() string {
	return string(v)
}

// Document is the structured result of one generation call: the resolved
// variant plus the elicited fields in the order they were requested.
type Document struct {
	variant Variant
	names   []string
	values  map[string]any
}

func NewDocument(variant Variant) *Document {
	return &Document{
		variant: variant,
		values:  make(map[string]any),
	}
}

func (d *Document) Type() Variant {
	return d.variant
}

// Set stores a field value, keeping first-set order for serialization.
func (d *Document) Set(name string, value any) {
	if _, ok := d.values[name]; !ok {
		d.names = append(d.names, name)
	}
	d.values[name] = value
}

func (d *Document) Get(name string) (any, bool) {
	v, ok := d.values[name]
	return v, ok
}

func (d *Document) FieldNames() []string {
	out := make([]string, len(d.names))
	copy(out, d.names)
	return out
}

// MarshalJSON writes the type key first and the fields in elicitation
// order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)

	if err := writeValue(&buf, string(d.variant)); err != nil {
		return nil, err
	}

	for _, name := range d.names {
		buf.WriteByte(',')
		if err := writeValue(&buf, name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeValue(&buf, d.values[name]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Serialize renders the document as two-space-indented JSON.
func (d *Document) Serialize() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize document: %w", err)
	}
	return string(data), nil
}

func writeValue(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal field: %w", err)
	}
	buf.Write(data)
	return nil
}
