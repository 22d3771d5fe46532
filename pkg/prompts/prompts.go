// Package prompts holds the elicitation catalog: the classification
// prompt and, per video format, the ordered list of field prompts. Field
// order in the catalog is the order fields are requested and stored in,
// because later prompts assume earlier answers are already in the
// conversation.
package prompts

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

const defaultPromptsPath = "prompts.yaml"

type FieldPrompt struct {
	Name   string `yaml:"name"`
	Prompt string `yaml:"prompt"`
}

type VariantPrompts struct {
	Variant string        `yaml:"variant"`
	Fields  []FieldPrompt `yaml:"fields"`
}

type Catalog struct {
	Classification string           `yaml:"classification"`
	Variants       []VariantPrompts `yaml:"variants"`
}

type ClassificationParams struct {
	Variants string
}

// Load reads prompts.yaml from the working directory, falling back to the
// built-in catalog when the file does not exist.
func Load() (*Catalog, error) {
	c, err := LoadFrom(defaultPromptsPath)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	return c, err
}

func LoadFrom(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse prompts file: %w", err)
	}

	return &c, nil
}

// Fields returns the ordered field prompts for a variant, matched
// case-insensitively.
func (c *Catalog) Fields(variant string) ([]FieldPrompt, bool) {
	for _, v := range c.Variants {
		if strings.EqualFold(v.Variant, variant) {
			return v.Fields, true
		}
	}
	return nil, false
}

// RenderClassification fills the classification prompt template with the
// comma-joined list of known variant tags.
func (c *Catalog) RenderClassification(variants []string) (string, error) {
	return render(c.Classification, ClassificationParams{
		Variants: strings.Join(variants, ", "),
	})
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("execute template: %w", err)
	}

	return buf.String(), nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{
		Classification: "Decide which short-video format fits the idea above best. " +
			"Reply with exactly one of: {{.Variants}}. Reply with only the format name, nothing else.",
		Variants: []VariantPrompts{
			{
				Variant: "TopicVideo",
				Fields: []FieldPrompt{
					{Name: "title", Prompt: `Write a catchy title for this video, under 60 characters. Respond as JSON: {"title": "..."}`},
					{Name: "description", Prompt: `Write a one-sentence description for the video page. Respond as JSON: {"description": "..."}`},
					{Name: "script", Prompt: `Write the full spoken narration, 120-160 words, with a strong hook in the first sentence. No stage directions. Respond as JSON: {"script": "..."}`},
					{Name: "image_keywords", Prompt: `List 5 short image search terms that illustrate the script. Respond as JSON: {"image_keywords": ["..."]}`},
				},
			},
			{
				Variant: "TextMessageVideo",
				Fields: []FieldPrompt{
					{Name: "title", Prompt: `Write a catchy title for this text-conversation video, under 60 characters. Respond as JSON: {"title": "..."}`},
					{Name: "sender", Prompt: `Name the person sending the first message. Respond as JSON: {"sender": "..."}`},
					{Name: "receiver", Prompt: `Name the person replying. Respond as JSON: {"receiver": "..."}`},
					{Name: "messages", Prompt: `Write the exchange as 8-12 short text messages. Respond as JSON: {"messages": [{"from": "...", "text": "..."}]}`},
				},
			},
			{
				Variant: "WouldYouRatherVideo",
				Fields: []FieldPrompt{
					{Name: "title", Prompt: `Write a catchy title for this would-you-rather video, under 60 characters. Respond as JSON: {"title": "..."}`},
					{Name: "questions", Prompt: `Write 5 would-you-rather dilemmas, each with two options and the percentage of people picking the first. Respond as JSON: {"questions": [{"option_a": "...", "option_b": "...", "percent_a": 50}]}`},
				},
			},
			{
				Variant: "RankingVideo",
				Fields: []FieldPrompt{
					{Name: "title", Prompt: `Write a catchy title for this ranking video, under 60 characters. Respond as JSON: {"title": "..."}`},
					{Name: "items", Prompt: `Rank the top 5 entries for this topic, best first, with a one-line reason each. Respond as JSON: {"items": [{"rank": 1, "name": "...", "reason": "..."}]}`},
				},
			},
			{
				Variant: "QuizVideo",
				Fields: []FieldPrompt{
					{Name: "title", Prompt: `Write a catchy title for this quiz video, under 60 characters. Respond as JSON: {"title": "..."}`},
					{Name: "questions", Prompt: `Write 5 quiz questions with four options each and the correct answer. Respond as JSON: {"questions": [{"question": "...", "options": ["..."], "answer": "..."}]}`},
				},
			},
		},
	}
}
