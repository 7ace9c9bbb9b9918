// Package dataset turns merged fault records into fine-tuning examples and
// chat-ready structured answers.
package dataset

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

// SystemInstruction is the static first message of every exported example.
const SystemInstruction = "You are BoilerBrain, a senior Gas Safe engineer. " +
	"Given a boiler make, model, and fault code, reply with a JSON diagnosis " +
	"containing a header, key bullets, ordered repair steps, cautions, likely " +
	"parts, and expected measurements."

// Every evalStride-th record (0-indexed) lands in the evaluation split. The
// stride is fixed so re-running over identical input reproduces the split.
const evalStride = 10

// Message is one turn of an exported exchange.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Example is the fixed three-message exchange emitted per record.
type Example struct {
	Messages []Message `json:"messages"`
}

// Header identifies the appliance a structured answer is about.
type Header struct {
	Manufacturer *string `json:"manufacturer"`
	Model        *string `json:"model"`
	System       *string `json:"system"`
	FaultCode    *string `json:"faultCode"`
}

// StructuredAnswer is the assistant payload, also served directly on the chat
// retrieval path.
type StructuredAnswer struct {
	Header       Header               `json:"header"`
	Bullets      []string             `json:"bullets"`
	Steps        []string             `json:"steps"`
	Cautions     []string             `json:"cautions"`
	Parts        []string             `json:"parts"`
	Measurements []string             `json:"measurements"`
	Sources      domain.RecordSources `json:"sources"`
}

// Structured converts a fault record into the chat-ready answer shape.
func Structured(rec *domain.FaultRecord) StructuredAnswer {
	return StructuredAnswer{
		Header: Header{
			Manufacturer: rec.Manufacturer,
			Model:        rec.Model,
			System:       rec.System,
			FaultCode:    rec.FaultCode,
		},
		Bullets:      emptyIfNil(rec.Bullets),
		Steps:        emptyIfNil(rec.Steps),
		Cautions:     emptyIfNil(rec.Cautions),
		Parts:        emptyIfNil(rec.Parts),
		Measurements: emptyIfNil(rec.Measurements),
		Sources: domain.RecordSources{
			Manuals:   emptyIfNil(rec.Sources.Manuals),
			Knowledge: emptyIfNil(rec.Sources.Knowledge),
		},
	}
}

// UserPrompt flattens the known identifying fields, joined by " | " with
// absent fields omitted entirely.
func UserPrompt(rec *domain.FaultRecord) string {
	var parts []string
	for _, field := range []struct {
		label string
		value *string
	}{
		{"Manufacturer", rec.Manufacturer},
		{"Model", rec.Model},
		{"System", rec.System},
		{"Fault code", rec.FaultCode},
	} {
		if field.value != nil {
			parts = append(parts, fmt.Sprintf("%s: %s", field.label, *field.value))
		}
	}
	return strings.Join(parts, " | ")
}

// BuildExample converts one record into the three-message exchange. The
// assistant payload is JSON so every example round-trips without loss.
func BuildExample(rec *domain.FaultRecord) (Example, error) {
	payload, err := json.Marshal(Structured(rec))
	if err != nil {
		return Example{}, fmt.Errorf("marshal assistant payload: %w", err)
	}

	return Example{
		Messages: []Message{
			{Role: "system", Content: SystemInstruction},
			{Role: "user", Content: UserPrompt(rec)},
			{Role: "assistant", Content: string(payload)},
		},
	}, nil
}

// Split partitions records into training and evaluation examples. The
// partition is positional, not random: identical ordered input yields
// identical membership.
func Split(records []*domain.FaultRecord) (train, eval []Example, err error) {
	for i, rec := range records {
		example, err := BuildExample(rec)
		if err != nil {
			return nil, nil, err
		}
		if i%evalStride == 0 {
			eval = append(eval, example)
		} else {
			train = append(train, example)
		}
	}
	return train, eval, nil
}

func emptyIfNil(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
