package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/llm"
)

// maxPromptChars bounds how much manual text gets sent per extraction call.
const maxPromptChars = 15000

const metadataPrompt = `You are reading the text of a UK domestic boiler installation and service manual.
Return ONLY a JSON object with this exact shape, no prose:
{
  "manufacturer": "brand name",
  "models": ["model name", ...],
  "gc_numbers": ["GC number as printed", ...],
  "system_type": "combi | system | standard | unknown"
}

Manual text:
%s`

const faultsPrompt = `You are reading the text of a UK domestic boiler manual. Extract every fault
code listed together with its meaning and remedial actions. Return ONLY a JSON
array, no prose:
[
  {"fault_code": "F22", "description": "...", "solutions": ["...", "..."]}
]
Return [] if the manual lists no fault codes.

Manual text:
%s`

const proceduresPrompt = `You are reading the text of a UK domestic boiler manual. Extract the
diagnostic test procedures (electrical checks, gas pressure checks, sensor
resistance tables). Return ONLY a JSON array, no prose:
[
  {"subsystem": "...", "procedure": "...", "test_type": "...", "steps": ["...", "..."]}
]
Return [] if none are present.

Manual text:
%s`

// extractMetadata asks the generator for the manual's identifying metadata.
func extractMetadata(ctx context.Context, gen llm.Generator, text string) (*domain.ManualMetadata, error) {
	out, err := gen.Generate(ctx, fmt.Sprintf(metadataPrompt, clip(text)))
	if err != nil {
		return nil, err
	}

	var meta domain.ManualMetadata
	if err := json.Unmarshal([]byte(llm.StripCodeFence(out)), &meta); err != nil {
		return nil, domain.APIError("decode metadata response", err)
	}
	return &meta, nil
}

// extractFaults asks the generator for the manual's fault-code table.
func extractFaults(ctx context.Context, gen llm.Generator, text string) ([]domain.ExtractedFault, error) {
	out, err := gen.Generate(ctx, fmt.Sprintf(faultsPrompt, clip(text)))
	if err != nil {
		return nil, err
	}

	var faults []domain.ExtractedFault
	if err := json.Unmarshal([]byte(llm.StripCodeFence(out)), &faults); err != nil {
		return nil, domain.APIError("decode faults response", err)
	}
	return faults, nil
}

// extractProcedures asks the generator for the manual's test procedures.
func extractProcedures(ctx context.Context, gen llm.Generator, text string) ([]domain.ExtractedProcedure, error) {
	out, err := gen.Generate(ctx, fmt.Sprintf(proceduresPrompt, clip(text)))
	if err != nil {
		return nil, err
	}

	var procedures []domain.ExtractedProcedure
	if err := json.Unmarshal([]byte(llm.StripCodeFence(out)), &procedures); err != nil {
		return nil, domain.APIError("decode procedures response", err)
	}
	return procedures, nil
}

func clip(text string) string {
	if len(text) > maxPromptChars {
		return text[:maxPromptChars]
	}
	return text
}
