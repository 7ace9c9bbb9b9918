// Package chat implements the diagnostic conversation workflow: session
// history, LLM action protocol, and database-backed answers.
package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/boilerbrain-ai/boilerbrain/internal/llm"
	"github.com/boilerbrain-ai/boilerbrain/internal/observability"
	"github.com/boilerbrain-ai/boilerbrain/internal/storage"
)

// Actions the model may choose.
const (
	ActionAsk      = "ask"
	ActionQuery    = "query"
	ActionFallback = "fallback_reasoning"
)

// SessionStore persists per-session conversation history.
type SessionStore interface {
	History(ctx context.Context, sessionID string) ([]storage.ChatTurn, error)
	SaveHistory(ctx context.Context, sessionID string, history []storage.ChatTurn) error
}

// QueryRunner executes the model-produced lookup SQL.
type QueryRunner interface {
	FirstRow(ctx context.Context, query string) (map[string]any, error)
}

// Service handles one chat turn end to end.
type Service struct {
	logger     *observability.Logger
	sessions   SessionStore
	runner     QueryRunner
	generator  llm.Generator
	classifier Classifier
}

// Response is what a chat turn returns to the caller.
type Response struct {
	Response      string `json:"response"`
	SQLQuery      string `json:"sql_query"`
	SessionID     string `json:"session_id"`
	ManualLink    string `json:"manual_link"`
	RegulationRef string `json:"regulation_ref"`
	Action        string `json:"action"`
}

// decision is the model's JSON action object.
type decision struct {
	Action        string         `json:"action"`
	Response      string         `json:"response"`
	ContextUpdate map[string]any `json:"context_update"`
	SQLQuery      string         `json:"sql_query"`
	ManualLink    string         `json:"manual_link"`
	RegulationRef string         `json:"regulation_ref"`
}

// NewService creates a chat service.
func NewService(logger *observability.Logger, sessions SessionStore, runner QueryRunner, gen llm.Generator, classifier Classifier) *Service {
	if classifier == nil {
		classifier = NewRegexClassifier()
	}
	return &Service{
		logger:     logger.WithComponent("chat"),
		sessions:   sessions,
		runner:     runner,
		generator:  gen,
		classifier: classifier,
	}
}

// Handle runs one turn: load history, ask the model for an action, execute
// it, and persist the updated history.
func (s *Service) Handle(ctx context.Context, sessionID, question string) (*Response, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("no session ID provided")
	}
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("no question provided")
	}

	log := s.logger.WithSession(sessionID)

	history, err := s.sessions.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	history = append(history, storage.ChatTurn{Role: "user", Content: question})

	turns := make([]historyTurn, len(history))
	for i, t := range history {
		turns[i] = historyTurn{Role: t.Role, Content: t.Content}
	}

	chatContext := s.contextFromEntities(question)
	prompt, err := buildPrompt(turns, chatContext, question)
	if err != nil {
		return nil, err
	}

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	var dec decision
	if err := json.Unmarshal([]byte(llm.StripCodeFence(raw)), &dec); err != nil {
		log.Error().Err(err).Msg("Model reply was not valid JSON")
		return nil, fmt.Errorf("decode model response: %w", err)
	}

	resp := &Response{
		SessionID:     sessionID,
		Action:        dec.Action,
		SQLQuery:      "N/A",
		ManualLink:    dec.ManualLink,
		RegulationRef: dec.RegulationRef,
	}

	switch dec.Action {
	case ActionQuery:
		resp.Response = s.answerFromQuery(ctx, log, &dec)
		resp.SQLQuery = dec.SQLQuery
	case ActionFallback:
		resp.Response = s.enrich(dec.Response, &dec)
	case ActionAsk:
		resp.Response = dec.Response
	default:
		resp.Response = dec.Response
		if resp.Response == "" {
			resp.Response = "I'm not sure how to proceed. Could you please clarify?"
		}
	}

	history = append(history, storage.ChatTurn{Role: "assistant", Content: resp.Response})
	if err := s.sessions.SaveHistory(ctx, sessionID, history); err != nil {
		log.Error().Err(err).Msg("Session persist failed")
	}

	return resp, nil
}

// answerFromQuery executes the lookup SQL and formats the first row into a
// readable diagnosis. An empty result falls back to the model's own text.
func (s *Service) answerFromQuery(ctx context.Context, log *observability.Logger, dec *decision) string {
	if dec.SQLQuery == "" {
		return "Unable to generate a database query."
	}

	row, err := s.runner.FirstRow(ctx, fixLegacyAliases(dec.SQLQuery))
	if errors.Is(err, storage.ErrNotFound) || (err == nil && row == nil) {
		if dec.Response != "" {
			return s.enrich(dec.Response, dec)
		}
		return "No specific fault code found. Based on the information provided, " +
			"I'll use my engineering experience to help diagnose the issue."
	}
	if err != nil {
		log.Error().Err(err).Msg("Lookup query failed")
		return "The fault database is unavailable right now. " +
			"Work from first principles: check power, gas, and water pressure first."
	}

	var sb strings.Builder
	if description, ok := row["description"].(string); ok {
		sb.WriteString(strings.TrimSpace(description))
	}

	if solutions := ParseSolutions(row["solutions"]); len(solutions) > 0 {
		sb.WriteString("\n\nRecommended steps:\n")
		for _, step := range solutions {
			sb.WriteString("- ")
			sb.WriteString(step)
			sb.WriteString("\n")
		}
	}

	return s.enrich(strings.TrimSpace(sb.String()), dec)
}

// enrich appends the manual link and regulation reference when present.
func (s *Service) enrich(text string, dec *decision) string {
	if dec.ManualLink != "" {
		text += fmt.Sprintf("\n\nManual: %s", dec.ManualLink)
	}
	if dec.RegulationRef != "" {
		text += fmt.Sprintf("\n\nGas Safety Regulation: %s", dec.RegulationRef)
	}
	return text
}

// contextFromEntities seeds the diagnostic context with whatever the
// classifier can detect up front.
func (s *Service) contextFromEntities(question string) map[string]any {
	ents := s.classifier.Classify(question)

	chatContext := map[string]any{}
	if ents.SystemType != "" {
		chatContext["system_type"] = ents.SystemType
	}
	if ents.Manufacturer != "" {
		chatContext["manufacturer"] = ents.Manufacturer
	}
	if ents.DetailMode != nil {
		chatContext["detail_mode"] = *ents.DetailMode
	}
	if ents.RegulationTrigger {
		chatContext["regulation_trigger"] = true
	}
	return chatContext
}

// fixLegacyAliases rewrites references to the old "model" column, which was
// renamed model_name in boiler_fault_codes. Models keep emitting the old
// name because it appears in older example prompts.
func fixLegacyAliases(query string) string {
	query = strings.ReplaceAll(query, " bf.model ", " bf.model_name ")
	query = strings.ReplaceAll(query, " bf.model,", " bf.model_name,")
	query = strings.ReplaceAll(query, ".model =", ".model_name =")
	return query
}
