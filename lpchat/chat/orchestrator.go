package chat

import (
	"context"

	"github.com/rs/zerolog"

	ports "github.com/loanworks-dev/lpchat/lpchat/chat/ports"
)

const errorReplyPrefix = "An error occurred: "

// Params configures a conversation session.
type Params struct {
	// HistoryWindow caps the in-memory rolling history (turns, not exchanges).
	HistoryWindow int
	// ContextResults is the retrieval hit limit per query.
	ContextResults int
	// Sampling is passed through to the provider on every call.
	Sampling ports.Options
}

// DefaultParams returns the session defaults.
func DefaultParams() Params {
	return Params{
		HistoryWindow:  20,
		ContextResults: 3,
		Sampling: ports.Options{
			Temperature: 0.7,
			MaxTokens:   800,
		},
	}
}

// Orchestrator runs one conversation session: context retrieval, prompt
// assembly, completion, and durable message logging. It owns the rolling
// history and the monotonic sequence generator for the session's lifetime.
// It is not safe for concurrent use; the shell drives it sequentially.
type Orchestrator struct {
	provider  ports.Provider
	retriever ports.Retriever
	store     ports.MessageStore
	log       zerolog.Logger
	params    Params

	history []ports.Turn
	seq     int64
}

// NewOrchestrator wires a session. Zero-valued Params fields fall back to
// DefaultParams.
func NewOrchestrator(provider ports.Provider, retriever ports.Retriever, store ports.MessageStore, log zerolog.Logger, params Params) *Orchestrator {
	def := DefaultParams()
	if params.HistoryWindow <= 0 {
		params.HistoryWindow = def.HistoryWindow
	}
	if params.ContextResults <= 0 {
		params.ContextResults = def.ContextResults
	}
	if params.Sampling.MaxTokens <= 0 {
		params.Sampling = def.Sampling
	}

	return &Orchestrator{
		provider:  provider,
		retriever: retriever,
		store:     store,
		log:       log.With().Str("component", "orchestrator").Logger(),
		params:    params,
		seq:       1,
	}
}

// Respond runs one full exchange for userInput and returns the assistant's
// reply together with the number of sequence numbers consumed.
//
// Messages are logged in strict emission order: system, context (when
// retrieval produced one), user, assistant. Sequences are contiguous across
// exchanges: a number is consumed for every emitted turn even when its
// best-effort insert fails, so the next exchange always starts at the
// previous exchange's last sequence plus one.
func (o *Orchestrator) Respond(ctx context.Context, userInput string) (string, int) {
	contextText := o.retrieveContext(ctx, userInput)

	messages := make([]ports.Turn, 0, len(o.history)+3)
	messages = append(messages, ports.Turn{Role: ports.RoleSystem, Content: systemPrompt})
	if contextText != "" {
		messages = append(messages, ports.Turn{Role: ports.RoleSystem, Content: "Context: " + contextText})
	}
	messages = append(messages, o.history...)

	userTurn := ports.Turn{Role: ports.RoleUser, Content: userInput}
	messages = append(messages, userTurn)

	logged := 0
	logTurn := func(t ports.Turn) {
		if !o.store.Insert(ctx, t.Role, o.seq, t.Content) {
			o.log.Warn().
				Stringer("role", t.Role).
				Int64("sequence", o.seq).
				Msg("message insert failed, continuing")
		}
		o.seq++
		logged++
	}

	logTurn(ports.Turn{Role: ports.RoleSystem, Content: systemPrompt})
	if contextText != "" {
		logTurn(ports.Turn{Role: ports.RoleSystem, Content: "Context: " + contextText})
	}
	logTurn(userTurn)

	reply, err := o.provider.Complete(ctx, messages, o.params.Sampling)
	if err != nil {
		o.log.Error().Err(err).Msg("completion call failed")
		reply = errorReplyPrefix + err.Error()
	}

	assistantTurn := ports.Turn{Role: ports.RoleAssistant, Content: reply}
	logTurn(assistantTurn)

	o.history = append(o.history, userTurn, assistantTurn)
	if len(o.history) > o.params.HistoryWindow {
		o.history = o.history[len(o.history)-o.params.HistoryWindow:]
	}

	o.log.Info().
		Int("turns_logged", logged).
		Int64("next_sequence", o.seq).
		Bool("context_present", contextText != "").
		Msg("exchange completed")

	return reply, logged
}

// retrieveContext queries the retriever and formats the hits. Any retrieval
// failure degrades to an empty context and is never surfaced to the user.
func (o *Orchestrator) retrieveContext(ctx context.Context, query string) string {
	docs, err := o.retriever.Search(ctx, query, o.params.ContextResults)
	if err != nil {
		o.log.Error().Err(err).Msg("context retrieval failed")
		return ""
	}
	text := FormatContext(docs)
	if text != "" {
		o.log.Info().Int("documents", len(docs)).Msg("retrieved context")
	}
	return text
}

// History returns a copy of the rolling window, oldest first.
func (o *Orchestrator) History() []ports.Turn {
	out := make([]ports.Turn, len(o.history))
	copy(out, o.history)
	return out
}

// NextSequence reports the next unused sequence number.
func (o *Orchestrator) NextSequence() int64 {
	return o.seq
}
