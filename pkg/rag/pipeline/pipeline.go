package pipeline

import (
	"context"
	"sync"

	"ai-coursechat-be/internal/constant"
	"ai-coursechat-be/internal/entity"
	"ai-coursechat-be/internal/pkg/logger"
	"ai-coursechat-be/pkg/rag/contextbuilder"
	"ai-coursechat-be/pkg/rag/reformulate"
	"ai-coursechat-be/pkg/rag/retrieve"
	"ai-coursechat-be/pkg/rag/stream"
	"ai-coursechat-be/pkg/session"
)

// Request is one chat turn entering the pipeline.
type Request struct {
	SessionID    string
	Query        string
	SystemPrompt string
	Filter       entity.RetrievalFilter
}

// Result is the outcome of a completed stream. Persisted is false with a
// Warning set when the answer was delivered but could not be saved. Turns
// is the session's turn count including this exchange.
type Result struct {
	Answer    string
	Persisted bool
	Warning   string
	Turns     int
	Passages  []entity.RetrievedPassage
}

// Executor runs the conversational retrieval pipeline. Requests for the
// same session id are serialized; different sessions run concurrently.
type Executor struct {
	store        session.Store
	reformulator *reformulate.Reformulator
	retriever    *retrieve.Retriever
	streamer     *stream.Streamer
	logger       logger.ILogger
	locks        *sessionLocks
}

func NewExecutor(
	store session.Store,
	reformulator *reformulate.Reformulator,
	retriever *retrieve.Retriever,
	streamer *stream.Streamer,
	log logger.ILogger,
) *Executor {
	return &Executor{
		store:        store,
		reformulator: reformulator,
		retriever:    retriever,
		streamer:     streamer,
		logger:       log,
		locks:        newSessionLocks(),
	}
}

// Generation is a prepared request holding the session lock. Exactly one of
// Stream or Close must run; Close is safe to defer alongside Stream.
type Generation struct {
	executor     *Executor
	request      Request
	history      *session.History
	contextBlock string
	passages     []entity.RetrievedPassage
	lockEntry    *lockEntry
	releaseOnce  sync.Once
}

// Prepare acquires the session lock and runs every stage before generation:
// history load, query reformulation, retrieval, and context assembly.
// Errors here happen before any chunk exists, so the caller can still
// return a real error status.
func (e *Executor) Prepare(ctx context.Context, req Request) (*Generation, error) {
	if req.SessionID == "" {
		req.SessionID = constant.DefaultSessionID
	}

	entry := e.locks.acquire(req.SessionID)

	history, err := e.store.Load(ctx, req.SessionID)
	if err != nil {
		// A broken store must not break the chat; continue with a fresh
		// conversation and leave the evidence in the log.
		e.logger.Warn("PIPELINE", "History load failed, continuing with empty history", map[string]interface{}{
			"session_id": req.SessionID,
			"stage":      StageLoad,
			"error":      err.Error(),
		})
		history = &session.History{}
	}

	standalone, err := e.reformulator.Standalone(ctx, history, req.Query)
	if err != nil {
		e.locks.release(req.SessionID, entry)
		e.logger.Error("PIPELINE", "Query reformulation failed", map[string]interface{}{
			"session_id": req.SessionID,
			"stage":      StageReformulate,
			"error":      err.Error(),
		})
		return nil, &ReformulationError{Err: err}
	}

	passages, err := e.retriever.Retrieve(ctx, standalone, req.Filter)
	if err != nil {
		e.locks.release(req.SessionID, entry)
		e.logger.Error("PIPELINE", "Passage retrieval failed", map[string]interface{}{
			"session_id": req.SessionID,
			"stage":      StageRetrieve,
			"error":      err.Error(),
		})
		return nil, &RetrievalError{Err: err}
	}

	e.logger.Debug("PIPELINE", "Request prepared", map[string]interface{}{
		"session_id":  req.SessionID,
		"history_len": len(history.Turns),
		"passages":    len(passages),
		"standalone":  standalone != req.Query,
	})

	return &Generation{
		executor:     e,
		request:      req,
		history:      history,
		contextBlock: contextbuilder.Assemble(passages),
		passages:     passages,
		lockEntry:    entry,
	}, nil
}

// Stream generates the answer, forwarding each chunk to onChunk, then
// persists the user and assistant turns. A generation failure leaves the
// session history untouched; a save failure is reported as a warning on
// the result because the delivered chunks cannot be retracted.
func (g *Generation) Stream(ctx context.Context, onChunk stream.ChunkFunc) (*Result, error) {
	defer g.release()

	e := g.executor
	answer, err := e.streamer.Stream(ctx, g.request.SystemPrompt, g.contextBlock, g.history, g.request.Query, onChunk)
	if err != nil {
		e.logger.Error("PIPELINE", "Answer generation failed", map[string]interface{}{
			"session_id":    g.request.SessionID,
			"stage":         StageStream,
			"delivered_len": len(answer),
			"error":         err.Error(),
		})
		return nil, &GenerationError{Err: err}
	}

	g.history.Append(constant.ChatRoleUser, g.request.Query)
	g.history.Append(constant.ChatRoleAssistant, answer)

	result := &Result{
		Answer:   answer,
		Turns:    len(g.history.Turns),
		Passages: g.passages,
	}

	if err := e.store.Save(ctx, g.request.SessionID, g.history); err != nil {
		storeErr := &StoreError{Op: "save", Err: err}
		e.logger.Warn("PIPELINE", "History save failed after completed stream", map[string]interface{}{
			"session_id": g.request.SessionID,
			"stage":      StagePersist,
			"error":      err.Error(),
		})
		result.Warning = storeErr.Error()
		return result, nil
	}

	result.Persisted = true
	return result, nil
}

// Passages returns the retrieved passages backing this generation.
func (g *Generation) Passages() []entity.RetrievedPassage {
	return g.passages
}

// Close releases the session lock when Stream never ran. Safe to call
// multiple times and after Stream.
func (g *Generation) Close() {
	g.release()
}

func (g *Generation) release() {
	g.releaseOnce.Do(func() {
		g.executor.locks.release(g.request.SessionID, g.lockEntry)
	})
}
