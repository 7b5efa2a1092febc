package mockapi

import (
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/labstack/echo/v4"

	"aisdk/internal/core"
	"aisdk/internal/sse"
)

func (s *Server) routeRuns(g *echo.Group) {
	g.POST("/threads/runs", s.createThreadAndRun)
	g.POST("/threads/:thread_id/runs", s.createRun)
	g.GET("/threads/:thread_id/runs", s.listRuns)
	g.GET("/threads/:thread_id/runs/:run_id", s.getRun)
	g.POST("/threads/:thread_id/runs/:run_id/submit_tool_outputs", s.submitToolOutputs)
	g.POST("/threads/:thread_id/runs/:run_id/cancel", s.cancelRun)
	g.GET("/threads/:thread_id/runs/:run_id/steps", s.listRunSteps)
	g.GET("/threads/:thread_id/runs/:run_id/steps/:step_id", s.getRunStep)
}

type runRequest struct {
	AssistantID string                      `json:"assistant_id"`
	Stream      bool                        `json:"stream"`
	Thread      *core.ThreadCreationOptions `json:"thread"`
}

// trace collects the events a run produces while state is locked, so they
// can be streamed after the lock is released.
type trace []sse.Event

func (t *trace) emit(name string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		data = []byte(`{}`)
	}
	*t = append(*t, sse.Event{Event: name, Data: data})
}

func (s *Server) createRun(c echo.Context) error {
	var req runRequest
	var opts core.RunCreationOptions
	if err := readJSON(c, &req, &opts); err != nil {
		return err
	}
	threadID := c.Param("thread_id")

	st := s.state
	st.mu.Lock()
	if _, ok := st.threads.get(threadID); !ok {
		st.mu.Unlock()
		return notFound(c, "thread", threadID)
	}
	asst, done := s.lookupAssistant(c, req.AssistantID)
	if done {
		st.mu.Unlock()
		return nil
	}
	for _, m := range opts.AdditionalMessages {
		if problem := checkRole(m.Role); problem != "" {
			st.mu.Unlock()
			return invalidRequest(c, "additional_messages", "%s", problem)
		}
	}
	for _, m := range opts.AdditionalMessages {
		st.addMessage(threadID, m.Role, m.Content, m.Attachments, m.Metadata)
	}
	var events trace
	run := st.startRun(threadID, asst, opts, &events)
	st.mu.Unlock()

	return respondRun(c, req.Stream, run, events)
}

func (s *Server) createThreadAndRun(c echo.Context) error {
	var req runRequest
	var opts core.RunCreationOptions
	if err := readJSON(c, &req, &opts); err != nil {
		return err
	}
	threadOpts := core.ThreadCreationOptions{}
	if req.Thread != nil {
		threadOpts = *req.Thread
	}

	st := s.state
	st.mu.Lock()
	asst, done := s.lookupAssistant(c, req.AssistantID)
	if done {
		st.mu.Unlock()
		return nil
	}
	thread, problem := st.newThread(threadOpts)
	if problem != "" {
		st.mu.Unlock()
		return invalidRequest(c, "thread.messages", "%s", problem)
	}
	var events trace
	events.emit("thread.created", thread)
	run := st.startRun(thread.ID, asst, opts, &events)
	st.mu.Unlock()

	return respondRun(c, req.Stream, run, events)
}

// lookupAssistant resolves the assistant of a run request, writing the error
// response itself when it cannot. Callers hold mu.
func (s *Server) lookupAssistant(c echo.Context, id string) (core.Assistant, bool) {
	if id == "" {
		_ = invalidRequest(c, "assistant_id", "Missing required parameter: 'assistant_id'.")
		return core.Assistant{}, true
	}
	a, ok := s.state.assistants.get(id)
	if !ok {
		_ = notFound(c, "assistant", id)
		return core.Assistant{}, true
	}
	return *a, false
}

func respondRun(c echo.Context, stream bool, run core.Run, events trace) error {
	if !stream {
		return c.JSON(http.StatusOK, run)
	}
	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	enc := sse.NewEncoder(w)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return nil
		}
	}
	_ = enc.Encode(sse.Event{Event: "done", Data: []byte("[DONE]")})
	return nil
}

// startRun creates a run and drives it as far as it goes without client
// input. Callers hold mu.
func (st *state) startRun(threadID string, asst core.Assistant, opts core.RunCreationOptions, events *trace) core.Run {
	now := st.now()
	expires := now + 600
	run := core.Run{
		ID:                  newID("run_"),
		Object:              "thread.run",
		CreatedAt:           now,
		ThreadID:            threadID,
		AssistantID:         asst.ID,
		Status:              core.RunStatusQueued,
		ExpiresAt:           &expires,
		Model:               firstNonEmpty(opts.Model, asst.Model),
		Instructions:        firstNonEmpty(opts.Instructions, asst.Instructions),
		Tools:               asst.Tools,
		Metadata:            opts.Metadata,
		Temperature:         opts.Temperature,
		TopP:                opts.TopP,
		MaxPromptTokens:     opts.MaxPromptTokens,
		MaxCompletionTokens: opts.MaxCompletionTokens,
		ParallelToolCalls:   opts.ParallelToolCalls,
	}
	if opts.Tools != nil {
		run.Tools = opts.Tools
	}
	if opts.AdditionalInstructions != "" {
		run.Instructions = strings.TrimSpace(run.Instructions + "\n" + opts.AdditionalInstructions)
	}
	r := &run
	childrenOf(st.runs, threadID).put(run.ID, r)
	events.emit("thread.run.created", run)
	events.emit("thread.run.queued", run)

	r.Status = core.RunStatusInProgress
	r.StartedAt = &now
	events.emit("thread.run.in_progress", *r)

	var calls []core.ToolCall
	for _, tool := range r.Tools {
		if tool.Type == "function" && tool.Function != nil {
			calls = append(calls, core.ToolCall{
				ID:       newID("call_"),
				Type:     "function",
				Function: core.FunctionCall{Name: tool.Function.Name, Arguments: "{}"},
			})
		}
	}
	if len(calls) == 0 {
		st.completeRun(r, "echo: "+st.lastUserText(threadID), events)
		return *r
	}

	details, _ := json.Marshal(map[string]any{"type": "tool_calls", "tool_calls": calls})
	step := st.addStep(r, "tool_calls", "in_progress", details)
	events.emit("thread.run.step.created", step)
	r.Status = core.RunStatusRequiresAction
	r.RequiredAction = &core.RequiredAction{
		Type:              "submit_tool_outputs",
		SubmitToolOutputs: &core.SubmitToolOutputs{ToolCalls: calls},
	}
	events.emit("thread.run.requires_action", *r)
	return *r
}

// completeRun posts reply as the assistant's answer and completes r.
func (st *state) completeRun(r *core.Run, reply string, events *trace) {
	now := st.now()
	msg := core.Message{
		ID:          newID("msg_"),
		Object:      "thread.message",
		CreatedAt:   now,
		ThreadID:    r.ThreadID,
		Status:      "in_progress",
		Role:        core.MessageRoleAssistant,
		Content:     []core.MessageContent{},
		AssistantID: r.AssistantID,
		RunID:       r.ID,
	}
	details, _ := json.Marshal(map[string]any{
		"type":             "message_creation",
		"message_creation": map[string]string{"message_id": msg.ID},
	})
	step := st.addStep(r, "message_creation", "in_progress", details)
	events.emit("thread.run.step.created", step)
	events.emit("thread.message.created", msg)
	events.emit("thread.message.delta", map[string]any{
		"id":     msg.ID,
		"object": "thread.message.delta",
		"delta": map[string]any{
			"content": []map[string]any{{
				"index": 0,
				"type":  "text",
				"text":  map[string]any{"value": reply, "annotations": []any{}},
			}},
		},
	})

	msg.Status = "completed"
	msg.CompletedAt = &now
	msg.Content = responseContent([]core.MessageContent{core.TextPart(reply)})
	childrenOf(st.messages, r.ThreadID).put(msg.ID, &msg)
	events.emit("thread.message.completed", msg)

	usage := &core.RunUsage{
		PromptTokens:     tokens(st.lastUserText(r.ThreadID)),
		CompletionTokens: tokens(reply),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens

	stored, _ := st.steps[r.ID].get(step.ID)
	stored.Status = "completed"
	stored.CompletedAt = &now
	stored.Usage = usage
	events.emit("thread.run.step.completed", *stored)

	r.Status = core.RunStatusCompleted
	r.RequiredAction = nil
	r.CompletedAt = &now
	r.ExpiresAt = nil
	r.Usage = usage
	events.emit("thread.run.completed", *r)
}

func (st *state) addStep(r *core.Run, kind, status string, details json.RawMessage) core.RunStep {
	step := core.RunStep{
		ID:          newID("step_"),
		Object:      "thread.run.step",
		CreatedAt:   st.now(),
		RunID:       r.ID,
		AssistantID: r.AssistantID,
		ThreadID:    r.ThreadID,
		Type:        kind,
		Status:      status,
		StepDetails: details,
	}
	childrenOf(st.steps, r.ID).put(step.ID, &step)
	return step
}

// lastUserText returns the text of the newest user message of a thread.
func (st *state) lastUserText(threadID string) string {
	msgs := childrenOf(st.messages, threadID).values()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role != core.MessageRoleUser {
			continue
		}
		var parts []string
		for _, part := range msgs[i].Content {
			if part.Text != nil {
				parts = append(parts, part.Text.Value)
			}
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

func tokens(s string) int {
	return len(strings.Fields(s))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// findRun resolves the thread and run of the request path, writing the
// error response itself when it cannot. Callers hold mu.
func (s *Server) findRun(c echo.Context) (*core.Run, bool) {
	threadID := c.Param("thread_id")
	if _, ok := s.state.threads.get(threadID); !ok {
		_ = notFound(c, "thread", threadID)
		return nil, false
	}
	runID := c.Param("run_id")
	r, ok := childrenOf(s.state.runs, threadID).get(runID)
	if !ok {
		_ = notFound(c, "run", runID)
		return nil, false
	}
	return r, true
}

func (s *Server) listRuns(c echo.Context) error {
	threadID := c.Param("thread_id")
	s.state.mu.Lock()
	if _, ok := s.state.threads.get(threadID); !ok {
		s.state.mu.Unlock()
		return notFound(c, "thread", threadID)
	}
	items := childrenOf(s.state.runs, threadID).values()
	s.state.mu.Unlock()
	return listJSON(c, items, func(r core.Run) string { return r.ID })
}

func (s *Server) getRun(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	r, ok := s.findRun(c)
	if !ok {
		return nil
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) submitToolOutputs(c echo.Context) error {
	var req struct {
		ToolOutputs []core.ToolOutput `json:"tool_outputs"`
		Stream      bool              `json:"stream"`
	}
	if err := readJSON(c, &req); err != nil {
		return err
	}

	st := s.state
	st.mu.Lock()
	r, ok := s.findRun(c)
	if !ok {
		st.mu.Unlock()
		return nil
	}
	if r.Status != core.RunStatusRequiresAction || r.RequiredAction == nil || r.RequiredAction.SubmitToolOutputs == nil {
		st.mu.Unlock()
		return invalidRequest(c, "", "Runs in status \"%s\" do not accept tool outputs.", r.Status)
	}
	pending := make(map[string]bool)
	for _, call := range r.RequiredAction.SubmitToolOutputs.ToolCalls {
		pending[call.ID] = true
	}
	outputs := make([]string, 0, len(req.ToolOutputs))
	for _, out := range req.ToolOutputs {
		if !pending[out.ToolCallID] {
			st.mu.Unlock()
			return invalidRequest(c, "tool_outputs", "No tool call found with id '%s'.", out.ToolCallID)
		}
		delete(pending, out.ToolCallID)
		outputs = append(outputs, out.Output)
	}
	if len(pending) > 0 {
		st.mu.Unlock()
		return invalidRequest(c, "tool_outputs", "Expected tool outputs for call ids %s.", strings.Join(slices.Sorted(maps.Keys(pending)), ", "))
	}

	var events trace
	now := st.now()
	for _, step := range st.steps[r.ID].values() {
		if step.Type == "tool_calls" && step.Status == "in_progress" {
			stored, _ := st.steps[r.ID].get(step.ID)
			stored.Status = "completed"
			stored.CompletedAt = &now
			events.emit("thread.run.step.completed", *stored)
		}
	}
	r.Status = core.RunStatusQueued
	r.RequiredAction = nil
	events.emit("thread.run.queued", *r)
	r.Status = core.RunStatusInProgress
	events.emit("thread.run.in_progress", *r)
	st.completeRun(r, "echo: "+strings.Join(outputs, "\n"), &events)
	run := *r
	st.mu.Unlock()

	return respondRun(c, req.Stream, run, events)
}

func (s *Server) cancelRun(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	r, ok := s.findRun(c)
	if !ok {
		return nil
	}
	if r.Status.IsTerminal() {
		return invalidRequest(c, "", "Cannot cancel run with status '%s'.", r.Status)
	}
	now := s.state.now()
	r.Status = core.RunStatusCancelled
	r.RequiredAction = nil
	r.CancelledAt = &now
	r.ExpiresAt = nil
	for _, step := range s.state.steps[r.ID].values() {
		if step.Status == "in_progress" {
			stored, _ := s.state.steps[r.ID].get(step.ID)
			stored.Status = "cancelled"
			stored.CancelledAt = &now
		}
	}
	return c.JSON(http.StatusOK, r)
}

func (s *Server) listRunSteps(c echo.Context) error {
	s.state.mu.Lock()
	r, ok := s.findRun(c)
	if !ok {
		s.state.mu.Unlock()
		return nil
	}
	items := childrenOf(s.state.steps, r.ID).values()
	s.state.mu.Unlock()
	return listJSON(c, items, func(step core.RunStep) string { return step.ID })
}

func (s *Server) getRunStep(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	r, ok := s.findRun(c)
	if !ok {
		return nil
	}
	id := c.Param("step_id")
	step, ok := childrenOf(s.state.steps, r.ID).get(id)
	if !ok {
		return notFound(c, "run step", id)
	}
	return c.JSON(http.StatusOK, step)
}
