package mockapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"aisdk/internal/core"
)

func (s *Server) routeAssistants(g *echo.Group) {
	g.POST("/assistants", s.createAssistant)
	g.GET("/assistants", s.listAssistants)
	g.GET("/assistants/:assistant_id", s.getAssistant)
	g.POST("/assistants/:assistant_id", s.modifyAssistant)
	g.DELETE("/assistants/:assistant_id", s.deleteAssistant)

	g.POST("/threads", s.createThread)
	g.GET("/threads/:thread_id", s.getThread)
	g.POST("/threads/:thread_id", s.modifyThread)
	g.DELETE("/threads/:thread_id", s.deleteThread)

	g.POST("/threads/:thread_id/messages", s.createMessage)
	g.GET("/threads/:thread_id/messages", s.listMessages)
	g.GET("/threads/:thread_id/messages/:message_id", s.getMessage)
	g.POST("/threads/:thread_id/messages/:message_id", s.modifyMessage)
	g.DELETE("/threads/:thread_id/messages/:message_id", s.deleteMessage)
}

func (s *Server) createAssistant(c echo.Context) error {
	var opts core.AssistantCreationOptions
	if err := readJSON(c, &opts); err != nil {
		return err
	}
	if opts.Model == "" {
		return invalidRequest(c, "model", "Missing required parameter: 'model'.")
	}

	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	a := core.Assistant{
		ID:             newID("asst_"),
		Object:         "assistant",
		CreatedAt:      st.now(),
		Name:           opts.Name,
		Description:    opts.Description,
		Model:          opts.Model,
		Instructions:   opts.Instructions,
		Tools:          opts.Tools,
		ToolResources:  opts.ToolResources,
		Metadata:       opts.Metadata,
		Temperature:    opts.Temperature,
		TopP:           opts.TopP,
		ResponseFormat: opts.ResponseFormat,
	}
	st.assistants.put(a.ID, &a)
	return c.JSON(http.StatusOK, a)
}

func (s *Server) listAssistants(c echo.Context) error {
	s.state.mu.Lock()
	items := s.state.assistants.values()
	s.state.mu.Unlock()
	return listJSON(c, items, func(a core.Assistant) string { return a.ID })
}

func (s *Server) getAssistant(c echo.Context) error {
	id := c.Param("assistant_id")
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	a, ok := s.state.assistants.get(id)
	if !ok {
		return notFound(c, "assistant", id)
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) modifyAssistant(c echo.Context) error {
	var opts core.AssistantModificationOptions
	if err := readJSON(c, &opts); err != nil {
		return err
	}
	id := c.Param("assistant_id")

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	a, ok := s.state.assistants.get(id)
	if !ok {
		return notFound(c, "assistant", id)
	}
	setIf(&a.Model, opts.Model)
	setIf(&a.Name, opts.Name)
	setIf(&a.Description, opts.Description)
	setIf(&a.Instructions, opts.Instructions)
	if opts.Tools != nil {
		a.Tools = opts.Tools
	}
	if opts.ToolResources != nil {
		a.ToolResources = opts.ToolResources
	}
	if opts.Metadata != nil {
		a.Metadata = opts.Metadata
	}
	if opts.Temperature != nil {
		a.Temperature = opts.Temperature
	}
	if opts.TopP != nil {
		a.TopP = opts.TopP
	}
	return c.JSON(http.StatusOK, a)
}

func (s *Server) deleteAssistant(c echo.Context) error {
	id := c.Param("assistant_id")
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if !s.state.assistants.remove(id) {
		return notFound(c, "assistant", id)
	}
	return deleted(c, id, "assistant.deleted")
}

func setIf(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (s *Server) createThread(c echo.Context) error {
	var opts core.ThreadCreationOptions
	if err := readJSON(c, &opts); err != nil {
		return err
	}
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	t, problem := st.newThread(opts)
	if problem != "" {
		return invalidRequest(c, "messages", "%s", problem)
	}
	return c.JSON(http.StatusOK, t)
}

// newThread stores a thread seeded with opts' messages. Callers hold mu.
// A non-empty problem rejects the request.
func (st *state) newThread(opts core.ThreadCreationOptions) (t core.Thread, problem string) {
	for _, m := range opts.InitialMessages {
		if problem := checkRole(m.Role); problem != "" {
			return core.Thread{}, problem
		}
	}
	t = core.Thread{
		ID:            newID("thread_"),
		Object:        "thread",
		CreatedAt:     st.now(),
		ToolResources: opts.ToolResources,
		Metadata:      opts.Metadata,
	}
	st.threads.put(t.ID, &t)
	for _, m := range opts.InitialMessages {
		st.addMessage(t.ID, m.Role, m.Content, m.Attachments, m.Metadata)
	}
	return t, ""
}

func (s *Server) getThread(c echo.Context) error {
	id := c.Param("thread_id")
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	t, ok := s.state.threads.get(id)
	if !ok {
		return notFound(c, "thread", id)
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) modifyThread(c echo.Context) error {
	var opts core.ThreadModificationOptions
	if err := readJSON(c, &opts); err != nil {
		return err
	}
	id := c.Param("thread_id")

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	t, ok := s.state.threads.get(id)
	if !ok {
		return notFound(c, "thread", id)
	}
	if opts.ToolResources != nil {
		t.ToolResources = opts.ToolResources
	}
	if opts.Metadata != nil {
		t.Metadata = opts.Metadata
	}
	return c.JSON(http.StatusOK, t)
}

func (s *Server) deleteThread(c echo.Context) error {
	id := c.Param("thread_id")
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if !st.threads.remove(id) {
		return notFound(c, "thread", id)
	}
	delete(st.messages, id)
	if runs, ok := st.runs[id]; ok {
		for _, r := range runs.values() {
			delete(st.steps, r.ID)
		}
		delete(st.runs, id)
	}
	return deleted(c, id, "thread.deleted")
}

// checkRole returns the service's complaint about role, or "".
func checkRole(role core.MessageRole) string {
	switch role {
	case core.MessageRoleUser, core.MessageRoleAssistant:
		return ""
	}
	return fmt.Sprintf("Invalid value: '%s'. Supported values are: 'user' and 'assistant'.", role)
}

// addMessage appends a completed message to a thread. Callers hold mu.
func (st *state) addMessage(threadID string, role core.MessageRole, content []core.MessageContent, attachments []core.MessageAttachment, metadata map[string]string) core.Message {
	now := st.now()
	m := core.Message{
		ID:          newID("msg_"),
		Object:      "thread.message",
		CreatedAt:   now,
		ThreadID:    threadID,
		Status:      "completed",
		CompletedAt: &now,
		Role:        role,
		Content:     responseContent(content),
		Attachments: attachments,
		Metadata:    metadata,
	}
	childrenOf(st.messages, threadID).put(m.ID, &m)
	return m
}

// responseContent converts request content to the annotated form the service
// returns.
func responseContent(in []core.MessageContent) []core.MessageContent {
	out := make([]core.MessageContent, len(in))
	for i, part := range in {
		if part.Text != nil {
			text := *part.Text
			if len(text.Annotations) == 0 {
				text.Annotations = json.RawMessage("[]")
			}
			part.Text = &text
		}
		out[i] = part
	}
	return out
}

func (s *Server) createMessage(c echo.Context) error {
	var opts core.MessageCreationOptions
	var body struct {
		Content json.RawMessage `json:"content"`
	}
	if err := readJSON(c, &opts, &body); err != nil {
		return err
	}
	content, problem := parseContent(body.Content)
	if problem != "" {
		return invalidRequest(c, "content", "%s", problem)
	}
	if opts.Role == "" {
		opts.Role = core.MessageRoleUser
	}
	if problem := checkRole(opts.Role); problem != "" {
		return invalidRequest(c, "role", "%s", problem)
	}

	threadID := c.Param("thread_id")
	st := s.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.threads.get(threadID); !ok {
		return notFound(c, "thread", threadID)
	}
	return c.JSON(http.StatusOK, st.addMessage(threadID, opts.Role, content, opts.Attachments, opts.Metadata))
}

// parseContent accepts a plain string or an array of content parts.
func parseContent(raw json.RawMessage) ([]core.MessageContent, string) {
	if len(raw) == 0 {
		return nil, "Missing required parameter: 'content'."
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return []core.MessageContent{core.TextPart(text)}, ""
	}
	var parts []core.MessageContent
	if err := json.Unmarshal(raw, &parts); err != nil || len(parts) == 0 {
		return nil, "Invalid 'content': expected a string or a non-empty array of content parts."
	}
	return parts, ""
}

func (s *Server) threadMessages(c echo.Context) (*collection[core.Message], bool) {
	threadID := c.Param("thread_id")
	if _, ok := s.state.threads.get(threadID); !ok {
		_ = notFound(c, "thread", threadID)
		return nil, false
	}
	return childrenOf(s.state.messages, threadID), true
}

func (s *Server) listMessages(c echo.Context) error {
	s.state.mu.Lock()
	msgs, ok := s.threadMessages(c)
	if !ok {
		s.state.mu.Unlock()
		return nil
	}
	items := msgs.values()
	s.state.mu.Unlock()

	if runID := c.QueryParam("run_id"); runID != "" {
		filtered := items[:0]
		for _, m := range items {
			if m.RunID == runID {
				filtered = append(filtered, m)
			}
		}
		items = filtered
	}
	return listJSON(c, items, func(m core.Message) string { return m.ID })
}

func (s *Server) getMessage(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	msgs, ok := s.threadMessages(c)
	if !ok {
		return nil
	}
	id := c.Param("message_id")
	m, ok := msgs.get(id)
	if !ok {
		return notFound(c, "message", id)
	}
	return c.JSON(http.StatusOK, m)
}

func (s *Server) modifyMessage(c echo.Context) error {
	var opts core.MessageModificationOptions
	if err := readJSON(c, &opts); err != nil {
		return err
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	msgs, ok := s.threadMessages(c)
	if !ok {
		return nil
	}
	id := c.Param("message_id")
	m, ok := msgs.get(id)
	if !ok {
		return notFound(c, "message", id)
	}
	if opts.Metadata != nil {
		m.Metadata = opts.Metadata
	}
	return c.JSON(http.StatusOK, m)
}

func (s *Server) deleteMessage(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	msgs, ok := s.threadMessages(c)
	if !ok {
		return nil
	}
	id := c.Param("message_id")
	if !msgs.remove(id) {
		return notFound(c, "message", id)
	}
	return deleted(c, id, "thread.message.deleted")
}
