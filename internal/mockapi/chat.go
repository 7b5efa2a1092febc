package mockapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"aisdk/internal/core"
)

// completeChat answers with the last user message prefixed by "echo: ",
// once per requested choice.
func (s *Server) completeChat(c echo.Context) error {
	var req core.ChatCompletionOptions
	var extra struct {
		N    *int     `json:"n"`
		Stop []string `json:"stop"`
	}
	if err := readJSON(c, &req, &extra); err != nil {
		return err
	}
	if req.Model() == "" {
		return invalidRequest(c, "model", "Missing required parameter: 'model'.")
	}
	messages := req.Messages()
	if len(messages) == 0 {
		return invalidRequest(c, "messages", "Missing required parameter: 'messages'.")
	}

	prompt := ""
	for _, m := range messages {
		if m.Role == core.ChatRoleUser {
			prompt = m.Content
		}
	}
	reply, finish := "echo: "+prompt, "stop"
	for _, stop := range extra.Stop {
		if i := strings.Index(reply, stop); stop != "" && i >= 0 {
			reply = reply[:i]
		}
	}

	n := 1
	if extra.N != nil && *extra.N > 0 {
		n = *extra.N
	}
	choices := make([]core.ChatChoice, n)
	for i := range choices {
		choices[i] = core.ChatChoice{
			Index:        i,
			Message:      core.AssistantMessage(reply),
			FinishReason: finish,
		}
	}

	promptTokens := 0
	for _, m := range messages {
		promptTokens += tokens(m.Content)
	}
	completionTokens := tokens(reply) * n
	return c.JSON(http.StatusOK, core.ChatCompletion{
		ID:      newID("chatcmpl-"),
		Object:  "chat.completion",
		Created: s.state.now(),
		Model:   req.Model(),
		Choices: choices,
		Usage: &core.ChatUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
	})
}
