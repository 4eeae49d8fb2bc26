package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/canevoj/standarium/internal/aigw"
	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/markdown"
	"github.com/canevoj/standarium/internal/webserver"
)

// Fallback copy shown when the AI backend is unreachable. The endpoints
// always answer with a definite result.
const (
	fallbackText        = "Não foi possível gerar o texto agora. Tente novamente mais tarde."
	fallbackDescription = "Não foi possível gerar a descrição agora. Tente novamente mais tarde."
	fallbackInsights    = "A análise automática está indisponível no momento."
	fallbackChat        = "O assistente está indisponível no momento."
)

func registerAIRoutes() {
	webserver.ApiPOST("/generate-text", postGenerateText)
	webserver.ApiPOST("/generate-chat", postGenerateChat)
	webserver.ApiPOST("/products/:id/describe", postDescribeProduct)
	webserver.ApiPOST("/dashboard/insights", postDashboardInsights)
}

type generateTextPayload struct {
	Prompt string `json:"prompt"`
}

func postGenerateText(c echo.Context) error {
	var payload generateTextPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse prompt", err.Error())
	}
	text, err := GetAI(c).GenerateText(c.Request().Context(), payload.Prompt)
	if err != nil {
		return ok(c, echo.Map{"text": fallbackText, "fallback": true})
	}
	return ok(c, echo.Map{"text": text})
}

type generateChatPayload struct {
	History []aigw.ChatMessage `json:"history"`
}

func postGenerateChat(c echo.Context) error {
	var payload generateChatPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse chat history", err.Error())
	}
	text, err := GetAI(c).GenerateChat(c.Request().Context(), payload.History)
	if err != nil {
		return ok(c, echo.Map{"text": fallbackChat, "fallback": true})
	}
	return ok(c, echo.Map{"text": text})
}

// postDescribeProduct generates listing copy for one product out of the
// session snapshot.
func postDescribeProduct(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var target *domain.Product
	for _, p := range GetSession(c).Store().GetProducts() {
		if p.ID == id {
			target = &p
			break
		}
	}
	if target == nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Product not found", nil)
	}

	text, err := GetAI(c).GenerateText(c.Request().Context(), aigw.DescribePrompt(target))
	if err != nil {
		return ok(c, echo.Map{"description": fallbackDescription, "fallback": true})
	}
	return ok(c, echo.Map{"description": text})
}

// postDashboardInsights runs the business analysis over the current
// dashboard figures and returns the model's markdown rendered as HTML.
func postDashboardInsights(c echo.Context) error {
	view := rendererFor(GetSession(c)).Dashboard(c.QueryParam("period"))
	text, err := GetAI(c).GenerateText(c.Request().Context(), aigw.InsightsPrompt(view))
	if err != nil {
		return ok(c, echo.Map{"html": markdown.Render(fallbackInsights), "fallback": true})
	}
	return ok(c, echo.Map{"html": markdown.Render(text)})
}
