package aigw

import (
	"fmt"
	"strings"

	"github.com/canevoj/standarium/internal/domain"
	"github.com/canevoj/standarium/internal/render"
)

// DescribePrompt builds the prompt for a marketplace product description.
// The model answers in Portuguese because the listing copy is Portuguese.
func DescribePrompt(p *domain.Product) string {
	var b strings.Builder
	b.WriteString("Escreva uma descrição de venda curta e atraente, em português, ")
	b.WriteString("para anunciar o seguinte produto de informática usado:\n\n")
	fmt.Fprintf(&b, "Produto: %s\n", p.Name)
	if p.SuggestedPrice != nil {
		fmt.Fprintf(&b, "Preço: R$ %.2f\n", *p.SuggestedPrice)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "Detalhes: %s\n", p.Description)
	}
	b.WriteString("\nResponda apenas com o texto do anúncio, sem títulos.")
	return b.String()
}

// InsightsPrompt builds the business-analysis prompt from the dashboard
// figures for the selected period.
func InsightsPrompt(view *render.DashboardView) string {
	var b strings.Builder
	b.WriteString("Você é um consultor de negócios para uma pequena revenda de ")
	b.WriteString("eletrônicos. Analise os números abaixo e aponte, em português ")
	b.WriteString("e em markdown, os principais destaques e até três sugestões práticas.\n\n")
	fmt.Fprintf(&b, "Período: %s\n", view.Period)
	fmt.Fprintf(&b, "Receita: R$ %.2f\n", view.Revenue)
	fmt.Fprintf(&b, "Lucro: R$ %.2f\n", view.Profit)
	fmt.Fprintf(&b, "Itens vendidos: %d\n", view.SoldCount)
	fmt.Fprintf(&b, "Valor do estoque: R$ %.2f\n", view.StockValue)
	fmt.Fprintf(&b, "Custo do estoque: R$ %.2f\n", view.StockCost)
	for _, m := range view.MethodShare {
		fmt.Fprintf(&b, "Receita via %s: R$ %.2f (%.0f%%)\n", m.Method, m.Revenue, m.Share*100)
	}
	return b.String()
}

// UserTurn wraps plain text as a single-part user message.
func UserTurn(text string) ChatMessage {
	return ChatMessage{Role: "user", Parts: []Part{{Text: text}}}
}

// ModelTurn wraps plain text as a single-part model message.
func ModelTurn(text string) ChatMessage {
	return ChatMessage{Role: "model", Parts: []Part{{Text: text}}}
}
