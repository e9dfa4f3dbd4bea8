// Package ai generates the dashboard's business-insights blurb from
// ledger aggregates. It is strictly advisory: it reads numbers the
// ledger already computed and its failure never touches a checkout.
package ai

import (
	"context"
	"fmt"
	"strings"

	"katha-pos/internal/ledger"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const modelName = "gemini-2.0-flash-001"

// GenerateInsights asks Gemini for a short daily briefing. Only
// aggregate figures go into the prompt - no customer names, phones or
// transaction rows.
func GenerateInsights(ctx context.Context, apiKey string, sum *ledger.Summary, daily []ledger.DayRevenue) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)

	var chart strings.Builder
	for _, d := range daily {
		fmt.Fprintf(&chart, "- %s (%s): ₹%s\n", d.Date, d.Day, d.Revenue.StringFixed(2))
	}

	prompt := fmt.Sprintf(`You are a business advisor for a small general store.
Analyze these numbers and give 3 short, actionable insights.

- Total Revenue: ₹%s over %d transactions
- Total Outstanding Debt (Katha): ₹%s across %d customers
- Revenue by day:
%s
Focus on cash flow, debt management, and sales opportunities. Keep it encouraging but professional.`,
		sum.TotalRevenue.StringFixed(2), sum.TransactionCount,
		sum.OutstandingDebt.StringFixed(2), sum.DebtorCount,
		chart.String())

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	// A safety-blocked prompt comes back with no candidates at all.
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "Could not generate insights at this time.", nil
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "Could not generate insights at this time.", nil
}
