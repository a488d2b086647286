// Package advisor asks a Gemini model for financial advice about a snapshot.
package advisor

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/finsmart/internal/domain"
	"github.com/dvloznov/finsmart/internal/report"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

const (
	// DefaultModel is used when Options.Model is empty.
	DefaultModel = "gemini-2.5-flash"

	// WindowSize is how many of the most recent transactions go into the prompt.
	WindowSize = 20

	// EmptyReplyFallback is returned when the model answers with no text.
	EmptyReplyFallback = "目前無法生成建議，請稍後再試。"
	// ErrorFallback is returned when the model call fails.
	ErrorFallback = "AI 顧問目前服務忙碌中，請稍後再試。"
)

// Advisor produces advice text. It never fails; problems become fallback prose.
type Advisor interface {
	Advice(ctx context.Context, txs []domain.Transaction, cats []domain.Category, accounts []domain.Account) string
}

// Generator is the subset of genai.Models the advisor calls.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Options configures the Gemini advisor.
type Options struct {
	Model    string
	Language string
	Currency string
}

// Gemini implements Advisor on top of a Generator.
type Gemini struct {
	gen  Generator
	opts Options
	log  zerolog.Logger
}

// NewGemini creates a Gemini API client authenticated with apiKey.
func NewGemini(ctx context.Context, apiKey string, opts Options, log zerolog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewGemini: create genai client: %w", err)
	}
	return NewWithGenerator(client.Models, opts, log), nil
}

// NewWithGenerator wraps an existing Generator.
func NewWithGenerator(gen Generator, opts Options, log zerolog.Logger) *Gemini {
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.Currency == "" {
		opts.Currency = "TWD"
	}
	return &Gemini{gen: gen, opts: opts, log: log}
}

// Advice implements Advisor.
func (g *Gemini) Advice(ctx context.Context, txs []domain.Transaction, cats []domain.Category, accounts []domain.Account) string {
	prompt := BuildPrompt(txs, cats, accounts, g.opts)

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := g.gen.GenerateContent(ctx, g.opts.Model, contents, nil)
	if err != nil {
		g.log.Error().Err(err).Str("model", g.opts.Model).Msg("advice generation failed")
		return ErrorFallback
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		g.log.Warn().Str("model", g.opts.Model).Msg("advice generation returned empty text")
		return EmptyReplyFallback
	}
	return text
}

// BuildPrompt renders the advice prompt for the WindowSize most recent
// transactions by date and the total balance across accounts.
func BuildPrompt(txs []domain.Transaction, cats []domain.Category, accounts []domain.Account, opts Options) string {
	var b strings.Builder

	b.WriteString("You are an experienced and insightful personal finance advisor.\n")
	fmt.Fprintf(&b, "Analyse the %d most recent transactions below and give 3-4 concrete, actionable pieces of advice.\n", WindowSize)
	if opts.Language != "" {
		fmt.Fprintf(&b, "Write your answer in %s.\n", opts.Language)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Current total balance: %s %s\n", domain.Snapshot{Accounts: accounts}.TotalBalance().String(), opts.Currency)
	b.WriteString("Recent transactions:\n")
	for _, t := range RecentWindow(txs, WindowSize) {
		fmt.Fprintf(&b, "%s: %s - %s %s\n",
			t.Date.Format("2006-01-02"),
			report.CategoryName(cats, t.CategoryID),
			typeLabel(t.Type),
			t.Amount.String(),
		)
	}

	b.WriteString("\nCover:\n")
	b.WriteString("1. Risks or unusual spending in the pattern above.\n")
	b.WriteString("2. Where savings or investments could improve given the current balance.\n")
	b.WriteString("3. Encouragement and one clear money action for the coming week.\n")
	return b.String()
}

// RecentWindow returns up to n transactions, newest date first.
func RecentWindow(txs []domain.Transaction, n int) []domain.Transaction {
	sorted := append([]domain.Transaction{}, txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func typeLabel(t domain.TransactionType) string {
	if t == domain.TransactionTypeIncome {
		return "income"
	}
	return "expense"
}

// Unavailable is used when no API key is configured.
type Unavailable struct{}

// Advice implements Advisor.
func (Unavailable) Advice(context.Context, []domain.Transaction, []domain.Category, []domain.Account) string {
	return ErrorFallback
}
