package agent

import (
	"context"
	"fmt"

	"github.com/etnz/hashledger"
	"github.com/etnz/hashledger/date"
	"github.com/etnz/hashledger/docs"
	"github.com/etnz/hashledger/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user keeps the books of a small practice in a hash-chained ledger: every
			income or expense is a block that commits to the previous one.
			Devise a plan of questions to ask to each experts and come up with the best response to the user's request.
			Never make up figures, always ask the Auditor for them.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAdvisor creates an expert in bookkeeping practices, grounded with Google Search.
func NewAdvisor() *Expert {
	return &Expert{
		Name: "Advisor",
		Description: `This is an expert accountant, aware of bookkeeping practices,
		record retention rules, and of how small practices usually track income and expenses.
		Ask the Advisor whenever you need general or recent information that is not in the ledger.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert accountant. You leverage Google Search to ground your
			assertions in a solid truth. You do not have access to the user's ledger.
				`}}},
		},
	}
}

// NewAuditor creates the expert in charge of reading the chain c.
func NewAuditor(c *hashledger.HashChain) *Expert {
	lib := Tools(c)

	return &Expert{
		Name: "Auditor",
		Description: `This is the Auditor. He is in charge of reading the user's hash-chained ledger.
		He can list the recorded transactions, compute totals, and check that the ledger was not tampered with.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an auditor in charge of the user's ledger.
				Use the available tools to get information about the ledger
				  - the blocks, optionally between two dates
				  - the income, expense and balance totals
				  - the integrity of the chain
				Always verify the chain before vouching for a figure.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Tools returns the functions that read the chain c.
func Tools(c *hashledger.HashChain) []Function {
	dateSchema := func(description string) *genai.Schema {
		return &genai.Schema{Type: genai.TypeString, Description: description + " Format is YYYY-MM-DD."}
	}
	markdown := &genai.Schema{Type: genai.TypeString, Description: "A markdown report."}

	return []Function{
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Blocks",
				Description: "Blocks lists the blocks of the ledger as a markdown table, genesis block included, with their date, description, type, amount and short hashes.",
				Parameters: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"from": dateSchema("Only list blocks on or after this date."),
						"to":   dateSchema("Only list blocks on or before this date."),
					},
				},
				Response: markdown,
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				from, err := parseDate(args, "from")
				if err != nil {
					return failure(id, "Blocks", err)
				}
				to, err := parseDate(args, "to")
				if err != nil {
					return failure(id, "Blocks", err)
				}
				var blocks []hashledger.Block
				for _, b := range c.Blocks() {
					if (!from.IsZero() && b.Date.Before(from)) || (!to.IsZero() && b.Date.After(to)) {
						continue
					}
					blocks = append(blocks, b)
				}
				return output(id, "Blocks", renderer.BlocksMarkdown(blocks, c.Currency()))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name:        "Summary",
				Description: "Summary returns the total income, total expense and balance of the ledger. The genesis block is not counted.",
				Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}},
				Response:    markdown,
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return output(id, "Summary", renderer.SummaryMarkdown(c.Summarize()))
			},
		},
		&Func{
			Decl: &genai.FunctionDeclaration{
				Name: "Verify",
				Description: `Verify checks the integrity of the ledger and lists every violation.

				` + must(docs.GetTopic("verify")),
				Parameters: &genai.Schema{Type: genai.TypeObject, Properties: map[string]*genai.Schema{}},
				Response:   markdown,
			},
			Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
				return output(id, "Verify", renderer.RenderVerification(renderer.NewVerification(c, true)))
			},
		},
	}
}

// parseDate reads the optional date argument key. The zero Date means absent.
func parseDate(args map[string]any, key string) (date.Date, error) {
	s, err := stringArg(args, key, "")
	if err != nil || s == "" {
		return date.Date{}, err
	}
	d, err := date.Parse(s)
	if err != nil {
		return date.Date{}, fmt.Errorf("argument '%s' must be a valid date got %q: %w", key, s, err)
	}
	return d, nil
}
