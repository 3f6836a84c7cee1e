package scoring

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"salescast/models"
)

// GeminiScorer asks a Gemini model to estimate the sale amount.
type GeminiScorer struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewGeminiScorer connects to Gemini with apiKey.
func NewGeminiScorer(ctx context.Context, apiKey, modelName string) (*GeminiScorer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrUnavailable)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("%w: create Gemini client: %v", ErrUnavailable, err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	return &GeminiScorer{client: client, model: model, modelName: modelName}, nil
}

// Name identifies the model in logs.
func (g *GeminiScorer) Name() string { return "gemini:" + g.modelName }

// Close releases the client.
func (g *GeminiScorer) Close() error { return g.client.Close() }

// Score sends the request as a prompt and reads the first number back.
func (g *GeminiScorer) Score(ctx context.Context, req models.PredictionRequest) (float64, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(req)))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return parseAmount(responseText(resp))
}

func buildPrompt(req models.PredictionRequest) string {
	return fmt.Sprintf(
		`You estimate retail sales amounts in INR for a single customer during a festival season.
Customer: age %d, gender %s, marital status %s, state %s, age group %s.
Purchase: product category %s, %d orders, festival %s.
Reply with one number only: the expected total sales amount.`,
		req.Age, req.Gender, req.MaritalStatus, req.State, req.AgeGroup,
		req.ProductCategory, req.Orders, festivalOrNone(req.Festival),
	)
}

func festivalOrNone(f string) string {
	if f == "" {
		return "None"
	}
	return f
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, c := range resp.Candidates {
		if c == nil || c.Content == nil {
			continue
		}
		for _, part := range c.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}

var amountPattern = regexp.MustCompile(`-?\d[\d,]*(?:\.\d+)?`)

// parseAmount extracts the first number in a model reply, tolerating
// currency symbols and thousands separators.
func parseAmount(text string) (float64, error) {
	match := amountPattern.FindString(text)
	if match == "" {
		return 0, fmt.Errorf("%w: no amount in reply %q", ErrUnavailable, text)
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if v < 0 {
		v = 0
	}
	return v, nil
}
