// Package categorizer maps merchant names to spending categories: learned direct mappings
// first, then one batched language-model call, with keyword matching onto the closed
// category set as the deterministic last step.
package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"spendwise/internal/llm"
	"spendwise/internal/logging"
	"spendwise/internal/models"
	"spendwise/internal/parsererror"
)

const classificationPrompt = "You will be provided with company names, and your task is to classify them to one of the following %s. " +
	"Return them formatted as JSON where the field is the company name and the value is the category."

// SystemPrompt builds the classification instruction for a category vocabulary.
func SystemPrompt(categories []string) string {
	return fmt.Sprintf(classificationPrompt, strings.Join(categories, ", "))
}

// Classifier assigns categories to merchants.
type Classifier struct {
	generator  llm.Generator
	categories []string
	mapping    *DirectMapping
	autoLearn  bool
	logger     logging.Logger
}

// NewClassifier creates a Classifier. generator may be nil when AI is disabled, and mapping
// may be nil when no merchant file is configured.
func NewClassifier(generator llm.Generator, categories []string, mapping *DirectMapping, autoLearn bool, logger logging.Logger) *Classifier {
	if len(categories) == 0 {
		categories = models.DefaultCategories()
	}
	return &Classifier{
		generator:  generator,
		categories: categories,
		mapping:    mapping,
		autoLearn:  autoLearn,
		logger:     logger,
	}
}

// Categories returns the category vocabulary.
func (c *Classifier) Categories() []string {
	return slices.Clone(c.categories)
}

// ClassifyMerchants returns a lower-cased merchant -> free-text category mapping. Known
// merchants come from the direct mapping; the rest are sent in a single model call. Any
// model failure degrades to the merchants resolved so far and is only logged.
func (c *Classifier) ClassifyMerchants(ctx context.Context, merchants []string) map[string]string {
	names := normalizeMerchants(merchants)
	result := make(map[string]string, len(names))

	var unknown []string
	for _, name := range names {
		if c.mapping != nil {
			if category, ok := c.mapping.Lookup(name); ok {
				result[name] = category
				continue
			}
		}
		unknown = append(unknown, name)
	}

	if len(unknown) == 0 {
		return result
	}

	classified, err := c.classifyBatch(ctx, unknown)
	if err != nil {
		c.logger.WithError(err).Warn("Merchant classification unavailable, continuing without categories",
			logging.F(logging.FieldCount, len(unknown)))
		return result
	}

	for merchant, category := range classified {
		result[merchant] = category
		if c.autoLearn && c.mapping != nil && slices.Contains(unknown, merchant) {
			c.mapping.Update(merchant, category)
			c.logger.Debug("Learned merchant mapping",
				logging.F(logging.FieldMerchant, merchant),
				logging.F(logging.FieldCategory, category))
		}
	}

	c.logger.Info("Classified merchants",
		logging.F(logging.FieldCount, len(classified)),
		logging.F("requested", len(unknown)))
	return result
}

func (c *Classifier) classifyBatch(ctx context.Context, merchants []string) (map[string]string, error) {
	if c.generator == nil {
		return nil, &parsererror.CategorizationError{
			Merchants: len(merchants),
			Stage:     "generate",
			Err:       fmt.Errorf("AI classification is disabled"),
		}
	}

	raw, err := c.generator.Generate(ctx, llm.Request{
		System: SystemPrompt(c.categories),
		Prompt: strings.Join(merchants, ", "),
	})
	if err != nil {
		return nil, &parsererror.CategorizationError{Merchants: len(merchants), Stage: "generate", Err: err}
	}

	mapping, err := ParseClassification(raw)
	if err != nil {
		return nil, &parsererror.CategorizationError{Merchants: len(merchants), Stage: "decode", Err: err}
	}
	return mapping, nil
}

// ParseClassification decodes a JSON object of company -> category. Code fences and text
// around the outermost braces are ignored, keys are lower-cased and non-string values
// are skipped.
func ParseClassification(raw string) (map[string]string, error) {
	s := llm.StripCodeFences(raw)
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end > start {
			s = s[start : end+1]
		}
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal classification JSON: %w", err)
	}
	obj, ok := parsed.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("classification response is not a JSON object")
	}

	out := make(map[string]string, len(obj))
	for k, v := range obj {
		category, ok := v.(string)
		if !ok {
			continue
		}
		out[normalizeMerchant(k)] = strings.TrimSpace(category)
	}
	return out, nil
}

// Apply normalizes merchant names in place, classifies them and fills CategoryFreetext and
// Category. It returns the number of transactions that received a free-text category.
func (c *Classifier) Apply(ctx context.Context, txs []models.Transaction) int {
	merchants := make([]string, 0, len(txs))
	for i := range txs {
		txs[i].Merchant = normalizeMerchant(txs[i].Merchant)
		merchants = append(merchants, txs[i].Merchant)
	}

	mapping := c.ClassifyMerchants(ctx, merchants)

	categorized := 0
	for i := range txs {
		txs[i].CategoryFreetext, txs[i].Category = nil, nil
		freetext, ok := mapping[txs[i].Merchant]
		if !ok || freetext == "" {
			continue
		}
		categorized++
		txs[i].CategoryFreetext = models.StringPtr(freetext)
		if category, ok := FindFirstMatch(freetext, c.categories); ok {
			txs[i].Category = models.StringPtr(category)
		}
	}
	return categorized
}

// SaveLearned persists mappings learned during classification.
func (c *Classifier) SaveLearned() error {
	if c.mapping == nil {
		return nil
	}
	return c.mapping.Save()
}

func normalizeMerchants(merchants []string) []string {
	seen := make(map[string]struct{}, len(merchants))
	out := make([]string, 0, len(merchants))
	for _, m := range merchants {
		name := normalizeMerchant(m)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
