package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"spendwise/internal/currencyutils"
	"spendwise/internal/logging"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ReportGenerator renders summaries.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	return &ReportGenerator{logger: logger}
}

// GenerateReport renders the summary in the given format (text, json or yaml).
func (g *ReportGenerator) GenerateReport(summary *Summary, format string) ([]byte, error) {
	if summary == nil {
		return nil, fmt.Errorf("summary cannot be nil")
	}
	switch format {
	case FormatText, "":
		return g.generateTextReport(summary)
	case FormatJSON:
		return g.generateJSONReport(summary)
	case FormatYAML:
		return g.generateYAMLReport(summary)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(summary *Summary) ([]byte, error) {
	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return out, nil
}

func (g *ReportGenerator) generateYAMLReport(summary *Summary) ([]byte, error) {
	out, err := yaml.Marshal(summary)
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return out, nil
}

func (g *ReportGenerator) generateTextReport(s *Summary) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Spending summary: %s\n", s.Collection)
	fmt.Fprintf(&buf, "Transactions: %d\n", s.Transactions)
	fmt.Fprintf(&buf, "Total expenditure: %s\n", currencyutils.FormatAmount(s.Total, s.Currency))
	fmt.Fprintf(&buf, "Average daily spending: %s\n", currencyutils.FormatAmount(s.AverageDaily, s.Currency))

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	section := func(title string, rows []NamedTotal) {
		fmt.Fprintf(w, "\n%s\t\t\n", title)
		for _, r := range rows {
			fmt.Fprintf(w, "  %s\t%s\t\n", r.Name, r.Total.StringFixed(2))
		}
	}
	section("Categories", s.Categories)
	section("Top merchants", s.TopMerchants)
	section("Top locations", s.TopLocations)

	fmt.Fprintf(w, "\nDaily totals\t\t\n")
	for _, d := range s.Daily {
		fmt.Fprintf(w, "  %s\t%s\t\n", d.Date, d.Total.StringFixed(2))
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to render text report: %w", err)
	}
	return buf.Bytes(), nil
}
