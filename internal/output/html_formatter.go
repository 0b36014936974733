package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/rothplan/internal/domain"
	"github.com/shopspring/decimal"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr":      FormatCurrency,
	"pct":       FormatPercentage,
	"breakeven": breakEvenLabel,
	"state": func(yr domain.YearlyResult) decimal.Decimal {
		if yr.StateTax == nil {
			return decimal.Zero
		}
		return yr.StateTax.WithConversion
	},
	"strategy": describeStrategy,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
