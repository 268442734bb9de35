package finance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Rates is the exchange rate snapshot used to convert into roubles
type Rates struct {
	Euro decimal.Decimal
	USD  decimal.Decimal
}

// RateLine is one line of a request's rate breakdown
type RateLine struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// rateLineJSON keeps fields raw so numbers and numeric strings both parse
type rateLineJSON struct {
	Amount      json.RawMessage `json:"amount"`
	Currency    *string         `json:"currency"`
	Description *string         `json:"description"`
}

// ParseRateBreakdown decodes the rate text stored on a request. Empty text
// yields no lines. A missing currency means roubles and a missing amount
// counts as zero.
func ParseRateBreakdown(text string) ([]RateLine, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, malformed("rate breakdown is not a JSON array")
	}

	lines := make([]RateLine, 0, len(raw))
	for i, item := range raw {
		if !bytes.HasPrefix(bytes.TrimSpace(item), []byte("{")) {
			return nil, malformed(fmt.Sprintf("line %d is not an object", i+1))
		}
		var l rateLineJSON
		if err := json.Unmarshal(item, &l); err != nil {
			return nil, malformed(fmt.Sprintf("line %d: %v", i+1, err))
		}
		amount, err := parseAmount(l.Amount)
		if err != nil {
			return nil, malformed(fmt.Sprintf("line %d: %v", i+1, err))
		}
		line := RateLine{Amount: amount, Currency: CurrencyRUB.String()}
		if l.Currency != nil && strings.TrimSpace(*l.Currency) != "" {
			line.Currency = strings.ToLower(strings.TrimSpace(*l.Currency))
		}
		if l.Description != nil {
			line.Description = *l.Description
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func parseAmount(raw json.RawMessage) (decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, err
		}
		s = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not a number", s)
	}
	return d, nil
}

func malformed(msg string) error {
	return shared.NewDomainError(shared.CodeMalformedPayload, msg)
}

// CostInput is the request data the calculator reads
type CostInput struct {
	RequestID uuid.UUID
	Number    int
	Client    string
	Rate      string
}

// CostLine is one converted rate line
type CostLine struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	RubAmount   decimal.Decimal
}

// RequestCost is the converted breakdown of one request
type RequestCost struct {
	RequestID uuid.UUID
	Number    int
	Client    string
	Costs     []CostLine
}

// CostWarning records a request skipped because its breakdown is malformed
type CostWarning struct {
	RequestID uuid.UUID
	Number    int
	Reason    string
}

// CostReport is the shipment level result. Totals are keyed by the
// original currency (usd, eur, rub), not by the converted amount.
type CostReport struct {
	Requests []RequestCost
	Totals   Balance
	Warnings []CostWarning
}

// Convert turns amount into roubles and rounds half-up to two places
func (r Rates) Convert(amount decimal.Decimal, currency string) decimal.Decimal {
	var converted decimal.Decimal
	switch Currency(currency) {
	case CurrencyUSD:
		converted = amount.Mul(r.USD)
	case CurrencyEUR:
		converted = amount.Mul(r.Euro)
	default:
		converted = amount
	}
	return converted.Round(AmountPlaces)
}

// totalsKey buckets anything that is not usd or eur under rub
func totalsKey(currency string) Currency {
	switch Currency(currency) {
	case CurrencyUSD:
		return CurrencyUSD
	case CurrencyEUR:
		return CurrencyEUR
	default:
		return CurrencyRUB
	}
}

// CalculateCosts builds the cost report of a shipment. A request whose
// breakdown cannot be parsed is skipped with a warning and the rest still
// count. Requests without lines are left out.
func CalculateCosts(rates Rates, inputs []CostInput) *CostReport {
	report := &CostReport{
		Requests: []RequestCost{},
		Totals: Balance{
			CurrencyUSD: decimal.Zero,
			CurrencyEUR: decimal.Zero,
			CurrencyRUB: decimal.Zero,
		},
		Warnings: []CostWarning{},
	}

	for _, in := range inputs {
		lines, err := ParseRateBreakdown(in.Rate)
		if err != nil {
			report.Warnings = append(report.Warnings, CostWarning{
				RequestID: in.RequestID,
				Number:    in.Number,
				Reason:    err.Error(),
			})
			continue
		}
		if len(lines) == 0 {
			continue
		}

		rc := RequestCost{
			RequestID: in.RequestID,
			Number:    in.Number,
			Client:    in.Client,
			Costs:     make([]CostLine, 0, len(lines)),
		}
		for _, l := range lines {
			rc.Costs = append(rc.Costs, CostLine{
				Amount:      l.Amount,
				Currency:    l.Currency,
				Description: l.Description,
				RubAmount:   rates.Convert(l.Amount, l.Currency),
			})
			report.Totals.Add(totalsKey(l.Currency), l.Amount)
		}
		report.Requests = append(report.Requests, rc)
	}
	return report
}
