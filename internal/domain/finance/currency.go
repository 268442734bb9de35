package finance

import (
	"strings"

	"github.com/logistics/backend/internal/domain/shared"
)

// Currency is one of the currencies a ledger entry may be denominated in
type Currency string

const (
	CurrencyRUB    Currency = "rub"    // cash roubles
	CurrencyRUBBN  Currency = "rubbn"  // non-cash roubles
	CurrencyRUBNDS Currency = "rubnds" // roubles including VAT
	CurrencyEUR    Currency = "eur"
	CurrencyUSD    Currency = "usd"
)

// Currencies returns the ledger currency vocabulary
func Currencies() []Currency {
	return []Currency{CurrencyRUB, CurrencyRUBBN, CurrencyRUBNDS, CurrencyEUR, CurrencyUSD}
}

// IsValid checks if the currency is part of the vocabulary
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyRUB, CurrencyRUBBN, CurrencyRUBNDS, CurrencyEUR, CurrencyUSD:
		return true
	}
	return false
}

// String returns the string representation of Currency
func (c Currency) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the currency
func (c Currency) DisplayName() string {
	switch c {
	case CurrencyRUB:
		return "Рубль"
	case CurrencyRUBBN:
		return "Безнал"
	case CurrencyRUBNDS:
		return "НДС"
	case CurrencyEUR:
		return "Евро"
	case CurrencyUSD:
		return "Доллар"
	default:
		return string(c)
	}
}

// ParseCurrency validates a currency code supplied from outside
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, "Unknown currency: "+s)
	}
	return c, nil
}

// OperationType is the direction of money
type OperationType string

const (
	OperationIn  OperationType = "in"  // income
	OperationOut OperationType = "out" // expense
)

// IsValid checks if the operation type is valid
func (o OperationType) IsValid() bool {
	return o == OperationIn || o == OperationOut
}

// DisplayName returns a human-readable name for the operation type
func (o OperationType) DisplayName() string {
	switch o {
	case OperationIn:
		return "Входящий"
	case OperationOut:
		return "Исходящий"
	default:
		return string(o)
	}
}

// DocumentType distinguishes bills from the payments settling them
type DocumentType string

const (
	DocumentBill    DocumentType = "bill"
	DocumentPayment DocumentType = "payment"
)

// IsValid checks if the document type is valid
func (d DocumentType) IsValid() bool {
	return d == DocumentBill || d == DocumentPayment
}

// DisplayName returns a human-readable name for the document type
func (d DocumentType) DisplayName() string {
	switch d {
	case DocumentBill:
		return "Счёт"
	case DocumentPayment:
		return "Оплата"
	default:
		return string(d)
	}
}
