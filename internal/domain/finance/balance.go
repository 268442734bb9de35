package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance maps a currency to a signed amount
type Balance map[Currency]decimal.Decimal

// Add accumulates amount into currency c
func (b Balance) Add(c Currency, amount decimal.Decimal) {
	b[c] = b[c].Add(amount)
}

// CurrencyTotal is an aggregated sum of one currency and direction
type CurrencyTotal struct {
	Currency      Currency
	OperationType OperationType
	Total         decimal.Decimal
}

// BalanceFromTotals folds per-direction sums into in minus out per currency
func BalanceFromTotals(totals []CurrencyTotal) Balance {
	b := Balance{}
	for _, t := range totals {
		if t.OperationType == OperationOut {
			b.Add(t.Currency, t.Total.Neg())
			continue
		}
		b.Add(t.Currency, t.Total)
	}
	return b
}

// ComputeBalance computes in minus out per currency over entries
func ComputeBalance(entries []LedgerEntry) Balance {
	b := Balance{}
	for i := range entries {
		b.Add(entries[i].Currency, entries[i].SignedAmount())
	}
	return b
}

// IncomeExpenses splits a tenant's ledger into income, expenses and balance
type IncomeExpenses struct {
	Income   Balance
	Expenses Balance
	Balance  Balance
}

// IncomeExpensesFromTotals builds the three-way view from aggregated sums
func IncomeExpensesFromTotals(totals []CurrencyTotal) IncomeExpenses {
	out := IncomeExpenses{Income: Balance{}, Expenses: Balance{}}
	for _, t := range totals {
		if t.OperationType == OperationOut {
			out.Expenses.Add(t.Currency, t.Total)
			continue
		}
		out.Income.Add(t.Currency, t.Total)
	}
	out.Balance = BalanceFromTotals(totals)
	return out
}

// CounterpartyTotal is an aggregated sum for one counterparty
type CounterpartyTotal struct {
	CounterpartyID uuid.UUID
	CurrencyTotal
}

// CounterpartyBalance is the per-currency position with one counterparty
type CounterpartyBalance struct {
	CounterpartyID uuid.UUID
	Name           string
	Balances       Balance
}

// GroupCounterpartyTotals folds sums into one row per counterparty, keeping
// the order in which counterparties first appear
func GroupCounterpartyTotals(totals []CounterpartyTotal, names map[uuid.UUID]string) []CounterpartyBalance {
	index := make(map[uuid.UUID]int)
	var out []CounterpartyBalance
	for _, t := range totals {
		i, ok := index[t.CounterpartyID]
		if !ok {
			i = len(out)
			index[t.CounterpartyID] = i
			out = append(out, CounterpartyBalance{
				CounterpartyID: t.CounterpartyID,
				Name:           names[t.CounterpartyID],
				Balances:       Balance{},
			})
		}
		amount := t.Total
		if t.OperationType == OperationOut {
			amount = amount.Neg()
		}
		out[i].Balances.Add(t.Currency, amount)
	}
	return out
}

// ExpenseItem is one outgoing entry of a shipment
type ExpenseItem struct {
	EntryID     uuid.UUID
	Number      int64
	Amount      decimal.Decimal
	Currency    Currency
	PaymentDate *time.Time
	Comment     string
	IsPaid      bool
}

// ShipmentExpenses lists the outgoing entries of a shipment with totals
type ShipmentExpenses struct {
	Items  []ExpenseItem
	Totals Balance
}

// SummarizeExpenses keeps out entries and totals only the currencies present
func SummarizeExpenses(entries []LedgerEntry) *ShipmentExpenses {
	out := &ShipmentExpenses{Items: []ExpenseItem{}, Totals: Balance{}}
	for i := range entries {
		e := &entries[i]
		if e.OperationType != OperationOut {
			continue
		}
		out.Items = append(out.Items, ExpenseItem{
			EntryID:     e.ID,
			Number:      e.Number,
			Amount:      e.Amount,
			Currency:    e.Currency,
			PaymentDate: e.PaymentDate,
			Comment:     e.Comment,
			IsPaid:      e.IsPaid,
		})
		out.Totals.Add(e.Currency, e.Amount)
	}
	return out
}
