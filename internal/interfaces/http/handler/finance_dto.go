package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// LedgerEntryResponse is the API view of a ledger entry
type LedgerEntryResponse struct {
	ID             uuid.UUID             `json:"id"`
	Number         int64                 `json:"number"`
	OperationType  finance.OperationType `json:"operation_type"`
	DocumentType   finance.DocumentType  `json:"document_type"`
	Currency       finance.Currency      `json:"currency"`
	Amount         decimal.Decimal       `json:"amount"`
	CounterpartyID *uuid.UUID            `json:"counterparty_id"`
	ArticleID      *uuid.UUID            `json:"article_id"`
	ShipmentID     *uuid.UUID            `json:"shipment_id"`
	RequestID      *uuid.UUID            `json:"request_id"`
	BasisID        *uuid.UUID            `json:"basis_id"`
	IsPaid         bool                  `json:"is_paid"`
	PaymentDate    *time.Time            `json:"payment_date"`
	Comment        string                `json:"comment"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func toLedgerEntryResponse(e *finance.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:             e.ID,
		Number:         e.Number,
		OperationType:  e.OperationType,
		DocumentType:   e.DocumentType,
		Currency:       e.Currency,
		Amount:         e.Amount,
		CounterpartyID: e.CounterpartyID,
		ArticleID:      e.ArticleID,
		ShipmentID:     e.ShipmentID,
		RequestID:      e.RequestID,
		BasisID:        e.BasisID,
		IsPaid:         e.IsPaid,
		PaymentDate:    e.PaymentDate,
		Comment:        e.Comment,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// LedgerEntryRequest carries the mutable fields of an entry
type LedgerEntryRequest struct {
	OperationType  string          `json:"operation_type" binding:"required,oneof=in out"`
	DocumentType   string          `json:"document_type" binding:"required,oneof=bill payment"`
	Currency       string          `json:"currency" binding:"required,currency"`
	Amount         decimal.Decimal `json:"amount"`
	CounterpartyID string          `json:"counterparty_id" binding:"omitempty,uuid"`
	ArticleID      string          `json:"article_id" binding:"omitempty,uuid"`
	ShipmentID     string          `json:"shipment_id" binding:"omitempty,uuid"`
	RequestID      string          `json:"request_id" binding:"omitempty,uuid"`
	BasisID        string          `json:"basis_id" binding:"omitempty,uuid"`
	IsPaid         bool            `json:"is_paid"`
	PaymentDate    *time.Time      `json:"payment_date"`
	Comment        string          `json:"comment" binding:"max=2000"`
}

func (r LedgerEntryRequest) toDetails() finance.EntryDetails {
	return finance.EntryDetails{
		OperationType:  finance.OperationType(r.OperationType),
		DocumentType:   finance.DocumentType(r.DocumentType),
		Currency:       finance.Currency(r.Currency),
		Amount:         r.Amount,
		CounterpartyID: optionalID(r.CounterpartyID),
		ArticleID:      optionalID(r.ArticleID),
		ShipmentID:     optionalID(r.ShipmentID),
		RequestID:      optionalID(r.RequestID),
		BasisID:        optionalID(r.BasisID),
		IsPaid:         r.IsPaid,
		PaymentDate:    r.PaymentDate,
		Comment:        r.Comment,
	}
}

// RecordEntryRequest is the body of POST /ledger. The idempotency key may
// come from the body or the Idempotency-Key header.
type RecordEntryRequest struct {
	LedgerEntryRequest
	IdempotencyKey string `json:"idempotency_key" binding:"max=255"`
}

// BalanceResponse is income, expenses and their difference per currency
type BalanceResponse struct {
	Income   finance.Balance `json:"income"`
	Expenses finance.Balance `json:"expenses"`
	Balance  finance.Balance `json:"balance"`
}

// CounterpartyBalanceResponse is one counterparty's signed totals
type CounterpartyBalanceResponse struct {
	CounterpartyID uuid.UUID       `json:"counterparty_id"`
	Name           string          `json:"name"`
	Balances       finance.Balance `json:"balances"`
}

// ArticleResponse is the API view of an expense article
type ArticleResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toArticleResponse(a *finance.Article) ArticleResponse {
	return ArticleResponse{ID: a.ID, Name: a.Name, CreatedAt: a.CreatedAt}
}

// ArticleRequest is the body of article writes
type ArticleRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// CalculationResponse is the rate snapshot of a shipment
type CalculationResponse struct {
	ID         uuid.UUID       `json:"id"`
	ShipmentID uuid.UUID       `json:"shipment_id"`
	EuroRate   decimal.Decimal `json:"euro_rate"`
	USDRate    decimal.Decimal `json:"usd_rate"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func toCalculationResponse(c *finance.ShipmentCalculation) CalculationResponse {
	return CalculationResponse{
		ID:         c.ID,
		ShipmentID: c.ShipmentID,
		EuroRate:   c.EuroRate,
		USDRate:    c.USDRate,
		UpdatedAt:  c.UpdatedAt,
	}
}

// RatesRequest carries optional exchange rates. Missing rates keep the
// stored value.
type RatesRequest struct {
	EuroRate *decimal.Decimal `json:"euro_rate"`
	USDRate  *decimal.Decimal `json:"usd_rate"`
}

// CostLineResponse is one converted rate line
type CostLineResponse struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	RubAmount   decimal.Decimal `json:"rub_amount"`
}

// RequestCostResponse groups the lines of one request
type RequestCostResponse struct {
	RequestID uuid.UUID          `json:"request_id"`
	Number    int                `json:"number"`
	Client    string             `json:"client"`
	Costs     []CostLineResponse `json:"costs"`
}

// CostWarningResponse names a request whose rate could not be parsed
type CostWarningResponse struct {
	RequestID uuid.UUID `json:"request_id"`
	Number    int       `json:"number"`
	Reason    string    `json:"reason"`
}

// CostReportResponse is the result of a cost calculation
type CostReportResponse struct {
	Requests []RequestCostResponse `json:"requests"`
	Totals   finance.Balance       `json:"totals"`
	Warnings []CostWarningResponse `json:"warnings"`
}

func toCostReportResponse(r *finance.CostReport) CostReportResponse {
	out := CostReportResponse{
		Requests: make([]RequestCostResponse, len(r.Requests)),
		Totals:   r.Totals,
		Warnings: make([]CostWarningResponse, len(r.Warnings)),
	}
	for i, rc := range r.Requests {
		lines := make([]CostLineResponse, len(rc.Costs))
		for j, l := range rc.Costs {
			lines[j] = CostLineResponse{
				Amount:      l.Amount,
				Currency:    l.Currency,
				Description: l.Description,
				RubAmount:   l.RubAmount,
			}
		}
		out.Requests[i] = RequestCostResponse{
			RequestID: rc.RequestID,
			Number:    rc.Number,
			Client:    rc.Client,
			Costs:     lines,
		}
	}
	for i, w := range r.Warnings {
		out.Warnings[i] = CostWarningResponse{RequestID: w.RequestID, Number: w.Number, Reason: w.Reason}
	}
	return out
}

// ExpenseItemResponse is one outgoing entry of a shipment
type ExpenseItemResponse struct {
	Number      int64            `json:"number"`
	Amount      decimal.Decimal  `json:"amount"`
	Currency    finance.Currency `json:"currency"`
	PaymentDate *time.Time       `json:"payment_date"`
	Comment     string           `json:"comment"`
	IsPaid      bool             `json:"is_paid"`
}

// ShipmentExpensesResponse lists a shipment's expenses with totals
type ShipmentExpensesResponse struct {
	Items  []ExpenseItemResponse `json:"items"`
	Totals finance.Balance       `json:"totals"`
}

func toShipmentExpensesResponse(e *finance.ShipmentExpenses) ShipmentExpensesResponse {
	out := ShipmentExpensesResponse{Items: make([]ExpenseItemResponse, len(e.Items)), Totals: e.Totals}
	for i, item := range e.Items {
		out.Items[i] = ExpenseItemResponse{
			Number:      item.Number,
			Amount:      item.Amount,
			Currency:    item.Currency,
			PaymentDate: item.PaymentDate,
			Comment:     item.Comment,
			IsPaid:      item.IsPaid,
		}
	}
	return out
}
