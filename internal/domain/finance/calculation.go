package finance

import (
	"github.com/google/uuid"
	"github.com/logistics/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// RatePlaces is the precision of stored exchange rates
const RatePlaces = 2

// ShipmentCalculation holds the exchange rate snapshot of one shipment
type ShipmentCalculation struct {
	shared.TenantEntity
	ShipmentID uuid.UUID
	EuroRate   decimal.Decimal
	USDRate    decimal.Decimal
}

// NewShipmentCalculation creates a calculation with zero rates
func NewShipmentCalculation(tenantID, shipmentID uuid.UUID) *ShipmentCalculation {
	return &ShipmentCalculation{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ShipmentID:   shipmentID,
		EuroRate:     decimal.Zero,
		USDRate:      decimal.Zero,
	}
}

// SetRates replaces the supplied rates; a nil rate keeps the stored one
func (c *ShipmentCalculation) SetRates(euro, usd *decimal.Decimal) error {
	if euro != nil {
		if euro.IsNegative() {
			return shared.NewDomainError(shared.CodeInvalidInput, "Euro rate cannot be negative")
		}
		c.EuroRate = euro.Round(RatePlaces)
	}
	if usd != nil {
		if usd.IsNegative() {
			return shared.NewDomainError(shared.CodeInvalidInput, "USD rate cannot be negative")
		}
		c.USDRate = usd.Round(RatePlaces)
	}
	c.Touch()
	return nil
}

// Rates returns the snapshot used for conversion
func (c *ShipmentCalculation) Rates() Rates {
	return Rates{Euro: c.EuroRate, USD: c.USDRate}
}
