package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderBuilding   OrderStatus = "building"
	OrderProcessing OrderStatus = "processing"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderFailed     OrderStatus = "failed"
)

type PaymentMethod string

const (
	PaymentUPI        PaymentMethod = "upi"
	PaymentDebitCard  PaymentMethod = "debit"
	PaymentCreditCard PaymentMethod = "credit"
	PaymentNetBanking PaymentMethod = "netbanking"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentUPI, PaymentDebitCard, PaymentCreditCard, PaymentNetBanking:
		return true
	}
	return false
}

// TaxRate applies to every order subtotal; shipping is always free.
var TaxRate = decimal.NewFromFloat(0.18)

// Order is an immutable snapshot of the cart at the moment checkout
// started. Only Status changes afterwards.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	Lines         []CartLine      `json:"lines"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
	Status        OrderStatus     `json:"status"`
	PlacedAt      time.Time       `json:"placed_at"`
}
