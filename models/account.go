package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies an account in the chart of accounts and fixes
// its debit/credit sign convention.
type AccountType string

const (
	TypeAsset     AccountType = "asset"
	TypeLiability AccountType = "liability"
	TypeEquity    AccountType = "equity"
	TypeRevenue   AccountType = "revenue"
	TypeExpense   AccountType = "expense"
)

// Valid reports whether t is one of the five account types.
func (t AccountType) Valid() bool {
	switch t {
	case TypeAsset, TypeLiability, TypeEquity, TypeRevenue, TypeExpense:
		return true
	}
	return false
}

// Account represents a row in the chart of accounts.
type Account struct {
	ID             int             `json:"id"`
	Number         string          `json:"number"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Type           AccountType     `json:"type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Balance        decimal.Decimal `json:"balance"` // running balance, maintained by the transaction handlers
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// AccountInput is used for creating/updating accounts.
type AccountInput struct {
	Number         string          `json:"number"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Type           AccountType     `json:"type"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

func (a *AccountInput) Validate() string {
	if a.Number == "" {
		return "number is required"
	}
	if a.Name == "" {
		return "name is required"
	}
	if !a.Type.Valid() {
		return "type must be one of: asset, liability, equity, revenue, expense"
	}
	return ""
}
