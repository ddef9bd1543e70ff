package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

const (
	PeriodToday = "today"
	PeriodAll   = "all"
)

var (
	ErrInvalidPeriod = errors.New("period must be one of: today, all")
	ErrUnknownUser   = errors.New("unknown user")
)

// ItemSales is the number of units of a menu item sold in a period.
type ItemSales struct {
	MenuItemID int64  `json:"menuitem_id"`
	Title      string `json:"title"`
	Quantity   int64  `json:"quantity"`
}

type TopItemsResponse struct {
	Period string      `json:"period"`
	Items  []ItemSales `json:"items"`
}

type RevenueResponse struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}
