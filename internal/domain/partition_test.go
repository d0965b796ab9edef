package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPartition_ValidateDebit(t *testing.T) {
	p := &Partition{Balance: decimal.NewFromInt(200)}

	if err := p.ValidateDebit(decimal.NewFromInt(200)); err != nil {
		t.Errorf("unexpected error debiting exact balance: %v", err)
	}

	if err := p.ValidateDebit(decimal.NewFromInt(201)); err != ErrInsufficientFunds {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}
}

func TestPartition_InterestForPeriod(t *testing.T) {
	tests := []struct {
		name      string
		balance   string
		rate      string
		frequency InterestFrequency
		expected  string
	}{
		{
			name:      "monthly on 1200 at 6 percent",
			balance:   "1200",
			rate:      "0.06",
			frequency: InterestMonthly,
			expected:  "6",
		},
		{
			name:      "quarterly on 1000 at 4 percent",
			balance:   "1000",
			rate:      "0.04",
			frequency: InterestQuarterly,
			expected:  "10",
		},
		{
			name:      "yearly on 500 at 3 percent",
			balance:   "500",
			rate:      "0.03",
			frequency: InterestYearly,
			expected:  "15",
		},
		{
			name:      "rounds to cents",
			balance:   "1000",
			rate:      "0.0333",
			frequency: InterestMonthly,
			expected:  "2.78",
		},
		{
			name:      "zero balance accrues nothing",
			balance:   "0",
			rate:      "0.05",
			frequency: InterestMonthly,
			expected:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, _ := decimal.NewFromString(tt.balance)
			rate, _ := decimal.NewFromString(tt.rate)
			expected, _ := decimal.NewFromString(tt.expected)

			p := &Partition{
				Balance:           balance,
				InterestRate:      rate,
				InterestFrequency: tt.frequency,
			}

			if got := p.InterestForPeriod(); !got.Equal(expected) {
				t.Errorf("expected %s, got %s", expected, got)
			}
		})
	}
}

func TestInterestFrequency_NextDate(t *testing.T) {
	from := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	if got := InterestMonthly.NextDate(from); got != from.AddDate(0, 1, 0) {
		t.Errorf("monthly: got %v", got)
	}
	if got := InterestQuarterly.NextDate(from); got != from.AddDate(0, 3, 0) {
		t.Errorf("quarterly: got %v", got)
	}
	if got := InterestYearly.NextDate(from); got != from.AddDate(1, 0, 0) {
		t.Errorf("yearly: got %v", got)
	}
}

func TestValidateHoldings(t *testing.T) {
	tests := []struct {
		name        string
		holdings    []Holding
		expectError bool
	}{
		{
			name: "valid allocation",
			holdings: []Holding{
				{Ticker: "VTI", Percentage: decimal.NewFromInt(60)},
				{Ticker: "BND", Percentage: decimal.NewFromInt(40)},
			},
			expectError: false,
		},
		{
			name: "under-allocated is fine",
			holdings: []Holding{
				{Ticker: "VTI", Percentage: decimal.NewFromInt(30)},
			},
			expectError: false,
		},
		{
			name: "over 100 percent",
			holdings: []Holding{
				{Ticker: "VTI", Percentage: decimal.NewFromInt(70)},
				{Ticker: "BND", Percentage: decimal.NewFromInt(40)},
			},
			expectError: true,
		},
		{
			name: "negative percentage",
			holdings: []Holding{
				{Ticker: "VTI", Percentage: decimal.NewFromInt(-5)},
			},
			expectError: true,
		},
		{
			name:        "empty holdings",
			holdings:    nil,
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHoldings(tt.holdings)

			if tt.expectError && err != ErrHoldingsPercentage {
				t.Errorf("expected ErrHoldingsPercentage, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
