package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PartitionKind classifies a partition.
type PartitionKind string

const (
	PartitionKindSavings    PartitionKind = "savings"
	PartitionKindInvestment PartitionKind = "investment"
)

// ValidKind reports whether k is a known partition kind.
func (k PartitionKind) ValidKind() bool {
	return k == PartitionKindSavings || k == PartitionKindInvestment
}

// InterestFrequency is how often a savings partition accrues interest.
type InterestFrequency string

const (
	InterestMonthly   InterestFrequency = "monthly"
	InterestQuarterly InterestFrequency = "quarterly"
	InterestYearly    InterestFrequency = "yearly"
)

// PeriodsPerYear returns the number of accrual periods in a year.
func (f InterestFrequency) PeriodsPerYear() int64 {
	switch f {
	case InterestMonthly:
		return 12
	case InterestQuarterly:
		return 4
	default:
		return 1
	}
}

// NextDate advances an accrual date by one period.
func (f InterestFrequency) NextDate(from time.Time) time.Time {
	switch f {
	case InterestMonthly:
		return from.AddDate(0, 1, 0)
	case InterestQuarterly:
		return from.AddDate(0, 3, 0)
	default:
		return from.AddDate(1, 0, 0)
	}
}

// Holding is one percentage-allocated position inside an investment partition.
type Holding struct {
	AssetType  string          `json:"asset_type"`
	Ticker     string          `json:"ticker"`
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

// Partition is a ring-fenced slice of one account's funds. Its balance is
// independent of the parent account's CurrentBalance.
type Partition struct {
	ID                  string
	AccountID           string
	Name                string
	Kind                PartitionKind
	Balance             decimal.Decimal
	InterestRate        decimal.Decimal
	InterestFrequency   InterestFrequency
	NextInterestDate    *time.Time
	TotalInterestEarned decimal.Decimal
	Holdings            []Holding
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ValidateDebit checks that debiting amount keeps the balance non-negative.
func (p *Partition) ValidateDebit(amount decimal.Decimal) error {
	if p.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (p *Partition) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return p.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (p *Partition) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return p.Balance.Add(amount)
}

// InterestForPeriod returns the interest earned over one accrual period.
// InterestRate is a yearly fraction (0.05 means 5% p.a.), rounded to cents.
func (p *Partition) InterestForPeriod() decimal.Decimal {
	periods := decimal.NewFromInt(p.InterestFrequency.PeriodsPerYear())
	return p.Balance.Mul(p.InterestRate).Div(periods).Round(2)
}

// ValidateHoldings checks that target percentages do not exceed 100.
func ValidateHoldings(holdings []Holding) error {
	total := decimal.Zero
	for _, h := range holdings {
		if h.Percentage.IsNegative() {
			return ErrHoldingsPercentage
		}
		total = total.Add(h.Percentage)
	}
	if total.GreaterThan(decimal.NewFromInt(100)) {
		return ErrHoldingsPercentage
	}
	return nil
}
