package domain

import (
	"github.com/shopspring/decimal"
)

// EndpointKind discriminates the two balance-holding entities.
type EndpointKind string

const (
	EndpointAccount   EndpointKind = "account"
	EndpointPartition EndpointKind = "partition"
)

// Endpoint identifies one balance a posting touches.
type Endpoint struct {
	Kind EndpointKind
	ID   string
}

// Leg is one debit or credit against a single endpoint.
type Leg struct {
	Target Endpoint
	Amount decimal.Decimal
}

// Posting is the full debit/credit set for one transaction.
type Posting struct {
	Debits  []Leg
	Credits []Leg
}

// Inverse swaps debit and credit roles, same amounts. Applying a posting and
// then its inverse restores every touched balance.
func (p Posting) Inverse() Posting {
	return Posting{Debits: p.Credits, Credits: p.Debits}
}

// Route maps a transaction to the balances it debits and credits. It is a
// total function over TransactionType; income and expense targeted at a
// partition (interest accrual) post against the partition instead of the
// account. Every type other than income and expense is a conservative
// rebalance: its debit and credit legs carry the same amount.
func Route(t *Transaction) (Posting, error) {
	account := Endpoint{Kind: EndpointAccount, ID: t.AccountID}

	self := account
	if t.PartitionID != nil && *t.PartitionID != "" {
		self = Endpoint{Kind: EndpointPartition, ID: *t.PartitionID}
	}

	switch t.Type {
	case TypeIncome:
		return Posting{
			Credits: []Leg{{Target: self, Amount: t.Amount}},
		}, nil

	case TypeExpense:
		return Posting{
			Debits: []Leg{{Target: self, Amount: t.Amount}},
		}, nil

	case TypeTransfer:
		return Posting{
			Debits:  []Leg{{Target: account, Amount: t.Amount}},
			Credits: []Leg{{Target: Endpoint{Kind: EndpointAccount, ID: *t.ToAccountID}, Amount: t.Amount}},
		}, nil

	case TypePartitionIn:
		return Posting{
			Debits:  []Leg{{Target: account, Amount: t.Amount}},
			Credits: []Leg{{Target: Endpoint{Kind: EndpointPartition, ID: *t.PartitionID}, Amount: t.Amount}},
		}, nil

	case TypePartitionOut:
		return Posting{
			Debits:  []Leg{{Target: Endpoint{Kind: EndpointPartition, ID: *t.PartitionID}, Amount: t.Amount}},
			Credits: []Leg{{Target: account, Amount: t.Amount}},
		}, nil

	case TypePartitionTransfer:
		return Posting{
			Debits:  []Leg{{Target: Endpoint{Kind: EndpointPartition, ID: *t.PartitionID}, Amount: t.Amount}},
			Credits: []Leg{{Target: Endpoint{Kind: EndpointPartition, ID: *t.ToPartitionID}, Amount: t.Amount}},
		}, nil
	}

	return Posting{}, ErrInvalidType
}
