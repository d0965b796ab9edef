package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func legTotal(legs []Leg) decimal.Decimal {
	total := decimal.Zero
	for _, l := range legs {
		total = total.Add(l.Amount)
	}
	return total
}

func TestRoute(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name    string
		txn     Transaction
		debits  []Endpoint
		credits []Endpoint
	}{
		{
			name: "income credits the account",
			txn: Transaction{
				Type: TypeIncome, Amount: amount, AccountID: "acc-1",
			},
			credits: []Endpoint{{Kind: EndpointAccount, ID: "acc-1"}},
		},
		{
			name: "income targeted at a partition credits the partition",
			txn: Transaction{
				Type: TypeIncome, Amount: amount, AccountID: "acc-1",
				PartitionID: strPtr("part-1"),
			},
			credits: []Endpoint{{Kind: EndpointPartition, ID: "part-1"}},
		},
		{
			name: "expense debits the account",
			txn: Transaction{
				Type: TypeExpense, Amount: amount, AccountID: "acc-1",
			},
			debits: []Endpoint{{Kind: EndpointAccount, ID: "acc-1"}},
		},
		{
			name: "transfer moves between accounts",
			txn: Transaction{
				Type: TypeTransfer, Amount: amount, AccountID: "acc-1",
				ToAccountID: strPtr("acc-2"),
			},
			debits:  []Endpoint{{Kind: EndpointAccount, ID: "acc-1"}},
			credits: []Endpoint{{Kind: EndpointAccount, ID: "acc-2"}},
		},
		{
			name: "partition_in moves account to partition",
			txn: Transaction{
				Type: TypePartitionIn, Amount: amount, AccountID: "acc-1",
				PartitionID: strPtr("part-1"),
			},
			debits:  []Endpoint{{Kind: EndpointAccount, ID: "acc-1"}},
			credits: []Endpoint{{Kind: EndpointPartition, ID: "part-1"}},
		},
		{
			name: "partition_out moves partition to account",
			txn: Transaction{
				Type: TypePartitionOut, Amount: amount, AccountID: "acc-1",
				PartitionID: strPtr("part-1"),
			},
			debits:  []Endpoint{{Kind: EndpointPartition, ID: "part-1"}},
			credits: []Endpoint{{Kind: EndpointAccount, ID: "acc-1"}},
		},
		{
			name: "partition_transfer moves between partitions",
			txn: Transaction{
				Type: TypePartitionTransfer, Amount: amount, AccountID: "acc-1",
				PartitionID: strPtr("part-1"), ToPartitionID: strPtr("part-2"),
			},
			debits:  []Endpoint{{Kind: EndpointPartition, ID: "part-1"}},
			credits: []Endpoint{{Kind: EndpointPartition, ID: "part-2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posting, err := Route(&tt.txn)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(posting.Debits) != len(tt.debits) {
				t.Fatalf("expected %d debits, got %d", len(tt.debits), len(posting.Debits))
			}
			for i, ep := range tt.debits {
				if posting.Debits[i].Target != ep {
					t.Errorf("debit %d: expected %v, got %v", i, ep, posting.Debits[i].Target)
				}
				if !posting.Debits[i].Amount.Equal(amount) {
					t.Errorf("debit %d: expected amount %s, got %s", i, amount, posting.Debits[i].Amount)
				}
			}

			if len(posting.Credits) != len(tt.credits) {
				t.Fatalf("expected %d credits, got %d", len(tt.credits), len(posting.Credits))
			}
			for i, ep := range tt.credits {
				if posting.Credits[i].Target != ep {
					t.Errorf("credit %d: expected %v, got %v", i, ep, posting.Credits[i].Target)
				}
			}
		})
	}
}

// Every type other than income and expense must redistribute funds without
// creating or destroying any.
func TestRoute_RebalancesConserveFunds(t *testing.T) {
	amount := decimal.NewFromInt(250)

	rebalances := []Transaction{
		{Type: TypeTransfer, Amount: amount, AccountID: "acc-1", ToAccountID: strPtr("acc-2")},
		{Type: TypePartitionIn, Amount: amount, AccountID: "acc-1", PartitionID: strPtr("part-1")},
		{Type: TypePartitionOut, Amount: amount, AccountID: "acc-1", PartitionID: strPtr("part-1")},
		{Type: TypePartitionTransfer, Amount: amount, AccountID: "acc-1", PartitionID: strPtr("part-1"), ToPartitionID: strPtr("part-2")},
	}

	for _, txn := range rebalances {
		posting, err := Route(&txn)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", txn.Type, err)
		}

		if !legTotal(posting.Debits).Equal(legTotal(posting.Credits)) {
			t.Errorf("%s: debits %s != credits %s",
				txn.Type, legTotal(posting.Debits), legTotal(posting.Credits))
		}
	}
}

func TestRoute_UnknownType(t *testing.T) {
	_, err := Route(&Transaction{Type: "refund", Amount: decimal.NewFromInt(1), AccountID: "acc-1"})
	if err != ErrInvalidType {
		t.Errorf("expected ErrInvalidType, got %v", err)
	}
}

func TestPosting_Inverse(t *testing.T) {
	amount := decimal.NewFromInt(75)
	txn := Transaction{Type: TypePartitionIn, Amount: amount, AccountID: "acc-1", PartitionID: strPtr("part-1")}

	posting, err := Route(&txn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	inverse := posting.Inverse()

	if len(inverse.Debits) != 1 || inverse.Debits[0].Target != posting.Credits[0].Target {
		t.Error("inverse debits should be the original credits")
	}
	if len(inverse.Credits) != 1 || inverse.Credits[0].Target != posting.Debits[0].Target {
		t.Error("inverse credits should be the original debits")
	}
}
