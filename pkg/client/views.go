package client

import (
	"slices"
	"strings"
	"time"

	"github.com/amirasaad/bank/pkg/domain/account"
	"github.com/amirasaad/bank/pkg/domain/card"
	"github.com/amirasaad/bank/pkg/domain/transaction"
	"github.com/shopspring/decimal"
)

// AccountsOf returns the accounts owned by userID.
func AccountsOf(accounts []account.Account, userID uint) []account.Account {
	out := make([]account.Account, 0, len(accounts))
	for _, a := range accounts {
		if a.OwnerID == userID {
			out = append(out, a)
		}
	}
	return out
}

// CardsOf returns the cards bound to accounts owned by userID.
func CardsOf(cards []card.Card, accounts []account.Account, userID uint) []card.Card {
	owned := make(map[uint]struct{})
	for _, a := range AccountsOf(accounts, userID) {
		owned[a.ID] = struct{}{}
	}
	out := make([]card.Card, 0, len(cards))
	for _, c := range cards {
		if _, ok := owned[c.AccountID]; ok {
			out = append(out, c)
		}
	}
	return out
}

// TotalsByCurrency sums balances per currency code.
func TotalsByCurrency(accounts []account.Account) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, a := range accounts {
		totals[a.Currency] = totals[a.Currency].Add(decimal.NewFromFloat(a.Balance))
	}
	return totals
}

// TransactionFilter selects transactions. Zero fields match everything;
// time and amount bounds are inclusive.
type TransactionFilter struct {
	AccountID uint
	Type      string
	Currency  string
	From      time.Time
	To        time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	// Search matches the identifier, type or phone, case-insensitively.
	Search string
}

// Match reports whether tx passes every set criterion.
func (f TransactionFilter) Match(tx transaction.Transaction) bool {
	if f.AccountID != 0 && !tx.Involves(f.AccountID) {
		return false
	}
	if f.Type != "" && tx.Type != f.Type {
		return false
	}
	if f.Currency != "" && tx.Currency != f.Currency {
		return false
	}
	if !f.From.IsZero() && tx.Time.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && tx.Time.After(f.To) {
		return false
	}
	amount := decimal.NewFromFloat(tx.Amount)
	if f.MinAmount != nil && amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(tx.Identifier), q) &&
			!strings.Contains(strings.ToLower(tx.Type), q) &&
			!strings.Contains(tx.Phone, f.Search) {
			return false
		}
	}
	return true
}

// FilterTransactions keeps the transactions f matches, newest first.
func FilterTransactions(txs []transaction.Transaction, f TransactionFilter) []transaction.Transaction {
	out := make([]transaction.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(tx) {
			out = append(out, tx)
		}
	}
	slices.SortStableFunc(out, func(a, b transaction.Transaction) int {
		return b.Time.Compare(a.Time)
	})
	return out
}

// NetFlow is what accountID received minus what it sent. A transaction
// from an account to itself nets to zero.
func NetFlow(txs []transaction.Transaction, accountID uint) decimal.Decimal {
	net := decimal.Zero
	for _, tx := range txs {
		amount := decimal.NewFromFloat(tx.Amount)
		if tx.ReceiverID == accountID {
			net = net.Add(amount)
		}
		if tx.SenderID == accountID {
			net = net.Sub(amount)
		}
	}
	return net
}

// DistinctTypes returns the sorted set of non-empty transaction types.
func DistinctTypes(txs []transaction.Transaction) []string {
	return distinct(txs, func(tx transaction.Transaction) string { return tx.Type })
}

// DistinctCurrencies returns the sorted set of currencies in use.
func DistinctCurrencies(txs []transaction.Transaction) []string {
	return distinct(txs, func(tx transaction.Transaction) string { return tx.Currency })
}

func distinct(txs []transaction.Transaction, key func(transaction.Transaction) string) []string {
	out := make([]string, 0)
	for _, tx := range txs {
		if k := key(tx); k != "" && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	slices.Sort(out)
	return out
}
