package model

import "github.com/shopspring/decimal"

// Section is the statement section (SEZBIL) a ledger line belongs to.
type Section string

const (
	SectionAsset     Section = "A"
	SectionLiability Section = "P"
	SectionRevenue   Section = "R"
	SectionCost      Section = "C"
)

// Sections lists the four statement sections in presentation order.
var Sections = []Section{SectionAsset, SectionLiability, SectionRevenue, SectionCost}

// Valid reports whether s is one of the four known sections.
func (s Section) Valid() bool {
	switch s {
	case SectionAsset, SectionLiability, SectionRevenue, SectionCost:
		return true
	}
	return false
}

// BalanceSheet reports whether the section belongs to the balance sheet.
func (s Section) BalanceSheet() bool {
	return s == SectionAsset || s == SectionLiability
}

// IncomeStatement reports whether the section belongs to the income statement.
func (s Section) IncomeStatement() bool {
	return s == SectionRevenue || s == SectionCost
}

// Label returns a human-readable section name.
func (s Section) Label() string {
	switch s {
	case SectionAsset:
		return "Assets"
	case SectionLiability:
		return "Liabilities"
	case SectionRevenue:
		return "Revenues"
	case SectionCost:
		return "Costs"
	}
	return string(s)
}

// AccountTypeGeneral flags general ledger accounts (TIPOCONTO = G), the only
// ones that take part in reclassification.
const AccountTypeGeneral = "G"

// AccountRecord is one line of a trial-balance extract.
type AccountRecord struct {
	LedgerGroupCode        string
	LedgerGroupDescription string
	AccountCode            string // classification key
	AccountDescription     string
	Amount                 decimal.Decimal
	Section                Section
	OrderingKey            string
	AccountType            string
	AmountCoerced          bool // source amount was not numeric and was replaced with zero
}

// General reports whether the record is a general ledger account.
func (r AccountRecord) General() bool {
	return r.AccountType == AccountTypeGeneral
}
