package classify

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultRules []byte

// prefixLen is the number of leading account-code characters used as the
// classification key.
const prefixLen = 5

// ValidationError describes a rule table that cannot be used.
type ValidationError struct {
	Prefix      string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("rule %s: %s", e.Prefix, e.Description)
}

// Tables holds the prefix classification rules. It is immutable after
// construction and safe for concurrent use.
type Tables struct {
	doc     Document
	balance map[string]BalanceRule
	income  map[string]IncomeRule
	subs    map[Macro][]string
}

// Prefix returns the classification key of an account code: its first five
// characters, or the whole code when shorter.
func Prefix(code string) string {
	s := strings.TrimSpace(code)
	r := []rune(s)
	if len(r) >= prefixLen {
		return string(r[:prefixLen])
	}
	return s
}

// DefaultYAML returns the embedded default rule document.
func DefaultYAML() []byte {
	out := make([]byte, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Default returns the built-in tables. The result is shared.
func Default() *Tables {
	return defaultTables()
}

var defaultTables = sync.OnceValue(func() *Tables {
	t, err := Parse(defaultRules)
	if err != nil {
		panic("invalid embedded classification rules: " + err.Error())
	}
	return t
})

// Load reads a rule document from disk.
func Load(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading classification rules: %w", err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates a rule document.
func Parse(data []byte) (*Tables, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing classification rules: %w", err)
	}
	return New(doc)
}

// New validates doc and builds lookup tables from it.
func New(doc Document) (*Tables, error) {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(doc); err != nil {
		return nil, fmt.Errorf("validating classification rules: %w", err)
	}

	t := &Tables{
		doc:     doc,
		balance: make(map[string]BalanceRule, len(doc.BalanceSheet)),
		income:  make(map[string]IncomeRule, len(doc.IncomeStatement)),
		subs:    make(map[Macro][]string, len(Macros)),
	}

	seen := make(map[Macro]map[string]bool, len(Macros))
	addSub := func(m Macro, sub string) {
		if seen[m] == nil {
			seen[m] = make(map[string]bool)
		}
		if !seen[m][sub] {
			seen[m][sub] = true
			t.subs[m] = append(t.subs[m], sub)
		}
	}

	for _, r := range doc.BalanceSheet {
		if _, dup := t.balance[r.Prefix]; dup {
			return nil, ValidationError{Prefix: r.Prefix, Description: "duplicate balance-sheet prefix"}
		}
		if r.Treatment == "" {
			r.Treatment = TreatmentDefault
		}
		t.balance[r.Prefix] = r

		switch r.Treatment {
		case TreatmentAccumulatedDepreciation:
			// Contra account: never a line of its own.
		case TreatmentBankDebt:
			addSub(MacroCurrentLiabilities, SubBankDebts)
			addSub(MacroNonCurrentLiabilities, SubMediumLongBankDebts)
		case TreatmentTaxDebt:
			addSub(r.Macro, r.Sub)
			addSub(MacroCurrentAssets, SubTaxReceivables)
		default:
			addSub(r.Macro, r.Sub)
		}
	}

	for _, r := range doc.IncomeStatement {
		if _, dup := t.income[r.Prefix]; dup {
			return nil, ValidationError{Prefix: r.Prefix, Description: "duplicate income-statement prefix"}
		}
		t.income[r.Prefix] = r
	}

	return t, nil
}

// Balance returns the balance-sheet rule for an account code.
func (t *Tables) Balance(code string) (BalanceRule, bool) {
	r, ok := t.balance[Prefix(code)]
	return r, ok
}

// Income returns the income-statement rule for an account code.
func (t *Tables) Income(code string) (IncomeRule, bool) {
	r, ok := t.income[Prefix(code)]
	return r, ok
}

// SubCategories returns the sub-categories a macro category can hold, in
// table order. Lines created by special treatments are included.
func (t *Tables) SubCategories(m Macro) []string {
	out := make([]string, len(t.subs[m]))
	copy(out, t.subs[m])
	return out
}

// Document returns a copy of the rule document the tables were built from.
func (t *Tables) Document() Document {
	doc := Document{Version: t.doc.Version}
	doc.BalanceSheet = append(doc.BalanceSheet, t.doc.BalanceSheet...)
	doc.IncomeStatement = append(doc.IncomeStatement, t.doc.IncomeStatement...)
	return doc
}
