package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/cleared-dev/reclass/internal/model"
)

// ExtractParser parses the management-system trial-balance extract:
//
//	Mastro,DescrizioneMastro,Conto,DescrizioneConto,Importo,SEZBIL,ORDINE,TIPOCONTO,I
//
// The header row is required; the delimiter (';' or ',') is taken from it.
// Input that is not valid UTF-8 is read as Windows-1252.
type ExtractParser struct{}

const (
	colLedgerGroup     = "Mastro"
	colLedgerGroupDesc = "DescrizioneMastro"
	colAccount         = "Conto"
	colAccountDesc     = "DescrizioneConto"
	colAmount          = "Importo"
	colSection         = "SEZBIL"
	colOrdering        = "ORDINE"
	colAccountType     = "TIPOCONTO"
	colFlag            = "I"
)

var extractColumns = []string{
	colLedgerGroup, colLedgerGroupDesc, colAccount, colAccountDesc,
	colAmount, colSection, colOrdering, colAccountType, colFlag,
}

// Format returns the parser name.
func (p *ExtractParser) Format() string { return "extract" }

// Parse reads an extract, keeping general-account rows only.
func (p *ExtractParser) Parse(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("reading extract: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if !utf8.Valid(data) {
		// Legacy exports are Windows-1252.
		if data, err = charmap.Windows1252.NewDecoder().Bytes(data); err != nil {
			return Result{}, fmt.Errorf("decoding extract: %w", err)
		}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Result{}, fmt.Errorf("empty extract: header row required")
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = detectDelimiter(data)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return Result{}, fmt.Errorf("reading header: %w", err)
	}
	cols, err := indexColumns(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("row %d: %w", line, err)
		}

		field := func(name string) string { return strings.TrimSpace(row[cols[name]]) }

		if field(colAccountType) != model.AccountTypeGeneral {
			res.Skipped++
			continue
		}

		amount, ok := ParseAmount(field(colAmount))
		if !ok {
			res.Coerced++
		}
		res.Records = append(res.Records, model.AccountRecord{
			LedgerGroupCode:        field(colLedgerGroup),
			LedgerGroupDescription: field(colLedgerGroupDesc),
			AccountCode:            field(colAccount),
			AccountDescription:     field(colAccountDesc),
			Amount:                 amount,
			Section:                model.Section(strings.ToUpper(field(colSection))),
			OrderingKey:            field(colOrdering),
			AccountType:            model.AccountTypeGeneral,
			AmountCoerced:          !ok,
		})
	}
	return res, nil
}

// detectDelimiter picks ';' when the header line has more semicolons than
// commas.
func detectDelimiter(data []byte) rune {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return ';'
	}
	return ','
}

func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	out := make(map[string]int, len(extractColumns))
	for _, name := range extractColumns {
		i, ok := cols[strings.ToUpper(name)]
		if !ok {
			return nil, fmt.Errorf("missing column %q in header", name)
		}
		out[name] = i
	}
	return out, nil
}

// ParseAmount parses "1234.56", "1.234,56", "1,234.56" and "-1234,5". It
// returns zero and false when the value is not a number.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "€")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, false
	}

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")
	switch {
	case dot >= 0 && comma >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case dot >= 0 && comma >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return decimal.Zero, false
		}
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
