package files

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/columns"
	"github.com/farxc/acompanhamento-kpi/internal/solicitacoes/types"
	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

const (
	DefaultSheet     = "SOLICITAÇÕES"
	DefaultHeaderRow = 2
)

var (
	ErrSheetNotFound     = errors.New("sheet not found")
	ErrNoHeader          = errors.New("header row not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// ReadOptions selects the sheet and the 1-based header row of a workbook.
type ReadOptions struct {
	Sheet     string
	HeaderRow int
}

func (o ReadOptions) withDefaults() ReadOptions {
	if o.Sheet == "" {
		o.Sheet = DefaultSheet
	}
	if o.HeaderRow < 1 {
		o.HeaderRow = DefaultHeaderRow
	}
	return o
}

// Open reads a raw table from path, choosing the reader by extension.
func Open(path string, opts ReadOptions) (dataframe.DataFrame, error) {
	file, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	return Read(file, filepath.Base(path), opts)
}

// Read dispatches on the extension of name.
func Read(r io.Reader, name string, opts ReadOptions) (dataframe.DataFrame, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadWorkbook(r, opts)
	case ".csv":
		return ReadCSV(r)
	}
	return dataframe.DataFrame{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
}

// ReadWorkbook loads one sheet of an xlsx workbook as a string-typed raw
// table. Cells come in their raw form, so dates arrive as Excel serials.
func ReadWorkbook(r io.Reader, opts ReadOptions) (dataframe.DataFrame, error) {
	opts = opts.withDefaults()

	f, err := excelize.OpenReader(r)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet, ok := findSheet(f.GetSheetList(), opts.Sheet)
	if !ok {
		return dataframe.DataFrame{}, fmt.Errorf("%w: %q", ErrSheetNotFound, opts.Sheet)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) < opts.HeaderRow {
		return dataframe.DataFrame{}, fmt.Errorf("%w: sheet %q has %d rows", ErrNoHeader, sheet, len(rows))
	}

	return LoadRows(rows[opts.HeaderRow-1], rows[opts.HeaderRow:])
}

// findSheet matches the exact name first and then ignores accents, case and
// surrounding spaces.
func findSheet(sheets []string, want string) (string, bool) {
	for _, s := range sheets {
		if s == want {
			return s, true
		}
	}
	target := columns.Spelling(want)
	for _, s := range sheets {
		if columns.Spelling(s) == target {
			return s, true
		}
	}
	return "", false
}

// LoadRows builds a raw table from a header and data rows. Rows are padded
// or cut to the header width, blank rows are skipped and empty cells become
// NA. Repeated labels get a ".1", ".2" suffix so the first one keeps its
// name.
func LoadRows(header []string, rows [][]string) (dataframe.DataFrame, error) {
	width := len(header)
	if width == 0 {
		return dataframe.DataFrame{}, ErrNoHeader
	}

	records := make([][]string, 0, len(rows)+1)
	records = append(records, dedupe(header))
	for _, row := range rows {
		if isBlank(row[:min(len(row), width)]) {
			continue
		}
		rec := make([]string, width)
		for i := range rec {
			rec[i] = types.NA
			if i < len(row) && row[i] != "" {
				rec[i] = row[i]
			}
		}
		records = append(records, rec)
	}

	df := types.LoadStrings(records)
	return df, df.Err
}

func dedupe(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := h
		if n, ok := seen[h]; ok && h != "" {
			name = h + "." + strconv.Itoa(n)
		}
		seen[h]++
		out[i] = name
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ReadCSV decodes a ';'-separated export. Using Windows1252 because it is
// the encoding spreadsheet tools use when saving CSV in pt-BR locales. The
// rows go through LoadRows so a header-only file is still a table.
func ReadCSV(r io.Reader) (dataframe.DataFrame, error) {
	reader := csv.NewReader(charmap.Windows1252.NewDecoder().Reader(r))
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse csv: %w", ErrNoHeader)
	}
	df, err := LoadRows(records[0], records[1:])
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("failed to parse csv: %w", err)
	}
	return df, nil
}
