package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

// LoadOptions controls how a survey export is read.
type LoadOptions struct {
	// Delimiter for delimited text. If 0, '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// SheetName selects an XLSX sheet; empty means the first sheet.
	SheetName string
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
}

// Loader reads one survey export format into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(path string, opt LoadOptions) (*Table, error)
}

var loaders []Loader

// Register adds a loader to the registry. Later registrations do not shadow
// earlier ones for the same extension.
func Register(l Loader) {
	loaders = append(loaders, l)
}

func init() {
	Register(delimitedLoader{})
	Register(xlsxLoader{})
}

// ErrUnsupported indicates no loader accepts the file.
var ErrUnsupported = errors.New("unsupported survey format")

// Load selects a loader by filename and reads the export.
func Load(path string, opt LoadOptions) (*Table, error) {
	for _, l := range loaders {
		if l.CanLoad(path) {
			return l.Load(path, opt)
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Base(path))
}

type delimitedLoader struct{}

func (delimitedLoader) CanLoad(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".txt")
}

func (delimitedLoader) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open survey: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return ReadDelimited(f, delim, opt.MaxRows)
}

// ReadDelimited reads a header row and data rows from r.
func ReadDelimited(r io.Reader, delim rune, maxRows int) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewTable(nil, nil), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	var records [][]string
	for {
		if maxRows > 0 && len(records) >= maxRows {
			break
		}
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return fromRecords(header, records), nil
}

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".xlsx")
}

func (xlsxLoader) Load(path string, opt LoadOptions) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return NewTable(nil, nil), nil
	}
	sheet := sheets[0]
	if opt.SheetName != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				opt.SheetName, filepath.Base(path), strings.Join(sheets, ", "))
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return NewTable(nil, nil), nil
	}
	records := rows[1:]
	if opt.MaxRows > 0 && len(records) > opt.MaxRows {
		records = records[:opt.MaxRows]
	}
	return fromRecords(rows[0], records), nil
}

// fromRecords normalizes raw records into a Table: headers are made unique,
// cells are NFC-normalized and trimmed, and empty cells become missing.
func fromRecords(header []string, records [][]string) *Table {
	cols := uniqueHeaders(header)
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, len(cols))
		for j, c := range cols {
			if j >= len(rec) {
				break
			}
			v := cleanCell(rec[j])
			if v == "" {
				continue
			}
			row[c] = v
		}
		rows = append(rows, row)
	}
	return NewTable(cols, rows)
}

// uniqueHeaders suffixes repeated names with ".1", ".2", ... in order of
// appearance, so a question asked twice yields "Q" and "Q.1".
func uniqueHeaders(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	taken := make(map[string]struct{}, len(header))
	for i, h := range header {
		name := cleanCell(h)
		candidate := name
		for {
			if _, dup := taken[candidate]; !dup {
				break
			}
			seen[name]++
			candidate = name + "." + strconv.Itoa(seen[name])
		}
		taken[candidate] = struct{}{}
		out[i] = candidate
	}
	return out
}

func cleanCell(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
