// Package export writes rule sets and itemsets to spreadsheets, CSV files and
// SQLite databases.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/mining"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/rules"
	"github.com/supreme-chocomint/bandori-2019-stats/internal/utils"
)

// Sheet and table names used by the exporters.
const (
	SheetRaw       = "raw"
	SheetOrganized = "organized"
	SheetItemsets  = "itemsets"
)

// Rules exports rs to path, choosing the format by extension, and returns
// the files written. XLSX gets a raw sheet plus an organized sheet when an
// organized view exists; CSV writes the organized view next to path with an
// "_organized" suffix; SQLite replaces the rules_raw and rules_organized
// tables.
func Rules(ctx context.Context, path string, rs *rules.RuleSet) ([]string, error) {
	raw := rs.Table()
	organized, hasOrganized := rs.Organized()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		sheets := []sheet{{SheetRaw, ruleRows(raw)}}
		if hasOrganized {
			sheets = append(sheets, sheet{SheetOrganized, ruleRows(organized)})
		}
		if err := writeXLSX(path, sheets); err != nil {
			return nil, err
		}
		return []string{path}, nil
	case ".csv":
		if err := writeCSV(path, ruleRecords(raw)); err != nil {
			return nil, err
		}
		written := []string{path}
		if hasOrganized {
			orgPath := utils.SiblingPath(path, "_organized")
			if err := writeCSV(orgPath, ruleRecords(organized)); err != nil {
				return nil, err
			}
			written = append(written, orgPath)
		}
		return written, nil
	case ".db", ".sqlite", ".sqlite3":
		if err := writeSQLite(ctx, path, rs.ID(), raw, organized, hasOrganized); err != nil {
			return nil, err
		}
		return []string{path}, nil
	default:
		return nil, mining.InvalidArgument("export rules", "format", ext)
	}
}

// Itemsets exports frequent itemsets to a .csv or .xlsx file.
func Itemsets(path string, sets []mining.Itemset) error {
	header := []string{"itemsets", "length", "support", "count"}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx":
		rows := [][]any{toAny(header)}
		for _, s := range sets {
			rows = append(rows, []any{rules.Items(s.Items).String(), s.Len(), s.Support, s.Count})
		}
		return writeXLSX(path, []sheet{{SheetItemsets, rows}})
	case ".csv":
		recs := [][]string{header}
		for _, s := range sets {
			recs = append(recs, []string{
				rules.Items(s.Items).String(),
				strconv.Itoa(s.Len()),
				strconv.FormatFloat(s.Support, 'g', -1, 64),
				strconv.Itoa(s.Count),
			})
		}
		return writeCSV(path, recs)
	default:
		return mining.InvalidArgument("export itemsets", "format", ext)
	}
}

func ruleRecords(t rules.Table) [][]string {
	recs := [][]string{rules.Columns}
	for _, r := range t {
		recs = append(recs, r.Record())
	}
	return recs
}

// ruleRows keeps numeric columns numeric so spreadsheets can sort them.
func ruleRows(t rules.Table) [][]any {
	rows := [][]any{toAny(rules.Columns)}
	for _, r := range t {
		row := make([]any, len(rules.Columns))
		for i, c := range rules.Columns {
			if v, ok := r.Number(c); ok && !isInf(v) {
				row[i] = v
			} else {
				row[i] = r.Field(c)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

type sheet struct {
	name string
	rows [][]any
}

func writeXLSX(path string, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return fmt.Errorf("name sheet %s: %w", s.name, err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("add sheet %s: %w", s.name, err)
		}
		for r, row := range s.rows {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.name, cell, &row); err != nil {
				return fmt.Errorf("write sheet %s: %w", s.name, err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("encode xlsx: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func writeCSV(path string, recs [][]string) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(recs); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
