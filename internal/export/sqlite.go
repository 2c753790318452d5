package export

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	_ "modernc.org/sqlite"

	"github.com/supreme-chocomint/bandori-2019-stats/internal/rules"
)

const ruleColumnsDDL = `
	position INTEGER NOT NULL,
	ruleset_id TEXT NOT NULL,
	antecedents TEXT NOT NULL,
	consequents TEXT NOT NULL,
	antecedent_support REAL,
	consequent_support REAL,
	support REAL,
	confidence REAL,
	lift REAL,
	leverage REAL,
	conviction REAL,
	antecedent_len INTEGER,
	consequent_len INTEGER,
	rule_len INTEGER`

// writeSQLite replaces the rule tables of the database at path. Infinite
// conviction is stored as NULL.
func writeSQLite(ctx context.Context, path, id string, raw, organized rules.Table, hasOrganized bool) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := replaceTable(ctx, tx, "rules_raw", id, raw); err != nil {
		return err
	}
	if hasOrganized {
		if err := replaceTable(ctx, tx, "rules_organized", id, organized); err != nil {
			return err
		}
	} else if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS rules_organized`); err != nil {
		return fmt.Errorf("drop rules_organized: %w", err)
	}
	return tx.Commit()
}

func replaceTable(ctx context.Context, tx *sql.Tx, name, id string, t rules.Table) error {
	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+name); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `CREATE TABLE `+name+` (`+ruleColumnsDDL+`)`); err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO `+name+` VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare %s: %w", name, err)
	}
	defer stmt.Close()

	for i, r := range t {
		conviction := sql.NullFloat64{Float64: r.Conviction, Valid: !isInf(r.Conviction)}
		if _, err := stmt.ExecContext(ctx,
			i+1, id, r.Antecedents.String(), r.Consequents.String(),
			r.AntecedentSupport, r.ConsequentSupport, r.Support, r.Confidence,
			r.Lift, r.Leverage, conviction,
			r.AntecedentLen(), r.ConsequentLen(), r.Len(),
		); err != nil {
			return fmt.Errorf("insert into %s: %w", name, err)
		}
	}
	return nil
}

func isInf(v float64) bool { return math.IsInf(v, 0) }
