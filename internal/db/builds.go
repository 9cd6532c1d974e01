package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/soundcath/beamformer/internal/beamform"
	"github.com/soundcath/beamformer/internal/monitoring"
	"github.com/soundcath/beamformer/internal/scan"
)

// ErrBuildNotFound is returned when no stored build matches.
var ErrBuildNotFound = errors.New("scan build not found")

// BuildSummary describes one stored scan build.
type BuildSummary struct {
	ID            uuid.UUID
	Mode          scan.Mode
	XSteps        int
	YSteps        int
	Cells         int
	TxSaturations int
	RxSaturations int
	Workers       int
	Duration      time.Duration
	BuiltAt       time.Time
}

// SaveCache stores c and all of its cells in one transaction.
func (db *DB) SaveCache(ctx context.Context, c *scan.Cache) error {
	beamJSON, err := json.Marshal(c.BeamParams())
	if err != nil {
		return fmt.Errorf("failed to encode beam params: %w", err)
	}
	p := c.Params()
	scanJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode scan params: %w", err)
	}
	stats := c.Stats()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO scan_builds (
			build_id, mode, beam_params, scan_params, x_steps, y_steps, cells,
			tx_saturations, rx_saturations, workers, duration_ns, built_at_ns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID().String(), c.Mode().String(), string(beamJSON), string(scanJSON),
		p.XSteps, p.YSteps, stats.Cells,
		stats.TxSaturations, stats.RxSaturations, stats.Workers,
		stats.Duration.Nanoseconds(), stats.BuiltAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert build %s: %w", c.ID(), err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scan_cells (
			build_id, x_index, y_index, x_deg, y_deg,
			tx_delays, rx_delays, tx_coeffs, tx_offset, rx_coeffs, rx_group_delays, dynamic
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	delays := c.Mode() == scan.ModeDelays
	coeffs := !delays
	dynamic := coeffs && p.Dynamic()
	for idx, cell := range c.Cells() {
		i, j := p.Cell(idx)
		x, y := c.Angles(i, j)

		var cols [6]any
		for k, f := range []struct {
			v       any
			present bool
		}{
			{cell.TxDelays, delays},
			{cell.RxDelays, delays},
			{cell.TxCoeffs, coeffs},
			{cell.RxCoeffs, coeffs},
			{cell.RxGroupDelays, coeffs},
			{cell.Dynamic, dynamic},
		} {
			if cols[k], err = optionalBlob(f.v, f.present); err != nil {
				return fmt.Errorf("failed to encode cell (%d, %d): %w", i, j, err)
			}
		}
		var offset any
		if coeffs {
			offset = cell.TxOffset
		}
		if _, err := stmt.ExecContext(ctx, c.ID().String(), i, j, x, y,
			cols[0], cols[1], cols[2], offset, cols[3], cols[4], cols[5]); err != nil {
			return fmt.Errorf("failed to insert cell (%d, %d): %w", i, j, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	monitoring.Logf("db: stored build %s (%d cells)", c.ID(), c.Len())
	return nil
}

// LoadCache reads a stored build back into a Cache identical to the one
// that was saved.
func (db *DB) LoadCache(ctx context.Context, id uuid.UUID) (*scan.Cache, error) {
	var (
		beamJSON, scanJSON  string
		stats               scan.Stats
		durationNs, builtNs int64
	)
	err := db.QueryRowContext(ctx, `
		SELECT beam_params, scan_params, cells, tx_saturations, rx_saturations,
		       workers, duration_ns, built_at_ns
		FROM scan_builds WHERE build_id = ?`, id.String(),
	).Scan(&beamJSON, &scanJSON, &stats.Cells, &stats.TxSaturations, &stats.RxSaturations,
		&stats.Workers, &durationNs, &builtNs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	stats.Duration = time.Duration(durationNs)
	stats.BuiltAt = time.Unix(0, builtNs)

	var beam beamform.Params
	if err := json.Unmarshal([]byte(beamJSON), &beam); err != nil {
		return nil, fmt.Errorf("failed to decode beam params: %w", err)
	}
	var p scan.Params
	if err := json.Unmarshal([]byte(scanJSON), &p); err != nil {
		return nil, fmt.Errorf("failed to decode scan params: %w", err)
	}

	rows, err := db.QueryContext(ctx, `
		SELECT x_index, y_index, tx_delays, rx_delays, tx_coeffs, tx_offset,
		       rx_coeffs, rx_group_delays, dynamic
		FROM scan_cells WHERE build_id = ?`, id.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cells := make([]scan.Cell, p.Cells())
	seen := 0
	for rows.Next() {
		var (
			i, j                         int
			txD, rxD, txC, rxC, rxG, dyn []byte
			offset                       sql.NullFloat64
		)
		if err := rows.Scan(&i, &j, &txD, &rxD, &txC, &offset, &rxC, &rxG, &dyn); err != nil {
			return nil, err
		}
		if !p.InRange(i, j) {
			return nil, fmt.Errorf("build %s: cell (%d, %d) outside grid", id, i, j)
		}
		cell := &cells[p.Index(i, j)]
		for _, f := range []struct {
			b []byte
			v any
		}{
			{txD, &cell.TxDelays},
			{rxD, &cell.RxDelays},
			{txC, &cell.TxCoeffs},
			{rxC, &cell.RxCoeffs},
			{rxG, &cell.RxGroupDelays},
			{dyn, &cell.Dynamic},
		} {
			if err := decodeBlob(f.b, f.v); err != nil {
				return nil, fmt.Errorf("build %s: cell (%d, %d): %w", id, i, j, err)
			}
		}
		cell.TxOffset = offset.Float64
		seen++
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if seen != len(cells) {
		return nil, fmt.Errorf("build %s: found %d cells, want %d", id, seen, len(cells))
	}
	return scan.Restore(id, beam, p, stats, cells)
}

// ListBuilds returns every stored build, newest first.
func (db *DB) ListBuilds(ctx context.Context) ([]BuildSummary, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT build_id, mode, x_steps, y_steps, cells, tx_saturations,
		       rx_saturations, workers, duration_ns, built_at_ns
		FROM scan_builds ORDER BY built_at_ns DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var builds []BuildSummary
	for rows.Next() {
		var (
			b                   BuildSummary
			id, mode            string
			durationNs, builtNs int64
		)
		if err := rows.Scan(&id, &mode, &b.XSteps, &b.YSteps, &b.Cells, &b.TxSaturations,
			&b.RxSaturations, &b.Workers, &durationNs, &builtNs); err != nil {
			return nil, err
		}
		if b.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid build id %q: %w", id, err)
		}
		var ok bool
		if b.Mode, ok = scan.ParseMode(mode); !ok {
			return nil, fmt.Errorf("build %s: unknown mode %q", id, mode)
		}
		b.Duration = time.Duration(durationNs)
		b.BuiltAt = time.Unix(0, builtNs)
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// LatestBuild returns the ID of the most recently built cache.
func (db *DB) LatestBuild(ctx context.Context) (uuid.UUID, error) {
	var id string
	err := db.QueryRowContext(ctx,
		`SELECT build_id FROM scan_builds ORDER BY built_at_ns DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, ErrBuildNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(id)
}

// DeleteBuild removes a stored build and its cells.
func (db *DB) DeleteBuild(ctx context.Context, id uuid.UUID) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM scan_cells WHERE build_id = ?`, id.String()); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM scan_builds WHERE build_id = ?`, id.String())
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrBuildNotFound, id)
	}
	return tx.Commit()
}
