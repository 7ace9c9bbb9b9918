package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/boilerbrain-ai/boilerbrain/internal/config"
	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/merge"
)

// Common errors
var (
	ErrNotFound = errors.New("record not found")
)

// DB represents a database connection interface.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Open connects to Postgres and applies the pool settings.
func Open(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is not configured")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// SourceRepository fetches the three legacy fault tables for merging. It
// implements merge.RowProvider.
type SourceRepository struct {
	db DB
}

// NewSourceRepository creates a new source repository.
func NewSourceRepository(db DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// EnhancedProcedures fetches all rows from enhanced_diagnostic_procedures.
func (r *SourceRepository) EnhancedProcedures() ([]merge.EnhancedProcedureRow, error) {
	query := `
		SELECT manufacturer, fault_code, model, system, step_description,
			caution, parts_required, gas_pressure_nominal, electrical_supply_voltage
		FROM enhanced_diagnostic_procedures
	`
	rows, err := r.db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []merge.EnhancedProcedureRow
	for rows.Next() {
		var (
			row                 merge.EnhancedProcedureRow
			manufacturer, code  sql.NullString
			model, system       sql.NullString
			step, caution       sql.NullString
			parts, gas, voltage sql.NullString
		)
		if err := rows.Scan(&manufacturer, &code, &model, &system, &step,
			&caution, &parts, &gas, &voltage); err != nil {
			return nil, err
		}
		row.Manufacturer = manufacturer.String
		row.FaultCode = code.String
		row.Model = model.String
		row.System = system.String
		row.StepDescription = step.String
		row.Caution = caution.String
		row.PartsRequired = parts.String
		if gas.Valid || voltage.Valid {
			row.ExpectedValues = &merge.ExpectedValues{
				GasPressureNominal:      gas.String,
				ElectricalSupplyVoltage: voltage.String,
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// DiagnosticFaults fetches all rows from diagnostic_fault_codes.
func (r *SourceRepository) DiagnosticFaults() ([]merge.DiagnosticFaultRow, error) {
	query := `SELECT make, fault_code, model, system, solutions FROM diagnostic_fault_codes`
	rows, err := r.db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []merge.DiagnosticFaultRow
	for rows.Next() {
		var make_, code, model, system, solutions sql.NullString
		if err := rows.Scan(&make_, &code, &model, &system, &solutions); err != nil {
			return nil, err
		}
		out = append(out, merge.DiagnosticFaultRow{
			Make:      make_.String,
			FaultCode: code.String,
			Model:     model.String,
			System:    system.String,
			Solutions: solutions.String,
		})
	}
	return out, rows.Err()
}

// BoilerFaults fetches all rows from boiler_fault_codes. The solutions column
// is a Postgres text[]; entries are re-joined on newlines for the splitter.
func (r *SourceRepository) BoilerFaults() ([]merge.BoilerFaultRow, error) {
	query := `SELECT manufacturer, model_name, gc_number, fault_code, description, solutions FROM boiler_fault_codes`
	rows, err := r.db.QueryContext(context.Background(), query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []merge.BoilerFaultRow
	for rows.Next() {
		var (
			manufacturer, model, gc sql.NullString
			code, description       sql.NullString
			solutions               pq.StringArray
		)
		if err := rows.Scan(&manufacturer, &model, &gc, &code, &description, &solutions); err != nil {
			return nil, err
		}
		out = append(out, merge.BoilerFaultRow{
			Manufacturer: manufacturer.String,
			ModelName:    model.String,
			GCNumber:     gc.String,
			FaultCode:    code.String,
			Description:  description.String,
			Solutions:    strings.Join(solutions, "\n"),
		})
	}
	return out, rows.Err()
}

// ManualRepository persists ingestion output and serves the worklist.
type ManualRepository struct {
	db DB
}

// NewManualRepository creates a new manual repository.
func NewManualRepository(db DB) *ManualRepository {
	return &ManualRepository{db: db}
}

// Worklist returns the manuals awaiting ingestion.
func (r *ManualRepository) Worklist(ctx context.Context) ([]domain.ManualWorkItem, error) {
	query := `SELECT name, url, manufacturer FROM manual_worklist ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ManualWorkItem
	for rows.Next() {
		var item domain.ManualWorkItem
		if err := rows.Scan(&item.Name, &item.URL, &item.Manufacturer); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpsertManual inserts a manual record, ignoring conflicts on name.
func (r *ManualRepository) UpsertManual(ctx context.Context, manual *BoilerManual) error {
	if manual.ID == uuid.Nil {
		manual.ID = uuid.New()
	}
	manual.CreatedAt = time.Now()

	query := `
		INSERT INTO boiler_manuals (id, name, url, manufacturer, models, gc_number,
			system_type, raw_text, sha256, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (name) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query,
		manual.ID, manual.Name, manual.URL, manual.Manufacturer,
		pq.Array(manual.Models), manual.GCNumber, manual.SystemType,
		manual.RawText, manual.SHA256, manual.CreatedAt,
	)
	return err
}

// InsertFaultCodes inserts fault-code entries with conflict-ignore semantics
// on the (manufacturer, fault_code, model_name) composite key.
func (r *ManualRepository) InsertFaultCodes(ctx context.Context, entries []FaultCodeEntry) (int, error) {
	query := `
		INSERT INTO boiler_fault_codes (id, manufacturer, model_name, gc_number,
			fault_code, description, solutions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (manufacturer, fault_code, model_name) DO NOTHING
	`

	inserted := 0
	for _, entry := range entries {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		res, err := r.db.ExecContext(ctx, query,
			entry.ID, entry.Manufacturer, entry.ModelName, entry.GCNumber,
			entry.FaultCode, entry.Description, pq.Array(entry.Solutions), time.Now(),
		)
		if err != nil {
			return inserted, err
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	return inserted, nil
}

// InsertProcedures inserts diagnostic procedures for a manual.
func (r *ManualRepository) InsertProcedures(ctx context.Context, procedures []DiagnosticProcedure) (int, error) {
	query := `
		INSERT INTO diagnostic_procedures (id, manual_id, subsystem, procedure, test_type, steps, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
	`

	inserted := 0
	for _, proc := range procedures {
		if proc.ID == uuid.Nil {
			proc.ID = uuid.New()
		}
		res, err := r.db.ExecContext(ctx, query,
			proc.ID, proc.ManualID, proc.Subsystem, proc.Procedure,
			proc.TestType, pq.Array(proc.Steps), time.Now(),
		)
		if err != nil {
			return inserted, err
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}
	return inserted, nil
}

// SaveQualityReport persists an end-of-batch quality snapshot.
func (r *ManualRepository) SaveQualityReport(ctx context.Context, report *QualityReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	report.CreatedAt = time.Now()

	query := `
		INSERT INTO ingestion_quality_reports (id, batch_number, total_manuals,
			malformed_codes, missing_remedy, duplicates, errors, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		report.ID, report.BatchNumber, report.TotalManuals,
		report.MalformedCodes, report.MissingRemedy, report.Duplicates,
		pq.Array(report.Errors), report.CreatedAt,
	)
	return err
}

// CountFaultStats returns aggregate counts used by the batch quality check.
func (r *ManualRepository) CountFaultStats(ctx context.Context) (total, missingRemedy, duplicates int, err error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE solutions IS NULL OR cardinality(solutions) = 0),
			COUNT(*) - COUNT(DISTINCT (manufacturer, fault_code, model_name))
		FROM boiler_fault_codes
	`
	err = r.db.QueryRowContext(ctx, query).Scan(&total, &missingRemedy, &duplicates)
	return total, missingRemedy, duplicates, err
}
