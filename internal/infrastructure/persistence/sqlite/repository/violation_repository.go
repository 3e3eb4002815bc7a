package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"farmwatch/internal/domain/violation"
	"farmwatch/internal/errs"
	"farmwatch/internal/infrastructure/persistence/sqlite/model"
	"farmwatch/internal/ports"
)

type ViolationRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewViolationRepository(db *gorm.DB) *ViolationRepository {
	return &ViolationRepository{db: db, now: time.Now}
}

func (r *ViolationRepository) dbFromContext(ctx context.Context) (*gorm.DB, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}

	tx := ports.TxFromContext(ctx)
	if tx == nil {
		return r.db.WithContext(ctx), nil
	}

	gormTx, ok := tx.(*gorm.DB)
	if !ok || gormTx == nil {
		return nil, fmt.Errorf("invalid tx in context: %T", tx)
	}
	return gormTx.WithContext(ctx), nil
}

// InsertViolation inserts if the (source, source_id) natural key is absent.
// A duplicate key is silently ignored and reported as inserted=false so
// re-running ingestion never overwrites or duplicates existing rows.
func (r *ViolationRepository) InsertViolation(ctx context.Context, rec violation.Record) (bool, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return false, err
	}

	row := recordToRow(rec)
	row.CreatedAt = r.now().UTC().Format(time.RFC3339)

	result := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "source"}, {Name: "source_id"}},
		DoNothing: true,
	}).Create(&row)
	if result.Error != nil {
		return false, errs.Wrap(result.Error, "insert violation")
	}
	return result.RowsAffected > 0, nil
}

// ListViolations applies the read-side filters and returns one page ordered
// by date descending, then insertion order descending as a tie-break, plus
// the total match count before pagination.
func (r *ViolationRepository) ListViolations(ctx context.Context, filter ports.ViolationFilter, offset, limit int) ([]ports.StoredViolation, int64, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	query := db.Model(&model.Violation{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("facility_name LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if state := strings.TrimSpace(filter.State); state != "" {
		query = query.Where("state = ?", strings.ToUpper(state))
	}
	if source := strings.TrimSpace(filter.Source); source != "" {
		query = query.Where("source LIKE ?", "%"+source+"%")
	}
	if severity := strings.TrimSpace(filter.Severity); severity != "" {
		query = query.Where("severity = ?", severity)
	}
	if vtype := strings.TrimSpace(filter.ViolationType); vtype != "" {
		query = query.Where("violation_type LIKE ?", "%"+vtype+"%")
	}
	if from := strings.TrimSpace(filter.DateFrom); from != "" {
		query = query.Where("date >= ?", from)
	}
	if to := strings.TrimSpace(filter.DateTo); to != "" {
		query = query.Where("date <= ?", to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errs.Wrap(err, "count violations")
	}

	var rows []model.Violation
	if err := query.
		Order("date DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, errs.Wrap(err, "query violations")
	}

	items := make([]ports.StoredViolation, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowToStored(row))
	}
	return items, total, nil
}

func (r *ViolationRepository) GetViolation(ctx context.Context, id uint64) (ports.StoredViolation, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.StoredViolation{}, err
	}

	var row model.Violation
	if err := db.Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.StoredViolation{}, ports.ErrViolationNotFound
		}
		return ports.StoredViolation{}, errs.Wrap(err, "query violation")
	}
	return rowToStored(row), nil
}

// Stats aggregates counts by source, severity (NULL bucketed as "Unknown"),
// and state (top 20 by count), plus the distinct-state count.
func (r *ViolationRepository) Stats(ctx context.Context) (ports.ViolationStats, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return ports.ViolationStats{}, err
	}

	stats := ports.ViolationStats{
		BySource:   map[string]int64{},
		BySeverity: map[string]int64{},
		ByState:    map[string]int64{},
	}

	if err := db.Model(&model.Violation{}).Count(&stats.Total).Error; err != nil {
		return ports.ViolationStats{}, errs.Wrap(err, "count violations")
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var bySource []bucket
	if err := db.Model(&model.Violation{}).
		Select("source AS key, count(*) AS count").
		Group("source").
		Order("count DESC").
		Scan(&bySource).Error; err != nil {
		return ports.ViolationStats{}, errs.Wrap(err, "count by source")
	}
	for _, b := range bySource {
		stats.BySource[b.Key] = b.Count
	}

	var bySeverity []bucket
	if err := db.Model(&model.Violation{}).
		Select("coalesce(severity, 'Unknown') AS key, count(*) AS count").
		Group("key").
		Order("count DESC").
		Scan(&bySeverity).Error; err != nil {
		return ports.ViolationStats{}, errs.Wrap(err, "count by severity")
	}
	for _, b := range bySeverity {
		stats.BySeverity[b.Key] = b.Count
	}

	var byState []bucket
	if err := db.Model(&model.Violation{}).
		Select("state AS key, count(*) AS count").
		Where("state IS NOT NULL AND state != ''").
		Group("state").
		Order("count DESC").
		Limit(20).
		Scan(&byState).Error; err != nil {
		return ports.ViolationStats{}, errs.Wrap(err, "count by state")
	}
	for _, b := range byState {
		stats.ByState[b.Key] = b.Count
	}

	if err := db.Model(&model.Violation{}).
		Where("state IS NOT NULL AND state != ''").
		Distinct("state").
		Count(&stats.StatesCount).Error; err != nil {
		return ports.ViolationStats{}, errs.Wrap(err, "count distinct states")
	}

	return stats, nil
}

// States lists every state with its violation count, ordered by state code.
// Unlike Stats.ByState this is complete, not a top-N cut.
func (r *ViolationRepository) States(ctx context.Context) ([]ports.StateCount, error) {
	db, err := r.dbFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var rows []ports.StateCount
	if err := db.Model(&model.Violation{}).
		Select("state, count(*) AS count").
		Where("state IS NOT NULL AND state != ''").
		Group("state").
		Order("state").
		Scan(&rows).Error; err != nil {
		return nil, errs.Wrap(err, "count violations per state")
	}
	return rows, nil
}

func recordToRow(rec violation.Record) model.Violation {
	var severity *string
	if rec.Severity != nil {
		s := string(*rec.Severity)
		severity = &s
	}

	return model.Violation{
		FacilityName:  rec.FacilityName,
		Location:      rec.Location,
		State:         rec.State,
		County:        rec.County,
		Latitude:      rec.Latitude,
		Longitude:     rec.Longitude,
		ViolationType: rec.ViolationType,
		Date:          rec.Date,
		Source:        rec.Source,
		SourceID:      rec.SourceID,
		Description:   rec.Description,
		Severity:      severity,
		PenaltyAmount: rec.PenaltyAmount,
	}
}

func rowToStored(row model.Violation) ports.StoredViolation {
	var severity *violation.Severity
	if row.Severity != nil {
		s := violation.Severity(*row.Severity)
		severity = &s
	}

	return ports.StoredViolation{
		ID:        row.ID,
		CreatedAt: row.CreatedAt,
		Record: violation.Record{
			FacilityName:  row.FacilityName,
			Location:      row.Location,
			State:         row.State,
			County:        row.County,
			Latitude:      row.Latitude,
			Longitude:     row.Longitude,
			ViolationType: row.ViolationType,
			Date:          row.Date,
			Source:        row.Source,
			SourceID:      row.SourceID,
			Description:   row.Description,
			Severity:      severity,
			PenaltyAmount: row.PenaltyAmount,
		},
	}
}
