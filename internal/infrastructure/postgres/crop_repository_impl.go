package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

type CropRepository struct {
	db DBTX
}

func NewCropRepository(db DBTX) *CropRepository {
	return &CropRepository{db: db}
}

const cropSelect = `
	SELECT c.id, c.farmer_id, c.name, c.crop_type, c.quantity, c.unit, c.planting_date, c.expected_harvest_date,
	       c.status, c.notes, c.created_at, c.updated_at, f.user_id, u.first_name, u.last_name
	FROM crops c
	JOIN farmer_profiles f ON f.id = c.farmer_id
	JOIN users u ON u.id = f.user_id`

func scanCrop(row pgx.Row) (*entity.Crop, error) {
	c := &entity.Crop{}
	var cropType, status, first, last string
	if err := row.Scan(&c.ID, &c.FarmerID, &c.Name, &cropType, &c.Quantity, &c.Unit, &c.PlantingDate,
		&c.ExpectedHarvestDate, &status, &c.Notes, &c.CreatedAt, &c.UpdatedAt, &c.FarmerUserID, &first, &last); err != nil {
		return nil, err
	}
	c.Type = entity.CropType(cropType)
	c.Status = entity.CropStatus(status)
	c.FarmerName = strings.TrimSpace(first + " " + last)
	return c, nil
}

func (r *CropRepository) Create(ctx context.Context, c *entity.Crop) error {
	if !validID(c.FarmerID) {
		return apperr.ErrNotFound
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO crops (farmer_id, name, crop_type, quantity, unit, planting_date, expected_harvest_date, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, c.FarmerID, c.Name, string(c.Type), c.Quantity, c.Unit, c.PlantingDate, c.ExpectedHarvestDate, string(c.Status), c.Notes)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if apperr.IsDataViolation(err) {
			return apperr.FromDataViolation(err)
		}
		return fmt.Errorf("insert crop: %w", err)
	}
	return nil
}

func (r *CropRepository) GetByID(ctx context.Context, id string) (*entity.Crop, error) {
	if !validID(id) {
		return nil, apperr.ErrNotFound
	}
	c, err := scanCrop(r.db.QueryRow(ctx, cropSelect+` WHERE c.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get crop: %w", err)
	}
	return c, nil
}

// whereClause builds the shared filter. Placeholders start at $1.
func whereClause(f repository.CropFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(expr string, v any) {
		args = append(args, v)
		conds = append(conds, expr+" = $"+strconv.Itoa(len(args)))
	}
	if f.FarmerID != "" {
		add("c.farmer_id", f.FarmerID)
	}
	if f.Type != "" {
		add("c.crop_type", string(f.Type))
	}
	if f.Status != "" {
		add("c.status", string(f.Status))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *CropRepository) List(ctx context.Context, f repository.CropFilter) ([]entity.Crop, error) {
	if f.FarmerID != "" && !validID(f.FarmerID) {
		return []entity.Crop{}, nil
	}
	where, args := whereClause(f)
	q := cropSelect + where + ` ORDER BY c.created_at DESC, c.id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list crops: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Crop, 0)
	for rows.Next() {
		c, err := scanCrop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan crop: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *CropRepository) Update(ctx context.Context, c *entity.Crop) error {
	c.UpdatedAt = time.Now()
	res, err := r.db.Exec(ctx, `
		UPDATE crops
		SET name = $1, crop_type = $2, quantity = $3, unit = $4, planting_date = $5,
		    expected_harvest_date = $6, status = $7, notes = $8, updated_at = $9
		WHERE id = $10
	`, c.Name, string(c.Type), c.Quantity, c.Unit, c.PlantingDate, c.ExpectedHarvestDate, string(c.Status), c.Notes, c.UpdatedAt, c.ID)
	if err != nil {
		if apperr.IsDataViolation(err) {
			return apperr.FromDataViolation(err)
		}
		return fmt.Errorf("update crop: %w", err)
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *CropRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM crops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete crop: %w", err)
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *CropRepository) Count(ctx context.Context, farmerID string) (int, error) {
	where, args := whereClause(repository.CropFilter{FarmerID: farmerID})
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM crops c`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count crops: %w", err)
	}
	return n, nil
}

func (r *CropRepository) countBy(ctx context.Context, column, farmerID string) (map[string]int, error) {
	where, args := whereClause(repository.CropFilter{FarmerID: farmerID})
	rows, err := r.db.Query(ctx, `SELECT c.`+column+`, COUNT(*) FROM crops c`+where+` GROUP BY c.`+column, args...)
	if err != nil {
		return nil, fmt.Errorf("count crops by %s: %w", column, err)
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan %s bucket: %w", column, err)
		}
		out[key] = n
	}
	return out, rows.Err()
}

func (r *CropRepository) CountByType(ctx context.Context, farmerID string) (map[string]int, error) {
	return r.countBy(ctx, "crop_type", farmerID)
}

func (r *CropRepository) CountByStatus(ctx context.Context, farmerID string) (map[string]int, error) {
	return r.countBy(ctx, "status", farmerID)
}

func (r *CropRepository) TopFarmers(ctx context.Context, limit int) ([]entity.FarmerCropCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT f.id, u.first_name, u.last_name, COUNT(c.id) AS crop_count
		FROM crops c
		JOIN farmer_profiles f ON f.id = c.farmer_id
		JOIN users u ON u.id = f.user_id
		GROUP BY f.id, u.first_name, u.last_name
		ORDER BY crop_count DESC, f.id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("top farmers: %w", err)
	}
	defer rows.Close()

	out := make([]entity.FarmerCropCount, 0, limit)
	for rows.Next() {
		var fc entity.FarmerCropCount
		if err := rows.Scan(&fc.FarmerID, &fc.FirstName, &fc.LastName, &fc.Count); err != nil {
			return nil, fmt.Errorf("scan top farmer: %w", err)
		}
		out = append(out, fc)
	}
	return out, rows.Err()
}

func (r *CropRepository) CountByMonth(ctx context.Context) ([]entity.MonthCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM') AS month, COUNT(*)
		FROM crops
		GROUP BY month
		ORDER BY month ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("crops by month: %w", err)
	}
	defer rows.Close()

	out := make([]entity.MonthCount, 0)
	for rows.Next() {
		var mc entity.MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("scan month bucket: %w", err)
		}
		out = append(out, mc)
	}
	return out, rows.Err()
}

var _ repository.CropRepository = (*CropRepository)(nil)
