package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

type FarmerRepository struct {
	db DBTX
}

func NewFarmerRepository(db DBTX) *FarmerRepository {
	return &FarmerRepository{db: db}
}

const farmerSelect = `
	SELECT f.id, f.user_id, f.farm_name, f.farm_size, f.location, f.created_at, f.updated_at,
	       u.id, u.username, u.email, u.first_name, u.last_name, u.phone, u.address, u.role, u.is_active, u.created_at, u.updated_at,
	       (SELECT COUNT(*) FROM crops c WHERE c.farmer_id = f.id)
	FROM farmer_profiles f
	JOIN users u ON u.id = f.user_id`

func scanFarmer(row pgx.Row) (*entity.FarmerProfile, error) {
	f := &entity.FarmerProfile{User: &entity.User{}}
	u := f.User
	var role string
	if err := row.Scan(&f.ID, &f.UserID, &f.FarmName, &f.FarmSize, &f.Location, &f.CreatedAt, &f.UpdatedAt,
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.Phone, &u.Address, &role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
		&f.CropsCount); err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return f, nil
}

func (r *FarmerRepository) Create(ctx context.Context, f *entity.FarmerProfile) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO farmer_profiles (user_id, farm_name, farm_size, location)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, f.UserID, f.FarmName, f.FarmSize, f.Location)
	if err := row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if apperr.IsUniqueViolation(err) {
			return fmt.Errorf("farmer profile for user %s: %w", f.UserID, apperr.ErrConflict)
		}
		if apperr.IsDataViolation(err) {
			return apperr.FromDataViolation(err)
		}
		return fmt.Errorf("insert farmer profile: %w", err)
	}
	return nil
}

func (r *FarmerRepository) get(ctx context.Context, where string, arg string) (*entity.FarmerProfile, error) {
	if !validID(arg) {
		return nil, apperr.ErrNotFound
	}
	f, err := scanFarmer(r.db.QueryRow(ctx, farmerSelect+` WHERE `+where+` = $1`, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("get farmer profile: %w", err)
	}
	return f, nil
}

func (r *FarmerRepository) GetByID(ctx context.Context, id string) (*entity.FarmerProfile, error) {
	return r.get(ctx, "f.id", id)
}

func (r *FarmerRepository) GetByUserID(ctx context.Context, userID string) (*entity.FarmerProfile, error) {
	return r.get(ctx, "f.user_id", userID)
}

func (r *FarmerRepository) List(ctx context.Context) ([]entity.FarmerProfile, error) {
	rows, err := r.db.Query(ctx, farmerSelect+` ORDER BY f.created_at DESC, f.id`)
	if err != nil {
		return nil, fmt.Errorf("list farmer profiles: %w", err)
	}
	defer rows.Close()

	out := make([]entity.FarmerProfile, 0)
	for rows.Next() {
		f, err := scanFarmer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan farmer profile: %w", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

func (r *FarmerRepository) Update(ctx context.Context, f *entity.FarmerProfile) error {
	f.UpdatedAt = time.Now()
	res, err := r.db.Exec(ctx, `
		UPDATE farmer_profiles
		SET farm_name = $1, farm_size = $2, location = $3, updated_at = $4
		WHERE id = $5
	`, f.FarmName, f.FarmSize, f.Location, f.UpdatedAt, f.ID)
	if err != nil {
		if apperr.IsDataViolation(err) {
			return apperr.FromDataViolation(err)
		}
		return fmt.Errorf("update farmer profile: %w", err)
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *FarmerRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperr.ErrNotFound
	}
	res, err := r.db.Exec(ctx, `DELETE FROM farmer_profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete farmer profile: %w", err)
	}
	if res.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *FarmerRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM farmer_profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count farmer profiles: %w", err)
	}
	return n, nil
}

var _ repository.FarmerRepository = (*FarmerRepository)(nil)
