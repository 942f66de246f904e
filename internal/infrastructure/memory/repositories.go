package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/oksasatya/shamba-farm/internal/domain/entity"
	"github.com/oksasatya/shamba-farm/internal/domain/repository"
	"github.com/oksasatya/shamba-farm/pkg/apperr"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	defer r.s.lock()()
	for _, row := range r.s.t.users {
		if row.Username == u.Username {
			return fmt.Errorf("username %q: %w", u.Username, apperr.ErrConflict)
		}
	}
	now := r.s.now()
	u.ID = uuid.NewString()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.t.users[u.ID] = userRow{User: *u, seq: r.s.t.next()}
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.rlock()()
	row, ok := r.s.t.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	u := row.User
	return &u, nil
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	defer r.s.rlock()()
	for _, row := range r.s.t.users {
		if row.Username == username {
			u := row.User
			return &u, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *userRepo) Update(_ context.Context, u *entity.User) error {
	defer r.s.lock()()
	row, ok := r.s.t.users[u.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	u.UpdatedAt = r.s.now()
	row.Email, row.FirstName, row.LastName = u.Email, u.FirstName, u.LastName
	row.Phone, row.Address, row.UpdatedAt = u.Phone, u.Address, u.UpdatedAt
	r.s.t.users[u.ID] = row
	return nil
}

// Delete cascades to the user's farmer profile and crops like the FK chain does.
func (r *userRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	if _, ok := r.s.t.users[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.users, id)
	for fid, f := range r.s.t.farmers {
		if f.UserID == id {
			r.s.deleteFarmerLocked(fid)
		}
	}
	return nil
}

type farmerRepo struct{ s *Store }

func (s *Store) deleteFarmerLocked(id string) {
	delete(s.t.farmers, id)
	for cid, c := range s.t.crops {
		if c.FarmerID == id {
			delete(s.t.crops, cid)
		}
	}
}

// hydrateLocked joins the user and counts crops, as the SQL read does.
func (s *Store) hydrateLocked(row farmerRow) entity.FarmerProfile {
	f := row.FarmerProfile
	if u, ok := s.t.users[f.UserID]; ok {
		user := u.User
		f.User = &user
	}
	f.CropsCount = 0
	for _, c := range s.t.crops {
		if c.FarmerID == f.ID {
			f.CropsCount++
		}
	}
	return f
}

func (r *farmerRepo) Create(_ context.Context, f *entity.FarmerProfile) error {
	defer r.s.lock()()
	if _, ok := r.s.t.users[f.UserID]; !ok {
		return fmt.Errorf("farmer profile user %s: %w", f.UserID, apperr.ErrNotFound)
	}
	for _, row := range r.s.t.farmers {
		if row.UserID == f.UserID {
			return fmt.Errorf("farmer profile for user %s: %w", f.UserID, apperr.ErrConflict)
		}
	}
	now := r.s.now()
	f.ID = uuid.NewString()
	f.CreatedAt, f.UpdatedAt = now, now
	stored := *f
	stored.User, stored.CropsCount = nil, 0
	r.s.t.farmers[f.ID] = farmerRow{FarmerProfile: stored, seq: r.s.t.next()}
	return nil
}

func (r *farmerRepo) GetByID(_ context.Context, id string) (*entity.FarmerProfile, error) {
	defer r.s.rlock()()
	row, ok := r.s.t.farmers[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	f := r.s.hydrateLocked(row)
	return &f, nil
}

func (r *farmerRepo) GetByUserID(_ context.Context, userID string) (*entity.FarmerProfile, error) {
	defer r.s.rlock()()
	for _, row := range r.s.t.farmers {
		if row.UserID == userID {
			f := r.s.hydrateLocked(row)
			return &f, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *farmerRepo) List(_ context.Context) ([]entity.FarmerProfile, error) {
	defer r.s.rlock()()
	rows := make([]farmerRow, 0, len(r.s.t.farmers))
	for _, row := range r.s.t.farmers {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	out := make([]entity.FarmerProfile, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.s.hydrateLocked(row))
	}
	return out, nil
}

func (r *farmerRepo) Update(_ context.Context, f *entity.FarmerProfile) error {
	defer r.s.lock()()
	row, ok := r.s.t.farmers[f.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	f.UpdatedAt = r.s.now()
	row.FarmName, row.Location, row.UpdatedAt = f.FarmName, f.Location, f.UpdatedAt
	if f.FarmSize != nil {
		size := *f.FarmSize
		row.FarmSize = &size
	} else {
		row.FarmSize = nil
	}
	r.s.t.farmers[f.ID] = row
	return nil
}

func (r *farmerRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	if _, ok := r.s.t.farmers[id]; !ok {
		return apperr.ErrNotFound
	}
	r.s.deleteFarmerLocked(id)
	return nil
}

func (r *farmerRepo) Count(_ context.Context) (int, error) {
	defer r.s.rlock()()
	return len(r.s.t.farmers), nil
}

type cropRepo struct{ s *Store }

func (s *Store) resolveCropLocked(row cropRow) entity.Crop {
	c := row.Crop
	if f, ok := s.t.farmers[c.FarmerID]; ok {
		c.FarmerUserID = f.UserID
		if u, ok := s.t.users[f.UserID]; ok {
			c.FarmerName = u.FullName()
		}
	}
	return c
}

func (r *cropRepo) Create(_ context.Context, c *entity.Crop) error {
	defer r.s.lock()()
	if _, ok := r.s.t.farmers[c.FarmerID]; !ok {
		return fmt.Errorf("crop farmer %s: %w", c.FarmerID, apperr.ErrNotFound)
	}
	now := r.s.now()
	c.ID = uuid.NewString()
	c.CreatedAt, c.UpdatedAt = now, now
	stored := *c
	stored.FarmerUserID, stored.FarmerName = "", ""
	r.s.t.crops[c.ID] = cropRow{Crop: stored, seq: r.s.t.next()}
	return nil
}

func (r *cropRepo) GetByID(_ context.Context, id string) (*entity.Crop, error) {
	defer r.s.rlock()()
	row, ok := r.s.t.crops[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	c := r.s.resolveCropLocked(row)
	return &c, nil
}

func (s *Store) filterCropsLocked(f repository.CropFilter) []cropRow {
	rows := make([]cropRow, 0)
	for _, row := range s.t.crops {
		if f.FarmerID != "" && row.FarmerID != f.FarmerID {
			continue
		}
		if f.Type != "" && row.Type != f.Type {
			continue
		}
		if f.Status != "" && row.Status != f.Status {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.After(rows[j].CreatedAt)
		}
		return rows[i].seq > rows[j].seq
	})
	return rows
}

func (r *cropRepo) List(_ context.Context, f repository.CropFilter) ([]entity.Crop, error) {
	defer r.s.rlock()()
	rows := r.s.filterCropsLocked(f)
	if f.Limit > 0 && len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}
	out := make([]entity.Crop, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.s.resolveCropLocked(row))
	}
	return out, nil
}

func (r *cropRepo) Update(_ context.Context, c *entity.Crop) error {
	defer r.s.lock()()
	row, ok := r.s.t.crops[c.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	c.UpdatedAt = r.s.now()
	created, farmerID, seq := row.CreatedAt, row.FarmerID, row.seq
	stored := *c
	stored.CreatedAt, stored.FarmerID = created, farmerID
	stored.FarmerUserID, stored.FarmerName = "", ""
	r.s.t.crops[c.ID] = cropRow{Crop: stored, seq: seq}
	return nil
}

func (r *cropRepo) Delete(_ context.Context, id string) error {
	defer r.s.lock()()
	if _, ok := r.s.t.crops[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.s.t.crops, id)
	return nil
}

func (r *cropRepo) Count(_ context.Context, farmerID string) (int, error) {
	defer r.s.rlock()()
	return len(r.s.filterCropsLocked(repository.CropFilter{FarmerID: farmerID})), nil
}

func (r *cropRepo) CountByType(_ context.Context, farmerID string) (map[string]int, error) {
	defer r.s.rlock()()
	out := make(map[string]int)
	for _, row := range r.s.filterCropsLocked(repository.CropFilter{FarmerID: farmerID}) {
		out[string(row.Type)]++
	}
	return out, nil
}

func (r *cropRepo) CountByStatus(_ context.Context, farmerID string) (map[string]int, error) {
	defer r.s.rlock()()
	out := make(map[string]int)
	for _, row := range r.s.filterCropsLocked(repository.CropFilter{FarmerID: farmerID}) {
		out[string(row.Status)]++
	}
	return out, nil
}

func (r *cropRepo) TopFarmers(_ context.Context, limit int) ([]entity.FarmerCropCount, error) {
	defer r.s.rlock()()
	counts := make(map[string]int)
	for _, row := range r.s.t.crops {
		counts[row.FarmerID]++
	}
	out := make([]entity.FarmerCropCount, 0, len(counts))
	for fid, n := range counts {
		fc := entity.FarmerCropCount{FarmerID: fid, Count: n}
		if f, ok := r.s.t.farmers[fid]; ok {
			if u, ok := r.s.t.users[f.UserID]; ok {
				fc.FirstName, fc.LastName = u.FirstName, u.LastName
			}
		}
		out = append(out, fc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return strings.Compare(out[i].FarmerID, out[j].FarmerID) < 0
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *cropRepo) CountByMonth(_ context.Context) ([]entity.MonthCount, error) {
	defer r.s.rlock()()
	counts := make(map[string]int)
	for _, row := range r.s.t.crops {
		counts[row.CreatedAt.UTC().Format("2006-01")]++
	}
	out := make([]entity.MonthCount, 0, len(counts))
	for m, n := range counts {
		out = append(out, entity.MonthCount{Month: m, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

type auditRepo struct{ s *Store }

func (r *auditRepo) Insert(_ context.Context, e *entity.AuditLog) error {
	defer r.s.lock()()
	e.ID = uuid.NewString()
	e.CreatedAt = r.s.now()
	r.s.t.audit = append(r.s.t.audit, *e)
	return nil
}
