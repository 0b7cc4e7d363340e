package leave

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListScope int

const (
	// ScopeApproval: requests the employee substitutes for, supervises or
	// handles as HR, of initiators still employed.
	ScopeApproval ListScope = iota
	// ScopePersonal: requests the employee initiated.
	ScopePersonal
)

type ListFilter struct {
	Scope      ListScope
	EmployeeID uuid.UUID
	Statuses   []Status
	// Limit <= 0 returns every row.
	Offset int
	Limit  int
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, lr *LeaveRequest) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error)
	Update(ctx context.Context, id uuid.UUID, columns map[string]any) error
	Count(ctx context.Context, f ListFilter) (int64, error)
	List(ctx context.Context, f ListFilter) ([]LeaveRequest, error)
	CreateSignatureFile(ctx context.Context, sf *SignatureFile) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, lr *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(lr).Error
}

// FindByIDForUpdate locks the request row for the rest of the transaction.
func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*LeaveRequest, error) {
	var lr LeaveRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&lr, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lr, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, columns map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", id).
		Updates(columns)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context, f ListFilter) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(filterScope(f)).
		Count(&total).Error
	return total, err
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]LeaveRequest, error) {
	var items []LeaveRequest
	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Scopes(filterScope(f)).
		Preload("Initiator").
		Preload("Substitute").
		Order("leave_requests.modified_at ASC, leave_requests.id ASC")
	if f.Limit > 0 {
		q = q.Offset(f.Offset).Limit(f.Limit)
	}
	err := q.Find(&items).Error
	return items, err
}

func (r *repository) CreateSignatureFile(ctx context.Context, sf *SignatureFile) error {
	return r.db.WithContext(ctx).Create(sf).Error
}

func filterScope(f ListFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch f.Scope {
		case ScopeApproval:
			db = db.
				Joins("JOIN employees initiator ON initiator.id = leave_requests.initiator_id").
				Where("initiator.current_employee = ?", true).
				Where(
					"leave_requests.substitute_id = ? OR initiator.id_supervisor = ? OR initiator.id_hr = ?",
					f.EmployeeID, f.EmployeeID, f.EmployeeID,
				)
		default:
			db = db.Where("leave_requests.initiator_id = ?", f.EmployeeID)
		}

		if len(f.Statuses) > 0 {
			db = db.Where("leave_requests.status IN ?", f.Statuses)
		}
		return db
	}
}
