// Package uow runs a group of repository writes as one database transaction.
package uow

import (
	"context"

	"gorm.io/gorm"
)

//go:generate mockgen -source=uow.go -destination=mock/uow_mock.go -package=mock
type UnitOfWork interface {
	// Do commits when fn returns nil and rolls back otherwise, including on
	// panic and context cancellation.
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormUnitOfWork struct {
	db *gorm.DB
}

func New(db *gorm.DB) UnitOfWork {
	return &gormUnitOfWork{db: db}
}

func (u *gormUnitOfWork) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.db.WithContext(ctx).Transaction(fn)
}
