// Package queries builds the ranked question and answer listings.
// Every count is aggregated from the like and answer tables at query time.
package queries

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a single record lookup matches nothing.
var ErrNotFound = errors.New("record not found")

// Listing is an ordered, lazily evaluated result set.
// Count and Fetch share the same filters so a paginator can slice it.
type Listing[T any] struct {
	db       *gorm.DB
	scope    func(*gorm.DB) *gorm.DB
	selects  string
	args     []interface{}
	order    []string
	preloads []string
}

// Count returns the number of rows matching the listing's filters.
func (l *Listing[T]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := l.scope(l.db.WithContext(ctx).Model(new(T))).Count(&n).Error
	return n, err
}

// Fetch returns one window of the ordered listing.
func (l *Listing[T]) Fetch(ctx context.Context, limit, offset int) ([]T, error) {
	tx := l.query(ctx)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if offset > 0 {
		tx = tx.Offset(offset)
	}
	var out []T
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// All returns the whole ordered listing.
func (l *Listing[T]) All(ctx context.Context) ([]T, error) {
	return l.Fetch(ctx, 0, 0)
}

// First returns the first row or ErrNotFound.
func (l *Listing[T]) First(ctx context.Context) (*T, error) {
	rows, err := l.Fetch(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (l *Listing[T]) query(ctx context.Context) *gorm.DB {
	tx := l.scope(l.db.WithContext(ctx).Model(new(T)))
	if l.selects != "" {
		tx = tx.Select(l.selects, l.args...)
	}
	for _, o := range l.order {
		tx = tx.Order(o)
	}
	for _, p := range l.preloads {
		tx = tx.Preload(p)
	}
	return tx
}
