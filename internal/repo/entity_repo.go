package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/civictechlab/contrib-api/internal/domain"
)

func (s *Store) CreateEvent(ctx context.Context, ev *domain.Event) error {
	return s.DB.WithContext(ctx).Create(ev).Error
}

// FindEvent returns nil when no event has the iden.
func (s *Store) FindEvent(ctx context.Context, iden string) (*domain.Event, error) {
	var ev domain.Event
	err := s.DB.WithContext(ctx).Where("iden = ?", iden).First(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func (s *Store) CreatePolitician(ctx context.Context, p *domain.Politician) error {
	return s.DB.WithContext(ctx).Create(p).Error
}

// FindPolitician returns nil when no politician has the iden.
func (s *Store) FindPolitician(ctx context.Context, iden string) (*domain.Politician, error) {
	var p domain.Politician
	err := s.DB.WithContext(ctx).Where("iden = ?", iden).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) ListPoliticians(ctx context.Context) ([]domain.Politician, error) {
	ps := []domain.Politician{}
	err := s.DB.WithContext(ctx).Order("name").Find(&ps).Error
	return ps, err
}

func (s *Store) CreateContribution(ctx context.Context, c *domain.Contribution) error {
	return s.DB.WithContext(ctx).Create(c).Error
}

// FindContribution returns nil when the ledger has no row for the iden.
func (s *Store) FindContribution(ctx context.Context, iden string) (*domain.Contribution, error) {
	var c domain.Contribution
	err := s.DB.WithContext(ctx).Where("iden = ?", iden).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// RecentEventContributions returns up to limit ledger rows for the event,
// newest first.
func (s *Store) RecentEventContributions(ctx context.Context, eventIden string, limit int) ([]domain.Contribution, error) {
	cs := []domain.Contribution{}
	err := s.DB.WithContext(ctx).
		Where("event_iden = ?", eventIden).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&cs).Error
	return cs, err
}

func (s *Store) CountContributions(ctx context.Context) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&domain.Contribution{}).Count(&n).Error
	return n, err
}
