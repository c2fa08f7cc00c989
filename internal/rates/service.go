package rates

import (
	"context"
	"errors"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, kind Kind) ([]Rate, error) {
	if !kind.IsValid() {
		return nil, errors.New("invalid rate kind")
	}
	return s.repo.List(ctx, kind)
}

func (s *Service) Get(ctx context.Context, id int64) (Rate, error) {
	if id <= 0 {
		return Rate{}, errors.New("invalid rate ID")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, rate Rate) (Rate, error) {
	if err := s.validate(rate); err != nil {
		return Rate{}, err
	}
	return s.repo.Create(ctx, rate)
}

func (s *Service) Update(ctx context.Context, id int64, rate Rate) error {
	if id <= 0 {
		return errors.New("invalid rate ID")
	}
	if err := s.validate(rate); err != nil {
		return err
	}
	return s.repo.Update(ctx, id, rate)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.New("invalid rate ID")
	}
	return s.repo.Delete(ctx, id)
}
