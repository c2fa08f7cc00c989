package numbering

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Preview formats the display number a new document would receive without
// consuming it.
func (s *Service) Preview(ctx context.Context, docType DocType) (string, error) {
	if docType == "" {
		return "", errors.New("doc type required")
	}
	seq, err := s.repo.Peek(ctx, docType)
	if err != nil {
		return "", fmt.Errorf("peek sequence: %w", err)
	}
	return seq.Format(), nil
}

// Next consumes a number from the series and returns its display form.
func (s *Service) Next(ctx context.Context, docType DocType) (string, error) {
	if docType == "" {
		return "", errors.New("doc type required")
	}
	seq, err := s.repo.Next(ctx, docType)
	if err != nil {
		return "", fmt.Errorf("advance sequence: %w", err)
	}
	return seq.Format(), nil
}
