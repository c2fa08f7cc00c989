package rates

import (
	"errors"
	"strings"
)

func (s *Service) validate(r Rate) error {
	if !r.Kind.IsValid() {
		return errors.New("rate kind is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("rate name is required")
	}
	if r.Rate < 0 || r.Rate > 1 {
		return errors.New("rate must be a fraction between 0 and 1")
	}
	return nil
}
