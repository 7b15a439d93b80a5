package catalog

import (
	"context"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/Tony-Omondi/wamugunda-farm/internal/domain"
)

// Service fronts the catalog client. Concurrent identical reads are
// collapsed with singleflight so a burst of storefront traffic produces a
// single upstream request per endpoint.
type Service struct {
	client *Client
	sfg    singleflight.Group
}

func NewService(client *Client) *Service {
	return &Service{client: client}
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	v, err, _ := s.sfg.Do("categories", func() (interface{}, error) {
		return s.client.Categories(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Category), nil
}

func (s *Service) ProduceList(ctx context.Context) ([]domain.Produce, error) {
	v, err, _ := s.sfg.Do("produce", func() (interface{}, error) {
		return s.client.ProduceList(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Produce), nil
}

func (s *Service) ProduceDetail(ctx context.Context, id int64) (*domain.Produce, error) {
	v, err, _ := s.sfg.Do("produce:"+strconv.FormatInt(id, 10), func() (interface{}, error) {
		return s.client.ProduceDetail(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Produce), nil
}

func (s *Service) Testimonials(ctx context.Context) ([]domain.Testimonial, error) {
	v, err, _ := s.sfg.Do("testimonials", func() (interface{}, error) {
		return s.client.Testimonials(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Testimonial), nil
}

func (s *Service) Media(ctx context.Context) ([]domain.Media, error) {
	v, err, _ := s.sfg.Do("media", func() (interface{}, error) {
		return s.client.Media(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Media), nil
}
