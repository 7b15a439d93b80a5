package cart

import (
	"context"
	"errors"

	"github.com/Tony-Omondi/wamugunda-farm/internal/domain"
)

type Store interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Set(ctx context.Context, sessionID string, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}

var ErrCartNotFound = errors.New("cart not found")
