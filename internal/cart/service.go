package cart

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/Tony-Omondi/wamugunda-farm/internal/domain"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the session's cart, or an empty cart when none exists yet.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		now := time.Now()
		return &domain.Cart{
			SessionID: sessionID,
			Items:     nil,
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds produce to the cart, merging quantities when the produce is
// already present.
func (s *Service) AddItem(ctx context.Context, sessionID string, produce *domain.Produce, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		quantity = 1
	}

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].ProduceID == produce.ID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, domain.CartItem{
			ProduceID: produce.ID,
			Name:      itemName(produce),
			UnitPrice: parsePrice(produce.Price),
			Quantity:  quantity,
			Image:     itemImage(produce),
			AddedAt:   time.Now(),
		})
	}

	return s.save(ctx, sessionID, cart)
}

// UpdateQuantity sets an item's quantity; zero or less removes the item.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, produceID int64, quantity int) (*domain.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		return s.removeFrom(ctx, sessionID, cart, produceID)
	}

	for i := range cart.Items {
		if cart.Items[i].ProduceID == produceID {
			cart.Items[i].Quantity = quantity
			return s.save(ctx, sessionID, cart)
		}
	}
	return cart, nil
}

func (s *Service) RemoveItem(ctx context.Context, sessionID string, produceID int64) (*domain.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.removeFrom(ctx, sessionID, cart, produceID)
}

func (s *Service) Clear(ctx context.Context, sessionID string) error {
	err := s.store.Delete(ctx, sessionID)
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return err
	}
	return nil
}

// BuildSnapshot captures the cart for checkout. Items are copied so later
// cart edits never touch an in-flight checkout.
func (s *Service) BuildSnapshot(cart *domain.Cart) (*domain.CartSnapshot, error) {
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	snapshot := &domain.CartSnapshot{
		Items:      make([]domain.CartSnapshotItem, 0, len(cart.Items)),
		Currency:   "KES",
		CapturedAt: time.Now(),
	}

	var totalAmount float64
	for _, item := range cart.Items {
		subtotal := item.UnitPrice * float64(item.Quantity)
		snapshot.Items = append(snapshot.Items, domain.CartSnapshotItem{
			ProduceID: item.ProduceID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  subtotal,
		})
		totalAmount += subtotal
	}

	snapshot.TotalAmount = totalAmount
	return snapshot, nil
}

func (s *Service) removeFrom(ctx context.Context, sessionID string, cart *domain.Cart, produceID int64) (*domain.Cart, error) {
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProduceID != produceID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	return s.save(ctx, sessionID, cart)
}

func (s *Service) save(ctx context.Context, sessionID string, cart *domain.Cart) (*domain.Cart, error) {
	cart.UpdatedAt = time.Now()
	if err := s.store.Set(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func itemName(p *domain.Produce) string {
	if p.Name == "" {
		return "Unnamed Product"
	}
	return p.Name
}

func itemImage(p *domain.Produce) string {
	if len(p.Images) > 0 && p.Images[0].Image != "" {
		return p.Images[0].Image
	}
	if p.Image != "" {
		return p.Image
	}
	return "https://via.placeholder.com/80"
}

func parsePrice(price string) float64 {
	v, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0
	}
	return v
}
