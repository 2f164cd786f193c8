package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/paymentintent"
	"go.uber.org/zap"

	"github.com/challenger-asso/challenger-api/internal/config"
	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/repository"
)

var (
	ErrProductNotFound  = repository.ErrProductNotFound
	ErrPurchaseNotFound = repository.ErrPurchaseNotFound
)

type PurchaseRepository interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	FindProductByID(ctx context.Context, id uint) (domain.Product, error)
	FindProductsByEdition(ctx context.Context, editionID uint) ([]domain.Product, error)
	Create(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error)
	FindByID(ctx context.Context, id uint) (domain.Purchase, error)
	FindByUser(ctx context.Context, userID, editionID uint) ([]domain.Purchase, error)
	Update(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error)
	Delete(ctx context.Context, id uint) error
}

type PurchaseCompetitionRepository interface {
	FindParticipant(ctx context.Context, userID, editionID uint) (domain.Participant, error)
	InvalidateParticipant(ctx context.Context, userID, editionID uint) error
}

// PurchaseResult carries the purchase plus whether the mutation forced
// a previously validated participant back to unvalidated. The admin UI
// shows that as a warning before confirmation.
type PurchaseResult struct {
	Purchase    domain.Purchase `json:"purchase"`
	Invalidated bool            `json:"participant_invalidated"`
}

type PurchaseService struct {
	repo PurchaseRepository
	comp PurchaseCompetitionRepository
}

func NewPurchaseService(repo PurchaseRepository, comp PurchaseCompetitionRepository, conf *config.StripeConfig) *PurchaseService {
	if conf != nil {
		stripe.Key = conf.SecretKey
	}

	return &PurchaseService{
		repo: repo,
		comp: comp,
	}
}

func (s *PurchaseService) ListProducts(ctx context.Context, editionID uint) ([]domain.Product, error) {
	products, err := s.repo.FindProductsByEdition(ctx, editionID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindProductsByEdition -> %w", err)
	}

	return products, nil
}

func (s *PurchaseService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.CreateProduct -> %w", err)
	}

	return created, nil
}

func (s *PurchaseService) ListPurchases(ctx context.Context, userID, editionID uint) ([]domain.Purchase, error) {
	purchases, err := s.repo.FindByUser(ctx, userID, editionID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return purchases, nil
}

// CreatePurchase records a purchase and opens a payment intent for it.
// If the buyer is a currently validated participant, the participant
// is invalidated first: requirements changed, the earlier validation
// no longer stands.
func (s *PurchaseService) CreatePurchase(ctx context.Context, userID, editionID uint, productID uint, variant string, quantity int, paymentMethodID string) (PurchaseResult, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("s.repo.FindProductByID -> %w", err)
	}

	invalidated, err := s.invalidateIfValidated(ctx, userID, editionID)
	if err != nil {
		return PurchaseResult{}, err
	}

	intentID, err := s.createPaymentIntent(product.PriceCents*int64(quantity), paymentMethodID)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("s.createPaymentIntent -> %w", err)
	}

	created, err := s.repo.Create(ctx, domain.Purchase{
		UserID:          userID,
		EditionID:       editionID,
		ProductID:       productID,
		Variant:         variant,
		Quantity:        quantity,
		PaymentIntentID: intentID,
	})
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return PurchaseResult{Purchase: created, Invalidated: invalidated}, nil
}

// UpdatePurchase edits a purchase's variant or quantity. Same
// invalidation rule as CreatePurchase.
func (s *PurchaseService) UpdatePurchase(ctx context.Context, purchaseID uint, variant string, quantity int) (PurchaseResult, error) {
	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	invalidated, err := s.invalidateIfValidated(ctx, purchase.UserID, purchase.EditionID)
	if err != nil {
		return PurchaseResult{}, err
	}

	purchase.Variant = variant
	purchase.Quantity = quantity

	updated, err := s.repo.Update(ctx, purchase)
	if err != nil {
		return PurchaseResult{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return PurchaseResult{Purchase: updated, Invalidated: invalidated}, nil
}

func (s *PurchaseService) DeletePurchase(ctx context.Context, purchaseID uint) error {
	if err := s.repo.Delete(ctx, purchaseID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// MarkAcquitted flags a purchase as validated once payment cleared.
func (s *PurchaseService) MarkAcquitted(ctx context.Context, purchaseID uint) (domain.Purchase, error) {
	purchase, err := s.repo.FindByID(ctx, purchaseID)
	if err != nil {
		return domain.Purchase{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	purchase.Validated = true

	updated, err := s.repo.Update(ctx, purchase)
	if err != nil {
		return domain.Purchase{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

// invalidateIfValidated flips a validated participant back to
// unvalidated before a purchase mutation lands. Users who purchase
// before enrolling have no participant record yet; that is fine.
func (s *PurchaseService) invalidateIfValidated(ctx context.Context, userID, editionID uint) (bool, error) {
	participant, err := s.comp.FindParticipant(ctx, userID, editionID)
	if err != nil {
		if errors.Is(err, repository.ErrParticipantNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("s.comp.FindParticipant -> %w", err)
	}

	if !participant.Validated {
		return false, nil
	}

	if err := s.comp.InvalidateParticipant(ctx, userID, editionID); err != nil {
		return false, fmt.Errorf("s.comp.InvalidateParticipant -> %w", err)
	}

	zap.L().Info("participant invalidated by purchase mutation",
		zap.Uint("user_id", userID), zap.Uint("edition_id", editionID))

	return true, nil
}

func (s *PurchaseService) createPaymentIntent(amountCents int64, paymentMethodID string) (string, error) {
	if paymentMethodID == "" || amountCents == 0 {
		// free products and admin-recorded purchases skip payment
		return "", nil
	}

	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(amountCents),
		Currency:      stripe.String(string(stripe.CurrencyEUR)),
		PaymentMethod: stripe.String(paymentMethodID),
		Confirm:       stripe.Bool(true),
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", fmt.Errorf("paymentintent.New -> %w", err)
	}

	return intent.ID, nil
}
