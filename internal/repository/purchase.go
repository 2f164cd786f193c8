package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/challenger-asso/challenger-api/internal/domain"
	"github.com/challenger-asso/challenger-api/internal/repository/dao"
)

var (
	ErrProductNotFound  = dao.ErrProductNotFound
	ErrPurchaseNotFound = dao.ErrPurchaseNotFound
)

type PurchaseDAO interface {
	InsertProduct(ctx context.Context, product dao.Product) (dao.Product, error)
	FindProductByID(ctx context.Context, id uint) (dao.Product, error)
	FindProductsByEdition(ctx context.Context, editionID uint) ([]dao.Product, error)
	Insert(ctx context.Context, purchase dao.Purchase) (dao.Purchase, error)
	FindByID(ctx context.Context, id uint) (dao.Purchase, error)
	FindByUser(ctx context.Context, userID, editionID uint) ([]dao.Purchase, error)
	Update(ctx context.Context, purchase dao.Purchase) (dao.Purchase, error)
	Delete(ctx context.Context, id uint) error
}

type PurchaseRepository struct {
	dao PurchaseDAO
}

func NewPurchaseRepository(dao PurchaseDAO) *PurchaseRepository {
	return &PurchaseRepository{
		dao: dao,
	}
}

func (r *PurchaseRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := r.dao.InsertProduct(ctx, r.productDomainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.InsertProduct -> %w", err)
	}

	return r.productDaoToDomain(created), nil
}

func (r *PurchaseRepository) FindProductByID(ctx context.Context, id uint) (domain.Product, error) {
	found, err := r.dao.FindProductByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.FindProductByID -> %w", err)
	}

	return r.productDaoToDomain(found), nil
}

func (r *PurchaseRepository) FindProductsByEdition(ctx context.Context, editionID uint) ([]domain.Product, error) {
	found, err := r.dao.FindProductsByEdition(ctx, editionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindProductsByEdition -> %w", err)
	}

	products := make([]domain.Product, len(found))
	for i, p := range found {
		products[i] = r.productDaoToDomain(p)
	}

	return products, nil
}

func (r *PurchaseRepository) Create(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(purchase))
	if err != nil {
		return domain.Purchase{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PurchaseRepository) FindByID(ctx context.Context, id uint) (domain.Purchase, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Purchase{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PurchaseRepository) FindByUser(ctx context.Context, userID, editionID uint) ([]domain.Purchase, error) {
	found, err := r.dao.FindByUser(ctx, userID, editionID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	purchases := make([]domain.Purchase, len(found))
	for i, p := range found {
		purchases[i] = r.daoToDomain(p)
	}

	return purchases, nil
}

func (r *PurchaseRepository) Update(ctx context.Context, purchase domain.Purchase) (domain.Purchase, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(purchase))
	if err != nil {
		return domain.Purchase{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PurchaseRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PurchaseRepository) productDaoToDomain(p dao.Product) domain.Product {
	var variants []string
	if p.Variants != "" {
		variants = strings.Split(p.Variants, ",")
	}

	return domain.Product{
		ID:         p.ID,
		EditionID:  p.EditionID,
		Name:       p.Name,
		Required:   p.Required,
		PriceCents: p.PriceCents,
		Variants:   variants,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (r *PurchaseRepository) productDomainToDao(p domain.Product) dao.Product {
	return dao.Product{
		ID:         p.ID,
		EditionID:  p.EditionID,
		Name:       p.Name,
		Required:   p.Required,
		PriceCents: p.PriceCents,
		Variants:   strings.Join(p.Variants, ","),
	}
}

func (r *PurchaseRepository) daoToDomain(p dao.Purchase) domain.Purchase {
	return domain.Purchase{
		ID:              p.ID,
		UserID:          p.UserID,
		EditionID:       p.EditionID,
		ProductID:       p.ProductID,
		Product:         r.productDaoToDomain(p.Product),
		Variant:         p.Variant,
		Quantity:        p.Quantity,
		Validated:       p.Validated,
		PaymentIntentID: p.PaymentIntentID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func (r *PurchaseRepository) domainToDao(p domain.Purchase) dao.Purchase {
	return dao.Purchase{
		ID:              p.ID,
		UserID:          p.UserID,
		EditionID:       p.EditionID,
		ProductID:       p.ProductID,
		Variant:         p.Variant,
		Quantity:        p.Quantity,
		Validated:       p.Validated,
		PaymentIntentID: p.PaymentIntentID,
	}
}
