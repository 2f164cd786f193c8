package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
)

type Product struct {
	ID         uint   `gorm:"primaryKey"`
	EditionID  uint   `gorm:"not null;index"`
	Name       string `gorm:"not null"`
	Required   bool   `gorm:"default:false"`
	PriceCents int64  `gorm:"not null"`
	Variants   string // comma separated, e.g. "S,M,L,XL"
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Purchase struct {
	ID              uint    `gorm:"primaryKey"`
	UserID          uint    `gorm:"not null;index"`
	EditionID       uint    `gorm:"not null;index"`
	ProductID       uint    `gorm:"not null"`
	Product         Product `gorm:"foreignKey:ProductID"`
	Variant         string
	Quantity        int  `gorm:"not null"`
	Validated       bool `gorm:"default:false"`
	PaymentIntentID string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type PurchaseDAO struct {
	db *gorm.DB
}

func NewPurchaseDAO(db *gorm.DB) *PurchaseDAO {
	return &PurchaseDAO{
		db: db,
	}
}

func (d *PurchaseDAO) InsertProduct(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Create(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return product, nil
}

func (d *PurchaseDAO) FindProductByID(ctx context.Context, id uint) (Product, error) {
	var product Product

	result := d.db.WithContext(ctx).First(&product, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}

		return Product{}, result.Error
	}

	return product, nil
}

func (d *PurchaseDAO) FindProductsByEdition(ctx context.Context, editionID uint) ([]Product, error) {
	var products []Product

	result := d.db.WithContext(ctx).Where("edition_id = ?", editionID).Find(&products)
	if result.Error != nil {
		return nil, result.Error
	}

	return products, nil
}

func (d *PurchaseDAO) Insert(ctx context.Context, purchase Purchase) (Purchase, error) {
	result := d.db.WithContext(ctx).Create(&purchase)
	if result.Error != nil {
		return Purchase{}, result.Error
	}

	return purchase, nil
}

func (d *PurchaseDAO) FindByID(ctx context.Context, id uint) (Purchase, error) {
	var purchase Purchase

	result := d.db.WithContext(ctx).Preload("Product").First(&purchase, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Purchase{}, ErrPurchaseNotFound
		}

		return Purchase{}, result.Error
	}

	return purchase, nil
}

func (d *PurchaseDAO) FindByUser(ctx context.Context, userID, editionID uint) ([]Purchase, error) {
	var purchases []Purchase

	result := d.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ? AND edition_id = ?", userID, editionID).
		Find(&purchases)
	if result.Error != nil {
		return nil, result.Error
	}

	return purchases, nil
}

func (d *PurchaseDAO) Update(ctx context.Context, purchase Purchase) (Purchase, error) {
	result := d.db.WithContext(ctx).Save(&purchase)
	if result.Error != nil {
		return Purchase{}, result.Error
	}

	return purchase, nil
}

func (d *PurchaseDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Purchase{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPurchaseNotFound
	}

	return nil
}
