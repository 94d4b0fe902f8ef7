package model

import (
	"time"

	"gorm.io/gorm"
)

// 商品カテゴリ（食料品の固定セット）
type ProductCategory string

const (
	CategoryFruitsVegetables ProductCategory = "Fruits & Vegetables"
	CategoryDairyEggs        ProductCategory = "Dairy & Eggs"
	CategoryMeatSeafood      ProductCategory = "Meat & Seafood"
	CategoryBakery           ProductCategory = "Bakery"
	CategoryBeverages        ProductCategory = "Beverages"
	CategorySnacks           ProductCategory = "Snacks"
	CategoryFrozenFoods      ProductCategory = "Frozen Foods"
	CategoryPantry           ProductCategory = "Pantry"
	CategoryOther            ProductCategory = "Other"
)

// カテゴリ一覧（表示順は固定）
func ProductCategories() []ProductCategory {
	return []ProductCategory{
		CategoryFruitsVegetables,
		CategoryDairyEggs,
		CategoryMeatSeafood,
		CategoryBakery,
		CategoryBeverages,
		CategorySnacks,
		CategoryFrozenFoods,
		CategoryPantry,
		CategoryOther,
	}
}

func (c ProductCategory) Valid() bool {
	for _, v := range ProductCategories() {
		if c == v {
			return true
		}
	}
	return false
}

// 販売単位（重さ・容量・個数）
type ProductUnit string

const (
	UnitKg    ProductUnit = "kg"
	UnitG     ProductUnit = "g"
	UnitL     ProductUnit = "l"
	UnitMl    ProductUnit = "ml"
	UnitPiece ProductUnit = "piece"
	UnitPack  ProductUnit = "pack"
)

func (u ProductUnit) Valid() bool {
	switch u {
	case UnitKg, UnitG, UnitL, UnitMl, UnitPiece, UnitPack:
		return true
	}
	return false
}

// 商品。物理削除はしない（is_active + soft delete）
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       int64           `gorm:"not null" json:"price"`
	Category    ProductCategory `gorm:"type:varchar(50);not null;index" json:"category"`
	Image       string          `gorm:"type:varchar(500)" json:"image"`
	Stock       int64           `gorm:"not null" json:"stock"`
	Unit        ProductUnit     `gorm:"type:varchar(10);not null;default:'piece'" json:"unit"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
