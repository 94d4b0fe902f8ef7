package main

import (
	"log/slog"
	"os"

	"app/internal/domain/model"
	"app/internal/infra/db"

	"github.com/joho/godotenv"
)

// 初期商品データ投入。既に商品があればスキップする
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	_ = godotenv.Load()

	gormDB, err := db.Connect()
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(&model.Product{}); err != nil {
		slog.Error("auto migrate failed", "error", err)
		os.Exit(1)
	}

	var count int64
	if err := gormDB.Model(&model.Product{}).Count(&count).Error; err != nil {
		slog.Error("count failed", "error", err)
		os.Exit(1)
	}
	if count > 0 {
		slog.Info("products already exist, skipping seed", "count", count)
		return
	}

	products := seedProducts()
	if err := gormDB.Create(&products).Error; err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}

	slog.Info("seed completed", "count", len(products))
}

func seedProducts() []model.Product {
	return []model.Product{
		{Name: "Fresh Apples", Description: "Red delicious apples, crisp and sweet", Price: 150, Category: model.CategoryFruitsVegetables, Stock: 50, Unit: model.UnitKg, IsActive: true},
		{Name: "Bananas", Description: "Fresh yellow bananas, perfect for breakfast", Price: 60, Category: model.CategoryFruitsVegetables, Stock: 80, Unit: model.UnitKg, IsActive: true},
		{Name: "Tomatoes", Description: "Fresh red tomatoes, perfect for cooking", Price: 80, Category: model.CategoryFruitsVegetables, Stock: 40, Unit: model.UnitKg, IsActive: true},
		{Name: "Milk", Description: "Fresh full cream milk, 1 liter", Price: 60, Category: model.CategoryDairyEggs, Stock: 100, Unit: model.UnitL, IsActive: true},
		{Name: "Eggs", Description: "Farm fresh eggs, 12 pieces", Price: 90, Category: model.CategoryDairyEggs, Stock: 60, Unit: model.UnitPack, IsActive: true},
		{Name: "Butter", Description: "Creamy butter, 200g", Price: 120, Category: model.CategoryDairyEggs, Stock: 45, Unit: model.UnitPack, IsActive: true},
		{Name: "Bread", Description: "Fresh white bread loaf", Price: 40, Category: model.CategoryBakery, Stock: 30, Unit: model.UnitPiece, IsActive: true},
		{Name: "Cookies", Description: "Sweet chocolate cookies, 200g", Price: 50, Category: model.CategoryBakery, Stock: 55, Unit: model.UnitPack, IsActive: true},
		{Name: "Rice", Description: "Basmati rice, premium quality, 1kg", Price: 120, Category: model.CategoryPantry, Stock: 75, Unit: model.UnitKg, IsActive: true},
		{Name: "Wheat Flour", Description: "Fine wheat flour, 1kg", Price: 45, Category: model.CategoryPantry, Stock: 90, Unit: model.UnitKg, IsActive: true},
		{Name: "Sugar", Description: "White granulated sugar, 1kg", Price: 50, Category: model.CategoryPantry, Stock: 70, Unit: model.UnitKg, IsActive: true},
		{Name: "Cooking Oil", Description: "Refined sunflower oil, 1 liter", Price: 140, Category: model.CategoryPantry, Stock: 50, Unit: model.UnitL, IsActive: true},
		{Name: "Chicken Breast", Description: "Fresh chicken breast, 500g", Price: 250, Category: model.CategoryMeatSeafood, Stock: 25, Unit: model.UnitKg, IsActive: true},
		{Name: "Fish", Description: "Fresh sea fish, 500g", Price: 300, Category: model.CategoryMeatSeafood, Stock: 20, Unit: model.UnitKg, IsActive: true},
		{Name: "Mineral Water", Description: "Pure mineral water, 1 liter", Price: 20, Category: model.CategoryBeverages, Stock: 200, Unit: model.UnitL, IsActive: true},
		{Name: "Orange Juice", Description: "Fresh orange juice, 1 liter", Price: 100, Category: model.CategoryBeverages, Stock: 40, Unit: model.UnitL, IsActive: true},
		{Name: "Potato Chips", Description: "Crispy potato chips, 150g", Price: 30, Category: model.CategorySnacks, Stock: 100, Unit: model.UnitPack, IsActive: true},
		{Name: "Biscuits", Description: "Sweet cream biscuits, 200g", Price: 35, Category: model.CategorySnacks, Stock: 85, Unit: model.UnitPack, IsActive: true},
		{Name: "Ice Cream", Description: "Vanilla ice cream, 500ml", Price: 150, Category: model.CategoryFrozenFoods, Stock: 30, Unit: model.UnitPack, IsActive: true},
		{Name: "Frozen Peas", Description: "Frozen green peas, 500g", Price: 80, Category: model.CategoryFrozenFoods, Stock: 40, Unit: model.UnitPack, IsActive: true},
	}
}
