// Copyright (c) 2026 Nabta. All rights reserved.
// Author: platform@nabta.store

/*
Package catalog implements the bilingual product and category catalog.

Every display field exists in an English and an Arabic form; slugs are
derived from the English name only, Arabic is carried as display data.
Storefront reads are locale-aware, staff writes always carry both locales.
*/
package catalog

import (
	"time"

	"github.com/nabtahq/nabta/internal/platform/constants"
)

// Product is a catalog entry: a plant, planter, or decor piece.
type Product struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	SKU           string     `json:"sku"`
	NameEn        string     `json:"name_en"`
	NameAr        string     `json:"name_ar"`
	DescriptionEn string     `json:"description_en"`
	DescriptionAr string     `json:"description_ar"`
	CareEn        string     `json:"care_en,omitempty"`
	CareAr        string     `json:"care_ar,omitempty"`
	CategoryID    string     `json:"category_id"`
	Price         float64    `json:"price"`
	CompareAt     *float64   `json:"compare_at_price,omitempty"`
	Stock         int        `json:"stock"`
	IsActive      bool       `json:"is_active"`
	ImageURL      string     `json:"image_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"`
}

// Name returns the display name for the locale.
func (product *Product) Name(language string) string {
	if language == constants.LanguageArabic && product.NameAr != "" {
		return product.NameAr
	}
	return product.NameEn
}

// InStock reports whether the product can be added to a cart.
func (product *Product) InStock(quantity int) bool {
	return product.IsActive && product.Stock >= quantity
}

// Category groups products for navigation.
type Category struct {
	ID            string     `json:"id"`
	Slug          string     `json:"slug"`
	NameEn        string     `json:"name_en"`
	NameAr        string     `json:"name_ar"`
	DescriptionEn string     `json:"description_en,omitempty"`
	DescriptionAr string     `json:"description_ar,omitempty"`
	ParentID      string     `json:"parent_id,omitempty"`
	Position      int        `json:"position"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	DeletedAt     *time.Time `json:"-"`
}

// Name returns the display name for the locale.
func (category *Category) Name(language string) string {
	if language == constants.LanguageArabic && category.NameAr != "" {
		return category.NameAr
	}
	return category.NameEn
}
