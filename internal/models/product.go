package models

import (
	"time"
)

type ProductCategory string

const (
	CategoryGlasses     ProductCategory = "glasses"
	CategoryShoes       ProductCategory = "shoes"
	CategoryHats        ProductCategory = "hats"
	CategoryAccessories ProductCategory = "accessories"
)

func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryGlasses, CategoryShoes, CategoryHats, CategoryAccessories:
		return true
	}
	return false
}

// Product is an immutable catalog value; only the catalog collaborator
// creates or updates these documents.
type Product struct {
	ID          ObjectID        `bson:"_id,omitempty" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Description *string         `bson:"description,omitempty" json:"description,omitempty"`
	Price       Decimal         `bson:"price" json:"price"`
	Category    ProductCategory `bson:"category" json:"category"`
	ImageURL    *string         `bson:"image_url,omitempty" json:"image_url,omitempty"`
	AREnabled   bool            `bson:"ar_enabled" json:"ar_enabled"`
	Rating      *float64        `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt   time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at" json:"updated_at"`
}

func (Product) CollectionName() string {
	return "products"
}
