package mongodb

import (
	"time"

	"github.com/trynbuy/storefront/internal/models"
	"github.com/trynbuy/storefront/pkg/util"
)

func defaultCatalog() []models.Product {
	now := time.Now()
	mk := func(name, desc, price string, category models.ProductCategory, image string, ar bool, rating float64) models.Product {
		return models.Product{
			Name:        name,
			Description: util.Ptr(desc),
			Price:       models.MustDecimal(price),
			Category:    category,
			ImageURL:    util.Ptr(image),
			AREnabled:   ar,
			Rating:      util.Ptr(rating),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	return []models.Product{
		mk("Aviator Classic", "Timeless gold-frame aviators with polarized lenses", "129.99", models.CategoryGlasses, "/images/aviator-classic.jpg", true, 4.8),
		mk("Urban Round", "Matte-black round frames for everyday wear", "89.50", models.CategoryGlasses, "/images/urban-round.jpg", true, 4.5),
		mk("Retro Wayfare", "Acetate frames with a vintage profile", "74.00", models.CategoryGlasses, "/images/retro-wayfare.jpg", true, 4.2),
		mk("Street Runner", "Lightweight knit runners with cushioned sole", "149.00", models.CategoryShoes, "/images/street-runner.jpg", true, 4.6),
		mk("Court Classic", "Low-top leather sneakers in off-white", "119.00", models.CategoryShoes, "/images/court-classic.jpg", true, 4.4),
		mk("Trail Blazer", "All-terrain hikers with waterproof membrane", "189.99", models.CategoryShoes, "/images/trail-blazer.jpg", false, 4.7),
		mk("Panama Weave", "Hand-woven straw hat with ribbon band", "59.00", models.CategoryHats, "/images/panama-weave.jpg", true, 4.3),
		mk("City Snapback", "Structured snapback with embroidered logo", "34.99", models.CategoryHats, "/images/city-snapback.jpg", true, 4.1),
		mk("Luxe Chrono", "Stainless chronograph with sapphire glass", "299.00", models.CategoryAccessories, "/images/luxe-chrono.jpg", true, 4.9),
		mk("Leather Fold", "Full-grain bifold wallet", "49.50", models.CategoryAccessories, "/images/leather-fold.jpg", false, 4.0),
	}
}
