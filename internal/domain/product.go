package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coordinates is a geocoded point; stored as [longitude, latitude].
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type Location struct {
	Address     string       `json:"address"`
	City        string       `json:"city"`
	State       string       `json:"state"`
	Country     string       `json:"country"`
	PostalCode  string       `json:"postalCode"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Product is a rental listing.
type Product struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Slug              string          `json:"slug"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	SecurityDeposit   decimal.Decimal `json:"securityDeposit"`
	ApplicationFee    decimal.Decimal `json:"applicationFee"`
	Beds              int             `json:"beds"`
	Baths             int             `json:"baths"`
	SquareFeet        int             `json:"squareFeet"`
	ImageURLs         []string        `json:"imageUrls"`
	Amenities         string          `json:"amenities"`
	Highlights        string          `json:"highlights"`
	PropertyType      string          `json:"propertyType"`
	Category          string          `json:"category"`
	Brand             string          `json:"brand"`
	Stock             int             `json:"stock"`
	IsPetsAllowed     bool            `json:"isPetsAllowed"`
	IsParkingIncluded bool            `json:"isParkingIncluded"`
	IsActive          bool            `json:"isActive"`
	LandlordID        uuid.UUID       `json:"landlord"`
	AverageRating     float64         `json:"averageRating"`
	RatingCount       int             `json:"ratingCount"`
	NumberOfReviews   int             `json:"numberOfReviews"`
	Location          Location        `json:"location"`
	KeyFeatures       []string        `json:"keyFeatures"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

var nonWordChars = regexp.MustCompile(`[^\w-]+`)

// Slugify lowercases name, turns spaces into hyphens and strips every
// character that is neither a word character nor a hyphen.
func Slugify(name string) string {
	s := strings.ReplaceAll(strings.ToLower(name), " ", "-")
	return nonWordChars.ReplaceAllString(s, "")
}

// Validate checks the listing's field constraints.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return InvalidInput("product name is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		return InvalidInput("product description is required")
	}
	for field, v := range map[string]decimal.Decimal{
		"price":           p.Price,
		"securityDeposit": p.SecurityDeposit,
		"applicationFee":  p.ApplicationFee,
	} {
		if v.IsNegative() {
			return InvalidInput("%s must be >= 0", field)
		}
	}
	if p.Beds < 0 || p.Baths < 0 || p.SquareFeet < 0 || p.Stock < 0 {
		return InvalidInput("beds, baths, squareFeet and stock must be >= 0")
	}
	if len(p.ImageURLs) == 0 {
		return InvalidInput("product images are required")
	}
	if p.AverageRating < 0 || p.AverageRating > 5 {
		return InvalidInput("averageRating must be between 0 and 5")
	}
	l := p.Location
	if l.Address == "" || l.City == "" || l.State == "" || l.Country == "" || l.PostalCode == "" {
		return InvalidInput("address, city, state, country and postalCode are required")
	}
	return nil
}

// ProductView is a product as returned by queries: the stored listing plus
// the display-only offer price derived from an active flash sale.
type ProductView struct {
	Product
	OfferPrice *decimal.Decimal `json:"offerPrice"`
}

// TrendingProduct is one row of the trending aggregation.
type TrendingProduct struct {
	ProductID  uuid.UUID        `json:"productId"`
	OrderCount int64            `json:"orderCount"`
	Name       string           `json:"name"`
	Price      decimal.Decimal  `json:"price"`
	OfferPrice *decimal.Decimal `json:"offer"`
	ImageURLs  []string         `json:"imageUrls"`
}

// ProductPatch carries the fields of a partial product update; nil fields
// are left unchanged. The slug is not patchable.
type ProductPatch struct {
	Name              *string          `json:"name"`
	Description       *string          `json:"description"`
	Price             *decimal.Decimal `json:"price"`
	SecurityDeposit   *decimal.Decimal `json:"securityDeposit"`
	ApplicationFee    *decimal.Decimal `json:"applicationFee"`
	Beds              *int             `json:"beds"`
	Baths             *int             `json:"baths"`
	SquareFeet        *int             `json:"squareFeet"`
	Stock             *int             `json:"stock"`
	ImageURLs         []string         `json:"imageUrls"`
	Amenities         *string          `json:"amenities"`
	Highlights        *string          `json:"highlights"`
	PropertyType      *string          `json:"propertyType"`
	Category          *string          `json:"category"`
	Brand             *string          `json:"brand"`
	IsPetsAllowed     *bool            `json:"isPetsAllowed"`
	IsParkingIncluded *bool            `json:"isParkingIncluded"`
	IsActive          *bool            `json:"isActive"`
	Location          *Location        `json:"location"`
	KeyFeatures       []string         `json:"keyFeatures"`
}

// Apply copies every set field onto p.
func (pp ProductPatch) Apply(p *Product) {
	setString(&p.Name, pp.Name)
	setString(&p.Description, pp.Description)
	setString(&p.Amenities, pp.Amenities)
	setString(&p.Highlights, pp.Highlights)
	setString(&p.PropertyType, pp.PropertyType)
	setString(&p.Category, pp.Category)
	setString(&p.Brand, pp.Brand)
	for dst, src := range map[*decimal.Decimal]*decimal.Decimal{
		&p.Price:           pp.Price,
		&p.SecurityDeposit: pp.SecurityDeposit,
		&p.ApplicationFee:  pp.ApplicationFee,
	} {
		if src != nil {
			*dst = *src
		}
	}
	for dst, src := range map[*int]*int{&p.Beds: pp.Beds, &p.Baths: pp.Baths, &p.SquareFeet: pp.SquareFeet, &p.Stock: pp.Stock} {
		if src != nil {
			*dst = *src
		}
	}
	for dst, src := range map[*bool]*bool{
		&p.IsPetsAllowed:     pp.IsPetsAllowed,
		&p.IsParkingIncluded: pp.IsParkingIncluded,
		&p.IsActive:          pp.IsActive,
	} {
		if src != nil {
			*dst = *src
		}
	}
	if len(pp.ImageURLs) > 0 {
		p.ImageURLs = pp.ImageURLs
	}
	if pp.KeyFeatures != nil {
		p.KeyFeatures = pp.KeyFeatures
	}
	if pp.Location != nil {
		p.Location = *pp.Location
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
