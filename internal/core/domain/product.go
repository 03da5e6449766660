package domain

// ProductStatus is the lifecycle state the catalog stores on a product.
type ProductStatus string

const (
	ProductActive      ProductStatus = "active"
	ProductInactive    ProductStatus = "inactive"
	ProductDraft       ProductStatus = "draft"
	ProductOutOfStock  ProductStatus = "out of stock"
	ProductDiscontinue ProductStatus = "discontinued"
)

// Product is a catalog item as the upstream API serializes it.
type Product struct {
	ID          string        `json:"_id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	SKU         string        `json:"sku"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price"`
	FinalPrice  float64       `json:"finalPrice,omitempty"`
	Discount    float64       `json:"discount,omitempty"`
	Quantity    int           `json:"quantity"`
	Sold        int           `json:"sold,omitempty"`
	Status      ProductStatus `json:"status"`
	Featured    bool          `json:"featured,omitempty"`
	Category    *CategoryRef  `json:"category,omitempty"`
	Images      []Image       `json:"images,omitempty"`
	Color       []string      `json:"color,omitempty"`
	Size        []string      `json:"size,omitempty"`
	Rating      float64       `json:"rating,omitempty"`
	Reviews     int           `json:"reviews,omitempty"`
	CreatedAt   string        `json:"createdAt,omitempty"`
	UpdatedAt   string        `json:"updatedAt,omitempty"`
}

// CategoryRef is the populated category stub embedded on a product.
type CategoryRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Image is an uploaded asset reference.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
	Alt      string `json:"alt,omitempty"`
}
