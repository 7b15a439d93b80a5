package domain

// Types mirror the produce API response shapes. Prices arrive as decimal
// strings and are kept that way until a cart needs a numeric value.

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ProduceImage struct {
	ID      int64  `json:"id"`
	Image   string `json:"image"`
	AltText string `json:"alt_text,omitempty"`
}

type NutritionInfo struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

type HealthBenefit struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

type Produce struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Category      Category        `json:"category"`
	Description   string          `json:"description"`
	Price         string          `json:"price"`
	Seasonal      bool            `json:"seasonal"`
	StockQuantity int             `json:"stock_quantity"`
	Image         string          `json:"image"`
	Available     bool            `json:"available"`
	Badge         string          `json:"badge,omitempty"`
	OriginalPrice string          `json:"original_price,omitempty"`
	DeliveryTime  string          `json:"delivery_time,omitempty"`
	IsOrganic     bool            `json:"is_organic"`
	Rating        float64         `json:"rating"`
	ReviewCount   int             `json:"review_count"`
	Details       string          `json:"details,omitempty"`
	StorageTips   string          `json:"storage_tips,omitempty"`
	Images        []ProduceImage  `json:"images"`
	Nutrition     []NutritionInfo `json:"nutrition"`
	Benefits      []HealthBenefit `json:"benefits"`
}

type Testimonial struct {
	ID        int64   `json:"id"`
	Produce   Produce `json:"produce"`
	Rating    int     `json:"rating"`
	Comment   string  `json:"comment"`
	CreatedAt string  `json:"created_at"`
}

type Media struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Image       string `json:"image"`
	Description string `json:"description"`
}
