package parsing

import (
	"strconv"
	"strings"
)

// Document is a single uploaded file to parse. The filename is used only
// for extension sniffing when the content type is missing or unhelpful.
type Document struct {
	Bytes       []byte
	Filename    string
	ContentType string
}

// Category is one of the fixed asset categories. The structuring model is
// asked to pick one, and anything it returns outside the set is coerced to
// CategoryOther.
type Category string

const (
	CategoryElectronics    Category = "Electronics"
	CategoryHomeAppliances Category = "Home Appliances"
	CategoryVehicles       Category = "Vehicles"
	CategoryFurniture      Category = "Furniture"
	CategoryTools          Category = "Tools & Equipment"
	CategoryJewelry        Category = "Jewelry"
	CategoryArt            Category = "Art & Collectibles"
	CategorySports         Category = "Sports & Recreation"
	CategoryOther          Category = "Other"
)

// Categories returns all valid categories in display order
func Categories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryHomeAppliances,
		CategoryVehicles,
		CategoryFurniture,
		CategoryTools,
		CategoryJewelry,
		CategoryArt,
		CategorySports,
		CategoryOther,
	}
}

// ParseCategory maps a model-supplied label onto the category set,
// ignoring case and surrounding whitespace. Unknown labels become Other.
func ParseCategory(s string) Category {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return CategoryOther
}

// Price is a currency-stripped amount. Models occasionally return prices
// as strings with currency symbols or thousands separators, so decoding is
// lenient: "$1,299.99" and 1299.99 both work.
type Price float64

// UnmarshalJSON implements json.Unmarshaler
func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*p = 0
		return nil
	}

	if strings.HasPrefix(s, `"`) {
		s = strings.Trim(s, `"`)
		s = stripCurrency(s)
		if s == "" {
			*p = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*p = Price(f)
	return nil
}

// stripCurrency keeps only the characters that can form a decimal number
func stripCurrency(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Record is the structured extraction result for one document. JSON keys
// match the wire format consumed by the asset tracker UI.
type Record struct {
	ItemName    string   `json:"item_name"`
	Price       Price    `json:"price"`
	Date        string   `json:"date"` // DD.MM.YYYY
	Vendor      string   `json:"vendor"`
	ModelNumber *string  `json:"model_number"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
}

// Result is the envelope returned to callers. Data is always a
// structurally valid Record regardless of Success; callers must check
// Success, not field shapes, to detect failure.
type Result struct {
	Success       bool   `json:"success"`
	Data          Record `json:"data"`
	ExtractedText string `json:"extracted_text,omitempty"`
	Error         string `json:"error,omitempty"`
}
