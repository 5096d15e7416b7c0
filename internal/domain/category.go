package domain

// ProductCategories lists the category values the backend accepts, in menu order.
var ProductCategories = []string{
	"appetizers",
	"main",
	"pasta",
	"seafood",
	"desserts",
	"beverages",
	"popular",
	"vegetables",
	"fruits",
	"dairy",
	"bakery",
	"meat",
	"grocery",
	"sauces",
	"oils",
	"snacks",
}

// DefaultProductCategory is preselected on a blank product form.
const DefaultProductCategory = "vegetables"

// IsProductCategory reports whether c is a known category.
func IsProductCategory(c string) bool {
	for _, known := range ProductCategories {
		if known == c {
			return true
		}
	}
	return false
}
