package domain

// Categories is the closed set of recipe types used to partition the home
// listing, in display order. A recipe whose Type matches none of these
// appears in no bucket.
var Categories = []string{
	"Appetizer",
	"Breads",
	"Soups",
	"Pasta & Sauces",
	"Entrées",
	"Veggies",
	"Cakes",
	"Pies",
	"Cookies",
}

// IsCategory reports whether t is one of the fixed category labels.
func IsCategory(t string) bool {
	for _, c := range Categories {
		if c == t {
			return true
		}
	}
	return false
}
