package recipes

import "github.com/danzh-dev/mealdex/internal/mealdb"

type CategoriesResponse struct {
	Categories []mealdb.Category `json:"categories"`
}
