package mealdb

import (
	"fmt"
	"strings"
)

// Upstream meal records spread ingredients over twenty numbered
// strIngredientN/strMeasureN string fields, padded with empty strings or
// nulls. maxIngredientSlots is fixed by the upstream API.
const maxIngredientSlots = 20

type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// Meal is a fully-populated upstream recipe, reshaped into a sane JSON
// surface for our own API responses.
type Meal struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Area         string       `json:"area"`
	Instructions string       `json:"instructions"`
	Thumbnail    string       `json:"thumbnailUrl"`
	Tags         string       `json:"tags,omitempty"`
	YoutubeURL   string       `json:"youtubeUrl,omitempty"`
	SourceURL    string       `json:"sourceUrl,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
}

// MealStub is the minimal record returned by the category filter endpoint.
type MealStub struct {
	ID        string `json:"idMeal"`
	Name      string `json:"strMeal"`
	Thumbnail string `json:"strMealThumb"`
}

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Thumbnail   string `json:"thumbnailUrl"`
	Description string `json:"description"`
}

// mealPayload holds a raw upstream meal object. Every upstream field is a
// string or null.
type mealPayload map[string]*string

func (p mealPayload) get(key string) string {
	if v := p[key]; v != nil {
		return strings.TrimSpace(*v)
	}
	return ""
}

func (p mealPayload) meal() Meal {
	m := Meal{
		ID:           p.get("idMeal"),
		Name:         p.get("strMeal"),
		Category:     p.get("strCategory"),
		Area:         p.get("strArea"),
		Instructions: p.get("strInstructions"),
		Thumbnail:    p.get("strMealThumb"),
		Tags:         p.get("strTags"),
		YoutubeURL:   p.get("strYoutube"),
		SourceURL:    p.get("strSource"),
	}

	for i := 1; i <= maxIngredientSlots; i++ {
		name := p.get(fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		m.Ingredients = append(m.Ingredients, Ingredient{
			Name:    name,
			Measure: p.get(fmt.Sprintf("strMeasure%d", i)),
		})
	}
	return m
}

type categoryPayload struct {
	ID          string `json:"idCategory"`
	Name        string `json:"strCategory"`
	Thumbnail   string `json:"strCategoryThumb"`
	Description string `json:"strCategoryDescription"`
}

func (p categoryPayload) category() Category {
	return Category(p)
}
