package mealdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	mhttp "github.com/danzh-dev/mealdex/internal/http"
	"github.com/danzh-dev/mealdex/internal/log"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, mhttp.New(), nil, log.NullLogger())
}

func TestSearchByName(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.php" {
			t.Errorf("path = %q, want /search.php", r.URL.Path)
		}
		if got := r.URL.Query().Get("s"); got != "arrabiata" {
			t.Errorf("query s = %q, want %q", got, "arrabiata")
		}
		_, _ = w.Write([]byte(`{"meals":[{
			"idMeal":"52771",
			"strMeal":"Spicy Arrabiata Penne",
			"strCategory":"Vegetarian",
			"strArea":"Italian",
			"strInstructions":"Bring a large pot of water to a boil.",
			"strMealThumb":"https://example.com/penne.jpg",
			"strTags":"Pasta,Curry",
			"strYoutube":"https://youtube.com/watch?v=1IszT_guI08",
			"strIngredient1":"penne rigate",
			"strIngredient2":" olive oil ",
			"strIngredient3":"",
			"strIngredient4":null,
			"strMeasure1":"1 pound",
			"strMeasure2":"1/4 cup",
			"strSource":null
		}]}`))
	})

	meals, err := client.SearchByName(context.Background(), "arrabiata")
	if err != nil {
		t.Fatalf("SearchByName() error = %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("SearchByName() returned %d meals, want 1", len(meals))
	}

	meal := meals[0]
	if meal.ID != "52771" {
		t.Errorf("ID = %q, want %q", meal.ID, "52771")
	}
	if meal.Category != "Vegetarian" {
		t.Errorf("Category = %q, want %q", meal.Category, "Vegetarian")
	}
	if meal.SourceURL != "" {
		t.Errorf("SourceURL = %q, want empty", meal.SourceURL)
	}

	// Empty and null ingredient slots are dropped, values trimmed.
	want := []Ingredient{
		{Name: "penne rigate", Measure: "1 pound"},
		{Name: "olive oil", Measure: "1/4 cup"},
	}
	if len(meal.Ingredients) != len(want) {
		t.Fatalf("Ingredients = %v, want %v", meal.Ingredients, want)
	}
	for i := range want {
		if meal.Ingredients[i] != want[i] {
			t.Errorf("Ingredients[%d] = %v, want %v", i, meal.Ingredients[i], want[i])
		}
	}
}

func TestSearchByNameNoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The upstream's empty result is a literal null, not an empty array.
		_, _ = w.Write([]byte(`{"meals":null}`))
	})

	meals, err := client.SearchByName(context.Background(), "zzzzz")
	if err != nil {
		t.Fatalf("SearchByName() error = %v", err)
	}
	if len(meals) != 0 {
		t.Fatalf("SearchByName() = %v, want empty", meals)
	}
}

func TestFilterByCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/filter.php" {
			t.Errorf("path = %q, want /filter.php", r.URL.Path)
		}
		if got := r.URL.Query().Get("c"); got != "Seafood" {
			t.Errorf("query c = %q, want %q", got, "Seafood")
		}
		_, _ = w.Write([]byte(`{"meals":[
			{"idMeal":"52944","strMeal":"Escovitch Fish","strMealThumb":"https://example.com/fish.jpg"},
			{"idMeal":"52819","strMeal":"Cajun spiced fish tacos","strMealThumb":"https://example.com/tacos.jpg"}
		]}`))
	})

	stubs, err := client.FilterByCategory(context.Background(), "Seafood")
	if err != nil {
		t.Fatalf("FilterByCategory() error = %v", err)
	}
	if len(stubs) != 2 {
		t.Fatalf("FilterByCategory() returned %d stubs, want 2", len(stubs))
	}
	if stubs[0].ID != "52944" || stubs[0].Name != "Escovitch Fish" {
		t.Errorf("stubs[0] = %+v", stubs[0])
	}
}

func TestLookupByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/lookup.php" {
				t.Errorf("path = %q, want /lookup.php", r.URL.Path)
			}
			if got := r.URL.Query().Get("i"); got != "52771" {
				t.Errorf("query i = %q, want %q", got, "52771")
			}
			_, _ = w.Write([]byte(`{"meals":[{"idMeal":"52771","strMeal":"Spicy Arrabiata Penne"}]}`))
		})

		meal, err := client.LookupByID(context.Background(), "52771")
		if err != nil {
			t.Fatalf("LookupByID() error = %v", err)
		}
		if meal == nil || meal.Name != "Spicy Arrabiata Penne" {
			t.Fatalf("LookupByID() = %+v", meal)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"meals":null}`))
		})

		meal, err := client.LookupByID(context.Background(), "99999")
		if err != nil {
			t.Fatalf("LookupByID() error = %v", err)
		}
		if meal != nil {
			t.Fatalf("LookupByID() = %+v, want nil", meal)
		}
	})
}

func TestCategories(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories.php" {
			t.Errorf("path = %q, want /categories.php", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"categories":[{
			"idCategory":"1",
			"strCategory":"Beef",
			"strCategoryThumb":"https://example.com/beef.png",
			"strCategoryDescription":"Beef is the culinary name for meat from cattle."
		}]}`))
	})

	categories, err := client.Categories(context.Background())
	if err != nil {
		t.Fatalf("Categories() error = %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("Categories() returned %d categories, want 1", len(categories))
	}
	if categories[0].Name != "Beef" || categories[0].ID != "1" {
		t.Errorf("categories[0] = %+v", categories[0])
	}
}

func TestUpstreamErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	if _, err := client.SearchByName(context.Background(), "chicken"); err == nil {
		t.Error("SearchByName() error = nil, want error")
	}
}
