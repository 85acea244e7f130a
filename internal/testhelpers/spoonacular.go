package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// FakeRecipe is a recipe served by the fake Spoonacular API. Nil nutrient
// fields are left out of the response.
type FakeRecipe struct {
	ID              int64
	Title           string
	PricePerServing float64
	Protein         *float64
	Calories        *float64
	Fat             *float64
	Carbohydrates   *float64
	Steps           []string
	Similar         []int64
}

// Spoonacular is an httptest server imitating the recipe endpoints used by
// the client. Search returns every recipe whose title contains the query.
type Spoonacular struct {
	*httptest.Server

	mu       sync.Mutex
	recipes  []FakeRecipe
	status   int
	header   http.Header
	body     string
	requests []*http.Request
}

// NewSpoonacular starts a fake API serving recipes.
func NewSpoonacular(t *testing.T, recipes ...FakeRecipe) *Spoonacular {
	t.Helper()
	s := &Spoonacular{recipes: recipes}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Fail makes every following request answer with status, header and body.
func (s *Spoonacular) Fail(status int, header http.Header, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status, s.header, s.body = status, header, body
}

// Requests returns the requests received so far.
func (s *Spoonacular) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func (s *Spoonacular) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r)
	status, header, body := s.status, s.header, s.body
	s.mu.Unlock()

	if status != 0 {
		for k, vs := range header {
			for _, v := range vs {
				w.Header().Add(k, v)
			}
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}

	switch {
	case r.URL.Path == "/recipes/complexSearch":
		s.search(w, r)
	case r.URL.Path == "/recipes/informationBulk":
		s.bulk(w, r)
	case strings.HasPrefix(r.URL.Path, "/recipes/") && strings.HasSuffix(r.URL.Path, "/similar"):
		s.similar(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Spoonacular) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("query"))
	n, _ := strconv.Atoi(r.URL.Query().Get("number"))

	results := []map[string]any{}
	for _, rec := range s.recipes {
		if n > 0 && len(results) == n {
			break
		}
		if strings.Contains(strings.ToLower(rec.Title), q) {
			results = append(results, rec.info())
		}
	}
	writeJSON(w, map[string]any{"results": results, "totalResults": len(results)})
}

func (s *Spoonacular) similar(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/recipes/"), "/similar")
	id, _ := strconv.ParseInt(idStr, 10, 64)

	out := []map[string]any{}
	for _, rec := range s.recipes {
		if rec.ID != id {
			continue
		}
		for _, sim := range rec.Similar {
			if other, ok := s.find(sim); ok {
				out = append(out, map[string]any{"id": other.ID, "title": other.Title})
			}
		}
	}
	writeJSON(w, out)
}

func (s *Spoonacular) bulk(w http.ResponseWriter, r *http.Request) {
	out := []map[string]any{}
	for _, raw := range strings.Split(r.URL.Query().Get("ids"), ",") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if rec, ok := s.find(id); ok {
			out = append(out, rec.info())
		}
	}
	writeJSON(w, out)
}

func (s *Spoonacular) find(id int64) (FakeRecipe, bool) {
	for _, rec := range s.recipes {
		if rec.ID == id {
			return rec, true
		}
	}
	return FakeRecipe{}, false
}

func (r FakeRecipe) info() map[string]any {
	nutrients := []map[string]any{}
	add := func(name, unit string, v *float64) {
		if v != nil {
			nutrients = append(nutrients, map[string]any{"name": name, "amount": *v, "unit": unit})
		}
	}
	add("Calories", "kcal", r.Calories)
	add("Fat", "g", r.Fat)
	add("Carbohydrates", "g", r.Carbohydrates)
	add("Protein", "g", r.Protein)
	add("Sugar", "g", F(3))

	steps := []map[string]any{}
	for i, s := range r.Steps {
		steps = append(steps, map[string]any{"number": i + 1, "step": s})
	}

	return map[string]any{
		"id":                   r.ID,
		"title":                r.Title,
		"image":                "https://img.spoonacular.com/recipes/" + strconv.FormatInt(r.ID, 10) + "-312x231.jpg",
		"pricePerServing":      r.PricePerServing,
		"nutrition":            map[string]any{"nutrients": nutrients},
		"analyzedInstructions": []map[string]any{{"name": "", "steps": steps}},
	}
}

// F returns a pointer to v.
func F(v float64) *float64 {
	return &v
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// SampleRecipes is a small catalogue with related recipes. Chickpea Curry
// has no fat value.
func SampleRecipes() []FakeRecipe {
	return []FakeRecipe{
		{ID: 101, Title: "Chicken Pasta", PricePerServing: 412.5, Protein: F(40), Calories: F(650), Fat: F(20), Carbohydrates: F(70),
			Steps: []string{"Boil pasta.", "Sear chicken."}, Similar: []int64{102, 103}},
		{ID: 102, Title: "Pesto Pasta", PricePerServing: 250, Protein: F(15), Calories: F(520), Fat: F(25), Carbohydrates: F(60),
			Steps: []string{"Boil pasta.", "Stir in pesto."}, Similar: []int64{101}},
		{ID: 103, Title: "Tuna Pasta Salad", PricePerServing: 300, Protein: F(32), Calories: F(480), Fat: F(14), Carbohydrates: F(50),
			Similar: []int64{101, 102}},
		{ID: 104, Title: "Chickpea Curry", PricePerServing: 199, Protein: F(18), Calories: F(430), Carbohydrates: F(55)},
	}
}
