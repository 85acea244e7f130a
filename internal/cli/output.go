package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/pageza/smartmeal/backend/internal/model"
	"github.com/pageza/smartmeal/backend/internal/service"
)

// Format selects how command results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

func supportedFormats() []string {
	return []string{string(FormatTable), string(FormatJSON), string(FormatYAML)}
}

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format: %q", s)
}

// Printer renders service results. JSON and YAML output the values as is;
// tables are aligned with tabwriter.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{w: w, format: format}
}

func (p *Printer) structured(v any) (bool, error) {
	switch p.format {
	case FormatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return true, enc.Encode(v)
	case FormatYAML:
		// go through JSON so YAML keys follow the json tags of the API
		raw, err := json.Marshal(v)
		if err != nil {
			return true, err
		}
		var doc any
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return true, err
		}
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return true, err
		}
		return true, enc.Close()
	}
	return false, nil
}

func (p *Printer) table(header string, rows func(w io.Writer)) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

// Meals prints a list of meals.
func (p *Printer) Meals(meals []service.MealView) error {
	if ok, err := p.structured(meals); ok {
		return err
	}
	if len(meals) == 0 {
		_, err := fmt.Fprintln(p.w, "No meals found.")
		return err
	}
	return p.table("ID\tNAME\tRATING\tPRICE\tPROTEIN\tCALORIES", func(w io.Writer) {
		for _, m := range meals {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f\t%.0f\n",
				m.ID, m.Name, stars(m.Rating), money(m.Price, m.Currency),
				m.NutritionFacts[model.NutrientProtein], m.NutritionFacts[model.NutrientCalories])
		}
	})
}

// Meal prints one meal.
func (p *Printer) Meal(m *service.MealView) error {
	if ok, err := p.structured(m); ok {
		return err
	}
	return p.table("FIELD\tVALUE", func(w io.Writer) {
		fmt.Fprintf(w, "id\t%s\n", m.ID)
		fmt.Fprintf(w, "name\t%s\n", m.Name)
		if m.ImageURL != "" {
			fmt.Fprintf(w, "image\t%s\n", m.ImageURL)
		}
		fmt.Fprintf(w, "rating\t%s\n", stars(m.Rating))
		fmt.Fprintf(w, "price\t%s\n", money(m.Price, m.Currency))
		for _, key := range model.NutrientNames {
			fmt.Fprintf(w, "%s\t%.1f\n", key, m.NutritionFacts[key])
		}
	})
}

// Nutrition prints a nutrition panel.
func (p *Printer) Nutrition(n *service.NutritionFacts) error {
	if ok, err := p.structured(n); ok {
		return err
	}
	err := p.table("NUTRIENT\tAMOUNT", func(w io.Writer) {
		for _, key := range model.NutrientNames {
			fmt.Fprintf(w, "%s\t%.1f\n", key, n.Facts[key])
		}
		b := n.Breakdown
		fmt.Fprintf(w, "protein share\t%.0f%%\n", b.ProteinPercent)
		fmt.Fprintf(w, "carbohydrate share\t%.0f%%\n", b.CarbohydratePercent)
		fmt.Fprintf(w, "fat share\t%.0f%%\n", b.FatPercent)
	})
	if err != nil || len(n.Missing) == 0 {
		return err
	}
	_, err = fmt.Fprintf(p.w, "missing upstream data: %v\n", n.Missing)
	return err
}

// Price prints a price quote.
func (p *Printer) Price(q *service.PriceQuote) error {
	if ok, err := p.structured(q); ok {
		return err
	}
	return p.table("BASE\tRATING\tMULTIPLIER\tPRICE", func(w io.Writer) {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n",
			money(q.BasePrice, q.Currency), stars(q.Rating), q.Multiplier, money(q.Price, q.Currency))
	})
}

// Pricing prints the multiplier table.
func (p *Printer) Pricing(t service.PricingTable) error {
	if ok, err := p.structured(t); ok {
		return err
	}
	return p.table("STARS\tMULTIPLIER", func(w io.Writer) {
		for _, r := range t.Ratings() {
			fmt.Fprintf(w, "%d\t%.2f\n", r, t[r])
		}
	})
}

// Dish prints the dish of the day.
func (p *Printer) Dish(d *service.DishOfTheDay) error {
	if ok, err := p.structured(d); ok {
		return err
	}
	return p.scores([]service.DishOfTheDay{*d})
}

// Ranked prints every rated meal with its score.
func (p *Printer) Ranked(ranked []service.DishOfTheDay) error {
	if ok, err := p.structured(ranked); ok {
		return err
	}
	return p.scores(ranked)
}

func (p *Printer) scores(ranked []service.DishOfTheDay) error {
	return p.table("NAME\tRATING\tPRICE\tCALORIES\tSCORE", func(w io.Writer) {
		for _, d := range ranked {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%.2f\n",
				d.Meal.Name, stars(d.Meal.Rating), money(d.Meal.Price, d.Meal.Currency),
				d.Meal.NutritionFacts[model.NutrientCalories], d.Score)
		}
	})
}

// Message prints a short status line, or {key: value} for structured formats.
func (p *Printer) Message(key, value string) error {
	if ok, err := p.structured(map[string]string{key: value}); ok {
		return err
	}
	_, err := fmt.Fprintln(p.w, value)
	return err
}

func stars(rating *int) string {
	if rating == nil {
		return "-"
	}
	return strconv.Itoa(*rating)
}

func money(v float64, currency string) string {
	return fmt.Sprintf("%.2f %s", v, currency)
}
