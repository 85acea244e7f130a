package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/pageza/smartmeal/backend/internal/service"
)

var filterFlags = []struct {
	name  string
	usage string
}{
	{"min-protein", "Minimum protein per serving in grams"},
	{"max-protein", "Maximum protein per serving in grams"},
	{"min-calories", "Minimum calories per serving"},
	{"max-calories", "Maximum calories per serving"},
}

func (r *runner) searchCmd() *cli.Command {
	flags := make([]cli.Flag, 0, len(filterFlags)+1)
	for _, f := range filterFlags {
		flags = append(flags, &cli.FloatFlag{Name: f.name, Usage: f.usage})
	}
	flags = append(flags, &cli.IntFlag{
		Name:    "number",
		Aliases: []string{"n"},
		Usage:   fmt.Sprintf("Number of results (0 uses the configured default, at most %d)", service.MaxSearchNumber),
	})

	return &cli.Command{
		Name:      "search",
		Usage:     "Search recipes and store the results",
		ArgsUsage: "QUERY...",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			query := strings.Join(cmd.Args().Slice(), " ")
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			found, err := meals.Search(ctx, query, buildFiltersFromCmd(cmd))
			if err != nil {
				return err
			}
			return r.printer(cmd).Meals(found)
		},
	}
}

// buildFiltersFromCmd reads the nutrition thresholds. Unset flags stay nil
// so they are not sent upstream.
func buildFiltersFromCmd(cmd *cli.Command) service.SearchFilters {
	f := service.SearchFilters{Number: cmd.Int("number")}
	targets := map[string]**float64{
		"min-protein":  &f.MinProtein,
		"max-protein":  &f.MaxProtein,
		"min-calories": &f.MinCalories,
		"max-calories": &f.MaxCalories,
	}
	for name, target := range targets {
		if cmd.IsSet(name) {
			v := cmd.Float(name)
			*target = &v
		}
	}
	return f
}

func (r *runner) listCmd() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List stored meals in the order they were found",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "rated", Usage: "Only list rated meals"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			list, err := meals.List(ctx, cmd.Bool("rated"))
			if err != nil {
				return err
			}
			return r.printer(cmd).Meals(list)
		},
	}
}

func (r *runner) showCmd() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a meal and its nutrition panel",
		ArgsUsage: "MEAL_ID",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := mealIDArg(cmd)
			if err != nil {
				return err
			}
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			facts, err := meals.Nutrition(ctx, id)
			if err != nil {
				return err
			}
			if cmd.String("format") != string(FormatTable) {
				return r.printer(cmd).Nutrition(facts)
			}
			meal, err := meals.Get(ctx, id)
			if err != nil {
				return err
			}
			p := r.printer(cmd)
			if err := p.Meal(meal); err != nil {
				return err
			}
			fmt.Fprintln(r.out)
			return p.Nutrition(facts)
		},
	}
}

func (r *runner) rateCmd() *cli.Command {
	return &cli.Command{
		Name:      "rate",
		Usage:     "Rate a meal from 1 to 5 stars",
		ArgsUsage: "MEAL_ID STARS",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 2 {
				return fmt.Errorf("rate expects MEAL_ID and STARS, got %d arguments", cmd.Args().Len())
			}
			stars, err := strconv.Atoi(cmd.Args().Get(1))
			if err != nil {
				return fmt.Errorf("invalid star count %q: %w", cmd.Args().Get(1), err)
			}
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			meal, err := meals.Rate(ctx, cmd.Args().First(), stars)
			if err != nil {
				return err
			}
			return r.printer(cmd).Meal(meal)
		},
	}
}

func (r *runner) priceCmd() *cli.Command {
	return &cli.Command{
		Name:      "price",
		Usage:     "Show how the price of a meal is derived",
		ArgsUsage: "MEAL_ID",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := mealIDArg(cmd)
			if err != nil {
				return err
			}
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			quote, err := meals.Price(ctx, id)
			if err != nil {
				return err
			}
			return r.printer(cmd).Price(quote)
		},
	}
}

func (r *runner) pricingCmd() *cli.Command {
	return &cli.Command{
		Name:  "pricing",
		Usage: "Show the rating to price multiplier table",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			return r.printer(cmd).Pricing(meals.PricingTable())
		},
	}
}

func (r *runner) favoriteCmd() *cli.Command {
	return &cli.Command{
		Name:      "favorite",
		Usage:     "Add a meal to the favorites",
		ArgsUsage: "MEAL_ID",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := mealIDArg(cmd)
			if err != nil {
				return err
			}
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			meal, err := meals.Favorite(ctx, id)
			if err != nil {
				return err
			}
			return r.printer(cmd).Message("favorite", meal.Name)
		},
	}
}

func (r *runner) unfavoriteCmd() *cli.Command {
	return &cli.Command{
		Name:      "unfavorite",
		Usage:     "Remove a meal from the favorites",
		ArgsUsage: "MEAL_ID",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			id, err := mealIDArg(cmd)
			if err != nil {
				return err
			}
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			if err := meals.Unfavorite(ctx, id); err != nil {
				return err
			}
			return r.printer(cmd).Message("removed", id)
		},
	}
}

func (r *runner) favoritesCmd() *cli.Command {
	return &cli.Command{
		Name:  "favorites",
		Usage: "List favorite meals",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			favs, err := meals.Favorites(ctx)
			if err != nil {
				return err
			}
			return r.printer(cmd).Meals(favs)
		},
	}
}

func (r *runner) surpriseCmd() *cli.Command {
	return &cli.Command{
		Name:  "surprise",
		Usage: "Suggest a new meal similar to one of the favorites",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			meal, err := meals.Surprise(ctx)
			if err != nil {
				return err
			}
			return r.printer(cmd).Meal(meal)
		},
	}
}

func (r *runner) topCmd() *cli.Command {
	return &cli.Command{
		Name:    "top",
		Aliases: []string{"dish-of-the-day"},
		Usage:   "Show the best rated meal weighed against price and calories",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "all", Usage: "List every rated meal with its score, best first"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			if cmd.Bool("all") {
				ranked, err := meals.RankedMeals(ctx)
				if err != nil {
					return err
				}
				return r.printer(cmd).Ranked(ranked)
			}
			dish, err := meals.DishOfTheDay(ctx)
			if err != nil {
				return err
			}
			return r.printer(cmd).Dish(dish)
		},
	}
}

func (r *runner) exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Upload the rated meal overview to the configured S3 bucket",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			meals, err := r.meals(ctx, cmd)
			if err != nil {
				return err
			}
			key, err := meals.ExportOverview(ctx)
			if err != nil {
				return err
			}
			return r.printer(cmd).Message("key", key)
		},
	}
}

func mealIDArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() != 1 {
		return "", fmt.Errorf("%s expects a single MEAL_ID, got %d arguments", cmd.Name, cmd.Args().Len())
	}
	return cmd.Args().First(), nil
}
