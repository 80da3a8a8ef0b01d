// Command mealdex-cli is a line-driven terminal client for browsing recipes
// against a running mealdex server. Plain input searches by name (debounced,
// like the web client); commands start with a colon.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/danzh-dev/mealdex/internal/client"
	"github.com/danzh-dev/mealdex/internal/client/searchctl"
	"github.com/danzh-dev/mealdex/internal/recipes"
)

const maxCategoriesShown = 5

func main() {
	serverURL := os.Getenv("MEALDEX_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	ctx := context.Background()

	api, err := client.New(serverURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	app := &app{api: api, out: os.Stdout}
	app.ctrl = searchctl.New(ctx, searchctl.DefaultDebounce, app.fetch, app.render)

	app.showCategories(ctx)
	app.ctrl.Refresh()
	app.loop(ctx, bufio.NewScanner(os.Stdin))
}

type app struct {
	api  *client.Client
	ctrl *searchctl.Controller[[]recipes.Recipe]
	out  *os.File
}

func (a *app) fetch(ctx context.Context, q searchctl.Query) ([]recipes.Recipe, error) {
	return a.api.Recipes(ctx, q.Text, q.Category)
}

func (a *app) render(q searchctl.Query, results []recipes.Recipe, err error) {
	if err != nil {
		fmt.Fprintf(a.out, "error fetching recipes: %v\n", err)
		return
	}
	if len(results) == 0 {
		fmt.Fprintln(a.out, "no recipes found matching your criteria")
		return
	}
	for _, r := range results {
		marker := " "
		if r.IsFavorite {
			marker = "*"
		}
		fmt.Fprintf(a.out, "%s %-6s %-40s %s\n", marker, r.ID, r.Name, r.Category)
	}
}

func (a *app) showCategories(ctx context.Context) {
	categories, err := a.api.Categories(ctx)
	if err != nil {
		fmt.Fprintf(a.out, "error fetching categories: %v\n", err)
		return
	}
	if len(categories) > maxCategoriesShown {
		categories = categories[:maxCategoriesShown]
	}
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	fmt.Fprintf(a.out, "categories: %s\n", strings.Join(names, ", "))
}

func (a *app) loop(ctx context.Context, scanner *bufio.Scanner) {
	for {
		fmt.Fprint(a.out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		if !strings.HasPrefix(line, ":") {
			// Every keystroke-equivalent updates the field; the controller
			// settles it after the debounce interval.
			a.ctrl.SetField(line)
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case ":quit", ":q":
			a.ctrl.Stop()
			return
		case ":clear":
			a.ctrl.Clear()
		case ":cat":
			category := ""
			if len(fields) > 1 {
				category = fields[1]
			}
			a.ctrl.SetCategory(category)
		case ":login":
			if len(fields) != 3 {
				fmt.Fprintln(a.out, "usage: :login <username> <password>")
				continue
			}
			user, err := a.api.Login(ctx, fields[1], fields[2])
			if err != nil {
				fmt.Fprintf(a.out, "login failed: %v\n", err)
				continue
			}
			fmt.Fprintf(a.out, "logged in as %s\n", user.Username)
			a.ctrl.Refresh()
		case ":logout":
			if err := a.api.Logout(ctx); err != nil {
				fmt.Fprintf(a.out, "logout failed: %v\n", err)
				continue
			}
			a.ctrl.Refresh()
		case ":me":
			user, err := a.api.Me(ctx)
			if err != nil {
				fmt.Fprintf(a.out, "error: %v\n", err)
				continue
			}
			fmt.Fprintf(a.out, "%s <%s> favorites=%d\n", user.Username, user.Email, len(user.FavoriteRecipeIDs))
		case ":favs":
			favorites, err := a.api.Favorites(ctx)
			if err != nil {
				fmt.Fprintf(a.out, "error: %v\n", err)
				continue
			}
			a.render(searchctl.Query{}, favorites, nil)
		case ":fav", ":unfav":
			if len(fields) != 2 {
				fmt.Fprintf(a.out, "usage: %s <recipe-id>\n", fields[0])
				continue
			}
			if err := a.api.SetFavorite(ctx, fields[1], fields[0] == ":fav"); err != nil {
				fmt.Fprintf(a.out, "error: %v\n", err)
				continue
			}
			a.ctrl.Refresh()
		default:
			fmt.Fprintln(a.out, "commands: :cat <name>, :clear, :login, :logout, :me, :favs, :fav <id>, :unfav <id>, :quit")
		}
	}
}
