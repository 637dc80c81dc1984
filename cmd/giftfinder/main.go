// Command giftfinder is the terminal client for the gift service: search the
// catalog, narrow results by price, and manage the login session.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"golang.org/x/term"

	clientauth "github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/client/auth"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/client/filter"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/client/search"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/client/session"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/client/transport"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/config"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/errors"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/common/logger"
	"github.com/Dream-Pixels-Forge/santas-ai-gift-finder/internal/models"
)

const usage = `Usage: giftfinder <command> [flags]

Commands:
  search <query>   find gifts matching a free-text query
  login            sign in and store the session
  register         create an account
  logout           discard the stored session
  whoami           show the signed-in user

Search flags:
  -min <price>     minimum price (default 0)
  -max <price>     maximum price (default 500)
`

type app struct {
	search   *search.Controller
	auth     *clientauth.Service
	sessions *session.Store
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewStructured("error", "console")

	storage, err := session.NewFileStorage(cfg.Client.StateDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannot open state dir %s: %v\n", cfg.Client.StateDir, err)
		os.Exit(1)
	}
	sessions := session.NewStore(storage)

	exec := transport.NewExecutor(cfg.Client.BaseURL, config.GetDuration(cfg.Client.Timeout), sessions, log)
	a := &app{
		search:   search.NewController(exec, log),
		auth:     clientauth.NewService(exec, sessions, log),
		sessions: sessions,
	}

	ctx := context.Background()
	var runErr error
	switch os.Args[1] {
	case "search":
		runErr = a.runSearch(ctx, os.Args[2:])
	case "login":
		runErr = a.runLogin(ctx)
	case "register":
		runErr = a.runRegister(ctx)
	case "logout":
		a.auth.Logout()
		fmt.Println("Logged out.")
	case "whoami":
		runErr = a.runWhoami()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, errors.MessageOf(runErr))
		os.Exit(1)
	}
}

func (a *app) runSearch(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("search", flag.ExitOnError)
	min := flags.Float64("min", 0, "minimum price")
	max := flags.Float64("max", 500, "maximum price")
	flags.Parse(args)

	query := ""
	for i, arg := range flags.Args() {
		if i > 0 {
			query += " "
		}
		query += arg
	}

	criteria := &models.FilterCriteria{PriceRange: models.PriceRange{Min: *min, Max: *max}}
	if err := criteria.PriceRange.Validate(); err != nil {
		flags.Usage()
		return err
	}

	results, err := a.search.Submit(ctx, query)
	if err != nil {
		return err
	}

	filtered := filter.Filter(results, criteria)
	if len(filtered) == 0 {
		fmt.Println("No gifts found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tAGE\tPRICE")
	for _, l := range filtered {
		fmt.Fprintf(w, "%s\t%s\t%d+\t%s\n", l.Name, l.Category, l.AgeMin, formatPrices(l.Prices))
	}
	return w.Flush()
}

func formatPrices(prices []models.PriceQuote) string {
	if len(prices) == 0 {
		return "n/a"
	}
	out := ""
	for i, p := range prices {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s $%.2f", p.Retailer, p.Price)
	}
	return out
}

func (a *app) runLogin(ctx context.Context) error {
	username, password, err := promptCredentials()
	if err != nil {
		return err
	}
	user, err := a.auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s.\n", user.Username)
	return nil
}

func (a *app) runRegister(ctx context.Context) error {
	var email string
	fmt.Print("Email: ")
	if _, err := fmt.Scanln(&email); err != nil {
		return fmt.Errorf("read email: %w", err)
	}
	username, password, err := promptCredentials()
	if err != nil {
		return err
	}
	if err := a.auth.Register(ctx, username, email, password); err != nil {
		return err
	}
	fmt.Println("Account created. Run `giftfinder login` to sign in.")
	return nil
}

func (a *app) runWhoami() error {
	user, ok := a.auth.CurrentUser()
	if !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s (%s)\n", user.Username, user.Email)
	return nil
}

func promptCredentials() (string, string, error) {
	var username string
	fmt.Print("Username: ")
	if _, err := fmt.Scanln(&username); err != nil {
		return "", "", fmt.Errorf("read username: %w", err)
	}

	fmt.Print("Password: ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", "", fmt.Errorf("read password: %w", err)
	}
	return username, string(raw), nil
}
