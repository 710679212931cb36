// Command bookshop is the terminal storefront: browse the catalog,
// manage the cart, place and track orders, and run the admin back
// office against a bookstore backend.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"bookshop/internal/admin"
	"bookshop/internal/api"
	"bookshop/internal/auth"
	"bookshop/internal/cart"
	"bookshop/internal/catalog"
	"bookshop/internal/config"
	"bookshop/internal/mutate"
	"bookshop/internal/order"
	"bookshop/internal/session"
	"bookshop/internal/ui"
	"bookshop/internal/user"
)

func main() {
	cliApp := &cli.App{
		Name:  "bookshop",
		Usage: "bookstore client",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "answer yes to every confirmation"},
			&cli.StringFlag{Name: "api", Usage: "backend base URL (overrides BOOKSHOP_API_URL)"},
		},
		Commands: []*cli.Command{
			authCommand(),
			booksCommand(),
			categoriesCommand(),
			cartCommand(),
			ordersCommand(),
			adminCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// app wires every service to one session and one HTTP client.
type app struct {
	session *session.Session
	client  *api.Client
	notify  ui.Notifier

	auth        *auth.Service
	books       *catalog.Books
	categories  *catalog.Categories
	cart        *cart.Service
	orders      *order.Service
	adminOrders *admin.Orders
	revenue     *admin.Revenue
	users       *user.Service
}

func newApp(c *cli.Context) (*app, error) {
	cfg := config.Load()
	if base := c.String("api"); base != "" {
		cfg.BaseURL = base
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SessionFile), 0o700); err != nil {
		return nil, fmt.Errorf("session dir: %w", err)
	}
	sess, err := session.Open(session.NewStore(cfg.SessionFile))
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	notify := ui.ConsoleNotifier{W: os.Stderr}
	confirm := makeConfirm(c.Bool("yes"))
	client := api.New(cfg.BaseURL, sess, ui.NewSpinner(os.Stderr), cfg.Timeout, cfg.RPS)
	coord := mutate.New(notify, confirm)

	a := &app{
		session: sess,
		client:  client,
		notify:  notify,
		auth:    auth.New(client, sess, notify),
	}
	a.books = catalog.NewBooks(client, coord, notify, nil)
	a.categories = catalog.NewCategories(client, coord, notify, a.books.Cache().Items, nil)
	a.cart = cart.New(client, coord, notify, confirm, nil)
	a.orders = order.New(client, coord, notify, nil)
	a.adminOrders = admin.NewOrders(client, coord, notify, nil)
	a.revenue = admin.NewRevenue(client, notify)
	a.users = user.New(client, coord, notify, sess.Current, nil)
	return a, nil
}

func (a *app) requireAuth() error {
	if err := a.session.RequireAuth(); err != nil {
		return cli.Exit("please log in first (bookshop auth login)", 1)
	}
	return nil
}

func (a *app) requireAdmin() error {
	if err := a.session.RequireAdmin(); err != nil {
		if err == session.ErrForbidden {
			return cli.Exit("admin access required", 1)
		}
		return cli.Exit("please log in first (bookshop auth login)", 1)
	}
	return nil
}

// makeConfirm reads y/N answers from stdin, or approves everything when
// --yes was given.
func makeConfirm(assumeYes bool) ui.Confirm {
	if assumeYes {
		return func(string) bool { return true }
	}
	reader := bufio.NewReader(os.Stdin)
	return func(prompt string) bool {
		fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		return answer == "y" || answer == "yes"
	}
}
