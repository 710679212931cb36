package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"bookshop/internal/entity"
	"bookshop/internal/render"
	"bookshop/internal/viewcache"
)

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "log in, register, log out",
		Subcommands: []*cli.Command{
			{
				Name:      "login",
				Usage:     "log in with email and password",
				ArgsUsage: "<email>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					email := c.Args().First()
					if email == "" {
						return cli.Exit("usage: bookshop auth login <email>", 1)
					}
					password, err := readPassword("password: ")
					if err != nil {
						return err
					}
					return a.auth.Login(c.Context, email, password)
				},
			},
			{
				Name:      "register",
				Usage:     "create an account",
				ArgsUsage: "<username> <email>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if c.NArg() < 2 {
						return cli.Exit("usage: bookshop auth register <username> <email>", 1)
					}
					password, err := readPassword("password: ")
					if err != nil {
						return err
					}
					confirmPassword, err := readPassword("confirm password: ")
					if err != nil {
						return err
					}
					return a.auth.Register(c.Context, entity.RegisterInput{
						Username:        c.Args().Get(0),
						Email:           c.Args().Get(1),
						Password:        password,
						ConfirmPassword: confirmPassword,
					})
				},
			},
			{
				Name:  "logout",
				Usage: "end the session",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					return a.auth.Logout(c.Context)
				},
			},
			{
				Name:      "redirect",
				Usage:     "finish an OAuth sign-in from the redirect URL",
				ArgsUsage: "<url>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if c.NArg() < 1 {
						return cli.Exit("usage: bookshop auth redirect <url>", 1)
					}
					return a.auth.ConsumeOAuthRedirect(c.Args().First())
				},
			},
			{
				Name:  "whoami",
				Usage: "show the current identity",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.auth.Verify(c.Context); err != nil {
						return err
					}
					u := a.session.Current()
					fmt.Printf("%s <%s> (%s)\n", u.Username, u.Email, u.Role)
					if exp, ok := a.session.ExpiresAt(); ok {
						fmt.Printf("session expires %s\n", exp.Format("2006-01-02 15:04"))
					}
					return nil
				},
			},
		},
	}
}

func booksCommand() *cli.Command {
	return &cli.Command{
		Name:  "books",
		Usage: "browse and manage the catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list books",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "filter by category id, 'all' clears"},
					&cli.StringFlag{Name: "sort", Usage: "price-asc, price-desc, name-asc, name-desc"},
					&cli.StringFlag{Name: "search", Usage: "keyword search"},
					&cli.IntFlag{Name: "page", Usage: "page number (1-based)", Value: 1},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.books.Refresh(c.Context); err != nil {
						return err
					}
					if keyword := c.String("search"); keyword != "" {
						// fallback filtering already applied on failure
						_ = a.books.Search(c.Context, keyword)
					}
					if category := c.String("category"); category != "" {
						a.books.FilterByCategory(category)
					}
					a.books.Sort(viewcache.SortKey(c.String("sort")))
					if page := c.Int("page"); page > 1 {
						if err := a.books.Cache().SetPage(c.Context, page-1); err != nil {
							return err
						}
					}
					bc := a.books.Cache()
					render.Fprint(os.Stdout, render.Books(bc.Current(), bc.Loaded(), bc.Page(), bc.TotalPages()))
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "show one book",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					var book entity.Book
					if err := a.client.Get(c.Context, "/books/"+c.Args().First(), &book); err != nil {
						return err
					}
					render.Fprint(os.Stdout, render.BookDetail(book))
					return nil
				},
			},
			{
				Name:  "create",
				Usage: "add a book (admin)",
				Flags: bookInputFlags(),
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					input, err := bookInputFromFlags(c)
					if err != nil {
						return err
					}
					return a.books.Create(c.Context, input)
				},
			},
			{
				Name:      "update",
				Usage:     "update a book (admin)",
				ArgsUsage: "<id>",
				Flags:     bookInputFlags(),
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					input, err := bookInputFromFlags(c)
					if err != nil {
						return err
					}
					return a.books.Update(c.Context, c.Args().First(), input)
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a book (admin)",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					if err := a.books.Refresh(c.Context); err != nil {
						return err
					}
					return a.books.Delete(c.Context, c.Args().First())
				},
			},
		},
	}
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "browse and manage categories",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list categories",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.categories.Refresh(c.Context); err != nil {
						return err
					}
					_ = a.books.Refresh(c.Context)
					books := a.books.Cache().Items()
					count := func(cat entity.Category) int {
						n := 0
						for _, b := range books {
							if b.CategoryID == cat.ID || b.CategoryName == cat.Name {
								n++
							}
						}
						return n
					}
					cc := a.categories.Cache()
					render.Fprint(os.Stdout, render.Categories(cc.All(), cc.Loaded(), count))
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "add a category (admin)",
				ArgsUsage: "<name>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					if err := a.categories.Refresh(c.Context); err != nil {
						return err
					}
					return a.categories.Create(c.Context, entity.CategoryInput{Name: c.Args().First()})
				},
			},
			{
				Name:      "rename",
				Usage:     "rename a category (admin)",
				ArgsUsage: "<id> <name>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					if c.NArg() < 2 {
						return cli.Exit("usage: bookshop categories rename <id> <name>", 1)
					}
					if err := a.categories.Refresh(c.Context); err != nil {
						return err
					}
					return a.categories.Rename(c.Context, c.Args().Get(0), entity.CategoryInput{Name: c.Args().Get(1)})
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a category (admin)",
				ArgsUsage: "<id>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					if err := a.categories.Refresh(c.Context); err != nil {
						return err
					}
					_ = a.books.Refresh(c.Context)
					return a.categories.Delete(c.Context, c.Args().First())
				},
			},
		},
	}
}

func cartCommand() *cli.Command {
	return &cli.Command{
		Name:  "cart",
		Usage: "manage the shopping cart",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "show the cart",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAuth(); err != nil {
						return err
					}
					if err := a.cart.Fetch(c.Context); err != nil {
						return err
					}
					render.Fprint(os.Stdout, render.CartView(a.cart.Cart(), a.cart.Loaded()))
					return nil
				},
			},
			{
				Name:      "add",
				Usage:     "add a book to the cart",
				ArgsUsage: "<bookID>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "qty", Value: 1, Usage: "quantity to add"},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAuth(); err != nil {
						return err
					}
					return a.cart.Add(c.Context, c.Args().First(), c.Int("qty"))
				},
			},
			{
				Name:      "qty",
				Usage:     "change an item's quantity by a delta",
				ArgsUsage: "<bookID> <delta>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAuth(); err != nil {
						return err
					}
					if c.NArg() < 2 {
						return cli.Exit("usage: bookshop cart qty <bookID> <delta>", 1)
					}
					var delta int
					if _, err := fmt.Sscanf(c.Args().Get(1), "%d", &delta); err != nil {
						return cli.Exit("delta must be an integer", 1)
					}
					if err := a.cart.Fetch(c.Context); err != nil {
						return err
					}
					return a.cart.UpdateQuantity(c.Context, c.Args().Get(0), delta)
				},
			},
			{
				Name:      "remove",
				Usage:     "remove a book from the cart",
				ArgsUsage: "<bookID>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAuth(); err != nil {
						return err
					}
					if err := a.cart.Fetch(c.Context); err != nil {
						return err
					}
					return a.cart.Remove(c.Context, c.Args().First())
				},
			},
			{
				Name:  "checkout",
				Usage: "place an order for the cart",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAuth(); err != nil {
						return err
					}
					if err := a.cart.Fetch(c.Context); err != nil {
						return err
					}
					if err := a.cart.Checkout(c.Context); err != nil {
						return err
					}
					if o := a.cart.LastOrder(); o != nil {
						render.Fprint(os.Stdout, render.OrderDetail(*o))
					}
					return nil
				},
			},
		},
	}
}

func ordersCommand() *cli.Command {
	return &cli.Command{
		Name:  "orders",
		Usage: "view order history",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list past orders",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1, Usage: "page number (1-based)"},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAuth(); err != nil {
						return err
					}
					if err := a.orders.SetPage(c.Context, c.Int("page")-1); err != nil {
						return err
					}
					oc := a.orders.Cache()
					render.Fprint(os.Stdout, render.Orders(oc.Current(), oc.Loaded(), oc.Page(), oc.TotalPages()))
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "show one order",
				ArgsUsage: "<orderID>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAuth(); err != nil {
						return err
					}
					o, err := a.orders.Detail(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					render.Fprint(os.Stdout, render.OrderDetail(o))
					return nil
				},
			},
			{
				Name:      "received",
				Usage:     "mark an order as received",
				ArgsUsage: "<orderID>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAuth(); err != nil {
						return err
					}
					if err := a.orders.Refresh(c.Context); err != nil {
						return err
					}
					return a.orders.MarkReceived(c.Context, c.Args().First())
				},
			},
		},
	}
}

func bookInputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "title", Required: true},
		&cli.StringFlag{Name: "author", Required: true},
		&cli.StringFlag{Name: "category", Required: true, Usage: "category id"},
		&cli.StringFlag{Name: "price", Required: true, Usage: "price in VND"},
		&cli.StringFlag{Name: "description"},
	}
}

func bookInputFromFlags(c *cli.Context) (entity.BookInput, error) {
	price, err := decimal.NewFromString(c.String("price"))
	if err != nil {
		return entity.BookInput{}, cli.Exit("price must be a number", 1)
	}
	return entity.BookInput{
		Title:       c.String("title"),
		Author:      c.String("author"),
		CategoryID:  c.String("category"),
		Price:       price,
		Description: c.String("description"),
	}, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
