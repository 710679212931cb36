package main

import (
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"bookshop/internal/admin"
	"bookshop/internal/entity"
	"bookshop/internal/render"
)

func adminCommand() *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "back-office operations",
		Subcommands: []*cli.Command{
			adminOrdersCommand(),
			adminUsersCommand(),
			{
				Name:  "revenue",
				Usage: "monthly revenue report",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "year", Value: time.Now().Year()},
				},
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					report, err := a.revenue.Report(c.Context, c.Int("year"))
					if err != nil {
						return err
					}
					render.Fprint(os.Stdout, render.Revenue(report))
					return nil
				},
			},
		},
	}
}

func adminOrdersCommand() *cli.Command {
	filterFlags := []cli.Flag{
		&cli.StringFlag{Name: "status", Usage: "PENDING, CONFIRMED, COMPLETED, CANCELLED"},
		&cli.StringFlag{Name: "from", Usage: "from date (YYYY-MM-DD)"},
		&cli.StringFlag{Name: "to", Usage: "to date (YYYY-MM-DD)"},
	}

	return &cli.Command{
		Name:  "orders",
		Usage: "all-customer order management",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list orders",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "page", Value: 1, Usage: "page number (1-based)"},
				}, filterFlags...),
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					if err := a.adminOrders.SetFilters(c.Context, filtersFromFlags(c)); err != nil {
						return err
					}
					if page := c.Int("page"); page > 1 {
						if err := a.adminOrders.SetPage(c.Context, page-1); err != nil {
							return err
						}
					}
					oc := a.adminOrders.Cache()
					render.Fprint(os.Stdout, render.AdminOrders(oc.Current(), oc.Loaded(), oc.Page(), oc.TotalPages()))
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
					if err := a.requireAdmin(); err != nil {
						return err
					}
					detail, err := a.adminOrders.Detail(c.Context, c.Args().First())
					if err != nil {
						return err
					}
					render.Fprint(os.Stdout, render.OrderDetail(detail.Order))
					return nil
				},
			},
			{
				Name:      "status",
				Usage:     "override an order's status",
				ArgsUsage: "<orderID> <status>",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					if c.NArg() < 2 {
						return cli.Exit("usage: bookshop admin orders status <orderID> <status>", 1)
					}
					return a.adminOrders.SetStatus(c.Context, c.Args().Get(0), entity.Status(c.Args().Get(1)))
				},
			},
			{
				Name:  "export",
				Usage: "export orders as CSV",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "out", Value: "orders.csv", Usage: "output file"},
				}, filterFlags...),
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					if err := a.adminOrders.SetFilters(c.Context, filtersFromFlags(c)); err != nil {
						return err
					}
					data, err := a.adminOrders.ExportCSV(c.Context)
					if err != nil {
						return err
					}
					return os.WriteFile(c.String("out"), data, 0o644)
				},
			},
		},
	}
}

func adminUsersCommand() *cli.Command {
	return &cli.Command{
		Name:  "users",
		Usage: "user management",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list users with aggregate stats",
				Action: func(c *cli.Context) error {
					a, err := newApp(c)
					if err != nil {
						return err
					}
					if err := a.requireAdmin(); err != nil {
						return err
					}
					if err := a.users.Refresh(c.Context); err != nil {
						return err
					}
					uc := a.users.Cache()
					render.Fprint(os.Stdout, render.Users(uc.All(), uc.Loaded(), a.users.Stats()))
					return nil
				},
			},
			{
				Name:      "role",
				Usage:     "toggle a user between USER and ADMIN",
				ArgsUsage: "<userID>",
				Action:    adminUserAction(func(a *app, c *cli.Context) error { return a.users.ToggleRole(c.Context, c.Args().First()) }),
			},
			{
				Name:      "status",
				Usage:     "enable or disable an account",
				ArgsUsage: "<userID>",
				Action:    adminUserAction(func(a *app, c *cli.Context) error { return a.users.ToggleStatus(c.Context, c.Args().First()) }),
			},
			{
				Name:      "delete",
				Usage:     "delete an account",
				ArgsUsage: "<userID>",
				Action:    adminUserAction(func(a *app, c *cli.Context) error { return a.users.Delete(c.Context, c.Args().First()) }),
			},
		},
	}
}

// adminUserAction wraps the common refresh-then-mutate shape of the user
// management commands.
func adminUserAction(fn func(a *app, c *cli.Context) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		a, err := newApp(c)
		if err != nil {
			return err
		}
		if err := a.requireAdmin(); err != nil {
			return err
		}
		if err := a.users.Refresh(c.Context); err != nil {
			return err
		}
		return fn(a, c)
	}
}

func filtersFromFlags(c *cli.Context) admin.OrderFilters {
	return admin.OrderFilters{
		Status:   entity.Status(c.String("status")),
		FromDate: c.String("from"),
		ToDate:   c.String("to"),
	}
}
