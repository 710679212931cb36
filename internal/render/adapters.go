package render

import (
	"fmt"
	"strconv"

	"bookshop/internal/entity"
)

// Books renders the storefront grid. A collection that has never been
// fetched shows a loading placeholder, not the empty state.
func Books(books []entity.Book, loaded bool, page, totalPages int) View {
	if !loaded {
		return Empty{Title: "Loading books..."}
	}
	if len(books) == 0 {
		return Empty{Title: "No books found", Hint: "try clearing the search or category filter"}
	}
	cards := make([]Card, 0, len(books))
	for _, b := range books {
		cards = append(cards, Card{
			Title:    b.Title,
			Subtitle: b.Author,
			Badge:    b.CategoryName,
			Price:    FormatPrice(b.Price),
		})
	}
	return Group{Views: []View{
		Cards{Cards: cards},
		Pager{Page: page, TotalPages: totalPages},
	}}
}

// BookDetail renders one book for the detail page.
func BookDetail(b entity.Book) View {
	return Detail{
		Title: b.Title,
		Fields: []Field{
			{Label: "Author", Value: b.Author},
			{Label: "Category", Value: b.CategoryName},
			{Label: "Price", Value: FormatPrice(b.Price)},
			{Label: "Description", Value: b.Description},
		},
	}
}

// Categories renders the admin category table. bookCount supplies the
// per-category dependent-book count shown next to each row.
func Categories(cats []entity.Category, loaded bool, bookCount func(entity.Category) int) View {
	if !loaded {
		return Empty{Title: "Loading categories..."}
	}
	if len(cats) == 0 {
		return Empty{Title: "No categories yet"}
	}
	rows := make([][]string, 0, len(cats))
	for _, c := range cats {
		count := ""
		if bookCount != nil {
			count = strconv.Itoa(bookCount(c))
		}
		rows = append(rows, []string{c.Name, count})
	}
	return Table{Headers: []string{"Category", "Books"}, Rows: rows}
}

// CartView renders the cart with per-item subtotals. The footer total is
// recomputed from the items, never read from a cached field.
func CartView(c entity.Cart, loaded bool) View {
	if !loaded {
		return Empty{Title: "Loading cart..."}
	}
	if c.Empty() {
		return Empty{Title: "Your cart is empty", Hint: "browse the catalog to add books"}
	}
	rows := make([][]string, 0, len(c.Items))
	for _, item := range c.Items {
		title, author := "(unavailable)", ""
		if item.Book != nil {
			title, author = item.Book.Title, item.Book.Author
		}
		rows = append(rows, []string{
			title,
			author,
			FormatPrice(item.Price()),
			strconv.Itoa(item.Quantity),
			FormatPrice(item.Subtotal()),
		})
	}
	return Table{
		Headers: []string{"Title", "Author", "Price", "Qty", "Subtotal"},
		Rows:    rows,
		Footer:  "Total: " + FormatPrice(c.Total()),
	}
}

// Orders renders the customer's order history.
func Orders(orders []entity.Order, loaded bool, page, totalPages int) View {
	if !loaded {
		return Empty{Title: "Loading orders..."}
	}
	if len(orders) == 0 {
		return Empty{Title: "No orders yet"}
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.OrderNumber,
			FormatDate(o.CreatedAt),
			strconv.Itoa(o.ItemCount),
			FormatPrice(o.TotalAmount),
			string(o.Status),
		})
	}
	return Group{Views: []View{
		Table{Headers: []string{"Order", "Date", "Items", "Total", "Status"}, Rows: rows},
		Pager{Page: page, TotalPages: totalPages},
	}}
}

// OrderDetail renders one order with its line items.
func OrderDetail(o entity.Order) View {
	items := orderItemsTable(o.Items)
	return Detail{
		Title: "Order " + o.OrderNumber,
		Fields: []Field{
			{Label: "Date", Value: FormatDate(o.CreatedAt)},
			{Label: "Status", Value: string(o.Status)},
			{Label: "Total", Value: FormatPrice(o.TotalAmount)},
		},
		Items: &items,
	}
}

// AdminOrders renders the back-office order table, which also carries
// the customer columns.
func AdminOrders(orders []entity.AdminOrder, loaded bool, page, totalPages int) View {
	if !loaded {
		return Empty{Title: "Loading orders..."}
	}
	if len(orders) == 0 {
		return Empty{Title: "No orders match the filters"}
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.OrderNumber,
			o.Username,
			o.Email,
			FormatDate(o.CreatedAt),
			FormatPrice(o.TotalAmount),
			string(o.Status),
		})
	}
	return Group{Views: []View{
		Table{Headers: []string{"Order", "Customer", "Email", "Date", "Total", "Status"}, Rows: rows},
		Pager{Page: page, TotalPages: totalPages},
	}}
}

// Users renders the user-management table with the aggregate stats on
// top when they were available.
func Users(users []entity.User, loaded bool, stats *entity.UserStats) View {
	if !loaded {
		return Empty{Title: "Loading users..."}
	}
	views := []View{}
	if stats != nil {
		views = append(views, Detail{Fields: []Field{
			{Label: "Total", Value: strconv.Itoa(stats.TotalCount)},
			{Label: "Admins", Value: strconv.Itoa(stats.AdminCount)},
			{Label: "Active", Value: strconv.Itoa(stats.ActiveCount)},
		}})
	}
	if len(users) == 0 {
		views = append(views, Empty{Title: "No users"})
		return Group{Views: views}
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		status := "active"
		if !u.Enabled {
			status = "disabled"
		}
		rows = append(rows, []string{u.Username, u.Email, u.Role, status})
	}
	views = append(views, Table{Headers: []string{"Username", "Email", "Role", "Status"}, Rows: rows})
	return Group{Views: views}
}

// Revenue renders the yearly revenue report with a month-by-month table.
func Revenue(r entity.RevenueReport) View {
	rows := make([][]string, 0, len(r.MonthlyRevenues))
	for _, m := range r.MonthlyRevenues {
		rows = append(rows, []string{
			m.MonthName,
			strconv.Itoa(m.OrderCount),
			FormatPrice(m.Revenue),
		})
	}
	items := Table{Headers: []string{"Month", "Orders", "Revenue"}, Rows: rows}
	return Detail{
		Title: fmt.Sprintf("Revenue %d", r.Year),
		Fields: []Field{
			{Label: "Total revenue", Value: FormatPrice(r.TotalRevenue)},
			{Label: "Total orders", Value: strconv.Itoa(r.TotalOrders())},
		},
		Items: &items,
	}
}

func orderItemsTable(items []entity.OrderItem) Table {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{
			it.BookTitle,
			it.BookAuthor,
			FormatPrice(it.Price),
			strconv.Itoa(it.Quantity),
			FormatPrice(it.Subtotal),
		})
	}
	return Table{Headers: []string{"Title", "Author", "Price", "Qty", "Subtotal"}, Rows: rows}
}
