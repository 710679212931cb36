package render

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// the storefront's locale; prices are VND
var printer = message.NewPrinter(language.Vietnamese)

// FormatPrice renders a VND amount with locale digit grouping, e.g.
// 100000 → "100.000 ₫".
func FormatPrice(d decimal.Decimal) string {
	f, _ := d.Float64()
	return printer.Sprintf("%v ₫", number.Decimal(f))
}

// FormatDate renders the long date form the storefront uses.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d tháng %d, %d", t.Day(), int(t.Month()), t.Year())
}
