package order

import (
	"fmt"
	"strings"

	"github.com/Frannkode/QuickOrder/internal/domain"
)

// RenderMessage produces the human-readable order summary handed to the
// messaging transport. Pure: no I/O, no URL encoding — the caller owns the
// deep link.
func RenderMessage(o *domain.Order, storeName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "NEW ORDER #%s\n", o.ShortID)
	fmt.Fprintf(&b, "%s\n\n", o.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Customer: %s\n", o.Customer.Name)
	fmt.Fprintf(&b, "Phone: %s\n", o.Customer.Phone)
	if o.Customer.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", o.Customer.Address)
	}

	b.WriteString("\nItems:\n")
	for _, item := range o.Items {
		label := ""
		if item.Wholesale {
			label = " [wholesale]"
		}
		fmt.Fprintf(&b, "- %dx %s (%s each)%s\n", item.Quantity, item.Name, FormatCurrency(item.UnitPrice), label)
	}

	if o.Customer.Notes != "" {
		fmt.Fprintf(&b, "\nNotes: %s\n", o.Customer.Notes)
	}

	fmt.Fprintf(&b, "\nTOTAL: %s\n", FormatCurrency(o.Total))
	if storeName != "" {
		fmt.Fprintf(&b, "\nSent from %s", storeName)
	}
	return b.String()
}

// FormatCurrency renders an integral amount with thousands separators and no
// fraction digits, e.g. 12500 -> "$12.500".
func FormatCurrency(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	return b.String()
}
