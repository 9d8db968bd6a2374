// Package render formats inventory data as message text.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/validate"
)

// Quantity renders q with a decimal comma and no trailing zeros: "2,5".
func Quantity(q decimal.Decimal) string {
	return strings.ReplaceAll(q.String(), ".", ",")
}

// Date renders an optional date, "—" when absent.
func Date(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return validate.FormatDate(*t)
}

// ItemLine is the one-line summary used in lists.
func ItemLine(d domain.ItemDetails) string {
	line := fmt.Sprintf("💊 %s: %s %s", d.Medicine.DisplayName(), Quantity(d.Quantity), d.Unit)
	if d.ExpiryDate != nil {
		line += ", до " + validate.FormatDate(*d.ExpiryDate)
	}
	return line
}

// ItemList renders a titled list of items with their kit names.
func ItemList(title string, items []domain.ItemDetails) string {
	var b strings.Builder
	b.WriteString(title)
	for _, d := range items {
		fmt.Fprintf(&b, "\n%s (📦 %s)", ItemLine(d), d.KitName)
	}
	return b.String()
}

// ItemCard renders every detail of an item and its catalog entry.
func ItemCard(d domain.ItemDetails, today time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💊 %s\n", d.Medicine.DisplayName())
	fmt.Fprintf(&b, "📦 Аптечка: %s\n", d.KitName)
	fmt.Fprintf(&b, "Форма: %s\n", d.Medicine.Type.Label())
	fmt.Fprintf(&b, "Категория: %s\n", d.Medicine.Category.Label())
	fmt.Fprintf(&b, "🔢 Количество: %s %s\n", Quantity(d.Quantity), d.Unit)
	fmt.Fprintf(&b, "📅 Годен до: %s", Date(d.ExpiryDate))
	if d.IsExpired(today) {
		b.WriteString(" ⚠️ просрочено")
	}
	b.WriteString("\n")
	if d.Location != nil {
		fmt.Fprintf(&b, "📍 Место: %s\n", *d.Location)
	}
	if d.Medicine.Notes != nil {
		fmt.Fprintf(&b, "Описание: %s\n", *d.Medicine.Notes)
	}
	if d.Notes != nil {
		fmt.Fprintf(&b, "📝 Заметки: %s\n", *d.Notes)
	}
	if !d.Medicine.IsVerified() {
		b.WriteString("🔍 Запись справочника ещё не проверена\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Digest renders the expiry alert, or "" when there is nothing to report.
func Digest(expired, expiring []domain.ItemDetails, days int) string {
	if len(expired) == 0 && len(expiring) == 0 {
		return ""
	}
	var parts []string
	if len(expired) > 0 {
		parts = append(parts, ItemList("⛔ Просроченные лекарства:", expired))
	}
	if len(expiring) > 0 {
		parts = append(parts, ItemList(fmt.Sprintf("⏳ Истекают в ближайшие %d дн.:", days), expiring))
	}
	return "🔔 Проверьте аптечку\n\n" + strings.Join(parts, "\n\n")
}
