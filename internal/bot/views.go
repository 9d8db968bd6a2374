package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/render"
	"github.com/heartmarshall/medkit/internal/service/itemedit"
	"github.com/heartmarshall/medkit/internal/service/upload"
)

// ---------------------------------------------------------------------------
// Kits
// ---------------------------------------------------------------------------

func (r *Router) myKits(ctx context.Context) (chat.Reply, error) {
	kits, err := r.d.Inventory.Kits(ctx)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("list kits: %w", err)
	}
	if len(kits) == 0 {
		return chat.Text(msgNoKits), nil
	}
	kb := make(chat.Keyboard, 0, len(kits))
	for _, k := range kits {
		kb = append(kb, chat.Row(chat.Button{Label: "📦 " + k.Name, Data: chat.Data(dataKitPage, chat.ID(k.ID), "0")}))
	}
	return chat.WithKeyboard(msgChooseKit, kb), nil
}

func (r *Router) kitPage(ctx context.Context, u chat.Update, kitID int64, page int) (chat.Reply, error) {
	p, err := r.d.Inventory.KitItems(ctx, kitID, page)
	if missing(err) {
		return chat.Reply{CallbackText: msgKitNotFound, ClearKeyboardOf: u.MessageID}, nil
	}
	if err != nil {
		return chat.Reply{}, fmt.Errorf("kit items: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📦 %s", p.Kit.Name)
	if p.Pages > 1 {
		fmt.Fprintf(&b, " (стр. %d из %d)", p.Page+1, p.Pages)
	}
	if len(p.Items) == 0 {
		b.WriteString("\n\n" + msgKitEmpty)
	}

	kit := chat.ID(p.Kit.ID)
	kb := itemButtons(p.Items)
	var nav []chat.Button
	if p.Page > 0 {
		nav = append(nav, chat.Button{Label: btnPrev, Data: chat.Data(dataKitPage, kit, chat.ID(int64(p.Page-1)))})
	}
	if p.Page+1 < p.Pages {
		nav = append(nav, chat.Button{Label: btnNext, Data: chat.Data(dataKitPage, kit, chat.ID(int64(p.Page+1)))})
	}
	if len(nav) > 0 {
		kb = append(kb, nav)
	}
	kb = append(kb, chat.Row(chat.Button{Label: btnAdd, Data: chat.Data(upload.AddItemData, kit)}))

	return chat.Reply{Messages: []chat.Message{{Text: b.String(), Keyboard: kb, EditMessageID: u.MessageID}}}, nil
}

func (r *Router) deleteKits(ctx context.Context) (chat.Reply, error) {
	kits, err := r.d.Inventory.Kits(ctx)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("list kits: %w", err)
	}
	kb := make(chat.Keyboard, 0, len(kits)+1)
	for _, k := range kits {
		kb = append(kb, chat.Row(chat.Button{Label: "🗑 " + k.Name, Data: chat.Data(dataKitDel, chat.ID(k.ID))}))
	}
	kb = append(kb, chat.Row(chat.Button{Label: btnTrash, Data: dataTrash}))
	text := msgDeleteKits
	if len(kits) == 0 {
		text = msgNoKits
	}
	return chat.WithKeyboard(text, kb), nil
}

func (r *Router) confirmDeleteKit(ctx context.Context, u chat.Update, kitID int64) (chat.Reply, error) {
	kit, err := r.d.Inventory.Kit(ctx, kitID)
	if missing(err) {
		return chat.Reply{CallbackText: msgKitNotFound}, nil
	}
	if err != nil {
		return chat.Reply{}, fmt.Errorf("get kit: %w", err)
	}
	return chat.Reply{Messages: []chat.Message{{
		Text: fmt.Sprintf(msgConfirmDelKit, kit.Name),
		Keyboard: chat.Keyboard{chat.Row(
			chat.Button{Label: btnYes, Data: chat.Data(dataKitDelOK, chat.ID(kit.ID))},
			chat.Button{Label: btnNo, Data: dataDismiss},
		)},
		EditMessageID: u.MessageID,
	}}}, nil
}

func (r *Router) setKitDeleted(ctx context.Context, u chat.Update, kitID int64, deleted bool) (chat.Reply, error) {
	change, text := r.d.Inventory.RestoreKit, msgKitRestored
	if deleted {
		change, text = r.d.Inventory.DeleteKit, msgKitDeleted
	}
	kit, err := change(ctx, kitID)
	if missing(err) {
		return chat.Reply{CallbackText: msgKitNotFound, ClearKeyboardOf: u.MessageID}, nil
	}
	if err != nil {
		return chat.Reply{}, fmt.Errorf("change kit: %w", err)
	}
	return chat.Reply{Messages: []chat.Message{{Text: fmt.Sprintf(text, kit.Name), EditMessageID: u.MessageID}}}, nil
}

func (r *Router) trash(ctx context.Context, u chat.Update) (chat.Reply, error) {
	kits, err := r.d.Inventory.DeletedKits(ctx)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("list deleted kits: %w", err)
	}
	if len(kits) == 0 {
		return chat.Reply{Messages: []chat.Message{{Text: msgTrashEmpty, EditMessageID: u.MessageID}}}, nil
	}
	kb := make(chat.Keyboard, 0, len(kits))
	for _, k := range kits {
		kb = append(kb, chat.Row(chat.Button{Label: btnRestore + " " + k.Name, Data: chat.Data(dataKitRestore, chat.ID(k.ID))}))
	}
	return chat.Reply{Messages: []chat.Message{{Text: msgTrash, Keyboard: kb, EditMessageID: u.MessageID}}}, nil
}

// ---------------------------------------------------------------------------
// Items
// ---------------------------------------------------------------------------

func (r *Router) itemCard(ctx context.Context, u chat.Update, itemID int64) (chat.Reply, error) {
	d, err := r.d.Inventory.Item(ctx, itemID)
	if missing(err) {
		return chat.Reply{CallbackText: msgItemNotFound, ClearKeyboardOf: u.MessageID}, nil
	}
	if err != nil {
		return chat.Reply{}, fmt.Errorf("get item: %w", err)
	}
	return chat.Reply{Messages: []chat.Message{r.card(*d, u.MessageID)}}, nil
}

func (r *Router) card(d domain.ItemDetails, editID int) chat.Message {
	id := chat.ID(d.ID)
	return chat.Message{
		Text: render.ItemCard(d, r.now()),
		Keyboard: chat.Keyboard{
			chat.Row(
				chat.Button{Label: "➖ 1", Data: chat.Data(dataQty, id, "-1")},
				chat.Button{Label: "➕ 1", Data: chat.Data(dataQty, id, "1")},
			),
			chat.Row(
				chat.Button{Label: btnEdit, Data: chat.Data(itemedit.EditItemData, id)},
				chat.Button{Label: btnDelete, Data: chat.Data(dataItemDel, id)},
			),
			chat.Row(chat.Button{Label: btnBack, Data: chat.Data(dataKitPage, chat.ID(d.KitID), "0")}),
		},
		EditMessageID: editID,
	}
}

func (r *Router) adjust(ctx context.Context, u chat.Update, itemID int64, delta decimal.Decimal) (chat.Reply, error) {
	if _, err := r.d.Inventory.AdjustQuantity(ctx, itemID, delta); err != nil {
		if missing(err) {
			return chat.Reply{CallbackText: msgItemNotFound, ClearKeyboardOf: u.MessageID}, nil
		}
		return chat.Reply{}, fmt.Errorf("adjust quantity: %w", err)
	}
	reply, err := r.itemCard(ctx, u, itemID)
	if err != nil {
		return chat.Reply{}, err
	}
	if reply.CallbackText == "" {
		reply.CallbackText = "🔢 " + delta.String()
	}
	return reply, nil
}

func (r *Router) chooseDelete(ctx context.Context) (chat.Reply, error) {
	items, err := r.d.Inventory.AllItems(ctx)
	if err != nil {
		return chat.Reply{}, fmt.Errorf("list items: %w", err)
	}
	if len(items) == 0 {
		return chat.Text(msgNoItems), nil
	}
	items = items[:min(len(items), maxDeleteChoices)]
	kb := make(chat.Keyboard, 0, len(items))
	for _, d := range items {
		kb = append(kb, chat.Row(chat.Button{
			Label: fmt.Sprintf("🗑 %s · %s", d.Medicine.DisplayName(), d.KitName),
			Data:  chat.Data(dataItemDel, chat.ID(d.ID)),
		}))
	}
	return chat.WithKeyboard(msgChooseDelete, kb), nil
}

func (r *Router) confirmDelete(ctx context.Context, u chat.Update, itemID int64) (chat.Reply, error) {
	d, err := r.d.Inventory.Item(ctx, itemID)
	if missing(err) {
		return chat.Reply{CallbackText: msgItemNotFound}, nil
	}
	if err != nil {
		return chat.Reply{}, fmt.Errorf("get item: %w", err)
	}
	return chat.Reply{Messages: []chat.Message{{
		Text: fmt.Sprintf(msgConfirmDelete, d.Medicine.DisplayName(), d.KitName),
		Keyboard: chat.Keyboard{chat.Row(
			chat.Button{Label: btnYes, Data: chat.Data(dataItemDelOK, chat.ID(d.ID))},
			chat.Button{Label: btnNo, Data: dataDismiss},
		)},
		EditMessageID: u.MessageID,
	}}}, nil
}

func (r *Router) deleteItem(ctx context.Context, u chat.Update, itemID int64) (chat.Reply, error) {
	ok, err := r.d.Inventory.DeleteItem(ctx, itemID)
	if missing(err) || (err == nil && !ok) {
		return chat.Reply{CallbackText: msgItemNotFound, ClearKeyboardOf: u.MessageID}, nil
	}
	if err != nil {
		return chat.Reply{}, fmt.Errorf("delete item: %w", err)
	}
	return chat.Reply{Messages: []chat.Message{{Text: msgItemDeleted, EditMessageID: u.MessageID}}}, nil
}

// ---------------------------------------------------------------------------
// Lists
// ---------------------------------------------------------------------------

// listOrEmpty renders items under title with buttons opening their cards, or
// the empty text.
func listOrEmpty(title, empty string, items []domain.ItemDetails, err error) (chat.Reply, error) {
	if err != nil {
		return chat.Reply{}, fmt.Errorf("list items: %w", err)
	}
	if len(items) == 0 {
		return chat.Text(empty), nil
	}
	return chat.WithKeyboard(render.ItemList(title, items), itemButtons(items)), nil
}

func itemButtons(items []domain.ItemDetails) chat.Keyboard {
	n := min(len(items), maxItemButtons)
	kb := make(chat.Keyboard, 0, n+2)
	for _, d := range items[:n] {
		kb = append(kb, chat.Row(chat.Button{Label: render.ItemLine(d), Data: chat.Data(dataItem, chat.ID(d.ID))}))
	}
	return kb
}

func categoryKeyboard() chat.Keyboard {
	cats := domain.MedicineCategories
	kb := make(chat.Keyboard, 0, len(cats)/2+1)
	for i := 0; i < len(cats); i += 2 {
		row := chat.Row(chat.Button{Label: cats[i].Label(), Data: chat.Data(dataFindCat, cats[i].String())})
		if i+1 < len(cats) {
			row = append(row, chat.Button{Label: cats[i+1].Label(), Data: chat.Data(dataFindCat, cats[i+1].String())})
		}
		kb = append(kb, row)
	}
	return kb
}
