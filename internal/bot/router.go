// Package bot routes chat updates to commands, button handlers and
// dialogues, behind a middleware chain.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/dialogue"
	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/service/admin"
	"github.com/heartmarshall/medkit/internal/service/inventory"
	"github.com/heartmarshall/medkit/internal/service/itemedit"
	"github.com/heartmarshall/medkit/internal/service/share"
	"github.com/heartmarshall/medkit/internal/service/upload"
	"github.com/heartmarshall/medkit/internal/service/user"
)

// Callback data actions handled outside dialogues.
const (
	dataKitPage    = "kit_page"    // kit_page:<kit>:<page>
	dataItem       = "item"        // item:<item>
	dataQty        = "qty"         // qty:<item>:<delta>
	dataItemDel    = "item_del"    // item_del:<item>
	dataItemDelOK  = "item_del_ok" // item_del_ok:<item>
	dataKitDel     = "kit_del"     // kit_del:<kit>
	dataKitDelOK   = "kit_del_ok"  // kit_del_ok:<kit>
	dataTrash      = "trash"
	dataKitRestore = "kit_restore" // kit_restore:<kit>
	dataFindCat    = "find_cat"    // find_cat:<category>
	dataDismiss    = "dismiss"

	// maxItemButtons bounds the item buttons under a list.
	maxItemButtons   = 10
	maxDeleteChoices = 30
)

type dialogues interface {
	Start(ctx context.Context, flow string, u chat.Update) (chat.Reply, error)
	HandleText(ctx context.Context, u chat.Update) (chat.Reply, bool, error)
	HandleCallback(ctx context.Context, u chat.Update) (chat.Reply, bool, error)
	Cancel(ctx context.Context, userID int64) (chat.Reply, error)
}

type inventoryService interface {
	Kits(ctx context.Context) ([]domain.Kit, error)
	DeletedKits(ctx context.Context) ([]domain.Kit, error)
	Kit(ctx context.Context, kitID int64) (*domain.Kit, error)
	DeleteKit(ctx context.Context, kitID int64) (*domain.Kit, error)
	RestoreKit(ctx context.Context, kitID int64) (*domain.Kit, error)
	KitItems(ctx context.Context, kitID int64, page int) (*inventory.Page, error)
	Item(ctx context.Context, itemID int64) (*domain.ItemDetails, error)
	AdjustQuantity(ctx context.Context, itemID int64, delta decimal.Decimal) (*domain.Item, error)
	DeleteItem(ctx context.Context, itemID int64) (bool, error)
	AllItems(ctx context.Context) ([]domain.ItemDetails, error)
	Expired(ctx context.Context) ([]domain.ItemDetails, error)
	Expiring(ctx context.Context, days int) ([]domain.ItemDetails, error)
	ExpiringDays() int
	LowStock(ctx context.Context) ([]domain.ItemDetails, error)
	Search(ctx context.Context, query string) ([]domain.ItemDetails, error)
	ByCategory(ctx context.Context, category domain.MedicineCategory) ([]domain.ItemDetails, error)
}

type shareAnswers interface {
	Accept(ctx context.Context, u chat.Update, rawID string) (chat.Reply, error)
	Decline(ctx context.Context, u chat.Update, rawID string) (chat.Reply, error)
}

type reviewer interface {
	Pending(ctx context.Context) (chat.Reply, error)
	Review(ctx context.Context, u chat.Update, id int64, approve bool) (chat.Reply, error)
}

type userRegistry interface {
	Register(ctx context.Context, in user.RegisterInput) (bool, error)
}

// Deps are the services the router dispatches to.
type Deps struct {
	Dialogues dialogues
	Inventory inventoryService
	Share     shareAnswers
	Reviewer  reviewer
	Users     userRegistry
}

// Router is the innermost Handler.
type Router struct {
	d   Deps
	now func() time.Time
}

var _ Handler = (*Router)(nil)

// NewRouter creates a Router.
func NewRouter(d Deps) *Router {
	return &Router{d: d, now: time.Now}
}

// Handle dispatches one update.
func (r *Router) Handle(ctx context.Context, u chat.Update) (chat.Reply, error) {
	switch {
	case u.Kind == chat.KindCallback:
		return r.callback(ctx, u)
	case u.Command != "":
		return r.command(ctx, u)
	default:
		return r.text(ctx, u)
	}
}

func (r *Router) command(ctx context.Context, u chat.Update) (chat.Reply, error) {
	switch u.Command {
	case "start":
		if _, err := r.d.Users.Register(ctx, user.RegisterInput{ID: u.UserID, Username: u.Username, FirstName: u.FirstName}); err != nil {
			return chat.Reply{}, err
		}
		return chat.Text(msgWelcome + msgHelp), nil
	case "help":
		return chat.Text(msgHelp), nil
	case "cancel":
		return r.d.Dialogues.Cancel(ctx, u.UserID)
	case "upload":
		return r.d.Dialogues.Start(ctx, upload.FlowName, u)
	case "update":
		return r.d.Dialogues.Start(ctx, itemedit.FlowName, u)
	case "share":
		return r.d.Dialogues.Start(ctx, share.FlowName, u)
	case "broadcast":
		return r.d.Dialogues.Start(ctx, admin.BroadcastFlowName, u)
	case "check_not_verify":
		return r.d.Reviewer.Pending(ctx)
	case "my_kits":
		return r.myKits(ctx)
	case "delete_kits":
		return r.deleteKits(ctx)
	case "del":
		return r.chooseDelete(ctx)
	case "find":
		return chat.WithKeyboard(msgChooseCategory, categoryKeyboard()), nil
	case "expired":
		items, err := r.d.Inventory.Expired(ctx)
		return listOrEmpty("⛔ Просроченные лекарства:", msgNoExpired, items, err)
	case "expiring":
		days := r.d.Inventory.ExpiringDays()
		items, err := r.d.Inventory.Expiring(ctx, days)
		return listOrEmpty(fmt.Sprintf("⏳ Истекают в ближайшие %d дн.:", days), fmt.Sprintf(msgNoExpiring, days), items, err)
	case "low_stock":
		items, err := r.d.Inventory.LowStock(ctx)
		return listOrEmpty("📉 Заканчиваются:", msgNoLowStock, items, err)
	}
	return chat.Text(msgUnknownCommand), nil
}

// text feeds the active dialogue; outside one it searches item names.
func (r *Router) text(ctx context.Context, u chat.Update) (chat.Reply, error) {
	reply, handled, err := r.d.Dialogues.HandleText(ctx, u)
	if err != nil || handled {
		return reply, err
	}
	query := strings.TrimSpace(u.Text)
	if query == "" {
		return chat.Reply{}, nil
	}
	items, err := r.d.Inventory.Search(ctx, query)
	return listOrEmpty(fmt.Sprintf("🔎 Найдено по запросу «%s»:", query), msgNothingFound, items, err)
}

func (r *Router) callback(ctx context.Context, u chat.Update) (chat.Reply, error) {
	if u.CallbackData == dialogue.CancelData {
		return r.d.Dialogues.Cancel(ctx, u.UserID)
	}
	if reply, handled, err := r.d.Dialogues.HandleCallback(ctx, u); err != nil || handled {
		return reply, err
	}

	action, args := chat.ParseData(u.CallbackData)
	switch action {
	case upload.AddItemData:
		return r.d.Dialogues.Start(ctx, upload.FlowName, u)
	case itemedit.EditItemData:
		return r.d.Dialogues.Start(ctx, itemedit.FlowName, u)
	case share.AcceptData:
		return r.d.Share.Accept(ctx, u, chat.Arg(args, 0))
	case share.DeclineData:
		return r.d.Share.Decline(ctx, u, chat.Arg(args, 0))
	case admin.VerifyData, admin.RejectData:
		id, ok := chat.ArgID(args, 0)
		if !ok {
			return stale(), nil
		}
		return r.d.Reviewer.Review(ctx, u, id, action == admin.VerifyData)
	case dataDismiss:
		return chat.Reply{ClearKeyboardOf: u.MessageID}, nil
	case dataTrash:
		return r.trash(ctx, u)
	case dataFindCat:
		c, ok := domain.ParseMedicineCategory(chat.Arg(args, 0))
		if !ok {
			return stale(), nil
		}
		items, err := r.d.Inventory.ByCategory(ctx, c)
		return listOrEmpty("🔎 "+c.Label()+":", msgNothingFound, items, err)
	}

	id, ok := chat.ArgID(args, 0)
	if !ok {
		return stale(), nil
	}
	switch action {
	case dataKitPage:
		page, _ := chat.ArgID(args, 1)
		return r.kitPage(ctx, u, id, int(page))
	case dataItem:
		return r.itemCard(ctx, u, id)
	case dataQty:
		delta, err := decimal.NewFromString(chat.Arg(args, 1))
		if err != nil {
			return stale(), nil
		}
		return r.adjust(ctx, u, id, delta)
	case dataItemDel:
		return r.confirmDelete(ctx, u, id)
	case dataItemDelOK:
		return r.deleteItem(ctx, u, id)
	case dataKitDel:
		return r.confirmDeleteKit(ctx, u, id)
	case dataKitDelOK:
		return r.setKitDeleted(ctx, u, id, true)
	case dataKitRestore:
		return r.setKitDeleted(ctx, u, id, false)
	}
	return stale(), nil
}

func stale() chat.Reply { return chat.Reply{CallbackText: msgStaleButton} }

// missing reports whether err means the kit or item is not reachable.
func missing(err error) bool {
	return errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrKitDeleted)
}
