package bot

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/internal/service/inventory"
	"github.com/heartmarshall/medkit/internal/service/user"
)

type dialoguesMock struct {
	StartFunc          func(ctx context.Context, flow string, u chat.Update) (chat.Reply, error)
	HandleTextFunc     func(ctx context.Context, u chat.Update) (chat.Reply, bool, error)
	HandleCallbackFunc func(ctx context.Context, u chat.Update) (chat.Reply, bool, error)
	CancelFunc         func(ctx context.Context, userID int64) (chat.Reply, error)
}

func (m *dialoguesMock) Start(ctx context.Context, flow string, u chat.Update) (chat.Reply, error) {
	if m.StartFunc == nil {
		panic("dialoguesMock.StartFunc: method is nil but Start was just called")
	}
	return m.StartFunc(ctx, flow, u)
}

func (m *dialoguesMock) HandleText(ctx context.Context, u chat.Update) (chat.Reply, bool, error) {
	if m.HandleTextFunc == nil {
		return chat.Reply{}, false, nil
	}
	return m.HandleTextFunc(ctx, u)
}

func (m *dialoguesMock) HandleCallback(ctx context.Context, u chat.Update) (chat.Reply, bool, error) {
	if m.HandleCallbackFunc == nil {
		return chat.Reply{}, false, nil
	}
	return m.HandleCallbackFunc(ctx, u)
}

func (m *dialoguesMock) Cancel(ctx context.Context, userID int64) (chat.Reply, error) {
	if m.CancelFunc == nil {
		panic("dialoguesMock.CancelFunc: method is nil but Cancel was just called")
	}
	return m.CancelFunc(ctx, userID)
}

// inventoryMock implements inventoryService. Unset methods panic.
type inventoryMock struct {
	KitsFunc           func(ctx context.Context) ([]domain.Kit, error)
	DeletedKitsFunc    func(ctx context.Context) ([]domain.Kit, error)
	KitFunc            func(ctx context.Context, kitID int64) (*domain.Kit, error)
	DeleteKitFunc      func(ctx context.Context, kitID int64) (*domain.Kit, error)
	RestoreKitFunc     func(ctx context.Context, kitID int64) (*domain.Kit, error)
	KitItemsFunc       func(ctx context.Context, kitID int64, page int) (*inventory.Page, error)
	ItemFunc           func(ctx context.Context, itemID int64) (*domain.ItemDetails, error)
	AdjustQuantityFunc func(ctx context.Context, itemID int64, delta decimal.Decimal) (*domain.Item, error)
	DeleteItemFunc     func(ctx context.Context, itemID int64) (bool, error)
	AllItemsFunc       func(ctx context.Context) ([]domain.ItemDetails, error)
	ExpiredFunc        func(ctx context.Context) ([]domain.ItemDetails, error)
	ExpiringFunc       func(ctx context.Context, days int) ([]domain.ItemDetails, error)
	LowStockFunc       func(ctx context.Context) ([]domain.ItemDetails, error)
	SearchFunc         func(ctx context.Context, query string) ([]domain.ItemDetails, error)
	ByCategoryFunc     func(ctx context.Context, category domain.MedicineCategory) ([]domain.ItemDetails, error)
}

func (m *inventoryMock) Kits(ctx context.Context) ([]domain.Kit, error) {
	if m.KitsFunc == nil {
		panic("inventoryMock.KitsFunc: method is nil but Kits was just called")
	}
	return m.KitsFunc(ctx)
}

func (m *inventoryMock) DeletedKits(ctx context.Context) ([]domain.Kit, error) {
	if m.DeletedKitsFunc == nil {
		panic("inventoryMock.DeletedKitsFunc: method is nil but DeletedKits was just called")
	}
	return m.DeletedKitsFunc(ctx)
}

func (m *inventoryMock) Kit(ctx context.Context, kitID int64) (*domain.Kit, error) {
	if m.KitFunc == nil {
		panic("inventoryMock.KitFunc: method is nil but Kit was just called")
	}
	return m.KitFunc(ctx, kitID)
}

func (m *inventoryMock) DeleteKit(ctx context.Context, kitID int64) (*domain.Kit, error) {
	if m.DeleteKitFunc == nil {
		panic("inventoryMock.DeleteKitFunc: method is nil but DeleteKit was just called")
	}
	return m.DeleteKitFunc(ctx, kitID)
}

func (m *inventoryMock) RestoreKit(ctx context.Context, kitID int64) (*domain.Kit, error) {
	if m.RestoreKitFunc == nil {
		panic("inventoryMock.RestoreKitFunc: method is nil but RestoreKit was just called")
	}
	return m.RestoreKitFunc(ctx, kitID)
}

func (m *inventoryMock) KitItems(ctx context.Context, kitID int64, page int) (*inventory.Page, error) {
	if m.KitItemsFunc == nil {
		panic("inventoryMock.KitItemsFunc: method is nil but KitItems was just called")
	}
	return m.KitItemsFunc(ctx, kitID, page)
}

func (m *inventoryMock) Item(ctx context.Context, itemID int64) (*domain.ItemDetails, error) {
	if m.ItemFunc == nil {
		panic("inventoryMock.ItemFunc: method is nil but Item was just called")
	}
	return m.ItemFunc(ctx, itemID)
}

func (m *inventoryMock) AdjustQuantity(ctx context.Context, itemID int64, delta decimal.Decimal) (*domain.Item, error) {
	if m.AdjustQuantityFunc == nil {
		panic("inventoryMock.AdjustQuantityFunc: method is nil but AdjustQuantity was just called")
	}
	return m.AdjustQuantityFunc(ctx, itemID, delta)
}

func (m *inventoryMock) DeleteItem(ctx context.Context, itemID int64) (bool, error) {
	if m.DeleteItemFunc == nil {
		panic("inventoryMock.DeleteItemFunc: method is nil but DeleteItem was just called")
	}
	return m.DeleteItemFunc(ctx, itemID)
}

func (m *inventoryMock) AllItems(ctx context.Context) ([]domain.ItemDetails, error) {
	if m.AllItemsFunc == nil {
		panic("inventoryMock.AllItemsFunc: method is nil but AllItems was just called")
	}
	return m.AllItemsFunc(ctx)
}

func (m *inventoryMock) Expired(ctx context.Context) ([]domain.ItemDetails, error) {
	if m.ExpiredFunc == nil {
		panic("inventoryMock.ExpiredFunc: method is nil but Expired was just called")
	}
	return m.ExpiredFunc(ctx)
}

func (m *inventoryMock) Expiring(ctx context.Context, days int) ([]domain.ItemDetails, error) {
	if m.ExpiringFunc == nil {
		panic("inventoryMock.ExpiringFunc: method is nil but Expiring was just called")
	}
	return m.ExpiringFunc(ctx, days)
}

func (m *inventoryMock) ExpiringDays() int { return 30 }

func (m *inventoryMock) LowStock(ctx context.Context) ([]domain.ItemDetails, error) {
	if m.LowStockFunc == nil {
		panic("inventoryMock.LowStockFunc: method is nil but LowStock was just called")
	}
	return m.LowStockFunc(ctx)
}

func (m *inventoryMock) Search(ctx context.Context, query string) ([]domain.ItemDetails, error) {
	if m.SearchFunc == nil {
		panic("inventoryMock.SearchFunc: method is nil but Search was just called")
	}
	return m.SearchFunc(ctx, query)
}

func (m *inventoryMock) ByCategory(ctx context.Context, category domain.MedicineCategory) ([]domain.ItemDetails, error) {
	if m.ByCategoryFunc == nil {
		panic("inventoryMock.ByCategoryFunc: method is nil but ByCategory was just called")
	}
	return m.ByCategoryFunc(ctx, category)
}

type shareMock struct {
	accepted, declined []string
}

func (m *shareMock) Accept(_ context.Context, _ chat.Update, rawID string) (chat.Reply, error) {
	m.accepted = append(m.accepted, rawID)
	return chat.Text("accepted"), nil
}

func (m *shareMock) Decline(_ context.Context, _ chat.Update, rawID string) (chat.Reply, error) {
	m.declined = append(m.declined, rawID)
	return chat.Text("declined"), nil
}

type reviewerMock struct {
	reviews map[int64]bool
}

func (m *reviewerMock) Pending(context.Context) (chat.Reply, error) { return chat.Text("pending"), nil }

func (m *reviewerMock) Review(_ context.Context, _ chat.Update, id int64, approve bool) (chat.Reply, error) {
	if m.reviews == nil {
		m.reviews = map[int64]bool{}
	}
	m.reviews[id] = approve
	return chat.Text("reviewed"), nil
}

type registrarMock struct {
	calls []user.RegisterInput
	err   error
}

func (m *registrarMock) Register(_ context.Context, in user.RegisterInput) (bool, error) {
	m.calls = append(m.calls, in)
	return len(m.calls) == 1, m.err
}
