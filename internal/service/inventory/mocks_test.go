package inventory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/heartmarshall/medkit/internal/domain"
)

var (
	_ kitRepo   = &kitRepoMock{}
	_ itemRepo  = &itemRepoMock{}
	_ txManager = &txManagerMock{}
)

type kitRepoMock struct {
	ListByUserFunc func(ctx context.Context, userID int64, deleted bool) ([]domain.Kit, error)
	GetForUserFunc func(ctx context.Context, userID, kitID int64) (*domain.Kit, error)
	CreateFunc     func(ctx context.Context, name string, description *string) (*domain.Kit, error)
	UpdateFunc     func(ctx context.Context, kitID int64, upd domain.KitUpdate) (*domain.Kit, error)
	AddMemberFunc  func(ctx context.Context, kitID, userID int64) error
	IsMemberFunc   func(ctx context.Context, kitID, userID int64) (bool, error)

	mu         sync.Mutex
	addMembers [][2]int64
	updates    []domain.KitUpdate
}

func (m *kitRepoMock) ListByUser(ctx context.Context, userID int64, deleted bool) ([]domain.Kit, error) {
	if m.ListByUserFunc == nil {
		panic("kitRepoMock.ListByUserFunc: method is nil but kitRepo.ListByUser was just called")
	}
	return m.ListByUserFunc(ctx, userID, deleted)
}

func (m *kitRepoMock) GetForUser(ctx context.Context, userID, kitID int64) (*domain.Kit, error) {
	if m.GetForUserFunc == nil {
		panic("kitRepoMock.GetForUserFunc: method is nil but kitRepo.GetForUser was just called")
	}
	return m.GetForUserFunc(ctx, userID, kitID)
}

func (m *kitRepoMock) Create(ctx context.Context, name string, description *string) (*domain.Kit, error) {
	if m.CreateFunc == nil {
		panic("kitRepoMock.CreateFunc: method is nil but kitRepo.Create was just called")
	}
	return m.CreateFunc(ctx, name, description)
}

func (m *kitRepoMock) Update(ctx context.Context, kitID int64, upd domain.KitUpdate) (*domain.Kit, error) {
	if m.UpdateFunc == nil {
		panic("kitRepoMock.UpdateFunc: method is nil but kitRepo.Update was just called")
	}
	m.mu.Lock()
	m.updates = append(m.updates, upd)
	m.mu.Unlock()
	return m.UpdateFunc(ctx, kitID, upd)
}

func (m *kitRepoMock) AddMember(ctx context.Context, kitID, userID int64) error {
	m.mu.Lock()
	m.addMembers = append(m.addMembers, [2]int64{kitID, userID})
	m.mu.Unlock()
	if m.AddMemberFunc == nil {
		return nil
	}
	return m.AddMemberFunc(ctx, kitID, userID)
}

func (m *kitRepoMock) IsMember(ctx context.Context, kitID, userID int64) (bool, error) {
	if m.IsMemberFunc == nil {
		panic("kitRepoMock.IsMemberFunc: method is nil but kitRepo.IsMember was just called")
	}
	return m.IsMemberFunc(ctx, kitID, userID)
}

type itemRepoMock struct {
	GetByIDFunc        func(ctx context.Context, itemID int64) (*domain.ItemDetails, error)
	ListByKitFunc      func(ctx context.Context, kitID int64, filter domain.ItemFilter) ([]domain.ItemDetails, error)
	CountByKitFunc     func(ctx context.Context, kitID int64, filter domain.ItemFilter) (int, error)
	ListByUserFunc     func(ctx context.Context, userID int64, filter domain.ItemFilter) ([]domain.ItemDetails, error)
	CreateFunc         func(ctx context.Context, item domain.NewItem) (*domain.Item, error)
	UpdateFunc         func(ctx context.Context, itemID int64, upd domain.ItemUpdate) (*domain.Item, error)
	AdjustQuantityFunc func(ctx context.Context, itemID int64, delta decimal.Decimal) (*domain.Item, error)
	DeleteFunc         func(ctx context.Context, itemID int64) (bool, error)
}

func (m *itemRepoMock) GetByID(ctx context.Context, itemID int64) (*domain.ItemDetails, error) {
	if m.GetByIDFunc == nil {
		panic("itemRepoMock.GetByIDFunc: method is nil but itemRepo.GetByID was just called")
	}
	return m.GetByIDFunc(ctx, itemID)
}

func (m *itemRepoMock) ListByKit(ctx context.Context, kitID int64, filter domain.ItemFilter) ([]domain.ItemDetails, error) {
	if m.ListByKitFunc == nil {
		panic("itemRepoMock.ListByKitFunc: method is nil but itemRepo.ListByKit was just called")
	}
	return m.ListByKitFunc(ctx, kitID, filter)
}

func (m *itemRepoMock) CountByKit(ctx context.Context, kitID int64, filter domain.ItemFilter) (int, error) {
	if m.CountByKitFunc == nil {
		panic("itemRepoMock.CountByKitFunc: method is nil but itemRepo.CountByKit was just called")
	}
	return m.CountByKitFunc(ctx, kitID, filter)
}

func (m *itemRepoMock) ListByUser(ctx context.Context, userID int64, filter domain.ItemFilter) ([]domain.ItemDetails, error) {
	if m.ListByUserFunc == nil {
		panic("itemRepoMock.ListByUserFunc: method is nil but itemRepo.ListByUser was just called")
	}
	return m.ListByUserFunc(ctx, userID, filter)
}

func (m *itemRepoMock) Create(ctx context.Context, item domain.NewItem) (*domain.Item, error) {
	if m.CreateFunc == nil {
		panic("itemRepoMock.CreateFunc: method is nil but itemRepo.Create was just called")
	}
	return m.CreateFunc(ctx, item)
}

func (m *itemRepoMock) Update(ctx context.Context, itemID int64, upd domain.ItemUpdate) (*domain.Item, error) {
	if m.UpdateFunc == nil {
		panic("itemRepoMock.UpdateFunc: method is nil but itemRepo.Update was just called")
	}
	return m.UpdateFunc(ctx, itemID, upd)
}

func (m *itemRepoMock) AdjustQuantity(ctx context.Context, itemID int64, delta decimal.Decimal) (*domain.Item, error) {
	if m.AdjustQuantityFunc == nil {
		panic("itemRepoMock.AdjustQuantityFunc: method is nil but itemRepo.AdjustQuantity was just called")
	}
	return m.AdjustQuantityFunc(ctx, itemID, delta)
}

func (m *itemRepoMock) Delete(ctx context.Context, itemID int64) (bool, error) {
	if m.DeleteFunc == nil {
		panic("itemRepoMock.DeleteFunc: method is nil but itemRepo.Delete was just called")
	}
	return m.DeleteFunc(ctx, itemID)
}

type txManagerMock struct {
	calls int
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}
