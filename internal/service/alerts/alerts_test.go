package alerts

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/domain"
	"github.com/heartmarshall/medkit/pkg/ctxutil"
)

type userIDs []int64

func (u userIDs) AllIDs(context.Context) ([]int64, error) { return u, nil }

type inventoryMock struct {
	ExpiryDigestFunc func(ctx context.Context, days int) ([]domain.ItemDetails, []domain.ItemDetails, error)
}

func (m *inventoryMock) ExpiryDigest(ctx context.Context, days int) ([]domain.ItemDetails, []domain.ItemDetails, error) {
	if m.ExpiryDigestFunc == nil {
		panic("inventoryMock.ExpiryDigestFunc: method is nil but ExpiryDigest was just called")
	}
	return m.ExpiryDigestFunc(ctx, days)
}

type sinkFunc func(ctx context.Context, userID int64, msg chat.Message) error

func (f sinkFunc) Send(ctx context.Context, userID int64, msg chat.Message) error {
	return f(ctx, userID, msg)
}

func TestRunOnce(t *testing.T) {
	t.Parallel()

	expired := []domain.ItemDetails{{Medicine: domain.Medicine{Name: "Aspirin"}, KitName: "Home"}}
	inv := &inventoryMock{
		ExpiryDigestFunc: func(ctx context.Context, days int) ([]domain.ItemDetails, []domain.ItemDetails, error) {
			assert.Equal(t, 7, days)
			id, _ := ctxutil.UserIDFromCtx(ctx)
			switch id {
			case 1:
				return expired, nil, nil
			case 2:
				return nil, nil, nil
			case 3:
				return nil, nil, errors.New("db down")
			default:
				return nil, expired, nil
			}
		},
	}

	var got []int64
	sink := sinkFunc(func(_ context.Context, userID int64, msg chat.Message) error {
		if userID == 5 {
			return errors.New("blocked")
		}
		assert.Contains(t, msg.Text, "Aspirin")
		got = append(got, userID)
		return nil
	})

	n := NewNotifier(slog.Default(), userIDs{1, 2, 3, 4, 5}, inv, sink, Options{Interval: time.Hour, ExpiringDays: 7})
	sent, err := n.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []int64{1, 4}, got)
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	n := NewNotifier(slog.Default(), userIDs{}, &inventoryMock{}, sinkFunc(nil), Options{Interval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- n.Run(ctx) }()

	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
