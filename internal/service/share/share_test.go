package share

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/medkit/internal/chat"
	"github.com/heartmarshall/medkit/internal/dialogue"
	"github.com/heartmarshall/medkit/internal/dialogue/dialoguetest"
	"github.com/heartmarshall/medkit/internal/domain"
)

const (
	alice int64 = 1
	bob   int64 = 2
)

type fakeKits struct {
	members map[int64][]int64
}

func (f *fakeKits) Kits(context.Context) ([]domain.Kit, error) {
	return []domain.Kit{{ID: 10, Name: "Home"}}, nil
}

func (f *fakeKits) Kit(_ context.Context, kitID int64) (*domain.Kit, error) {
	if kitID != 10 {
		return nil, domain.ErrNotFound
	}
	return &domain.Kit{ID: 10, Name: "Home"}, nil
}

func (f *fakeKits) IsMember(_ context.Context, kitID, userID int64) (bool, error) {
	for _, id := range f.members[kitID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeKits) AddMember(ctx context.Context, kitID, userID int64) error {
	if ok, _ := f.IsMember(ctx, kitID, userID); !ok {
		f.members[kitID] = append(f.members[kitID], userID)
	}
	return nil
}

type fakeUsers map[string]int64

func (f fakeUsers) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	name := domain.NormalizeUsername(username)
	id, ok := f[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.User{ID: id, Username: &name}, nil
}

type harness struct {
	store  *dialoguetest.Store
	kits   *fakeKits
	flow   *Flow
	engine *dialogue.Engine
}

func newHarness() *harness {
	h := &harness{
		store: dialoguetest.NewStore(),
		kits:  &fakeKits{members: map[int64][]int64{10: {alice}}},
	}
	h.flow = NewFlow(slog.Default(), h.kits, fakeUsers{"alice": alice, "bob": bob}, NewRequests(h.store, 24*time.Hour))
	h.engine = dialogue.NewEngine(slog.Default(), h.store, time.Hour, h.flow)
	return h
}

func (h *harness) invite(t *testing.T, username string) chat.Reply {
	t.Helper()
	ctx := context.Background()
	_, err := h.engine.Start(ctx, FlowName, chat.Update{Kind: chat.KindMessage, UserID: alice})
	require.NoError(t, err)
	_, handled, err := h.engine.HandleCallback(ctx, chat.Update{Kind: chat.KindCallback, UserID: alice, CallbackData: "sh:kit:10", MessageID: 4})
	require.NoError(t, err)
	require.True(t, handled)
	reply, handled, err := h.engine.HandleText(ctx, chat.Update{Kind: chat.KindMessage, UserID: alice, Username: "alice", Text: username})
	require.NoError(t, err)
	require.True(t, handled)
	return reply
}

func requestData(t *testing.T, reply chat.Reply) (accept, decline string) {
	t.Helper()
	require.Len(t, reply.Notifications, 1)
	row := reply.Notifications[0].Message.Keyboard[0]
	return row[0].Data, row[1].Data
}

func requestID(data string) string {
	_, args := chat.ParseData(data)
	return chat.Arg(args, 0)
}

func TestShare_AcceptAddsMember(t *testing.T) {
	t.Parallel()
	h := newHarness()

	reply := h.invite(t, "@Bob")
	assert.Equal(t, bob, reply.Notifications[0].UserID)
	assert.Contains(t, reply.Notifications[0].Message.Text, "@alice")
	assert.Contains(t, reply.Notifications[0].Message.Text, "Home")

	accept, _ := requestData(t, reply)
	assert.True(t, strings.HasPrefix(accept, AcceptData+":"))
	assert.LessOrEqual(t, len(accept), chat.MaxCallbackData)
	assert.Len(t, h.store.Keys(), 1, "only the request remains")

	answer, err := h.flow.Accept(context.Background(), chat.Update{Kind: chat.KindCallback, UserID: bob, Username: "bob"}, requestID(accept))
	require.NoError(t, err)
	ok, _ := h.kits.IsMember(context.Background(), 10, bob)
	assert.True(t, ok)
	require.Len(t, answer.Notifications, 1)
	assert.Equal(t, alice, answer.Notifications[0].UserID)
	assert.Contains(t, answer.Notifications[0].Message.Text, "@bob")
	assert.Empty(t, h.store.Keys())

	again, err := h.flow.Accept(context.Background(), chat.Update{Kind: chat.KindCallback, UserID: bob}, requestID(accept))
	require.NoError(t, err)
	assert.Equal(t, msgExpired, again.CallbackText)
}

func TestShare_Decline(t *testing.T) {
	t.Parallel()
	h := newHarness()

	_, decline := requestData(t, h.invite(t, "bob"))
	answer, err := h.flow.Decline(context.Background(), chat.Update{Kind: chat.KindCallback, UserID: bob}, requestID(decline))
	require.NoError(t, err)
	ok, _ := h.kits.IsMember(context.Background(), 10, bob)
	assert.False(t, ok)
	require.Len(t, answer.Notifications, 1)
	assert.Equal(t, alice, answer.Notifications[0].UserID)
}

func TestShare_ExpiredRequest(t *testing.T) {
	t.Parallel()
	h := newHarness()

	accept, _ := requestData(t, h.invite(t, "bob"))
	now := time.Now()
	h.store.Now = func() time.Time { return now.Add(25 * time.Hour) }

	answer, err := h.flow.Accept(context.Background(), chat.Update{Kind: chat.KindCallback, UserID: bob}, requestID(accept))
	require.NoError(t, err)
	assert.Equal(t, msgExpired, answer.CallbackText)
	ok, _ := h.kits.IsMember(context.Background(), 10, bob)
	assert.False(t, ok)
}

func TestShare_OnlyRecipientCanAnswer(t *testing.T) {
	t.Parallel()
	h := newHarness()

	accept, _ := requestData(t, h.invite(t, "bob"))
	answer, err := h.flow.Accept(context.Background(), chat.Update{Kind: chat.KindCallback, UserID: 99}, requestID(accept))
	require.NoError(t, err)
	assert.Equal(t, msgNotForYou, answer.CallbackText)
	assert.Len(t, h.store.Keys(), 1)
}

func TestShare_BadRecipients(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		username string
		want     string
	}{
		{"unknown", "@carol", msgUserNotFound},
		{"empty", "@", msgUserNotFound},
		{"self", "alice", msgSelf},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness()
			reply := h.invite(t, tt.username)
			assert.Empty(t, reply.Notifications)
			assert.Contains(t, reply.Messages[0].Text, tt.want)

			s, err := h.engine.Active(context.Background(), alice)
			require.NoError(t, err)
			require.NotNil(t, s)
			assert.Equal(t, StepEnteringUsername, s.Step)
		})
	}
}

func TestShare_AlreadyMember(t *testing.T) {
	t.Parallel()
	h := newHarness()
	h.kits.members[10] = append(h.kits.members[10], bob)

	reply := h.invite(t, "bob")
	assert.Empty(t, reply.Notifications)
	assert.Contains(t, reply.Messages[0].Text, msgAlreadyMember)
}

func TestRequests_RoundTrip(t *testing.T) {
	t.Parallel()
	store := dialoguetest.NewStore()
	q := NewRequests(store, time.Minute)

	r := &Request{KitID: 1, KitName: "Home", FromUserID: alice, ToUserID: bob}
	require.NoError(t, q.Save(context.Background(), r))
	assert.NotEqual(t, uuid.Nil, r.ID)
	assert.Equal(t, []string{"share_request:" + r.ID.String()}, store.Keys())

	got, err := q.Load(context.Background(), r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.KitName, got.KitName)
	assert.Equal(t, bob, got.ToUserID)

	_, err = q.Load(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrRequestExpired)
}

func TestShare_MalformedRequestID(t *testing.T) {
	t.Parallel()
	h := newHarness()

	answer, err := h.flow.Decline(context.Background(), chat.Update{Kind: chat.KindCallback, UserID: bob}, "not-a-uuid")
	require.NoError(t, err)
	assert.Equal(t, msgExpired, answer.CallbackText)
}
