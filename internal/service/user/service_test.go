package user_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/useradmin/user-admin/backend/internal/model/user"
	"github.com/useradmin/user-admin/backend/internal/service/events"
	"github.com/useradmin/user-admin/backend/internal/service/user"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.ChangeEvent
}

func (p *recordingPublisher) Publish(evt events.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
}

func newService(strategy model.IDStrategy) (*user.Service, *recordingPublisher) {
	pub := &recordingPublisher{}
	store := model.NewMemoryStore(model.Seed(), strategy)
	return user.NewService(store, pub, nil), pub
}

func strPtr(v string) *string { return &v }

func TestListAfterCreates(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		svc.Create(ctx, model.Fields{Name: "User"})
	}

	assert.Len(t, svc.List(ctx), 3+len(model.Seed()))
}

func TestListKeepsInsertionOrder(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)
	ctx := context.Background()

	svc.Create(ctx, model.Fields{Name: "Ayşe"})

	names := make([]string, 0, 3)
	for _, u := range svc.List(ctx) {
		names = append(names, u.Name)
	}
	assert.Equal(t, []string{"Ahmet Yılmaz", "Mehmet Demir", "Ayşe"}, names)
}

func TestGetMissing(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)
	ctx := context.Background()

	_, ok := svc.Get(ctx, 99)
	assert.False(t, ok)

	require.True(t, svc.Delete(ctx, 2))
	_, ok = svc.Get(ctx, 2)
	assert.False(t, ok)
}

func TestCreateThenGet(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)
	ctx := context.Background()

	fields := model.Fields{Name: "A", Email: "a@example.com", Phone: "1", Address: "Kadıköy"}
	created := svc.Create(ctx, fields)

	got, ok := svc.Get(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, model.User{
		ID:      created.ID,
		Name:    "A",
		Email:   "a@example.com",
		Phone:   "1",
		Address: "Kadıköy",
	}, got)
}

func TestCreateAcceptsEmptyFields(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)

	created := svc.Create(context.Background(), model.Fields{})
	assert.Equal(t, 3, created.ID)
	assert.Empty(t, created.Name)
}

func TestUpdateChangesOnlyGivenFields(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)
	ctx := context.Background()

	before, ok := svc.Get(ctx, 1)
	require.True(t, ok)

	updated, ok := svc.Update(ctx, 1, model.Patch{Name: strPtr("B")})
	require.True(t, ok)
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, before.Email, updated.Email)
	assert.Equal(t, before.Phone, updated.Phone)
	assert.Equal(t, before.Address, updated.Address)

	list := svc.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, updated, list[0], "updated record keeps its position")
}

func TestUpdateMissing(t *testing.T) {
	svc, pub := newService(model.IDStrategyLength)

	_, ok := svc.Update(context.Background(), 42, model.Patch{Name: strPtr("B")})
	assert.False(t, ok)
	assert.Empty(t, pub.events)
}

func TestUpdateEmptyStringOverwrites(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)

	updated, ok := svc.Update(context.Background(), 2, model.Patch{Email: strPtr("")})
	require.True(t, ok)
	assert.Empty(t, updated.Email)
	assert.Equal(t, "Mehmet Demir", updated.Name)
}

func TestDelete(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)
	ctx := context.Background()

	assert.True(t, svc.Delete(ctx, 1))
	assert.Len(t, svc.List(ctx), 1)

	assert.False(t, svc.Delete(ctx, 1))
	assert.Len(t, svc.List(ctx), 1)
}

// Under the length strategy a create after a delete reuses an id that is still taken.
// This is known defective behavior and is asserted here so any change to it is deliberate.
func TestLengthStrategyReusesIDAfterDelete(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)
	ctx := context.Background()

	ayse := svc.Create(ctx, model.Fields{Name: "Ayşe"})
	require.Equal(t, 3, ayse.ID)

	require.True(t, svc.Delete(ctx, 1))
	require.Len(t, svc.List(ctx), 2)

	can := svc.Create(ctx, model.Fields{Name: "Can"})
	assert.Equal(t, 3, can.ID)

	dupes := 0
	for _, u := range svc.List(ctx) {
		if u.ID == 3 {
			dupes++
		}
	}
	assert.Equal(t, 2, dupes)

	// Delete filters every match, so both records sharing id 3 disappear.
	assert.True(t, svc.Delete(ctx, 3))
	assert.Len(t, svc.List(ctx), 1)
}

func TestSequenceStrategyNeverReusesIDs(t *testing.T) {
	svc, _ := newService(model.IDStrategySequence)
	ctx := context.Background()

	ayse := svc.Create(ctx, model.Fields{Name: "Ayşe"})
	require.Equal(t, 3, ayse.ID)
	require.True(t, svc.Delete(ctx, 1))
	require.True(t, svc.Delete(ctx, 3))

	can := svc.Create(ctx, model.Fields{Name: "Can"})
	assert.Equal(t, 4, can.ID)
}

func TestSearchByName(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)
	ctx := context.Background()

	got := svc.Search(ctx, "mehmet")
	require.Len(t, got, 1)
	assert.Equal(t, "Mehmet Demir", got[0].Name)

	got = svc.Search(ctx, "ahmet")
	require.Len(t, got, 1)
	assert.Equal(t, "Ahmet Yılmaz", got[0].Name)

	assert.Empty(t, svc.Search(ctx, "zzz"))
}

func TestSearchIgnoresCase(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)

	got := svc.Search(context.Background(), "DEMIR")
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	got = svc.Search(context.Background(), "Yılmaz")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestSearchEmptyQueryMatchesAll(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)

	assert.Len(t, svc.Search(context.Background(), ""), 2)
}

func TestSearchNameOnlyByDefault(t *testing.T) {
	svc, _ := newService(model.IDStrategyLength)
	ctx := context.Background()

	assert.Empty(t, svc.Search(ctx, "ankara"))

	got := svc.Search(ctx, "ankara", user.AllFields()...)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	got = svc.Search(ctx, "0532", user.FieldPhone)
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestParseFields(t *testing.T) {
	fields, err := user.ParseFields(" Name, email ,")
	require.NoError(t, err)
	assert.Equal(t, []user.Field{user.FieldName, user.FieldEmail}, fields)

	fields, err = user.ParseFields("")
	require.NoError(t, err)
	assert.Nil(t, fields)

	_, err = user.ParseFields("name,password")
	assert.True(t, errors.Is(err, user.ErrUnknownField))
}

func TestMutationsPublishEvents(t *testing.T) {
	svc, pub := newService(model.IDStrategyLength)
	ctx := context.Background()

	created := svc.Create(ctx, model.Fields{Name: "Ayşe"})
	svc.Update(ctx, created.ID, model.Patch{Phone: strPtr("555")})
	svc.Delete(ctx, created.ID)
	svc.Delete(ctx, created.ID)

	require.Len(t, pub.events, 3)
	assert.Equal(t, events.Created, pub.events[0].Type)
	assert.Equal(t, events.Updated, pub.events[1].Type)
	assert.Equal(t, events.Deleted, pub.events[2].Type)
	for _, evt := range pub.events {
		assert.Equal(t, created.ID, evt.UserID)
		assert.NotEmpty(t, evt.ID)
	}
}

func TestConcurrentCreatesAreNotLost(t *testing.T) {
	svc, _ := newService(model.IDStrategySequence)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.Create(ctx, model.Fields{Name: "Worker"})
		}()
	}
	wg.Wait()

	list := svc.List(ctx)
	require.Len(t, list, 52)

	seen := make(map[int]bool, len(list))
	for _, u := range list {
		assert.False(t, seen[u.ID], "duplicate id %d", u.ID)
		seen[u.ID] = true
	}
}
