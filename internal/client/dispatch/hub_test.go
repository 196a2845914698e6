package dispatch

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/liveview/internal/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustReceive(t *testing.T, ch <-chan Update) Update {
	t.Helper()
	select {
	case upd, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return upd
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for update")
		return Update{}
	}
}

func assertNoUpdate(t *testing.T, ch <-chan Update) {
	t.Helper()
	select {
	case upd := <-ch:
		t.Fatalf("unexpected update: %+v", upd)
	case <-time.After(50 * time.Millisecond):
	}
}

func sampleView(total int) *models.ReconciledView {
	return &models.ReconciledView{
		Items:      []*models.Record{{ID: "a", Status: models.StatusPending}},
		TotalCount: total,
	}
}

func TestHub_ReplayLatestOnSubscribe(t *testing.T) {
	h := NewHub(testLogger(), Config{})
	defer h.Close()

	h.PublishStatus(models.ConnectionStatus{State: models.StateConnecting})
	h.PublishStatus(models.ConnectionStatus{State: models.StateConnected})
	h.PublishView(sampleView(5))
	h.PublishNewItems(2)

	ch := h.Subscribe()

	// реплей синхронный: буфер уже наполнен последним состоянием
	upd := mustReceive(t, ch)
	assert.Equal(t, KindStatus, upd.Kind)
	assert.Equal(t, models.StateConnected, upd.Status.State, "реплеится только последний статус")

	upd = mustReceive(t, ch)
	assert.Equal(t, KindView, upd.Kind)
	assert.Equal(t, 5, upd.View.TotalCount)

	upd = mustReceive(t, ch)
	assert.Equal(t, KindNewItems, upd.Kind)
	assert.Equal(t, 2, upd.NewItems)
}

func TestHub_NoReplayBeforeFirstPublish(t *testing.T) {
	h := NewHub(testLogger(), Config{})
	defer h.Close()

	ch := h.Subscribe()
	assertNoUpdate(t, ch)
}

func TestHub_ErrorsAreNotReplayed(t *testing.T) {
	h := NewHub(testLogger(), Config{})
	defer h.Close()

	h.PublishError(errors.New("query failed"))

	ch := h.Subscribe()
	assertNoUpdate(t, ch)
}

func TestHub_IncrementalUpdates(t *testing.T) {
	h := NewHub(testLogger(), Config{})
	defer h.Close()

	ch := h.Subscribe()

	h.PublishStatus(models.ConnectionStatus{State: models.StateConnecting})
	h.PublishView(sampleView(1))
	h.PublishError(errors.New("boom"))

	assert.Equal(t, KindStatus, mustReceive(t, ch).Kind)
	assert.Equal(t, KindView, mustReceive(t, ch).Kind)

	upd := mustReceive(t, ch)
	assert.Equal(t, KindError, upd.Kind)
	require.Error(t, upd.Err)
}

func TestHub_ListenersAreIsolated(t *testing.T) {
	h := NewHub(testLogger(), Config{})
	defer h.Close()

	first := h.Subscribe()
	second := h.Subscribe()
	require.Equal(t, 2, h.Subscribers())

	h.Unsubscribe(first)
	require.Equal(t, 1, h.Subscribers())

	// отписка первого не мешает второму получать обновления
	h.PublishView(sampleView(3))
	upd := mustReceive(t, second)
	assert.Equal(t, KindView, upd.Kind)

	// канал первого закрыт
	_, ok := <-first
	assert.False(t, ok)
}

func TestHub_UnsubscribeTwiceIsSafe(t *testing.T) {
	h := NewHub(testLogger(), Config{})
	defer h.Close()

	ch := h.Subscribe()
	h.Unsubscribe(ch)
	assert.NotPanics(t, func() { h.Unsubscribe(ch) })
}

func TestHub_OnActiveFiresForFirstSubscriberOnly(t *testing.T) {
	active := make(chan struct{}, 4)
	h := NewHub(testLogger(), Config{OnActive: func() { active <- struct{}{} }})
	defer h.Close()

	first := h.Subscribe()
	require.Len(t, active, 1)

	second := h.Subscribe()
	require.Len(t, active, 1, "второй подписчик не активирует повторно")
	<-active

	// после полного опустошения следующий подписчик активирует заново
	h.Unsubscribe(first)
	h.Unsubscribe(second)
	_ = h.Subscribe()
	assert.Len(t, active, 1)
}

func TestHub_OnIdleAfterLastUnsubscribe(t *testing.T) {
	idle := make(chan struct{}, 1)
	h := NewHub(testLogger(), Config{OnIdle: func() { idle <- struct{}{} }})
	defer h.Close()

	ch := h.Subscribe()
	h.Unsubscribe(ch)

	select {
	case <-idle:
	case <-time.After(time.Second):
		t.Fatal("idle callback was not fired")
	}
}

func TestHub_SubscribeDuringGraceCancelsIdle(t *testing.T) {
	idle := make(chan struct{}, 1)
	h := NewHub(testLogger(), Config{
		IdleGrace: 100 * time.Millisecond,
		OnIdle:    func() { idle <- struct{}{} },
	})
	defer h.Close()

	ch := h.Subscribe()
	h.Unsubscribe(ch)

	// новый подписчик появился до истечения паузы — suspend отменён
	_ = h.Subscribe()

	select {
	case <-idle:
		t.Fatal("idle fired despite new subscriber")
	case <-time.After(250 * time.Millisecond):
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	h := NewHub(testLogger(), Config{})
	defer h.Close()

	ch := h.Subscribe()

	done := make(chan struct{})
	go func() {
		// публикуем больше, чем вмещает буфер; лишнее отбрасывается
		for i := 0; i < subscriberBuffer*2; i++ {
			h.PublishNewItems(i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publisher blocked on slow subscriber")
	}

	// подписчик получает не более размера буфера
	received := 0
	for {
		select {
		case <-ch:
			received++
			continue
		default:
		}
		break
	}
	assert.LessOrEqual(t, received, subscriberBuffer)
	assert.Greater(t, received, 0)
}

func TestHub_Close(t *testing.T) {
	h := NewHub(testLogger(), Config{})

	ch := h.Subscribe()
	h.Close()

	_, ok := <-ch
	assert.False(t, ok, "канал подписчика закрыт")

	// публикации после Close не паникуют
	assert.NotPanics(t, func() {
		h.PublishStatus(models.ConnectionStatus{State: models.StateConnected})
		h.PublishView(sampleView(1))
	})

	// подписка после Close возвращает закрытый канал
	late := h.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}
