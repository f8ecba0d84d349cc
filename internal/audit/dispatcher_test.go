package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-desk/internal/models"
	"github.com/BruksfildServices01/barber-desk/internal/testutil"
)

type memRecorder struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (m *memRecorder) Record(_ context.Context, ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("db down")
	}
	m.events = append(m.events, ev)
	return nil
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	rec := &memRecorder{}
	d := NewDispatcher(rec, zerolog.Nop())

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{Action: "a", BarbershopID: uint(i)})
	}
	d.Close()

	require.Len(t, rec.events, 10)
	for i, ev := range rec.events {
		assert.Equal(t, uint(i), ev.BarbershopID)
	}
}

func TestDispatcherSurvivesRecorderErrors(t *testing.T) {
	rec := &memRecorder{fail: true}
	d := NewDispatcher(rec, zerolog.Nop())

	d.Dispatch(Event{Action: "x"})
	d.Close()

	assert.Empty(t, rec.events)
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(Event{Action: "x"})
	d.Close()
}

func TestLoggerRecordsMetadata(t *testing.T) {
	db := testutil.NewDB(t)
	l := New(db)

	id := uint(7)
	require.NoError(t, l.Record(context.Background(), Event{
		BarbershopID: 1,
		Action:       "appointment_status_changed",
		Entity:       "appointment",
		EntityID:     &id,
		Metadata:     map[string]string{"to": "DONE"},
	}))

	var row models.AuditLog
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "appointment_status_changed", row.Action)
	assert.JSONEq(t, `{"to":"DONE"}`, row.Metadata)
	require.NotNil(t, row.EntityID)
	assert.Equal(t, uint(7), *row.EntityID)
}
