// internal/audit/audit.go
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/bodegapos/backend/internal/domain"
	"github.com/bodegapos/backend/internal/repository"
)

// Action codes written to system_logs.
const (
	ActionSaleCompleted = "VENTA_REALIZADA"
	ActionCashFlow      = "FLUJO_CAJA"
	ActionShiftOpened   = "TURNO_ABIERTO"
	ActionShiftClosed   = "TURNO_CERRADO"
)

// Logger is a fire-and-forget audit sink. Entries are handed to a buffered
// channel and written by a background goroutine, outside the transaction of
// the operation being audited. A full buffer or a failed insert is logged
// and dropped; it never reaches the caller.
type Logger struct {
	store   repository.Store
	entries chan domain.SystemLog
	done    chan struct{}
}

func New(store repository.Store) *Logger {
	l := &Logger{
		store:   store,
		entries: make(chan domain.SystemLog, 256),
		done:    make(chan struct{}),
	}
	go l.drain()
	return l
}

func (l *Logger) drain() {
	defer close(l.done)
	for entry := range l.entries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := l.store.InsertSystemLog(ctx, &entry)
		cancel()
		if err != nil {
			log.Error().Err(err).Str("action", entry.Action).Msg("failed to write audit entry")
		}
	}
}

// Record queues an audit entry. Nil-safe and non-blocking.
func (l *Logger) Record(userID, action, details string) {
	if l == nil {
		return
	}
	entry := domain.SystemLog{
		ID:      uuid.NewString(),
		Action:  action,
		Details: details,
		Date:    time.Now().UTC(),
	}
	if userID != "" {
		entry.UserID = &userID
	}
	select {
	case l.entries <- entry:
	default:
		log.Warn().Str("action", action).Msg("audit buffer full, dropping entry")
	}
}

// Close stops accepting entries and waits for the queue to flush.
func (l *Logger) Close() {
	if l == nil {
		return
	}
	close(l.entries)
	<-l.done
}
