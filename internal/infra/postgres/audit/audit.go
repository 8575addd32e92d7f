package infra_postgres_audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/humanbelnik/scrumpoker/internal/model"
	"github.com/jmoiron/sqlx"
)

const (
	KindCreated   = "created"
	KindReclaimed = "reclaimed"

	writeTimeout = 5 * time.Second
)

const schema = `
	CREATE TABLE IF NOT EXISTS room_events (
		id   BIGSERIAL PRIMARY KEY,
		code TEXT NOT NULL,
		kind TEXT NOT NULL,
		at   TIMESTAMPTZ NOT NULL
	)
`

// Driver appends room lifecycle transitions to room_events. It is write-only.
type Driver struct {
	db    *sqlx.DB
	queue chan recordDTO

	logger *slog.Logger
}

type recordDTO struct {
	Code string    `db:"code"`
	Kind string    `db:"kind"`
	At   time.Time `db:"at"`
}

func New(
	db *sqlx.DB,
	buffer int,
) *Driver {
	return &Driver{
		db:     db,
		queue:  make(chan recordDTO, buffer),
		logger: slog.Default(),
	}
}

func (d *Driver) Migrate(ctx context.Context) error {
	_, err := d.db.ExecContext(ctx, schema)
	return err
}

func (d *Driver) RoomCreated(code model.RoomCode) {
	d.enqueue(code, KindCreated)
}

func (d *Driver) RoomReclaimed(code model.RoomCode) {
	d.enqueue(code, KindReclaimed)
}

func (d *Driver) enqueue(code model.RoomCode, kind string) {
	select {
	case d.queue <- recordDTO{Code: string(code), Kind: kind, At: time.Now().UTC()}:
	default:
		d.logger.Warn("audit queue full, dropping record", "room", code, "kind", kind)
	}
}

// Run writes queued records until ctx is done, then drains what is left.
// Writes outlive ctx so that nothing taken off the queue is lost on shutdown.
func (d *Driver) Run(ctx context.Context) {
	writeCtx := context.WithoutCancel(ctx)
	for {
		select {
		case rec := <-d.queue:
			d.write(writeCtx, rec)
		case <-ctx.Done():
			for {
				select {
				case rec := <-d.queue:
					d.write(writeCtx, rec)
				default:
					return
				}
			}
		}
	}
}

func (d *Driver) write(ctx context.Context, rec recordDTO) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := d.insert(ctx, rec); err != nil {
		d.logger.Error("failed to write audit record", "room", rec.Code, "kind", rec.Kind, "error", err)
	}
}

func (d *Driver) insert(ctx context.Context, rec recordDTO) error {
	query := `
		INSERT INTO room_events (code, kind, at)
		VALUES (:code, :kind, :at)
	`

	_, err := d.db.NamedExecContext(ctx, query, rec)
	return err
}
