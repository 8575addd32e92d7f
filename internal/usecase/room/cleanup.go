package usecase_room

import (
	"time"

	"github.com/humanbelnik/scrumpoker/internal/model"
)

// cleanup is the deferred removal of an empty room. The handle itself is the
// identity checked at fire time: a replaced or cancelled handle is stale.
type cleanup struct {
	timer *time.Timer
}

// Must hold u.mu.
func (u *Usecase) scheduleCleanup(code model.RoomCode) {
	u.cancelCleanup(code)

	c := &cleanup{}
	c.timer = time.AfterFunc(u.gracePeriod, func() {
		u.reclaim(code, c)
	})
	u.pending[code] = c

	u.logger.Debug("room cleanup scheduled", "room", code, "in", u.gracePeriod)
}

// Must hold u.mu.
func (u *Usecase) cancelCleanup(code model.RoomCode) {
	c, ok := u.pending[code]
	if !ok {
		return
	}
	// A callback already past Stop finds itself missing from pending and gives up.
	c.timer.Stop()
	delete(u.pending, code)

	u.logger.Debug("room cleanup cancelled", "room", code)
}

func (u *Usecase) reclaim(code model.RoomCode, c *cleanup) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.pending[code] != c {
		return
	}
	delete(u.pending, code)

	room, ok := u.rooms[code]
	if !ok || !room.Empty() {
		return
	}
	delete(u.rooms, code)
	u.recorder.RoomReclaimed(code)

	u.logger.Info("room reclaimed", "room", code)
}

// PendingCleanups reports the rooms waiting for reclamation.
func (u *Usecase) PendingCleanups() int {
	u.mu.Lock()
	defer u.mu.Unlock()

	return len(u.pending)
}
