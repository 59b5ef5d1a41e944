//go:build linux

package xcb

import (
	"fmt"

	"github.com/gen2brain/shm"
	xshm "github.com/jezek/xgb/shm"
	"github.com/jezek/xgb/xproto"
)

// attachSHM allocates a System V shared-memory segment of at least
// segBytes, attaches it to this process, and registers it with the X
// server via MIT-SHM. It replaces any previously attached segment.
func (b *Backend) attachSHM(segBytes int) error {
	b.releaseSHM()

	id, err := shm.Get(shm.IPC_PRIVATE, segBytes, shm.IPC_CREAT|0600)
	if err != nil {
		return fmt.Errorf("shmget: %w", err)
	}
	addr, err := shm.At(id, 0, 0)
	if err != nil {
		_, _ = shm.Rm(id)
		return fmt.Errorf("shmat: %w", err)
	}

	segID, err := xshm.NewSegId(b.conn)
	if err != nil {
		_, _ = shm.Dt(addr)
		_, _ = shm.Rm(id)
		return fmt.Errorf("xshm.NewSegId: %w", err)
	}
	if err := xshm.AttachChecked(b.conn, segID, uint32(id), false).Check(); err != nil {
		_, _ = shm.Dt(addr)
		_, _ = shm.Rm(id)
		return fmt.Errorf("xshm.Attach: %w", err)
	}

	b.shmSegID = segID
	b.shmAddr = addr
	b.shmID = id
	b.shmBytes = segBytes
	return nil
}

// releaseSHM detaches and removes the current SHM segment, if any. It
// is safe to call repeatedly.
func (b *Backend) releaseSHM() {
	if b.shmBytes == 0 {
		return
	}
	xshm.Detach(b.conn, b.shmSegID)
	_, _ = shm.Dt(b.shmAddr)
	_, _ = shm.Rm(b.shmID)
	b.shmSegID = 0
	b.shmAddr = 0
	b.shmID = 0
	b.shmBytes = 0
}

// grabSHM reads pixels through the attached MIT-SHM segment, growing
// it first if the requested region no longer fits.
func (b *Backend) grabSHM(width, height int, left, top int32) ([]byte, error) {
	need := width * height * 4
	if need > b.shmBytes {
		if err := b.attachSHM(need); err != nil {
			return nil, err
		}
	}

	_, err := xshm.GetImage(
		b.conn, xproto.Drawable(b.root),
		int16(left), int16(top), uint16(width), uint16(height),
		0xffffffff, byte(xproto.ImageFormatZPixmap), b.shmSegID, 0,
	).Reply()
	if err != nil {
		return nil, fmt.Errorf("xshm.GetImage: %w", err)
	}

	page := segmentBytes(b.shmAddr, need)
	out := make([]byte, need)
	for i := 0; i < need; i += 4 {
		out[i+0] = page[i+0]
		out[i+1] = page[i+1]
		out[i+2] = page[i+2]
		out[i+3] = 0xff
	}
	return out, nil
}
