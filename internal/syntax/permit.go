package syntax

// PermitPool caps the number of concurrent parse tasks globally, with a
// reserve of slots that only viewport tasks may use, so full and
// incremental parses can never take every slot from viewport work. Stage A
// (coverage) and Stage B (enrichment) tasks are both TaskViewport and
// compete for the reserve on equal terms.
type PermitPool struct {
	total       int
	viewportReserve int
	inUse       int
	viewportInUse int
}

// NewPermitPool creates a pool with total concurrent-parse slots, of
// which viewportReserve are held back exclusively for viewport tasks.
func NewPermitPool(total, viewportReserve int) *PermitPool {
	if viewportReserve > total {
		viewportReserve = total
	}
	return &PermitPool{total: total, viewportReserve: viewportReserve}
}

// TryAcquire attempts to reserve one slot for a task of the given class.
// Non-viewport classes may only use the pool's non-reserved slots;
// viewport tasks may use any free slot, reserved or not.
func (p *PermitPool) TryAcquire(class TaskClass) bool {
	if class == TaskViewport {
		if p.inUse >= p.total {
			return false
		}
		p.inUse++
		p.viewportInUse++
		return true
	}
	generalCap := p.total - p.viewportReserve
	if p.inUse-p.viewportInUse >= generalCap {
		return false
	}
	p.inUse++
	return true
}

// Release returns a slot acquired by TryAcquire.
func (p *PermitPool) Release(class TaskClass) {
	if p.inUse > 0 {
		p.inUse--
	}
	if class == TaskViewport && p.viewportInUse > 0 {
		p.viewportInUse--
	}
}
