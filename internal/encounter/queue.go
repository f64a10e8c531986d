package encounter

// queue is a bounded FIFO of pending encounter records.
type queue struct {
	records []Record
	max     int
}

func newQueue(max int) *queue {
	if max < 1 {
		max = 1
	}
	return &queue{max: max}
}

// hasCapacity reports whether another record fits.
func (q *queue) hasCapacity() bool { return len(q.records) < q.max }

// push appends a record. It reports false when the queue is full.
func (q *queue) push(r Record) bool {
	if !q.hasCapacity() {
		return false
	}
	q.records = append(q.records, r)
	return true
}

// pop removes and returns the oldest record.
func (q *queue) pop() (Record, bool) {
	if len(q.records) == 0 {
		return Record{}, false
	}
	r := q.records[0]
	q.records = q.records[1:]
	return r, true
}

func (q *queue) len() int { return len(q.records) }

func (q *queue) clear() { q.records = q.records[:0] }

// setMax adjusts the bound. Existing records above the new bound stay
// queued; only new production is blocked until the depth drains.
func (q *queue) setMax(max int) {
	if max < 1 {
		max = 1
	}
	q.max = max
}
