package download

import "github.com/ytget/ytd/internal/model"

// tracker accumulates byte progress of a job across its items.
// It keeps written <= total: an item that turns out larger than planned grows the total,
// an item that ends early (or fails) gives back its unwritten bytes.
type tracker struct {
	job        *model.DownloadJob
	onProgress func(model.Progress)

	count     int
	index     int
	path      string
	text      string
	total     int64
	written   int64
	itemTotal int64
	itemBytes int64
}

func newTracker(job *model.DownloadJob, onProgress func(model.Progress)) *tracker {
	return &tracker{job: job, onProgress: onProgress}
}

// plan sets the expected sizes of the items about to be transferred
func (t *tracker) plan(sizes []int64) {
	t.count = len(sizes)
	t.total = 0
	for _, s := range sizes {
		if s > 0 {
			t.total += s
		}
	}
	t.emit()
}

// beginItem starts item index (1-based) with its planned size; actual replaces the plan when known
func (t *tracker) beginItem(index int, path string, planned, actual int64) {
	if planned < 0 {
		planned = 0
	}
	t.index = index
	t.path = path
	t.itemBytes = 0
	t.itemTotal = planned
	if actual > 0 && actual != planned {
		t.total += actual - planned
		t.itemTotal = actual
	}
	t.emit()
}

func (t *tracker) add(n int64) {
	if n <= 0 {
		return
	}
	t.written += n
	t.itemBytes += n
	if t.itemBytes > t.itemTotal {
		t.total += t.itemBytes - t.itemTotal
		t.itemTotal = t.itemBytes
	}
	t.emit()
}

// endItem settles the item's share of the total to what was actually written
func (t *tracker) endItem() {
	if t.itemBytes < t.itemTotal {
		t.total -= t.itemTotal - t.itemBytes
		t.itemTotal = t.itemBytes
	}
	t.emit()
}

// skipItem drops a planned item that will never be transferred
func (t *tracker) skipItem(planned int64) {
	if planned > 0 {
		t.total -= planned
	}
	t.emit()
}

func (t *tracker) setText(text string) {
	t.text = text
	t.emit()
}

func (t *tracker) snapshot() model.Progress {
	return model.Progress{
		JobID:      t.job.ID,
		FilePath:   t.path,
		ItemIndex:  t.index,
		ItemCount:  t.count,
		Written:    t.written,
		Total:      t.total,
		ItemBytes:  t.itemBytes,
		ItemTotal:  t.itemTotal,
		StatusText: t.text,
	}
}

func (t *tracker) emit() {
	if t.onProgress != nil {
		t.onProgress(t.snapshot())
	}
}
