package split

import (
	"github.com/mcncl/jsonkit/internal/models"
)

// entrySet gives arrays and objects a common indexed view.
type entrySet interface {
	Len() int
	// Size is the encoded size of entry i as it appears inside its container.
	Size(i int) (int64, error)
	// Chunk builds a new container holding entries [start, end).
	Chunk(start, end int) models.JSONValue
}

type arrayEntries models.JSONArray

func (a arrayEntries) Len() int { return len(a) }

func (a arrayEntries) Size(i int) (int64, error) {
	n, err := models.EncodedSize(a[i])
	return int64(n), err
}

func (a arrayEntries) Chunk(start, end int) models.JSONValue {
	return models.Clone(models.JSONArray(a[start:end]))
}

type objectEntries []models.Field

func (o objectEntries) Len() int { return len(o) }

func (o objectEntries) Size(i int) (int64, error) {
	key, err := models.EncodedSize(o[i].Key)
	if err != nil {
		return 0, err
	}
	value, err := models.EncodedSize(o[i].Value)
	if err != nil {
		return 0, err
	}
	// "key":value
	return int64(key + 1 + value), nil
}

func (o objectEntries) Chunk(start, end int) models.JSONValue {
	obj := models.NewObject()
	for _, f := range o[start:end] {
		obj.Set(f.Key, models.Clone(f.Value))
	}
	return obj
}

// tracker converts item positions into whole-percent progress callbacks.
type tracker struct {
	total    int
	last     int
	progress ProgressFunc
}

func newTracker(total int, progress ProgressFunc) *tracker {
	return &tracker{total: total, last: -1, progress: progress}
}

func (t *tracker) advance(done int) {
	if t.progress == nil || t.total == 0 {
		return
	}
	pct := done * 100 / t.total
	if pct == t.last {
		return
	}
	t.last = pct
	t.progress(float64(pct))
}
