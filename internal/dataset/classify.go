package dataset

import (
	"sync"

	"github.com/gohugoio/hashstructure"
	"github.com/rs/zerolog/log"
)

// Classification partitions the active columns into numeric and categorical
// sets, both in original column order. Every column appears in exactly one.
type Classification struct {
	Numeric     []string `json:"numeric"`
	Categorical []string `json:"categorical"`
}

// Classify partitions columns by storage type. Integer and float columns are
// numeric; everything else, datetime columns included, is categorical.
func Classify(d *Dataset) Classification {
	c := Classification{Numeric: []string{}, Categorical: []string{}}
	if d == nil {
		return c
	}
	for _, col := range d.Columns {
		if col.Type.IsNumeric() {
			c.Numeric = append(c.Numeric, col.Name)
		} else {
			c.Categorical = append(c.Categorical, col.Name)
		}
	}
	return c
}

// IsNumeric reports whether name is in the numeric set.
func (c Classification) IsNumeric(name string) bool { return contains(c.Numeric, name) }

// IsCategorical reports whether name is in the categorical set.
func (c Classification) IsCategorical(name string) bool { return contains(c.Categorical, name) }

// All returns numeric columns followed by categorical ones, the order used to
// populate the X axis selector.
func (c Classification) All() []string {
	out := make([]string, 0, len(c.Numeric)+len(c.Categorical))
	out = append(out, c.Numeric...)
	return append(out, c.Categorical...)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Classifier memoizes Classify keyed on the dataset identity and its active
// column set. It is safe for concurrent use.
type Classifier struct {
	mu    sync.Mutex
	max   int
	cache map[uint64]Classification
	order []uint64
}

// NewClassifier returns a classifier that keeps at most size entries.
func NewClassifier(size int) *Classifier {
	if size <= 0 {
		size = 64
	}
	return &Classifier{max: size, cache: make(map[uint64]Classification, size)}
}

type classifyKey struct {
	ID      string
	Columns []string
}

// Classify returns the cached classification for d, computing it on a miss.
func (c *Classifier) Classify(d *Dataset) Classification {
	if d == nil {
		return Classify(nil)
	}
	key, err := hashstructure.Hash(classifyKey{ID: d.ID, Columns: d.ColumnNames()}, nil)
	if err != nil {
		log.Debug().Err(err).Msg("classification key")
		return Classify(d)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if cls, ok := c.cache[key]; ok {
		return cls
	}
	cls := Classify(d)
	if len(c.order) >= c.max {
		delete(c.cache, c.order[0])
		c.order = c.order[1:]
	}
	c.cache[key] = cls
	c.order = append(c.order, key)
	return cls
}

// Len returns the number of cached entries.
func (c *Classifier) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
