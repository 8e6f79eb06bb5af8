package learning

import "sync"

// Tally accumulates raw per-class token counts. Tallies built over disjoint
// parts of a corpus combine with Merge; the result does not depend on how the
// corpus was split or in which order the parts are merged.
type Tally struct {
	counts [2]map[string]int
	tokens [2]int
	docs   [2]int
}

// NewTally creates an empty tally
func NewTally() *Tally {
	return &Tally{
		counts: [2]map[string]int{
			make(map[string]int),
			make(map[string]int),
		},
	}
}

// Add counts every token of doc under its class. Unlabeled documents are
// ignored and reported with false.
func (t *Tally) Add(doc TokenizedDocument) bool {
	if !doc.Labeled || !doc.Label.Valid() {
		return false
	}

	counts := t.counts[doc.Label]
	for _, token := range doc.Tokens {
		counts[token]++
	}
	t.tokens[doc.Label] += len(doc.Tokens)
	t.docs[doc.Label]++

	return true
}

// Merge adds other into t and returns t
func (t *Tally) Merge(other *Tally) *Tally {
	if other == nil {
		return t
	}
	for _, label := range Labels {
		counts := t.counts[label]
		for token, n := range other.counts[label] {
			counts[token] += n
		}
		t.tokens[label] += other.tokens[label]
		t.docs[label] += other.docs[label]
	}
	return t
}

// Documents returns how many documents of class l were added
func (t *Tally) Documents(l Label) int {
	return t.docs[l]
}

// Tokens returns the raw token total of class l
func (t *Tally) Tokens(l Label) int {
	return t.tokens[l]
}

// Distinct returns the number of distinct tokens seen in class l
func (t *Tally) Distinct(l Label) int {
	return len(t.counts[l])
}

// Count returns the raw count of token in class l
func (t *Tally) Count(l Label, token string) int {
	return t.counts[l][token]
}

// Count folds docs into a single tally
func Count(docs []TokenizedDocument) *Tally {
	tally := NewTally()
	for _, doc := range docs {
		tally.Add(doc)
	}
	return tally
}

// CountSharded splits docs into contiguous shards, tallies each shard in its
// own goroutine and reduces the partial tallies in shard order.
func CountSharded(docs []TokenizedDocument, shards int) *Tally {
	if shards <= 1 || len(docs) < 2*shards {
		return Count(docs)
	}

	size := (len(docs) + shards - 1) / shards
	partials := make([]*Tally, shards)

	var wg sync.WaitGroup
	for i := 0; i < shards; i++ {
		start := i * size
		if start >= len(docs) {
			break
		}
		end := start + size
		if end > len(docs) {
			end = len(docs)
		}

		wg.Add(1)
		go func(i int, part []TokenizedDocument) {
			defer wg.Done()
			partials[i] = Count(part)
		}(i, docs[start:end])
	}
	wg.Wait()

	total := NewTally()
	for _, p := range partials {
		total.Merge(p)
	}
	return total
}
