package engine

import (
	"github.com/google/uuid"
	"github.com/milk9111/skirmish/common"
)

// randReader feeds uuid generation from the engine's seeded source so the
// same seed names the same encounter.
type randReader struct {
	r common.Rand
}

func (rr randReader) Read(p []byte) (int, error) {
	for i := 0; i < len(p); {
		v := rr.r.Int63()
		for b := 0; b < 7 && i < len(p); b++ {
			p[i] = byte(v >> (8 * b))
			i++
		}
	}
	return len(p), nil
}

func encounterID(r common.Rand) (uuid.UUID, error) {
	return uuid.NewRandomFromReader(randReader{r: r})
}
