package services

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// TicketGenerator produces report ticket ids of the form
// TICKET_<unix-ms>_<random suffix>. The last issued id is remembered so two
// submissions landing in the same millisecond never collide within a
// process.
type TicketGenerator struct {
	mu   sync.Mutex
	rnd  *rand.Rand
	last string
}

func NewTicketGenerator() *TicketGenerator {
	return &TicketGenerator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *TicketGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	for {
		id := fmt.Sprintf("TICKET_%d_%d", time.Now().UnixMilli(), g.rnd.Intn(10000))
		if id != g.last {
			g.last = id
			return id
		}
	}
}
