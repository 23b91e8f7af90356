package shttp

import (
	"net"
	"sync"
)

// connPool serves accepted connections from a fixed set of worker
// goroutines instead of spawning one per connection. dispatch blocks
// while every worker is busy, which is the backpressure: the listener
// stops accepting until a worker frees up.
type connPool struct {
	jobs chan net.Conn
	wg   sync.WaitGroup
}

func newConnPool(size int, serve func(net.Conn)) *connPool {
	p := &connPool{jobs: make(chan net.Conn)}
	for i := 0; i < size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for c := range p.jobs {
				serve(c)
			}
		}()
	}
	return p
}

func (p *connPool) dispatch(c net.Conn) {
	p.jobs <- c
}

// close stops the workers after the queued connections are served.
func (p *connPool) close() {
	close(p.jobs)
	p.wg.Wait()
}
