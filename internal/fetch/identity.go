package fetch

import "sync/atomic"

// defaultUserAgents is the builtin identity pool. Rotating across a few
// desktop identities reduces blocking by the more aggressive hosts.
var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64; rv:126.0) Gecko/20100101 Firefox/126.0",
}

// identityPool hands out client identity strings round-robin.
type identityPool struct {
	agents []string
	next   atomic.Uint32
}

func newIdentityPool(agents []string) *identityPool {
	if len(agents) == 0 {
		agents = defaultUserAgents
	}
	return &identityPool{agents: agents}
}

// Next returns the next identity in rotation.
func (p *identityPool) Next() string {
	n := p.next.Add(1) - 1
	return p.agents[int(n)%len(p.agents)]
}
