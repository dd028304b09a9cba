package dto

// PinPolicy validates a server certificate against a pre-known set of
// DER certificates or SPKI hashes instead of trusting any CA chain.
type PinPolicy struct {
	// Hosts subject to pinning. Hosts not listed bypass pinning
	// entirely. An empty list applies the policy to every host the
	// descriptor targets.
	Hosts []string
	// Certificates are raw DER bytes matched byte-exact against the
	// presented leaf certificate.
	Certificates [][]byte
	// SPKIHashes are "sha256/<hex>" digests of the leaf certificate's
	// subject-public-key-info.
	SPKIHashes []string
	// AllowFallback permits the connection when no pin matches.
	// Default is reject.
	AllowFallback bool
}

func (p *PinPolicy) AppliesTo(host string) bool {
	if p == nil {
		return false
	}
	if len(p.Hosts) == 0 {
		return true
	}
	for _, h := range p.Hosts {
		if h == host {
			return true
		}
	}
	return false
}
