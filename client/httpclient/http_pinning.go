package httpclient

import (
	"bytes"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"

	"github.com/joy-dx/netpipe/dto"
)

// newPinnedTransport builds a transport whose TLS connections are
// validated against the pin policy in addition to normal chain
// verification. Hosts outside the policy's host set bypass pinning.
func newPinnedTransport(policy *dto.PinPolicy) *http.Transport {
	transport := newBaseTransport()
	transport.TLSClientConfig = &tls.Config{
		VerifyConnection: func(cs tls.ConnectionState) error {
			return verifyPin(policy, cs)
		},
	}
	return transport
}

func verifyPin(policy *dto.PinPolicy, cs tls.ConnectionState) error {
	if !policy.AppliesTo(cs.ServerName) {
		return nil
	}
	if len(cs.PeerCertificates) == 0 {
		return fmt.Errorf("no peer certificate presented by %s", cs.ServerName)
	}
	leaf := cs.PeerCertificates[0]

	for _, der := range policy.Certificates {
		if bytes.Equal(der, leaf.Raw) {
			return nil
		}
	}

	spki := SPKIHash(leaf)
	for _, pin := range policy.SPKIHashes {
		if strings.EqualFold(pin, spki) {
			return nil
		}
	}

	if policy.AllowFallback {
		return nil
	}
	return fmt.Errorf("certificate pin mismatch for %s", cs.ServerName)
}

// SPKIHash computes the "sha256/<hex>" pin of a certificate's
// subject-public-key-info.
func SPKIHash(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.RawSubjectPublicKeyInfo)
	return "sha256/" + hex.EncodeToString(sum[:])
}
