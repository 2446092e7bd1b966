package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
)

// ErrNoCertsFound is returned for a CA file without CERTIFICATE blocks.
var ErrNoCertsFound = errors.New("tlsroots: no certificates found in PEM file")

// systemPool is swapped in tests.
var systemPool = x509.SystemCertPool

// LoadCAFile returns the system roots plus every certificate in the PEM
// file at path. Systems without a root store get only the file's
// certificates.
func LoadCAFile(path string) (*x509.CertPool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: read CA file: %w", err)
	}

	pool, err := systemPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	n, err := appendPEM(pool, data)
	if err != nil {
		return nil, fmt.Errorf("tlsroots: %s: %w", path, err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoCertsFound, path)
	}
	return pool, nil
}

// appendPEM adds the CERTIFICATE blocks of data to pool and reports how
// many it added. Other block types, such as keys bundled in the same
// file, are skipped.
func appendPEM(pool *x509.CertPool, data []byte) (int, error) {
	n := 0
	for {
		var block *pem.Block
		block, data = pem.Decode(data)
		if block == nil {
			return n, nil
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return n, fmt.Errorf("parse certificate %d: %w", n+1, err)
		}
		pool.AddCert(cert)
		n++
	}
}

// ClientTLSConfig returns the TLS settings for reaching an API server
// whose certificate chains to caFile. An empty caFile yields nil and the
// transport keeps its defaults.
func ClientTLSConfig(caFile string) (*tls.Config, error) {
	if caFile == "" {
		return nil, nil
	}
	pool, err := LoadCAFile(caFile)
	if err != nil {
		return nil, err
	}
	return &tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12}, nil
}
