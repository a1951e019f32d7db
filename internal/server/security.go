// Package server provides the listeners the HTTP server accepts connections on.
package server

import (
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"sync"
	"time"
)

// TLSListener accepts HTTPS connections. The certificate pair is re-read
// from disk when the certificate file changes, so rotated certificates are
// served without a restart.
type TLSListener struct {
	certFileName       string
	privateKeyFileName string

	mu       sync.Mutex
	cert     *tls.Certificate
	loadedAt time.Time
}

func NewTLSListener(certFileName, privateKeyFileName string) *TLSListener {
	return &TLSListener{
		certFileName:       certFileName,
		privateKeyFileName: privateKeyFileName,
	}
}

// Listen loads the certificate pair and listens on addr. Clients must speak
// TLS 1.2 or newer; h2 is offered through ALPN.
func (l *TLSListener) Listen(protocol, addr string) (net.Listener, error) {
	if err := l.reload(); err != nil {
		return nil, err
	}

	return tls.Listen(protocol, addr, &tls.Config{
		GetCertificate: l.getCertificate,
		MinVersion:     tls.VersionTLS12,
		NextProtos:     []string{"h2", "http/1.1"},
	})
}

func (l *TLSListener) getCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if info, err := os.Stat(l.certFileName); err == nil && info.ModTime().After(l.loadedAt) {
		// a half-written rotation keeps serving the previous pair
		_ = l.loadLocked(info.ModTime())
	}
	return l.cert, nil
}

func (l *TLSListener) reload() error {
	info, err := os.Stat(l.certFileName)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadLocked(info.ModTime())
}

func (l *TLSListener) loadLocked(modTime time.Time) error {
	cert, err := tls.LoadX509KeyPair(l.certFileName, l.privateKeyFileName)
	if err != nil {
		return fmt.Errorf("failed to load TLS certificate: %w", err)
	}
	l.cert = &cert
	l.loadedAt = modTime
	return nil
}

// PlainListener accepts unencrypted connections.
type PlainListener struct{}

func NewPlainListener() *PlainListener {
	return &PlainListener{}
}

func (l *PlainListener) Listen(protocol, addr string) (net.Listener, error) {
	return net.Listen(protocol, addr)
}
