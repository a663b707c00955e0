// Package netcheck answers "can we reach the catalog right now?" before a
// fetch is attempted. It is a point-in-time probe, never consulted mid-fetch.
package netcheck

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"
)

// Checker reports whether the network is currently usable.
type Checker interface {
	IsAvailable(ctx context.Context) bool
}

const defaultTimeout = 2 * time.Second

// Dialer probes reachability by opening (and immediately closing) a TCP
// connection to a fixed address.
type Dialer struct {
	addr    string
	timeout time.Duration
	dial    func(ctx context.Context, network, address string) (net.Conn, error)
}

// NewDialer builds a Dialer for the host of rawURL. The port defaults from the
// scheme when absent.
func NewDialer(rawURL string, timeout time.Duration) (*Dialer, error) {
	addr, err := hostPort(rawURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	var d net.Dialer
	return &Dialer{addr: addr, timeout: timeout, dial: d.DialContext}, nil
}

// Addr returns the probed host:port.
func (d *Dialer) Addr() string { return d.addr }

// IsAvailable dials the target with the configured timeout.
func (d *Dialer) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	conn, err := d.dial(ctx, "tcp", d.addr)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Static always returns the wrapped answer.
type Static bool

// IsAvailable implements Checker.
func (s Static) IsAvailable(context.Context) bool { return bool(s) }

func hostPort(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse probe url %q: %w", rawURL, err)
	}
	host := u.Hostname()
	if host == "" {
		return "", fmt.Errorf("parse probe url %q: missing host", rawURL)
	}
	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "http":
			port = "80"
		default:
			port = "443"
		}
	}
	return net.JoinHostPort(host, port), nil
}
