// Package binder opens the UDP endpoints used by both roles and resolves the single peer of a client.
package binder

import (
	"context"
	"net"
	"strconv"

	"github.com/pkg/errors"
)

var (
	ErrInvalidAddress    = errors.New("invalid socket address")
	ErrMultipleAddresses = errors.New("multiple addresses not supported")
)

// IsConfigError reports whether err comes from resolving a peer address spec.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidAddress) || errors.Is(err, ErrMultipleAddresses)
}

// Resolver enumerates the ip addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// Listen binds a UDP socket directly to address.
func Listen(address string) (*net.UDPConn, error) {
	addr, err := net.ResolveUDPAddr("udp", address)
	if err != nil {
		return nil, errors.Wrapf(err, "bind %s", address)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "bind %s", address)
	}
	return conn, nil
}

// ResolvePeer turns a host:port spec into exactly one endpoint. Zero or more than one
// candidate is a configuration error, the first candidate is never picked silently.
func ResolvePeer(ctx context.Context, r Resolver, address string) (*net.UDPAddr, error) {
	candidates, err := Candidates(ctx, r, address)
	if err != nil {
		return nil, err
	}
	switch len(candidates) {
	case 0:
		return nil, errors.Wrap(ErrInvalidAddress, address)
	case 1:
		return candidates[0], nil
	default:
		return nil, errors.Wrapf(ErrMultipleAddresses, "%s resolved to %d addresses", address, len(candidates))
	}
}

// Candidates enumerates every endpoint address may refer to.
func Candidates(ctx context.Context, r Resolver, address string) ([]*net.UDPAddr, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidAddress, err.Error())
	}
	port, err := parsePort(portStr)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidAddress, err.Error())
	}

	// literal ip, no lookup
	if ip, zone := splitZone(host); net.ParseIP(ip) != nil {
		return []*net.UDPAddr{{IP: net.ParseIP(ip), Port: port, Zone: zone}}, nil
	}
	if host == "" {
		return nil, errors.Wrapf(ErrInvalidAddress, "%s: empty host", address)
	}

	ips, err := r.LookupIPAddr(ctx, host)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return nil, errors.Wrap(ErrInvalidAddress, err.Error())
		}
		return nil, errors.Wrapf(err, "resolve %s", address)
	}
	addrs := make([]*net.UDPAddr, 0, len(ips))
	for _, ip := range ips {
		addrs = append(addrs, &net.UDPAddr{IP: ip.IP, Port: port, Zone: ip.Zone})
	}
	return addrs, nil
}

func parsePort(s string) (int, error) {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, errors.Errorf("invalid port %q", s)
	}
	return int(port), nil
}

func splitZone(host string) (ip, zone string) {
	for i := len(host) - 1; i >= 0; i-- {
		if host[i] == '%' {
			return host[:i], host[i+1:]
		}
	}
	return host, ""
}
