// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package querytrace

import (
	"context"
	"errors"
	"net"

	"github.com/spf13/cast"
)

// ErrNoHostname indicates that a Connection carries no usable client hostname.
var ErrNoHostname = errors.New("no client hostname available")

// Connection supplies metadata about the connection a query executes on.
// Implementations come from the integrating query engine.
type Connection interface {
	// ClientHostname returns the hostname or address of the client side of
	// the connection.  Any error, including ErrNoHostname, is treated by span
	// recording as a recoverable condition: execution proceeds without
	// address annotations.
	ClientHostname() (string, error)
}

// ClientHostnameKey is the Metadata key consulted by ClientHostname.
const ClientHostnameKey = "client-hostname"

// Metadata is a map-based Connection for engines that expose connection
// attributes as loosely typed key/value pairs.
type Metadata map[string]interface{}

// ClientHostname coerces the value under ClientHostnameKey to a string.  It
// returns ErrNoHostname when the key is absent or the value is empty, and the
// coercion error when the value is not string-like.
func (m Metadata) ClientHostname() (string, error) {
	v, ok := m[ClientHostnameKey]
	if !ok {
		return "", ErrNoHostname
	}

	host, err := cast.ToStringE(v)
	if err != nil {
		return "", err
	}

	if len(host) == 0 {
		return "", ErrNoHostname
	}

	return host, nil
}

// Lookup resolves hostnames to network addresses.  net.DefaultResolver
// satisfies this interface.
type Lookup interface {
	// LookupIPAddr looks up host using the local resolver. It returns a slice of that host's IPv4 and IPv6 addresses.
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

var _ Lookup = (*net.Resolver)(nil)
