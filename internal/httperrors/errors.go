// Copyright (c) 2025 Goerp
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors provides user-friendly presentation of network errors.
package httperrors

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// FormatNetworkError converts technical HTTP/network errors into user-friendly
// messages. It detects common failure modes (timeout, DNS, connection refused,
// TLS) and prints a short hint before returning the wrapped error.
func FormatNetworkError(err error, context string) error {
	if err == nil {
		return nil
	}
	switch {
	case isTimeoutError(err):
		pterm.Printf("⏱️  Connection timeout while %s\n", context)
		pterm.Println("   The server took too long to respond. Check the server URL and try again.")
	case isDNSError(err):
		pterm.Printf("🌐 Cannot resolve server address while %s\n", context)
		pterm.Println("   Check the configured server URL and your network connection.")
	case isConnectionRefusedError(err):
		pterm.Printf("🚫 Connection refused while %s\n", context)
		pterm.Println("   The server is not accepting connections on that address/port.")
	case isTLSError(err):
		pterm.Printf("🔒 Secure connection failed while %s\n", context)
		pterm.Println("   Check the certificate of the server and your system clock.")
	default:
		pterm.Printf("❌ Cannot reach the server while %s\n", context)
	}
	return fmt.Errorf("network error: %w", err)
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.ECONNREFUSED)
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isTLSError checks if the error is a TLS error.
func isTLSError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "tls") ||
		strings.Contains(msg, "certificate") ||
		strings.Contains(msg, "handshake")
}
