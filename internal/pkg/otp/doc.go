// Package otp generates one-time numeric codes.
//
// Codes are short-lived secondary credentials delivered out-of-band (email or
// SMS). The generator only produces codes; storage, expiry and comparison are
// handled by the callers.
package otp
