// Package hash provides one-way hashing for credentials and short-lived
// secrets. Passwords use bcrypt, OTP codes use a keyed HMAC-SHA256 digest.
package hash
