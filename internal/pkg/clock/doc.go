// Package clock provides a tiny time abstraction.
//
// Business logic should depend on the Clocker interface instead of calling
// time.Now() directly, so deadline checks (for example one-time code expiry)
// can be exercised with a fake clock in tests.
package clock
