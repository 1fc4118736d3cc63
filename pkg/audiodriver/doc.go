// Package audiodriver implements the two-party realtime audio driver:
// a Backend running on the audio callback thread (non-blocking,
// non-allocating after construction) and a Frontend running on the
// player thread, connected by a bounded SPSC command queue and a
// one-slot atomic status publication. Frontend commands
// (ChangeStream/ZeroTime) sit in deferred slots until a Commit applies
// them both atomically and publishes the new status.
//
// Device output is wired to github.com/ebitengine/oto/v3 via an
// io.Reader shim in driver.go, since oto pulls PCM through Read rather
// than a push callback.
package audiodriver
