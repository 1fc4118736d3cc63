// Package player implements the playback orchestrator: it is the
// only component that knows about every other package in this module
// at once. A long-lived device handle is paired with a small
// per-session render loop driven by the audio device's own clock.
package player
