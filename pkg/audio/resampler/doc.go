// Package resampler converts interleaved 16-bit stereo PCM between
// sample rates, implemented in pure Go on top of
// github.com/tphakala/go-audio-resampling.
//
// The playback pipeline runs its audio device at a fixed 48 kHz
// stereo; this package's single job is bringing whatever rate the MP3
// decoder produces up (or down) to that, over a streaming io.Reader:
//
//	r, err := resampler.New(decoder, decoder.SampleRate(), 48000)
//	if err != nil {
//	    return err
//	}
//	defer r.Close()
//	// Read 48 kHz stereo PCM from r
//	io.Copy(output, r)
//
// Reads always return a whole number of stereo frames. When the
// source already runs at the target rate the Resampler degenerates to
// a frame-aligned pass-through.
package resampler
