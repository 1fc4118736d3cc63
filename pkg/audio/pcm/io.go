package pcm

import (
	"errors"
	"io"
	"time"
)

// Writer consumes chunks of audio data.
type Writer interface {
	Write(Chunk) error
}

// ChunkWriter adapts an io.Writer into a Writer: each chunk is
// serialized into w via its WriteTo.
func ChunkWriter(w io.Writer) Writer {
	return &chunkWriter{w: w}
}

type chunkWriter struct {
	w io.Writer
}

func (w *chunkWriter) Write(c Chunk) error {
	_, err := c.WriteTo(w.w)
	return err
}

// Copy moves audio data from r to w as DataChunks of the given
// format, reading at least 20ms worth at a time. It returns nil at a
// clean end of stream.
func Copy(w Writer, r io.Reader, format Format) error {
	minChunk := int(format.BytesInDuration(20 * time.Millisecond))
	buf := make([]byte, 10*minChunk)
	for {
		n, err := io.ReadAtLeast(r, buf, minChunk)
		if n > 0 {
			if err := w.Write(format.DataChunk(buf[:n])); err != nil {
				return err
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return nil
			}
			return err
		}
	}
}
