package extract

import (
	"fmt"
	"io"
)

const reverseChunkSize = 4096

// ReverseReader yields delimited rows from the end of a stream back to its
// beginning. It owns the cursor of the underlying stream and is neither
// restartable nor safe for concurrent use.
type ReverseReader struct {
	rs      io.ReadSeeker
	dialect Dialect

	position     int64
	prevPosition int64

	// buf holds the bytes of [bufStart, bufStart+len(buf)).
	buf      []byte
	bufStart int64
}

// NewReverseReader seeks rs to its end and records that offset as the
// starting position.
func NewReverseReader(rs io.ReadSeeker, d Dialect) (*ReverseReader, error) {
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek end: %w", err)
	}
	return &ReverseReader{
		rs:           rs,
		dialect:      d,
		position:     end,
		prevPosition: end,
		bufStart:     end,
	}, nil
}

// Position returns the offset the next row will be read backward from.
func (r *ReverseReader) Position() int64 { return r.position }

// PrevPosition returns the offset just after the most recently returned row.
func (r *ReverseReader) PrevPosition() int64 { return r.prevPosition }

// Next returns the previous row of the stream. It returns io.EOF once the
// start of the stream is reached without accumulating any characters.
func (r *ReverseReader) Next() ([]string, error) {
	if r.position <= 0 {
		return nil, io.EOF
	}
	r.prevPosition = r.position

	var line []byte
	for r.position > 0 {
		b, err := r.byteAt(r.position - 1)
		if err != nil {
			return nil, err
		}
		r.position--
		if b == '\n' || b == '\r' {
			if len(line) > 0 {
				break
			}
			continue
		}
		line = append(line, b)
	}
	if len(line) == 0 {
		return nil, io.EOF
	}
	for i, j := 0, len(line)-1; i < j; i, j = i+1, j-1 {
		line[i], line[j] = line[j], line[i]
	}
	return r.dialect.split(string(line)), nil
}

// byteAt returns the byte at off, refilling the backward window as needed.
func (r *ReverseReader) byteAt(off int64) (byte, error) {
	if off < r.bufStart || off >= r.bufStart+int64(len(r.buf)) {
		start := off - reverseChunkSize + 1
		if start < 0 {
			start = 0
		}
		n := off - start + 1
		if cap(r.buf) < int(n) {
			r.buf = make([]byte, n)
		}
		r.buf = r.buf[:n]
		if _, err := r.rs.Seek(start, io.SeekStart); err != nil {
			return 0, fmt.Errorf("seek %d: %w", start, err)
		}
		if _, err := io.ReadFull(r.rs, r.buf); err != nil {
			return 0, fmt.Errorf("read at %d: %w", start, err)
		}
		r.bufStart = start
	}
	return r.buf[off-r.bufStart], nil
}
