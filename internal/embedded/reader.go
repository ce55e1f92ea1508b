package embedded

import (
	"bytes"
	"io"
	"io/fs"
)

const chunkSize = 4096

// readAll drains r in fixed-size chunks. When r reports its length the
// buffer is allocated once up front.
func readAll(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	if n := sizeHint(r); n > 0 {
		buf.Grow(int(n))
	}

	chunk := make([]byte, chunkSize)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
		}
		if err == io.EOF {
			return buf.Bytes(), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func sizeHint(r io.Reader) int64 {
	switch v := r.(type) {
	case interface{ Len() int }:
		return int64(v.Len())
	case interface{ Size() int64 }:
		return v.Size()
	case interface{ Stat() (fs.FileInfo, error) }:
		if info, err := v.Stat(); err == nil {
			return info.Size()
		}
	}
	return 0
}
