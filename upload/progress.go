package upload

import (
	"io"
	"sync/atomic"
)

// Progress receives transfer completion in percent, 0 to 100
type Progress func(percent int)

type progressReader struct {
	reader   io.Reader
	total    int64
	read     atomic.Int64
	last     atomic.Int32
	progress Progress
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if n > 0 {
		r.report(r.read.Add(int64(n)))
	}
	return n, err
}

func (r *progressReader) report(read int64) {
	if r.progress == nil || r.total <= 0 {
		return
	}
	percent := int(read * 100 / r.total)
	if percent > 100 {
		percent = 100
	}
	if previous := r.last.Load(); int32(percent) <= previous {
		return
	}
	r.last.Store(int32(percent))
	r.progress(percent)
}

func newProgressReader(reader io.Reader, total int64, progress Progress) *progressReader {
	ret := &progressReader{reader: reader, total: total, progress: progress}
	ret.last.Store(-1)
	return ret
}
