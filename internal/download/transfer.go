package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/ytget/ytd/internal/extract"
	"github.com/ytget/ytd/internal/model"
)

// Transfer constants
const (
	DefaultChunkSize = 64 * 1024
	PartSuffix       = ".part"
	FilePermissions  = 0o644
)

// transfer fetches st into path with sequential chunk reads. Bytes go to path+".part"
// which is renamed to path only after the whole body was written.
func (s *Service) transfer(ctx context.Context, st extract.Stream, path string, index int, tr *tracker) (int64, error) {
	const op = "download.transfer"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, st.URL, nil)
	if err != nil {
		tr.skipItem(st.Size)
		return 0, model.NewError(model.KindTransferFailure, op, fmt.Errorf("create request: %w", err))
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		tr.skipItem(st.Size)
		return 0, model.NewError(model.KindTransferFailure, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		tr.skipItem(st.Size)
		return 0, model.NewError(model.KindTransferFailure, op, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	tr.beginItem(index, path, st.Size, resp.ContentLength)
	defer tr.endItem()

	partPath := path + PartSuffix
	f, err := os.OpenFile(partPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePermissions)
	if err != nil {
		return 0, model.NewError(model.KindFilesystemFailure, op, err)
	}

	written, copyErr := s.copyChunks(f, resp.Body, tr)
	closeErr := f.Close()

	if copyErr == nil && resp.ContentLength > 0 && written != resp.ContentLength {
		copyErr = model.NewError(model.KindTransferFailure, op,
			fmt.Errorf("short body: got %d of %d bytes", written, resp.ContentLength))
	}
	if copyErr == nil && closeErr != nil {
		copyErr = model.NewError(model.KindFilesystemFailure, op, closeErr)
	}
	if copyErr != nil {
		os.Remove(partPath)
		return written, copyErr
	}

	if err := os.Rename(partPath, path); err != nil {
		os.Remove(partPath)
		return written, model.NewError(model.KindFilesystemFailure, op, err)
	}
	s.logger.Debug("transfer finished", "path", path, "bytes", written)
	return written, nil
}

// copyChunks appends fixed-size chunks of r to w, reporting after every chunk.
// Only a clean io.EOF ends the copy; a body cut off early is a transfer failure.
func (s *Service) copyChunks(w io.Writer, r io.Reader, tr *tracker) (int64, error) {
	const op = "download.copy"

	buf := make([]byte, s.chunkSize)
	var written int64
	for {
		n, rerr := readChunk(r, buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return written, model.NewError(model.KindFilesystemFailure, op, werr)
			}
			written += int64(n)
			tr.add(int64(n))
		}
		if rerr == nil {
			continue
		}
		if rerr == io.EOF {
			return written, nil
		}
		return written, model.NewError(model.KindTransferFailure, op, rerr)
	}
}

// readChunk fills buf from r. Unlike io.ReadFull it passes io.EOF through unchanged,
// so an io.ErrUnexpectedEOF from the body is never mistaken for the end of the stream.
func readChunk(r io.Reader, buf []byte) (int, error) {
	var n int
	for n < len(buf) {
		m, err := r.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
