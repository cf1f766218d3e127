package mockapi

import (
	"bytes"
	"fmt"
	"hash/crc64"
	"net/http"
)

var crcTable = crc64.MakeTable(crc64.ECMA)

// etagWriter buffers the response and computes a CRC64 checksum over the
// body, used to generate the ETag header.
type etagWriter struct {
	http.ResponseWriter
	buffer   bytes.Buffer
	checksum uint64
	status   int
}

func (w *etagWriter) Write(b []byte) (int, error) {
	w.checksum = crc64.Update(w.checksum, crcTable, b)
	return w.buffer.Write(b)
}

func (w *etagWriter) WriteHeader(status int) {
	w.status = status
}

// ETag returns a middleware tagging successful GET responses with the
// checksum of their body. A request whose If-None-Match equals the tag
// gets 304 Not Modified without a body.
//
// Tags are computed on every request since fixtures may change at any
// time.
//
//	api := mux.Group("/mock", mockapi.ETag(false))
func ETag(weak bool) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			rw := &etagWriter{ResponseWriter: w}
			next.ServeHTTP(rw, r)

			if (rw.status == 0 || rw.status == http.StatusOK) && w.Header().Get("Etag") == "" {
				etag := fmt.Sprintf("\"%x\"", rw.checksum)
				if weak {
					etag = "W/" + etag
				}
				w.Header().Set("Etag", etag)

				if r.Header.Get("If-None-Match") == etag {
					w.WriteHeader(http.StatusNotModified)
					return
				}
			}

			if rw.status != 0 {
				w.WriteHeader(rw.status)
			}
			w.Write(rw.buffer.Bytes())
		})
	}
}
