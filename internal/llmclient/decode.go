package llmclient

import (
	"compress/flate"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
)

const acceptEncoding = "br, gzip, deflate"

// readBody reads and closes resp.Body, undoing any Content-Encoding.
func readBody(resp *http.Response) ([]byte, error) {
	body, err := decodeBody(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		_ = resp.Body.Close()
		return nil, err
	}
	defer func() {
		_ = body.Close()
	}()
	return io.ReadAll(body)
}

// decodeBody wraps body in the decoder for encoding. Closing the result
// closes body.
func decodeBody(encoding string, body io.ReadCloser) (io.ReadCloser, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "identity":
		return body, nil
	case "br":
		return &decodedBody{Reader: brotli.NewReader(body), body: body}, nil
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return &decodedBody{Reader: zr, body: body, closer: zr}, nil
	case "deflate":
		fr := flate.NewReader(body)
		return &decodedBody{Reader: fr, body: body, closer: fr}, nil
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}

type decodedBody struct {
	io.Reader
	body   io.Closer
	closer io.Closer
}

func (d *decodedBody) Close() error {
	var errs []error
	if d.closer != nil {
		errs = append(errs, d.closer.Close())
	}
	errs = append(errs, d.body.Close())
	return errors.Join(errs...)
}
