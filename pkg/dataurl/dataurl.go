// Package dataurl encodes and decodes base64 "data:" URIs for captured frames.
package dataurl

import (
	"encoding/base64"
	"errors"
	"strings"
)

// ErrMalformed is returned by Decode for anything that is not a base64 data URI.
var ErrMalformed = errors.New("dataurl: malformed data URI")

// Encode returns data as a "data:<mime>;base64,..." URI.
func Encode(mime string, data []byte) string {
	var b strings.Builder
	b.Grow(len(mime) + 13 + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// Decode splits a base64 data URI into its media type and payload.
func Decode(uri string) (mime string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrMalformed
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrMalformed
	}
	mime, ok = strings.CutSuffix(header, ";base64")
	if !ok {
		return "", nil, ErrMalformed
	}
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, errors.Join(ErrMalformed, err)
	}
	return mime, data, nil
}

// Extension returns the file extension for the image types we produce.
func Extension(mime string) string {
	switch mime {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	return ".bin"
}
