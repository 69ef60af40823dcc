// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package detcheck

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/maruel/softfloat-go/softfloat"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// Encode writes values as a stream of 4 bytes words in the given byte order.
func Encode(w io.Writer, order binary.ByteOrder, values []softfloat.F32) error {
	bw := bufio.NewWriter(w)
	var buf [4]byte
	for _, v := range values {
		order.PutUint32(buf[:], v.Raw())
		if _, err := bw.Write(buf[:]); err != nil {
			return errors.Wrap(err, "encoding stream")
		}
	}
	return errors.Wrap(bw.Flush(), "encoding stream")
}

// Decode reads a stream written by Encode until EOF.
func Decode(r io.Reader, order binary.ByteOrder) ([]softfloat.F32, error) {
	br := bufio.NewReader(r)
	var out []softfloat.F32
	var buf [4]byte
	for {
		n, err := io.ReadFull(br, buf[:])
		switch {
		case err == io.EOF:
			return out, nil
		case err == io.ErrUnexpectedEOF:
			return out, errors.Errorf("truncated stream: %d trailing bytes after %d values", n, len(out))
		case err != nil:
			return out, errors.Wrap(err, "decoding stream")
		}
		out = append(out, softfloat.FromRaw(order.Uint32(buf[:])))
	}
}

// digest returns the SHA3-256 of the little endian stream of values.
func digest(values []softfloat.F32) []byte {
	h := sha3.New256()
	// Writing to a hash never fails.
	_ = Encode(h, binary.LittleEndian, values)
	return h.Sum(nil)
}
