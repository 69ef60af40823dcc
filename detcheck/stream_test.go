// Copyright 2024 Marc-Antoine Ruel. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package detcheck

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/maruel/softfloat-go/softfloat"
)

func TestStream(t *testing.T) {
	values := []softfloat.F32{softfloat.One, softfloat.NaN, softfloat.FromRaw(0x01020304)}
	data := []struct {
		order binary.ByteOrder
		want  []byte
	}{
		{binary.LittleEndian, []byte{0, 0, 0x80, 0x3F, 0, 0, 0xC0, 0xFF, 4, 3, 2, 1}},
		{binary.BigEndian, []byte{0x3F, 0x80, 0, 0, 0xFF, 0xC0, 0, 0, 1, 2, 3, 4}},
	}
	for i, line := range data {
		t.Run(fmt.Sprintf("#%d: %s", i, line.order), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, line.order, values); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(line.want, buf.Bytes()); diff != "" {
				t.Fatalf("unexpected encoding (-want +got):\n%s", diff)
			}
			got, err := Decode(&buf, line.order)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(values, got); diff != "" {
				t.Fatalf("unexpected decoding (-want +got):\n%s", diff)
			}
		})
	}
}

func TestStreamTruncated(t *testing.T) {
	got, err := Decode(bytes.NewReader([]byte{0, 0, 0x80, 0x3F, 1, 2}), binary.LittleEndian)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(got) != 1 || got[0] != softfloat.One {
		t.Fatalf("unexpected %v", got)
	}
	got, err = Decode(bytes.NewReader(nil), binary.LittleEndian)
	if err != nil || len(got) != 0 {
		t.Fatalf("%v: %v", got, err)
	}
}
