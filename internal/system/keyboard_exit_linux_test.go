//go:build linux

package system

import (
	"encoding/binary"
	"testing"
)

func event(tvSize, eventSize int, typ, code uint16, value int32) []byte {
	rec := make([]byte, eventSize)
	binary.LittleEndian.PutUint16(rec[tvSize:], typ)
	binary.LittleEndian.PutUint16(rec[tvSize+2:], code)
	binary.LittleEndian.PutUint32(rec[tvSize+4:], uint32(value))
	return rec
}

func TestKeyPresses(t *testing.T) {
	tv, size := inputEventSize()
	tests := []struct {
		name string
		buf  []byte
		want []uint16
	}{
		{"Key down", event(tv, size, evKey, KeyF4, 1), []uint16{KeyF4}},
		{"Key up ignored", event(tv, size, evKey, KeyF4, 0), nil},
		{"Repeat ignored", event(tv, size, evKey, KeyEsc, 2), nil},
		{"Non-key event ignored", event(tv, size, 0x02, KeyF4, 1), nil},
		{"Several records", append(event(tv, size, evKey, KeyQ, 1), event(tv, size, evKey, KeyEsc, 1)...), []uint16{KeyQ, KeyEsc}},
		{"Partial record ignored", event(tv, size, evKey, KeyF4, 1)[:size-1], nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keyPresses(tt.buf, tv, size)
			if len(got) != len(tt.want) {
				t.Fatalf("keyPresses = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("keyPresses[%d] = %d, want %d", i, got[i], tt.want[i])
				}
			}
		})
	}
}
