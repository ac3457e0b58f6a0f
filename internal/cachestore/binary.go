package cachestore

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// This file is the length-prefixed binary encoding used to persist a cache
// Entry, grounded on internal/tunascript/ast.go's symbol.MarshalBinary /
// internal/tunascript/binary.go's enc/decBinaryString/Int helpers: every
// value is prefixed by its own encoded length so decoding never needs a
// schema beyond "read the fields in this fixed order".

func encBinaryInt(i int) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, uint64(int64(i)))
	return enc
}

func decBinaryInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("cachestore: data does not contain 8 bytes for an int")
	}
	val := int64(binary.BigEndian.Uint64(data[:8]))
	return int(val), 8, nil
}

func encBinaryBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decBinaryBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("cachestore: unexpected end of data for a bool")
	}
	switch data[0] {
	case 0:
		return false, 1, nil
	case 1:
		return true, 1, nil
	default:
		return false, 0, fmt.Errorf("cachestore: non-bool byte value")
	}
}

func encBinaryString(s string) []byte {
	runeCount := 0
	var body []byte
	for _, ch := range s {
		buf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(buf, ch)
		body = append(body, buf[:n]...)
		runeCount++
	}
	return append(encBinaryInt(runeCount), body...)
}

func decBinaryString(data []byte) (string, int, error) {
	runeCount, n, err := decBinaryInt(data)
	if err != nil {
		return "", 0, fmt.Errorf("cachestore: decoding string rune count: %w", err)
	}
	data = data[n:]
	read := n

	var out []rune
	for i := 0; i < runeCount; i++ {
		ch, size := utf8.DecodeRune(data)
		if ch == utf8.RuneError && size <= 1 {
			return "", 0, fmt.Errorf("cachestore: invalid UTF-8 in encoded string")
		}
		out = append(out, ch)
		data = data[size:]
		read += size
	}
	return string(out), read, nil
}

func encBinaryStringSlice(ss []string) []byte {
	enc := encBinaryInt(len(ss))
	for _, s := range ss {
		enc = append(enc, encBinaryString(s)...)
	}
	return enc
}

func decBinaryStringSlice(data []byte) ([]string, int, error) {
	count, n, err := decBinaryInt(data)
	if err != nil {
		return nil, 0, err
	}
	data = data[n:]
	read := n

	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		s, sn, err := decBinaryString(data)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, s)
		data = data[sn:]
		read += sn
	}
	return out, read, nil
}
