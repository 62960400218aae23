package storage

import (
	"bytes"
	"compress/gzip"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
)

// Формат файла сохранения: четыре байта ASCII-магии, версия формата
// little-endian, дальше gzip-сжатое JSON-тело снапшота.
const (
	MagicHeader        = "AESV"
	Version1    uint32 = 1

	headerSize = 8
)

// ErrCorruptSave - блоб не является валидным сохранением: чужая магия,
// незнакомая версия, битый поток. Decode никогда не возвращает
// частично разобранный снапшот.
var ErrCorruptSave = errors.New("storage: corrupt save")

// Encode упаковывает снапшот в блоб сохранения.
func Encode(snap *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(MagicHeader)
	if err := binary.Write(&buf, binary.LittleEndian, Version1); err != nil {
		return nil, fmt.Errorf("failed to write save header: %w", err)
	}

	zw := gzip.NewWriter(&buf)
	if err := json.NewEncoder(zw).Encode(snap); err != nil {
		zw.Close()
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode разбирает блоб сохранения. Любая невалидность сворачивается
// в ErrCorruptSave с уточнением причины.
func Decode(data []byte) (*Snapshot, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: truncated header", ErrCorruptSave)
	}
	if string(data[:len(MagicHeader)]) != MagicHeader {
		return nil, fmt.Errorf("%w: bad magic", ErrCorruptSave)
	}
	if version := binary.LittleEndian.Uint32(data[len(MagicHeader):headerSize]); version != Version1 {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorruptSave, version)
	}

	zr, err := gzip.NewReader(bytes.NewReader(data[headerSize:]))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	defer zr.Close()

	var snap Snapshot
	if err := json.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}
	return &snap, nil
}
