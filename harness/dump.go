package harness

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	lz4 "github.com/pierrec/lz4/v4"
	"github.com/zeebo/xxh3"
)

// DumpCodec selects the payload compression of a failure-artifact file:
// 0=raw, 1=zstd, 2=lz4.
type DumpCodec byte

const (
	DumpRaw  DumpCodec = 0
	DumpZstd DumpCodec = 1
	DumpLZ4  DumpCodec = 2
)

// ParseDumpCodec maps the CLI flag value to a codec.
func ParseDumpCodec(s string) (DumpCodec, error) {
	switch s {
	case "", "raw":
		return DumpRaw, nil
	case "zstd":
		return DumpZstd, nil
	case "lz4":
		return DumpLZ4, nil
	}
	return 0, fmt.Errorf("unknown dump codec %q", s)
}

var dumpMagic = [8]byte{'O', 'C', 'B', 'L', 'A', 'S', 'D', '1'}

// WriteDump writes the case's host-buffer snapshots to a sectioned binary
// file. Each section stores its raw length and an xxh3 digest of the raw
// bytes so a reader can verify the round trip.
func WriteDump(path string, codec DumpCodec, sections []Artifact) error {
	var buf bytes.Buffer
	buf.Write(dumpMagic[:])
	buf.WriteByte(byte(codec))
	if err := binary.Write(&buf, binary.LittleEndian, uint32(len(sections))); err != nil {
		return err
	}

	for _, s := range sections {
		payload, err := compress(codec, s.Data)
		if err != nil {
			return fmt.Errorf("section %s: %w", s.Name, err)
		}
		name := []byte(s.Name)
		if err := binary.Write(&buf, binary.LittleEndian, uint16(len(name))); err != nil {
			return err
		}
		buf.Write(name)
		if err := binary.Write(&buf, binary.LittleEndian, uint64(len(s.Data))); err != nil {
			return err
		}
		if err := binary.Write(&buf, binary.LittleEndian, uint64(len(payload))); err != nil {
			return err
		}
		if err := binary.Write(&buf, binary.LittleEndian, xxh3.Hash(s.Data)); err != nil {
			return err
		}
		buf.Write(payload)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// ReadDump reads a sectioned dump file back, verifying each section's
// digest.
func ReadDump(path string) ([]Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r := bytes.NewReader(data)

	var magic [8]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if magic != dumpMagic {
		return nil, fmt.Errorf("not a dump file: bad magic")
	}
	codecByte, err := r.ReadByte()
	if err != nil {
		return nil, err
	}
	codec := DumpCodec(codecByte)

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	sections := make([]Artifact, 0, count)
	for i := uint32(0); i < count; i++ {
		var nameLen uint16
		if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
			return nil, err
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, err
		}
		var rawLen, compLen, digest uint64
		if err := binary.Read(r, binary.LittleEndian, &rawLen); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &compLen); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.LittleEndian, &digest); err != nil {
			return nil, err
		}
		payload := make([]byte, compLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, err
		}
		raw, err := decompress(codec, payload, rawLen)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", name, err)
		}
		if uint64(len(raw)) != rawLen || xxh3.Hash(raw) != digest {
			return nil, fmt.Errorf("section %s: digest mismatch", name)
		}
		sections = append(sections, Artifact{Name: string(name), Data: raw})
	}
	return sections, nil
}

func compress(codec DumpCodec, raw []byte) ([]byte, error) {
	switch codec {
	case DumpRaw:
		return raw, nil
	case DumpZstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil
	case DumpLZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown codec %d", codec)
}

func decompress(codec DumpCodec, payload []byte, rawLen uint64) ([]byte, error) {
	switch codec {
	case DumpRaw:
		return payload, nil
	case DumpZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, err
		}
		defer dec.Close()
		return dec.DecodeAll(payload, make([]byte, 0, rawLen))
	case DumpLZ4:
		r := lz4.NewReader(bytes.NewReader(payload))
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("unknown codec %d", codec)
}
