package snapshot

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"
)

// A stored file is framed as xxh3-128(plaintext) followed by the zstd
// compressed plaintext.
const checksumSize = 16

func encodeFrame(enc *zstd.Encoder, data []byte) []byte {
	sum := xxh3.Hash128(data).Bytes()
	out := make([]byte, checksumSize, checksumSize+len(data)/2)
	copy(out, sum[:])
	return enc.EncodeAll(data, out)
}

func decodeFrame(dec *zstd.Decoder, raw []byte) ([]byte, error) {
	if len(raw) < checksumSize {
		return nil, fmt.Errorf("%w: short frame (%d bytes)", ErrCorrupt, len(raw))
	}
	data, err := dec.DecodeAll(raw[checksumSize:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	sum := xxh3.Hash128(data).Bytes()
	if !bytes.Equal(sum[:], raw[:checksumSize]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
