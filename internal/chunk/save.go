package chunk

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"voxelcore/internal/block"
)

const (
	magicG = 'G'
	magicC = 'C'
	magicH = 'H'
	magicK = 'K'

	saveVersion = 3

	headerSize = 12
)

// ErrSeedMismatch signals that a save file's stored seed does not match the
// current world seed; the caller should discard the payload and regenerate.
var ErrSeedMismatch = fmt.Errorf("chunk: save file seed mismatch")

// Encode serializes the chunk's block types as RLE pairs prefixed by the
// fixed header from SPEC_FULL.md §6. Lighting, sky, and dirty flags are not
// persisted — only block.Type.
func (c *Chunk) Encode() []byte {
	buf := make([]byte, headerSize, headerSize+Volume/2)
	buf[0], buf[1], buf[2], buf[3] = magicG, magicC, magicH, magicK
	buf[4] = saveVersion
	buf[5] = BX
	buf[6] = BY
	buf[7] = BZ
	binary.LittleEndian.PutUint32(buf[8:12], c.worldSeed)

	i := 0
	for i < Volume {
		t := c.blocks[i].Type
		run := 1
		for i+run < Volume && run < 255 && c.blocks[i+run].Type == t {
			run++
		}
		buf = append(buf, byte(t), byte(run))
		i += run
	}
	return buf
}

// Decode parses a save-file byte stream produced by Encode, validating the
// header against this build's dimension constants. A header mismatch
// (4CC, version, or BX/BY/BZ) is a programmer invariant and panics — the
// file was produced by the same system, so it should never disagree
// (SPEC_FULL.md §7). A stored seed different from currentSeed returns
// ErrSeedMismatch so the caller can fall through to regeneration instead of
// trusting stale terrain.
func Decode(data []byte, currentSeed uint32) ([Volume]block.Block, error) {
	var out [Volume]block.Block
	if len(data) < headerSize {
		panic(fmt.Sprintf("chunk: save file too short: %d bytes", len(data)))
	}
	if data[0] != magicG || data[1] != magicC || data[2] != magicH || data[3] != magicK {
		panic(fmt.Sprintf("chunk: bad 4CC in save file: %q", data[0:4]))
	}
	if data[4] != saveVersion {
		panic(fmt.Sprintf("chunk: unsupported save version %d, want %d", data[4], saveVersion))
	}
	if data[5] != BX || data[6] != BY || data[7] != BZ {
		panic(fmt.Sprintf("chunk: dimension mismatch in save file: got (%d,%d,%d), want (%d,%d,%d)",
			data[5], data[6], data[7], BX, BY, BZ))
	}

	storedSeed := binary.LittleEndian.Uint32(data[8:12])

	i := 0
	pos := headerSize
	for pos < len(data) {
		t := block.Type(data[pos])
		run := int(data[pos+1])
		if run == 0 {
			panic("chunk: zero-length RLE run in save file")
		}
		if i+run > Volume {
			panic(fmt.Sprintf("chunk: RLE runs overflow chunk volume at byte %d", pos))
		}
		for j := 0; j < run; j++ {
			out[i+j] = block.Block{Type: t}
		}
		i += run
		pos += 2
	}
	if i != Volume {
		panic(fmt.Sprintf("chunk: RLE run lengths sum to %d, want %d", i, Volume))
	}

	if storedSeed != currentSeed {
		return out, ErrSeedMismatch
	}
	return out, nil
}

// LoadInto decodes data into c's block array if the seed matches, returning
// ErrSeedMismatch (without modifying c) if it does not.
func (c *Chunk) LoadInto(data []byte) error {
	decoded, err := Decode(data, c.worldSeed)
	if err != nil {
		return err
	}
	c.blocks = decoded
	c.needsSaving = false
	c.meshDirty = true
	return nil
}

// SavePath returns the on-disk path for this chunk's save file under root,
// following the `Saves/World_<seed>/Chunk(<cx>,<cy>).chunk` layout
// (SPEC_FULL.md §6).
func SavePath(root string, worldSeed uint32, coord Coord) string {
	dir := filepath.Join(root, fmt.Sprintf("World_%d", worldSeed))
	name := fmt.Sprintf("Chunk(%d,%d).chunk", coord.X, coord.Y)
	return filepath.Join(dir, name)
}

// Save writes the chunk to disk under root, creating the world directory
// lazily. I/O failure propagates as an error; the pipeline may log and drop
// it (SPEC_FULL.md §7) — a failed save never blocks deactivation.
func (c *Chunk) Save(root string) error {
	path := SavePath(root, c.worldSeed, c.Coord)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("chunk: create save directory: %w", err)
	}
	if err := os.WriteFile(path, c.Encode(), 0o644); err != nil {
		return fmt.Errorf("chunk: write save file: %w", err)
	}
	c.needsSaving = false
	return nil
}

// Load reads and decodes the chunk's save file from disk, if present. A
// missing file is normal and reported via os.IsNotExist on the returned
// error; callers should fall through to generation in that case.
func Load(root string, worldSeed uint32, coord Coord) (*Chunk, error) {
	path := SavePath(root, worldSeed, coord)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c := New(coord, worldSeed)
	if err := c.LoadInto(data); err != nil {
		return nil, err
	}
	c.Store(Completed)
	return c, nil
}
