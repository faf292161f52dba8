package chunk

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"voxelcore/internal/block"
)

func fillDeterministic(c *Chunk, seed int64) {
	r := rand.New(rand.NewSource(seed))
	for x := 0; x < SX; x++ {
		for y := 0; y < SY; y++ {
			for z := 0; z < SZ; z++ {
				c.blocks[Index(x, y, z)] = block.Block{Type: block.Type(r.Intn(6))}
			}
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := New(Coord{3, -2}, 42)
	fillDeterministic(c, 1)

	data := c.Encode()
	decoded, err := Decode(data, 42)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i := range decoded {
		if decoded[i].Type != c.blocks[i].Type {
			t.Fatalf("block %d: got type %d, want %d", i, decoded[i].Type, c.blocks[i].Type)
		}
	}
}

func TestEncodeRunLengthsSumToVolume(t *testing.T) {
	c := New(Coord{0, 0}, 0)
	fillDeterministic(c, 2)
	data := c.Encode()

	sum := 0
	for pos := headerSize; pos < len(data); pos += 2 {
		sum += int(data[pos+1])
	}
	if sum != Volume {
		t.Fatalf("RLE run lengths sum to %d, want %d", sum, Volume)
	}
}

func TestEncodeUniformChunkNeverCrosses255Boundary(t *testing.T) {
	c := New(Coord{0, 0}, 0) // all-air chunk: one uniform run of Volume blocks
	data := c.Encode()

	wantPairs := (Volume + 254) / 255 // a run never crosses the 255 boundary (SPEC_FULL.md §6)
	gotPairs := (len(data) - headerSize) / 2
	if gotPairs != wantPairs {
		t.Fatalf("uniform chunk encoded to %d RLE pairs, want %d", gotPairs, wantPairs)
	}
	for pos := headerSize; pos < len(data); pos += 2 {
		if data[pos+1] > 255 || data[pos+1] == 0 {
			t.Fatalf("run length byte %d out of [1,255]", data[pos+1])
		}
	}
}

func TestDecodeSeedMismatchReturnsError(t *testing.T) {
	c := New(Coord{0, 0}, 7)
	data := c.Encode()
	_, err := Decode(data, 99)
	if err != ErrSeedMismatch {
		t.Fatalf("Decode with wrong seed: err = %v, want ErrSeedMismatch", err)
	}
}

func TestDecodeBadMagicPanics(t *testing.T) {
	c := New(Coord{0, 0}, 0)
	data := c.Encode()
	data[0] = 'X'
	defer func() {
		if recover() == nil {
			t.Fatalf("Decode with bad 4CC did not panic")
		}
	}()
	Decode(data, 0)
}

func TestDecodeBadDimensionsPanics(t *testing.T) {
	c := New(Coord{0, 0}, 0)
	data := c.Encode()
	data[5] = BX + 1
	defer func() {
		if recover() == nil {
			t.Fatalf("Decode with mismatched BX did not panic")
		}
	}()
	Decode(data, 0)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	root := t.TempDir()
	c := New(Coord{2, 5}, 11)
	fillDeterministic(c, 3)
	c.Store(Activated)

	if err := c.Save(root); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if c.NeedsSaving() {
		t.Fatalf("Save did not clear needsSaving")
	}

	path := SavePath(root, 11, Coord{2, 5})
	wantPath := filepath.Join(root, "World_11", "Chunk(2,5).chunk")
	if path != wantPath {
		t.Fatalf("SavePath = %q, want %q", path, wantPath)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("save file missing: %v", err)
	}

	loaded, err := Load(root, 11, Coord{2, 5})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	for i := range loaded.blocks {
		if loaded.blocks[i].Type != c.blocks[i].Type {
			t.Fatalf("block %d mismatch after save/load round trip", i)
		}
	}
}

func TestLoadMissingFileReportsNotExist(t *testing.T) {
	root := t.TempDir()
	_, err := Load(root, 0, Coord{99, 99})
	if !os.IsNotExist(err) {
		t.Fatalf("Load of missing file: err = %v, want IsNotExist", err)
	}
}
