package save

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dantero/voxelcore/voxel"
	"github.com/dantero/voxelcore/world"
)

// chunkMagic identifies a per-column binary file (spec §4.H): the four
// ASCII characters "VCWC" written in order, unrelated to the
// little-endian convention used for every multi-byte field after it.
var chunkMagic = [4]byte{'V', 'C', 'W', 'C'}

// chunkFileVersion is the only version this codec understands. Readers
// must fail on anything else (spec §4.H: "future versions may extend;
// readers must fail on unknown versions").
const chunkFileVersion uint32 = 1

// chunkFileName returns the conventional file name for a column's
// persisted chunk data (spec §6 "chunk_<X>_<Z>.bin").
func chunkFileName(key world.ColumnKey) string {
	return "chunk_" + strconv.FormatInt(key.X, 10) + "_" + strconv.FormatInt(key.Z, 10) + ".bin"
}

// writeColumnFile encodes col's generated segments, plus any segment
// holding a non-air voxel, to path in the per-column binary format
// (spec §4.H): magic, version, base coords, a segment bitmap, then S^3
// voxel-id bytes per set bit in ascending segment index.
func writeColumnFile(path string, key world.ColumnKey, col *world.Column) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)

	var bitmap uint16
	col.ForEachSegment(func(segY int64, seg *world.Segment) {
		if seg.IsGenerated() {
			bitmap |= 1 << uint(segY)
			return
		}
		for _, v := range seg.SnapshotVoxels() {
			if v != voxel.Air {
				bitmap |= 1 << uint(segY)
				return
			}
		}
	})

	if _, err := w.Write(chunkMagic[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, chunkFileVersion); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, key.X); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, key.Z); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, bitmap); err != nil {
		return err
	}

	var writeErr error
	col.ForEachSegment(func(segY int64, seg *world.Segment) {
		if writeErr != nil || bitmap&(1<<uint(segY)) == 0 {
			return
		}
		voxels := seg.SnapshotVoxels()
		raw := make([]byte, len(voxels))
		for i, v := range voxels {
			raw[i] = byte(v)
		}
		if _, err := w.Write(raw); err != nil {
			writeErr = err
		}
	})
	if writeErr != nil {
		return writeErr
	}

	return w.Flush()
}

// readColumnFile decodes the binary file at path into col, validating
// magic, version, and coordinate agreement with want. Any mismatch or
// truncation is reported as a corrupt-save error (spec §7); col is left
// partially populated in that case and the caller must treat the whole
// load as failed.
func readColumnFile(path string, want world.ColumnKey, col *world.Column) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)

	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return fmt.Errorf("save: reading magic from %s: %w", path, err)
	}
	if magic != chunkMagic {
		return fmt.Errorf("save: %s: bad magic %q, want %q", path, magic, chunkMagic)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("save: reading version from %s: %w", path, err)
	}
	if version != chunkFileVersion {
		return fmt.Errorf("save: %s: unsupported chunk file version %d", path, version)
	}

	var x, z int64
	if err := binary.Read(r, binary.LittleEndian, &x); err != nil {
		return fmt.Errorf("save: reading x from %s: %w", path, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &z); err != nil {
		return fmt.Errorf("save: reading z from %s: %w", path, err)
	}
	if x != want.X || z != want.Z {
		return fmt.Errorf("save: %s: coordinate mismatch, file has (%d,%d), expected (%d,%d)", path, x, z, want.X, want.Z)
	}

	var bitmap uint16
	if err := binary.Read(r, binary.LittleEndian, &bitmap); err != nil {
		return fmt.Errorf("save: reading segment bitmap from %s: %w", path, err)
	}

	for segY := int64(0); segY < world.C; segY++ {
		if bitmap&(1<<uint(segY)) == 0 {
			continue
		}
		seg := col.Segment(segY)
		if seg == nil {
			return fmt.Errorf("save: %s: segment index %d out of range", path, segY)
		}

		raw := make([]byte, world.S*world.S*world.S)
		if _, err := io.ReadFull(r, raw); err != nil {
			return fmt.Errorf("save: %s: truncated voxel data for segment %d: %w", path, segY, err)
		}
		var voxels [world.S * world.S * world.S]voxel.Voxel
		for i, b := range raw {
			voxels[i] = voxel.Voxel(b)
		}
		seg.LoadVoxels(voxels)
	}

	return nil
}
