package board

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
)

// Hash fingerprints the position: order plus every placement in row, column
// order. Equal boards hash equally, so it can be used to spot repeated
// positions across games.
func (g *GameBoard) Hash() uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(g.order))
	h.Write(buf[:])
	for _, p := range g.Placements() {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(p.Row)))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(p.Col)))
		h.Write(buf[:])
		h.Write([]byte{byte(p.Token.Shape), byte(p.Token.Color)})
	}
	return h.Sum64()
}
