package verifier

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// BoardCells is the number of tiles on a 4x4 2048 board.
const BoardCells = 16

// Game2048Circuit proves that a committed final board contains the claimed
// milestone tile. The board itself stays secret; only the MiMC commitment
// and the milestone value are public.
type Game2048Circuit struct {
	// Final board tiles (0 for empty cells)
	Board [BoardCells]frontend.Variable `gnark:",secret"`

	// Claimed milestone tile value, e.g. 2048
	Score frontend.Variable `gnark:",public"`

	// MiMC commitment over the board tiles
	BoardHash frontend.Variable `gnark:",public"`
}

// Define enforces:
// 1. BoardHash == MiMC(Board[0], ..., Board[15])
// 2. Some tile equals Score, via prod_i (Board[i] - Score) == 0
func (c *Game2048Circuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	for i := 0; i < BoardCells; i++ {
		h.Write(c.Board[i])
	}
	api.AssertIsEqual(h.Sum(), c.BoardHash)

	prod := frontend.Variable(1)
	for i := 0; i < BoardCells; i++ {
		prod = api.Mul(prod, api.Sub(c.Board[i], c.Score))
	}
	api.AssertIsEqual(prod, 0)

	return nil
}
