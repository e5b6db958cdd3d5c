package main

import "math/rand"

// BlockColor identifies one of the five matchable colors. Only equality
// matters; there is no ordering between colors.
type BlockColor int

const (
	ColorRed BlockColor = iota
	ColorGreen
	ColorBlue
	ColorYellow
	ColorPurple

	numBlockColors
)

type BlockKind int

const (
	BlockEmpty BlockKind = iota
	BlockNormal
	BlockGarbage
)

// Block is one cell of the board. The zero value is an empty cell. Normal
// blocks carry a color; garbage blocks carry a cracked flag and never have a
// color, so they can never start a match on their own.
type Block struct {
	Kind    BlockKind
	Color   BlockColor // meaningful only when Kind is BlockNormal
	Cracked bool       // meaningful only when Kind is BlockGarbage
}

func NormalBlock(color BlockColor) Block {
	return Block{Kind: BlockNormal, Color: color}
}

func GarbageBlock(cracked bool) Block {
	return Block{Kind: BlockGarbage, Cracked: cracked}
}

func (b Block) IsEmpty() bool {
	return b.Kind == BlockEmpty
}

func (b Block) IsGarbage() bool {
	return b.Kind == BlockGarbage
}

// MatchColor reports the block's color and whether the block participates in
// color matching at all.
func (b Block) MatchColor() (BlockColor, bool) {
	if b.Kind != BlockNormal {
		return 0, false
	}
	return b.Color, true
}

func randomColor(rng *rand.Rand) BlockColor {
	return BlockColor(rng.Intn(int(numBlockColors)))
}
