package variantmg

import "errors"

var (
	ErrInvalidPiece     = errors.New("invalid piece")
	ErrInvalidPlacement = errors.New("invalid placement")
	ErrInvalidFEN       = errors.New("invalid FEN")
)
