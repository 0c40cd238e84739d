package tictactoe

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const Size = 3

// Cell is the content of a single square: Empty or one of the two marks.
type Cell uint8

const (
	Empty Cell = iota
	MarkX
	MarkO
)

var (
	ErrUnknownCell    = errors.New("unknown cell value")
	ErrMalformedBoard = errors.New("malformed board")
)

func (that Cell) String() string {
	switch that {
	case MarkX:
		return "X"
	case MarkO:
		return "O"
	default:
		return ""
	}
}

// ParseCell is the inverse of Cell.String.
func ParseCell(s string) (Cell, error) {
	switch s {
	case "X":
		return MarkX, nil
	case "O":
		return MarkO, nil
	case "":
		return Empty, nil
	default:
		return Empty, fmt.Errorf("%w: %q", ErrUnknownCell, s)
	}
}

func (that Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(that.String())
}

func (that *Cell) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal cell: %w", err)
	}

	cell, err := ParseCell(s)
	if err != nil {
		return err
	}

	*that = cell

	return nil
}

// Action addresses a cell by zero-based row and column.
type Action struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether both coordinates lie in [0, Size).
func (that Action) InBounds() bool {
	return that.Row >= 0 && that.Row < Size && that.Col >= 0 && that.Col < Size
}

// Index is the row-major cell index in [0, 9).
func (that Action) Index() int {
	return that.Row*Size + that.Col
}

func (that Action) String() string {
	return fmt.Sprintf("(%d, %d)", that.Row, that.Col)
}

// ActionFromIndex maps a row-major cell index to its action. Indexes outside [0, 9) give an
// action that is not InBounds.
func ActionFromIndex(index int) Action {
	if index < 0 {
		return Action{Row: -1, Col: -1}
	}

	return Action{Row: index / Size, Col: index % Size}
}

// Board is a value type: assigning or passing it copies all nine cells.
type Board [Size][Size]Cell

// InitialState returns an empty board.
func InitialState() Board {
	return Board{}
}

// Equal reports whether both boards hold the same cells.
func (that Board) Equal(other Board) bool {
	return that == other
}

func (that Board) Cell(action Action) Cell {
	return that[action.Row][action.Col]
}

func (that Board) Count(cell Cell) int {
	count := 0
	for _, row := range that {
		for _, c := range row {
			if c == cell {
				count++
			}
		}
	}

	return count
}

func (that Board) String() string {
	var sb strings.Builder

	for i, row := range that {
		if i > 0 {
			sb.WriteByte('\n')
		}

		for j, c := range row {
			if j > 0 {
				sb.WriteByte('|')
			}

			if c == Empty {
				sb.WriteByte(' ')
				continue
			}

			sb.WriteString(c.String())
		}
	}

	return sb.String()
}

// ParseBoard builds a board from three row strings such as "XO.", where '.' or ' ' is empty.
func ParseBoard(rows ...string) (Board, error) {
	var board Board

	if len(rows) != Size {
		return board, fmt.Errorf("%w: expected %d rows, got %d", ErrMalformedBoard, Size, len(rows))
	}

	for i, row := range rows {
		if len(row) != Size {
			return board, fmt.Errorf("%w: row %d has %d cells", ErrMalformedBoard, i, len(row))
		}

		for j := 0; j < Size; j++ {
			switch row[j] {
			case 'X', 'x':
				board[i][j] = MarkX
			case 'O', 'o':
				board[i][j] = MarkO
			case '.', ' ', '_':
				board[i][j] = Empty
			default:
				return board, fmt.Errorf("%w: %q at (%d, %d)", ErrMalformedBoard, row[j], i, j)
			}
		}
	}

	return board, nil
}

// MustParseBoard is ParseBoard for fixtures known to be valid.
func MustParseBoard(rows ...string) Board {
	board, err := ParseBoard(rows...)
	if err != nil {
		panic(err)
	}

	return board
}
