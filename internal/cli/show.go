package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidegraph/pkg/board"
	errs "github.com/matzehuels/slidegraph/pkg/errors"
	"github.com/matzehuels/slidegraph/pkg/render/boardimg"
)

// showCommand creates the show command, which inspects a single board
// without exploring it.
func (c *CLI) showCommand() *cobra.Command {
	var (
		stateKey string
		pngPath  string
		cellSize int
	)

	cmd := &cobra.Command{
		Use:   "show [board.txt|-]",
		Short: "Print a board, its vehicles and its legal moves",
		Long: `Print a board, its vehicles and its legal moves.

--state places the vehicles at other offsets, given as the comma-separated
offsets that graph.json uses. --png writes the configuration as an image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readBoard(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}
			b, s, err := board.Parse(text)
			if err != nil {
				return errs.Wrap(errs.ErrCodeInvalidBoard, err, "parse board")
			}
			if stateKey != "" {
				if s, err = board.ParseKey(stateKey); err != nil {
					return errs.Wrap(errs.ErrCodeInvalidState, err, "--state")
				}
				if err := b.Validate(s); err != nil {
					return errs.Wrap(errs.ErrCodeInvalidState, err, "--state")
				}
			}

			fmt.Println(styledBoard(b, s))
			printNewline()
			fmt.Println(vehicleTable(b, s))
			printNewline()
			printMoves(board.Moves(b, s))

			if pngPath != "" {
				data, err := boardimg.Render(b, s, boardimg.Options{CellSize: cellSize})
				if err != nil {
					return err
				}
				if err := os.WriteFile(pngPath, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", pngPath, err)
				}
				printNewline()
				printSuccess("Wrote board image")
				printFile(pngPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&stateKey, "state", "", "vehicle offsets to show, e.g. 2,4,4")
	cmd.Flags().StringVar(&pngPath, "png", "", "write the board as a PNG image")
	cmd.Flags().IntVar(&cellSize, "cell-size", 0, fmt.Sprintf("PNG cell size in pixels (default %d)", boardimg.DefaultCellSize))

	return cmd
}

// vehicleTable lists each vehicle with its axis, length and offset in s.
func vehicleTable(b *board.Board, s board.State) string {
	rows := make([][]string, len(b.Vehicles))
	for i, v := range b.Vehicles {
		axis := "row " + strconv.Itoa(v.Fixed)
		if v.Orientation == board.Vertical {
			axis = "col " + strconv.Itoa(v.Fixed)
		}
		rows[i] = []string{string(v.Name), v.Orientation.String(), axis, strconv.Itoa(v.Length), strconv.Itoa(s[i])}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Orientation", "Lane", "Length", "Offset").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return vehicleStyle(row).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
		}).
		String()
}

// printMoves prints the legal moves as "A-1 A+1 ...".
func printMoves(moves []board.Move) {
	if len(moves) == 0 {
		printInfo("No legal moves")
		return
	}
	names := make([]string, len(moves))
	for i, m := range moves {
		names[i] = m.String()
	}
	printKeyValue("Moves", strings.Join(names, " "))
}
