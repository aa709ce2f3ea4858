package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
)

const prompt = "> "

// Run reads commands from in until the user confirms or aborts, writing
// replies to out. "done" returns the selection and "quit" returns
// ErrAborted. End of input counts as "done" and returns the last valid
// selection.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) (Result, error) {
	scanner := bufio.NewScanner(in)

	fmt.Fprintf(out, "%s\ncolormap %s, type help for commands\n", describeData(s), s.cmap.Name)
	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			break
		}

		resp, err := s.Apply(scanner.Text())
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		if resp.Message != "" {
			fmt.Fprintln(out, resp.Message)
		}

		switch resp.Action {
		case Quit:
			return Result{}, ErrAborted
		case Done:
			result, err := s.Result()
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
				continue
			}
			return result, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("reading commands: %w", err)
	}

	fmt.Fprintln(out)
	if s.pending != nil {
		s.logger.Warn("input closed with invalid parameters, using the last valid selection",
			slog.String("error", s.pending.Error()))
	}
	return s.lastValid(), nil
}

func describeData(s *Session) string {
	rows, cols := s.data.Dims()
	return fmt.Sprintf("data %dx%d, min %g, max %g", rows, cols, s.stats.Min, s.stats.Max)
}
