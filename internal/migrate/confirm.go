package migrate

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Interactive returns a ConfirmFunc that reads operator answers from in,
// re-prompting until the answer is literally "yes" or "no". A closed input
// mid-run is an error, not a skip.
func Interactive(in io.Reader, out io.Writer) ConfirmFunc {
	scanner := bufio.NewScanner(in)
	return func(prompt string) (bool, error) {
		for {
			fmt.Fprint(out, prompt)
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					return false, err
				}
				return false, io.ErrUnexpectedEOF
			}
			switch strings.TrimSpace(scanner.Text()) {
			case "yes":
				return true, nil
			case "no":
				return false, nil
			}
			fmt.Fprintln(out, "Please enter yes or no.")
		}
	}
}

// AlwaysYes confirms every migration without prompting.
func AlwaysYes() ConfirmFunc {
	return func(string) (bool, error) { return true, nil }
}
