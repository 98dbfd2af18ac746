// Package shell implements the interactive console loop. The console carries
// conversational I/O only; diagnostics go to the operational log.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// Responder runs one exchange for a user input and returns the reply text
// and the number of turns logged.
type Responder interface {
	Respond(ctx context.Context, userInput string) (string, int)
}

// Shell reads user turns from in and writes replies to out.
type Shell struct {
	in        io.Reader
	out       io.Writer
	responder Responder
	log       zerolog.Logger
}

// New builds a shell over the given streams.
func New(in io.Reader, out io.Writer, responder Responder, log zerolog.Logger) *Shell {
	return &Shell{
		in:        in,
		out:       out,
		responder: responder,
		log:       log.With().Str("component", "shell").Logger(),
	}
}

// Run loops until the user types "exit" (case-insensitive) or input is
// exhausted. Empty lines prompt a re-entry message and do not count as turns.
func (s *Shell) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "\nWelcome to Loan Pricing Chat!")
	fmt.Fprintln(s.out, "Type 'exit' to end the conversation.")

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "\nYou: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())

		if strings.EqualFold(input, "exit") {
			fmt.Fprintln(s.out, "\nGoodbye!")
			s.log.Info().Msg("user ended the session")
			return nil
		}

		if input == "" {
			fmt.Fprintln(s.out, "Please enter a message.")
			s.log.Info().Msg("empty message received")
			continue
		}

		reply, _ := s.responder.Respond(ctx, input)
		fmt.Fprintf(s.out, "\nAI: %s\n", reply)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}
