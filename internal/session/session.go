package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bm-github/persona-analyser/internal/analyzer"
	"github.com/bm-github/persona-analyser/internal/chat"
	"github.com/bm-github/persona-analyser/internal/llm"
	"github.com/bm-github/persona-analyser/internal/reddit"
	"go.uber.org/zap"
)

// Session runs the interactive question loop for one user. Recoverable
// errors are printed and the loop continues; only 'exit' or EOF ends it.
type Session struct {
	username  string
	analyzer  *analyzer.Service
	chat      *chat.Manager
	completer llm.Completer
	logger    *zap.Logger
	in        io.Reader
	out       io.Writer
}

func New(username string, svc *analyzer.Service, mgr *chat.Manager, completer llm.Completer, logger *zap.Logger, in io.Reader, out io.Writer) *Session {
	return &Session{
		username:  username,
		analyzer:  svc,
		chat:      mgr,
		completer: completer,
		logger:    logger,
		in:        in,
		out:       out,
	}
}

func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "Analysis session for u/%s\n", s.username)
	fmt.Fprintln(s.out, "Commands: exit, history, refresh, help")

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprintf(s.out, "\nQuestion about u/%s: ", s.username)
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "exit":
			return nil
		case "help":
			s.printHelp()
		case "history":
			s.printHistory(ctx)
		case "refresh":
			s.refresh(ctx)
		default:
			s.answer(ctx, line)
		}
	}
	return scanner.Err()
}

func (s *Session) printHelp() {
	fmt.Fprintln(s.out, `Commands:
  exit    - End session
  history - Show previous questions and answers
  refresh - Force refresh of the user's data
  help    - Show this message

Anything else is treated as a question about the user.`)
}

func (s *Session) printHistory(ctx context.Context) {
	history, err := s.chat.History(ctx, s.username)
	if err != nil {
		fmt.Fprintf(s.out, "Error loading history: %v\n", err)
		return
	}
	if len(history) == 0 {
		fmt.Fprintln(s.out, "No history yet.")
		return
	}
	for _, turn := range history {
		fmt.Fprintf(s.out, "\n[%s]\nQ: %s\nA: %s\n",
			turn.Timestamp.UTC().Format("2006-01-02 15:04"), turn.Question, turn.Answer)
	}
}

func (s *Session) refresh(ctx context.Context) {
	fmt.Fprintln(s.out, "Refreshing data...")
	if _, err := s.analyzer.FetchUserData(ctx, s.username, true); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintln(s.out, "Data refreshed.")
}

func (s *Session) answer(ctx context.Context, question string) {
	dataset, err := s.analyzer.FetchUserData(ctx, s.username, false)
	if err != nil {
		s.report(err)
		return
	}

	digest := analyzer.BuildDigest(dataset, analyzer.DefaultMaxItems)

	history, err := s.chat.History(ctx, s.username)
	if err != nil {
		s.logger.Warn("Failed to load history, continuing without context",
			zap.String("username", s.username), zap.Error(err))
		history = nil
	}

	fmt.Fprintln(s.out, "Analysing...")
	answer, err := s.completer.Complete(ctx, llm.Request{
		System:   llm.SystemPrompt,
		History:  chat.Window(history),
		Digest:   digest,
		Question: question,
	})
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}

	if _, err := s.chat.Append(ctx, s.username, question, answer); err != nil {
		s.logger.Error("Failed to save conversation turn",
			zap.String("username", s.username), zap.Error(err))
	}

	fmt.Fprintf(s.out, "\n%s\n", answer)
}

// report translates pipeline errors into user-facing messages.
func (s *Session) report(err error) {
	switch {
	case errors.Is(err, reddit.ErrUserNotFound):
		fmt.Fprintf(s.out, "User u/%s does not exist on Reddit.\n", s.username)
	case errors.Is(err, reddit.ErrInvalidUsername):
		fmt.Fprintf(s.out, "%q is not a valid Reddit username.\n", s.username)
	case errors.Is(err, analyzer.ErrDataUnavailable):
		fmt.Fprintf(s.out, "Cannot answer right now: %v\n", err)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}
