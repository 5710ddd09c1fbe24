// Package session runs the interactive catalog browser: it reads one command
// per line, turns it into a catalog event, applies it and redraws the screen.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/go-faster/errors"

	"github.com/derickschaefer/storefront/internal/catalog"
	"github.com/derickschaefer/storefront/internal/render"
	"github.com/derickschaefer/storefront/internal/util"
)

// ErrUnknownCommand is returned by Parse for input it does not recognise.
var ErrUnknownCommand = errors.New("unknown command")

// Verb identifies a session command.
type Verb int

const (
	VerbCommit Verb = iota + 1
	VerbSearch
	VerbCategory
	VerbOpen
	VerbClose
	VerbHelp
	VerbQuit
)

// Command is a parsed input line.
type Command struct {
	Verb Verb
	Arg  string
}

// Parse turns one input line into a Command. An empty line commits the
// search draft, like pressing Enter in a search box.
func Parse(line string) (Command, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Command{Verb: VerbCommit}, nil
	}
	word, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(word) {
	case "search", "s", "/":
		return Command{Verb: VerbSearch, Arg: arg}, nil
	case "commit", "enter":
		return Command{Verb: VerbCommit}, nil
	case "category", "cat", "c":
		if arg == "" {
			return Command{}, errors.New("category needs a label, e.g. category electronics")
		}
		return Command{Verb: VerbCategory, Arg: arg}, nil
	case "open", "o", "show":
		if arg == "" {
			return Command{}, errors.New("open needs a product id, e.g. open 3")
		}
		return Command{Verb: VerbOpen, Arg: arg}, nil
	case "close", "x":
		return Command{Verb: VerbClose}, nil
	case "help", "h", "?":
		return Command{Verb: VerbHelp}, nil
	case "quit", "q", "exit":
		return Command{Verb: VerbQuit}, nil
	default:
		return Command{}, errors.Wrapf(ErrUnknownCommand, "%q", word)
	}
}

const helpText = `Commands:
  search <text>      type into the search box (not applied yet)
  <empty line>       apply the typed search (same as: commit)
  category <label>   filter by category; "category all" clears the filter
  open <id>          show product details
  close              close the details panel
  help               show this help
  quit               leave the catalog`

var (
	prompt = color.New(color.FgGreen)
	notice = color.New(color.FgYellow, color.Bold)
)

// Session drives one interactive catalog browse.
type Session struct {
	state  *catalog.State
	loader *catalog.Loader
	out    io.Writer
	log    *slog.Logger
}

// New returns a Session over st. The loader performs the session's single
// product fetch when Run starts.
func New(st *catalog.State, loader *catalog.Loader, out io.Writer, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	return &Session{state: st, loader: loader, out: out, log: log}
}

// Run draws the placeholder screen, loads the catalog, then processes input
// lines until quit, EOF or ctx is done. Cancellation ends the session even
// while it is waiting for input. A failed load is shown on screen and does
// not end the session.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	if err := s.redraw(); err != nil {
		return err
	}
	if err := s.loader.Load(ctx, s.state); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		var le *catalog.LoadError
		if !errors.As(err, &le) {
			return err
		}
	}
	if err := s.redraw(); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	lines, scanErr := readLines(in, done)

	for {
		prompt.Fprint(s.out, "> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out)
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(s.out)
				return <-scanErr
			}
			line = l
		}

		cmd, err := Parse(line)
		if err != nil {
			s.warn(err)
			continue
		}
		switch cmd.Verb {
		case VerbQuit:
			return nil
		case VerbHelp:
			fmt.Fprintln(s.out, helpText)
			continue
		}

		if err := s.Dispatch(cmd); err != nil {
			s.warn(err)
			continue
		}
		if err := s.redraw(); err != nil {
			return err
		}
	}
}

// readLines scans in on its own goroutine so a pending read never blocks
// cancellation. lines is closed at EOF, after the scanner error (possibly
// nil) has been sent on errc. The goroutine exits once done is closed; a
// reader blocked in Read is abandoned.
func readLines(in io.Reader, done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		errc <- scanner.Err()
		close(lines)
	}()
	return lines, errc
}

// Dispatch translates a state-changing command into an event and applies it.
func (s *Session) Dispatch(cmd Command) error {
	ev, err := s.event(cmd)
	if err != nil {
		return err
	}
	s.log.Debug("apply event", "event", fmt.Sprintf("%T", ev))
	return s.state.Apply(ev)
}

func (s *Session) event(cmd Command) (catalog.Event, error) {
	switch cmd.Verb {
	case VerbSearch:
		return catalog.SearchChanged{Text: cmd.Arg}, nil
	case VerbCommit:
		return catalog.SearchCommitted{}, nil
	case VerbCategory:
		label, err := ResolveCategory(s.state.Categories(), cmd.Arg)
		if err != nil {
			return nil, err
		}
		return catalog.CategorySelected{Label: label}, nil
	case VerbOpen:
		id, err := strconv.Atoi(strings.TrimPrefix(cmd.Arg, "#"))
		if err != nil {
			return nil, errors.Errorf("invalid product id %q: expected an integer", cmd.Arg)
		}
		p, err := s.state.Lookup(id)
		if err != nil {
			return nil, err
		}
		return catalog.ProductSelected{Product: p}, nil
	case VerbClose:
		return catalog.DetailClosed{}, nil
	default:
		return nil, errors.Errorf("command %d does not change the catalog", cmd.Verb)
	}
}

// ResolveCategory finds the category matching label. An exact match wins;
// otherwise a unique case-insensitive match is accepted. The placeholder
// label selects the blank category, as it is displayed that way.
func ResolveCategory(categories []string, label string) (string, error) {
	var folded []string
	blank := false
	for _, c := range categories {
		if c == "" {
			blank = true
		}
		if c == label {
			return c, nil
		}
		if strings.EqualFold(c, label) {
			folded = append(folded, c)
		}
	}
	switch len(folded) {
	case 1:
		return folded[0], nil
	case 0:
		if blank && strings.EqualFold(label, util.Placeholder) {
			return "", nil
		}
		shown := make([]string, len(categories))
		for i, c := range categories {
			shown[i] = util.OrNA(c)
		}
		return "", errors.Wrapf(catalog.ErrUnknownCategory, "%q (available: %s)", label, strings.Join(shown, ", "))
	default:
		return "", errors.Errorf("category %q is ambiguous: %s", label, strings.Join(folded, ", "))
	}
}

func (s *Session) redraw() error {
	fmt.Fprintln(s.out)
	return render.View(s.out, s.state.View())
}

func (s *Session) warn(err error) {
	notice.Fprint(s.out, "! ")
	fmt.Fprintln(s.out, err.Error())
}
