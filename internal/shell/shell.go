// Package shell implements the interactive command loop over a single
// booking session.  Each input line is one command; each command prints
// exactly the text rendered by package present.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iliyamo/flight-reservation/internal/booking"
	"github.com/iliyamo/flight-reservation/internal/model"
	"github.com/iliyamo/flight-reservation/internal/present"
)

const usage = `*** Please enter one of the following commands ***
> create <username> <password> <initial amount>
> login <username> <password>
> logout
> search <origin city> <destination city> <direct> <day> <num itineraries>
> book <itinerary id>
> pay <reservation id>
> reservations
> cancel <reservation id>
> quit
`

// Shell runs commands against one engine session.
type Shell struct {
	engine  *booking.Engine
	session *booking.Session
}

func New(engine *booking.Engine) *Shell {
	return &Shell{engine: engine, session: booking.NewSession()}
}

// Run reads commands from in until EOF, "quit" or ctx ends, writing the
// usage banner and a prompt before every command.
func (sh *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, usage)
		if !sc.Scan() {
			return sc.Err()
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		resp, quit := sh.Execute(ctx, sc.Text())
		fmt.Fprint(out, resp)
		if quit {
			return nil
		}
	}
}

// Execute runs one command line and returns its output and whether the
// loop should stop.
func (sh *Shell) Execute(ctx context.Context, line string) (string, bool) {
	args := tokenize(line)
	if len(args) == 0 {
		return "Please enter a command\n", false
	}

	switch cmd, args := args[0], args[1:]; cmd {
	case "create":
		if len(args) != 3 {
			return "Error: Please provide a username, password, and initial amount in the account\n", false
		}
		amount, err := strconv.Atoi(args[2])
		if err != nil {
			return "Failed to create user\n", false
		}
		return present.CreateUser(args[0], sh.engine.CreateUser(ctx, sh.session, args[0], args[1], amount)), false

	case "login":
		if len(args) != 2 {
			return "Error: Please provide a username and password\n", false
		}
		return present.Login(args[0], sh.engine.Login(ctx, sh.session, args[0], args[1])), false

	case "logout":
		user := sh.session.Username()
		return present.Logout(user, sh.engine.Logout(sh.session)), false

	case "search":
		if len(args) != 5 {
			return "Error: Please provide all search parameters " +
				"<origin_city> <destination_city> <direct> <date> <nb itineraries>\n", false
		}
		q, ok := parseSearch(args)
		if !ok {
			return "Failed to parse integer\n", false
		}
		return present.Search(sh.engine.Search(ctx, sh.session, q)), false

	case "book":
		if len(args) != 1 {
			return "Error: Please provide an itinerary_id\n", false
		}
		handle, err := strconv.Atoi(args[0])
		if err != nil {
			return "Failed to parse integer\n", false
		}
		return present.Book(sh.engine.Book(ctx, sh.session, handle)), false

	case "pay":
		if len(args) != 1 {
			return "Error: Please provide a reservation_id\n", false
		}
		rid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return "Failed to parse integer\n", false
		}
		balance, err := sh.engine.Pay(ctx, sh.session, rid)
		return present.Pay(sh.session.Username(), rid, balance, err), false

	case "reservations":
		return present.Reservations(sh.engine.Reservations(ctx, sh.session)), false

	case "cancel":
		if len(args) != 1 {
			return "Error: Please provide a reservation_id\n", false
		}
		rid, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return "Failed to parse integer\n", false
		}
		return present.Cancel(rid, sh.engine.Cancel(ctx, sh.session, rid)), false

	case "quit":
		return "Goodbye\n", true

	default:
		return fmt.Sprintf("Error: unrecognized command '%s'\n", cmd), false
	}
}

// parseSearch reads <origin> <dest> <direct> <day> <count>.  direct is
// 1/0 or true/false.
func parseSearch(args []string) (model.SearchQuery, bool) {
	q := model.SearchQuery{Origin: args[0], Dest: args[1]}
	switch strings.ToLower(args[2]) {
	case "1", "true":
		q.DirectOnly = true
	case "0", "false":
	default:
		return q, false
	}
	var err error
	if q.DayOfMonth, err = strconv.Atoi(args[3]); err != nil {
		return q, false
	}
	if q.MaxResults, err = strconv.Atoi(args[4]); err != nil {
		return q, false
	}
	return q, true
}

// tokenize splits line on whitespace; double quotes group words so that
// city names like "Seattle WA" form one argument.
func tokenize(line string) []string {
	var (
		out    []string
		cur    strings.Builder
		quoted bool
		inTok  bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inTok = true
		case !quoted && (r == ' ' || r == '\t'):
			if inTok {
				out = append(out, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if inTok {
		out = append(out, cur.String())
	}
	return out
}
