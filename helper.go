package logsink

import (
	stderrs "errors"
	"strings"

	smerrors "github.com/Station-Manager/errors"
	"github.com/rs/zerolog"
)

// parseLevel parses a string log level into a zerolog.Level.
// Returns zerolog.NoLevel and an error if parsing fails.
func parseLevel(level string) (zerolog.Level, error) {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, err
	}
	return l, nil
}

// chainLink is one error in a cause chain. op is empty for errors that do
// not carry one.
type chainLink struct {
	op  smerrors.Op
	msg string
}

func (l chainLink) String() string {
	if l.op == emptyString {
		return l.msg
	}
	return "[" + string(l.op) + "] " + l.msg
}

// maxChainDepth bounds the walk over self-referencing chains.
const maxChainDepth = 50

// errorChain lists err and its causes, outermost first. DetailedError links
// are followed through Cause(), anything else through errors.Unwrap. A plain
// error whose message repeats one already seen ends the walk.
//
// Only the link itself is type-checked: AsDetailedError would skip a plain
// wrapper around a DetailedError.
func errorChain(err error) []chainLink {
	var links []chainLink
	seen := map[string]bool{}

	for err != nil && len(links) < maxChainDepth {
		if dErr, ok := err.(*smerrors.DetailedError); ok && dErr != nil {
			links = append(links, chainLink{op: dErr.Op(), msg: dErr.Error()})
			err = dErr.Cause()
			continue
		}
		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		links = append(links, chainLink{msg: msg})
		err = stderrs.Unwrap(err)
	}
	return links
}

// renderErrorChain formats err for Record.Exception, e.g.
// "[db.Open] failed to connect -> dial tcp: connection refused".
func renderErrorChain(err error) string {
	links := errorChain(err)
	parts := make([]string, len(links))
	for i, l := range links {
		parts[i] = l.String()
	}
	return strings.Join(parts, " -> ")
}
