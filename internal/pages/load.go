package pages

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Separator is the line that splits a page script into pages.
const Separator = "---"

// ErrNoPages is returned for scripts without a single non-empty page.
var ErrNoPages = errors.New("page script has no pages")

// Load reads a page script from disk.
func Load(path string) ([]Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page script: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("page script is not valid UTF-8")
	}
	pages, err := Parse(strings.NewReader(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return pages, nil
}

// Parse splits a script into pages. Pages are separated by a line holding
// only "---". The first non-blank line of a page is its title (a leading
// "# " is dropped); the rest is the body. Blank pages are skipped.
func Parse(r io.Reader) ([]Page, error) {
	var (
		out  []Page
		cur  []string
		scan = bufio.NewScanner(r)
	)
	flush := func() {
		if p, ok := makePage(cur); ok {
			out = append(out, p)
		}
		cur = cur[:0]
	}
	for scan.Scan() {
		line := strings.TrimRight(scan.Text(), " \t\r")
		if strings.TrimSpace(line) == Separator {
			flush()
			continue
		}
		cur = append(cur, line)
	}
	if err := scan.Err(); err != nil {
		return nil, err
	}
	flush()
	if len(out) == 0 {
		return nil, ErrNoPages
	}
	return out, nil
}

func makePage(lines []string) (Page, bool) {
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	if start == len(lines) {
		return Page{}, false
	}
	title := strings.TrimSpace(lines[start])
	title = strings.TrimSpace(strings.TrimPrefix(title, "# "))

	body := lines[start+1:]
	for len(body) > 0 && strings.TrimSpace(body[0]) == "" {
		body = body[1:]
	}
	for len(body) > 0 && strings.TrimSpace(body[len(body)-1]) == "" {
		body = body[:len(body)-1]
	}
	return Page{Title: title, Body: strings.Join(body, "\n")}, true
}

// Default returns the built-in pages shown when no script is given.
func Default() []Page {
	return []Page{
		{
			Title: "The Lantern Road",
			Body: "The road out of Hollow Marsh is older than the village that guards it. " +
				"Stones sink a finger's width each winter, and each spring the wardens lay new ones on top.\n\n" +
				"Tonight the mist has come up early. It gathers in the ditches first, then climbs the hedges, " +
				"and by the time the bell tower strikes nine it has swallowed the lanterns one by one.\n\n" +
				"Move the pointer through it. The fog parts, then closes again behind you.",
		},
		{
			Title: "The Warden's Post",
			Body: "A single window is lit at the crossroads. Inside, the warden keeps a ledger of every " +
				"traveller who passes: name, destination, the hour they were last seen.\n\n" +
				"The last entry is three days old. The ink has run, as if the page had been left open to the damp.",
		},
		{
			Title: "Beyond the Ford",
			Body: "Water moves somewhere ahead, slow and patient. You cannot see the far bank, " +
				"only the pale shapes of reeds leaning out of the white.\n\n" +
				"Someone has tied a ribbon to the ferry post. It is still dry.",
		},
		{
			Title: "Morning",
			Body: "By dawn the fog thins to a silver haze that clings to the fields. " +
				"The road continues, as it always has, toward whatever the night was hiding.\n\n" +
				"Press q to leave the marsh.",
		},
	}
}
