// Package parser extracts job records from numbered-line completion text.
package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/amishk599/jobdigest/internal/model"
)

// linePattern matches "[N] Title[ at Institution][ — Description]".
// The title group is lazy, so the first " at " splits title from institution.
var linePattern = regexp.MustCompile(`^\[\d+\]\s*(.*?)(?: at (.*?))?\s*(?:[—–]\s*(.*))?$`)

// Parser turns loosely-structured completion text into job records.
type Parser struct {
	logger *slog.Logger
}

// New returns a Parser that reports skipped lines to logger.
func New(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse returns one record per well-formed line, in input order.
// Blank lines are ignored; malformed lines are logged and skipped.
func (p *Parser) Parse(text string) []model.JobRecord {
	records, _ := p.ParseWithStats(text)
	return records
}

// ParseWithStats is Parse that also reports how many non-blank lines were skipped.
func (p *Parser) ParseWithStats(text string) ([]model.JobRecord, int) {
	var records []model.JobRecord
	skipped := 0

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		rec, err := parseLine(line)
		if err != nil {
			p.logger.Warn("skipping job line", "line", line, "error", err)
			skipped++
			continue
		}
		records = append(records, rec)
	}

	return records, skipped
}

var errNoMatch = fmt.Errorf("line does not match [N] Title at Institution — Description")

// parseLine extracts a record from a single trimmed line.
func parseLine(line string) (rec model.JobRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extracting fields: %v", r)
		}
	}()

	m := linePattern.FindStringSubmatch(line)
	if m == nil {
		return model.JobRecord{}, errNoMatch
	}

	title := strings.TrimSpace(m[1])
	institution := strings.TrimSpace(m[2])
	description := strings.TrimSpace(m[3])

	if title == "" {
		return model.JobRecord{}, fmt.Errorf("empty title")
	}
	if institution != "" {
		title = title + " at " + institution
	}

	return model.JobRecord{Title: title, Description: description}, nil
}
