package schedule

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockSelector matches the page elements that hold hourly outage
// schedules.
const blockSelector = ".power-off__text"

// headerRe recognizes a block's title line, "Графік погодинних відключень
// на <date>", and captures the day-first date.
var headerRe = regexp.MustCompile(`(?i)графік\s+погодинних\s+відключень\s+на\s+(\d{1,2}[./-]\d{1,2}[./-]\d{2,4})`)

// Block is one schedule section recovered from the page: the civil date
// it applies to and its visible text lines in document order.
type Block struct {
	Date  time.Time
	Lines []string
}

// ExtractBlocks locates the schedule sections in rendered markup and
// resolves each section's date from its header line. Sections without a
// recognizable header are dropped.
//
// ErrNoBlocksFound is returned when the page has no schedule sections at
// all; ErrNoSnapshotsProduced when sections exist but none was usable.
func ExtractBlocks(markup string, loc *time.Location) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered markup: %w", err)
	}

	sections := doc.Find(blockSelector)
	if sections.Length() == 0 {
		return nil, ErrNoBlocksFound
	}

	blocks := make([]Block, 0, sections.Length())
	sections.Each(func(_ int, sel *goquery.Selection) {
		lines := visibleLines(sel)
		if len(lines) == 0 {
			return
		}
		date, ok := headerDate(lines, loc)
		if !ok {
			return
		}
		blocks = append(blocks, Block{Date: date, Lines: lines})
	})

	if len(blocks) == 0 {
		return nil, ErrNoSnapshotsProduced
	}
	return blocks, nil
}

// visibleLines collects the trimmed text nodes under sel in document
// order, dropping blank ones. Non-breaking spaces are replaced with plain
// spaces so the token grammar's \s classes match them.
func visibleLines(sel *goquery.Selection) []string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(strings.ReplaceAll(n.Data, " ", " "))
			if text != "" {
				lines = append(lines, text)
			}
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return lines
}

// headerDate scans the block's lines for the first header whose captured
// date parses, and returns that date at midnight in loc.
func headerDate(lines []string, loc *time.Location) (time.Time, bool) {
	for _, line := range lines {
		m := headerRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if d, ok := parseDayFirst(m[1], dateLayouts, loc); ok {
			return d, true
		}
	}
	return time.Time{}, false
}
