package parser

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"community-resources-be/pkg/dayrange"
	"community-resources-be/pkg/resource"

	"golang.org/x/text/unicode/norm"
)

var headerRe = regexp.MustCompile(`^\s*(?:\*\*)?(\d+)[.)]\s+(\S.*)$`)

// Result is the outcome of parsing one category file.
type Result struct {
	Records []resource.Record
	// Skipped counts blocks dropped because they had no name.
	Skipped      int
	SkippedLines []resource.LineRange
}

type block struct {
	number int
	header string
	lines  []string
	start  int
	end    int
}

// Parse splits raw category text into entry blocks and reads each block into
// a record.
//
// When any line looks like a numbered heading ("12. Name") every block starts
// at such a heading and text before the first one is ignored. Otherwise
// blocks are separated by blank lines and the first line is the name.
func Parse(raw string, category resource.Category) Result {
	text := norm.NFKC.String(strings.ReplaceAll(raw, "\r\n", "\n"))
	lines := strings.Split(text, "\n")

	var blocks []block
	if isNumbered(lines) {
		blocks = splitNumbered(lines)
	} else {
		blocks = splitParagraphs(lines)
	}

	res := Result{Records: make([]resource.Record, 0, len(blocks))}
	seen := make(map[string]int)
	for _, b := range blocks {
		rec, ok := readBlock(b, category)
		if !ok {
			res.Skipped++
			res.SkippedLines = append(res.SkippedLines, resource.LineRange{Start: b.start, End: b.end})
			continue
		}
		seen[rec.ID]++
		if n := seen[rec.ID]; n > 1 {
			rec.ID = fmt.Sprintf("%s-%d", rec.ID, n)
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

func isNumbered(lines []string) bool {
	for _, l := range lines {
		if headerRe.MatchString(l) {
			return true
		}
	}
	return false
}

func splitNumbered(lines []string) []block {
	var blocks []block
	var cur *block
	for i, l := range lines {
		if m := headerRe.FindStringSubmatch(l); m != nil {
			if cur != nil {
				blocks = append(blocks, *cur)
			}
			n, _ := strconv.Atoi(m[1])
			cur = &block{number: n, header: m[2], lines: []string{l}, start: i + 1, end: i + 1}
			continue
		}
		if cur == nil {
			continue
		}
		cur.lines = append(cur.lines, l)
		if strings.TrimSpace(l) != "" {
			cur.end = i + 1
		}
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	for i := range blocks {
		blocks[i].lines = blocks[i].lines[:blocks[i].end-blocks[i].start+1]
	}
	return blocks
}

func splitParagraphs(lines []string) []block {
	var blocks []block
	var cur *block
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			if cur != nil {
				blocks = append(blocks, *cur)
				cur = nil
			}
			continue
		}
		if cur == nil {
			cur = &block{header: l, start: i + 1}
		}
		cur.lines = append(cur.lines, l)
		cur.end = i + 1
	}
	if cur != nil {
		blocks = append(blocks, *cur)
	}
	return blocks
}

func readBlock(b block, category resource.Category) (resource.Record, bool) {
	name := identify(b.header)
	if name == "" {
		return resource.Record{}, false
	}

	rec := resource.Record{
		Category:    category,
		Number:      b.number,
		Name:        name,
		RawText:     strings.Join(b.lines, "\n"),
		SourceLines: resource.LineRange{Start: b.start, End: b.end},
	}

	var services, languages []string
	pending := fieldNone
	for _, raw := range b.lines[1:] {
		line := cleanLine(raw)
		if line == "" {
			pending = fieldNone
			continue
		}
		f, value := classify(line)
		if f == fieldNone {
			// Bulleted continuation of a label with nothing after the colon.
			if pending == fieldServices {
				services = append(services, line)
			} else if pending == fieldLanguages {
				languages = append(languages, line)
			}
			continue
		}
		pending = fieldNone
		if value == "" {
			pending = f
			continue
		}
		switch f {
		case fieldAddress:
			if rec.Address == "" {
				rec.Address = value
			}
		case fieldPhone:
			if rec.Phone == "" {
				rec.Phone = value
				rec.PhoneDigits = phoneDigits(value)
			}
		case fieldWebsite:
			if rec.Website == "" {
				rec.Website = normalizeWebsite(value)
			}
		case fieldLanguages:
			languages = append(languages, value)
		case fieldServices:
			services = append(services, value)
		case fieldHours:
			if rec.HoursText == "" {
				rec.HoursText = value
			} else {
				rec.HoursText += "; " + value
			}
		}
	}

	vocab := resource.VocabularyFor(category)
	if len(services) > 0 {
		rec.Services = vocab.ExtractTags(strings.Join(services, ", "))
	} else {
		rec.Services = vocab.ExtractTags(rec.Name)
	}
	rec.Languages = resource.ExtractLanguages(strings.Join(languages, ", "))
	if h, ok := dayrange.ParseHours(rec.HoursText); ok {
		rec.Hours = h
	}
	rec.ZipCode = findZIP(rec.Address, rec.RawText)
	// Tags taken from the name do not count as listed services.
	rec.Partial = rec.Address == "" && rec.Phone == "" && len(services) == 0
	rec.ID = recordID(category, b.lines)
	return rec, true
}

// identify extracts the entry name from a block's first line. Lines that are
// themselves labeled fields carry no identity, except an explicit "Name:".
func identify(header string) string {
	line := cleanLine(header)
	if m := headerRe.FindStringSubmatch(line); m != nil {
		line = cleanLine(m[2])
	}
	f, value := classify(line)
	switch f {
	case fieldName:
		return cleanName(value)
	case fieldNone:
		return cleanName(line)
	}
	return ""
}

func findZIP(address, block string) string {
	if m := zipRe.FindStringSubmatch(address); m != nil {
		return m[1]
	}
	if m := zipRe.FindStringSubmatch(block); m != nil {
		return m[1]
	}
	return ""
}

func recordID(category resource.Category, lines []string) string {
	normalized := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.ToLower(strings.Join(strings.Fields(l), " ")); l != "" {
			normalized = append(normalized, l)
		}
	}
	sum := sha1.Sum([]byte(strings.Join(normalized, "\n")))
	return category.Code() + "-" + hex.EncodeToString(sum[:])[:10]
}
