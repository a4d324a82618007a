package captions

import (
	"encoding/xml"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// Track is one caption track advertised on a watch page
type Track struct {
	BaseURL      string
	Language     string
	LanguageCode string
	Generated    bool
}

// Segment is a single timed caption line
type Segment struct {
	Start float64
	Dur   float64
	Text  string
}

// Transcript is a full caption track, flattened and timed
type Transcript struct {
	VideoID      string
	Language     string
	LanguageCode string
	Generated    bool
	Segments     []Segment
	Text         string
}

var tagRe = regexp.MustCompile(`(?i)<[^>]*>`)

// parseTrackXML decodes the timedtext XML a track URL serves
func parseTrackXML(data []byte) ([]Segment, error) {
	var doc struct {
		XMLName xml.Name `xml:"transcript"`
		Texts   []struct {
			Text  string `xml:",chardata"`
			Start string `xml:"start,attr"`
			Dur   string `xml:"dur,attr"`
		} `xml:"text"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	segs := make([]Segment, 0, len(doc.Texts))
	for _, t := range doc.Texts {
		text := html.UnescapeString(tagRe.ReplaceAllString(t.Text, ""))
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}

		start, err := strconv.ParseFloat(t.Start, 64)
		if err != nil {
			start = 0
		}
		dur, err := strconv.ParseFloat(t.Dur, 64)
		if err != nil {
			dur = 0
		}

		segs = append(segs, Segment{Start: start, Dur: dur, Text: text})
	}
	return segs, nil
}

// joinSegments flattens segments into one searchable blob
func joinSegments(segs []Segment) string {
	parts := make([]string, 0, len(segs))
	for _, s := range segs {
		parts = append(parts, s.Text)
	}
	return strings.Join(parts, " ")
}
