package presenter

import (
	"html"
	"strings"

	"github.com/russross/blackfriday/v2"
)

// HTML renders the report for the web dashboard. Each cabin and group is an
// expandable block, open by default.
func HTML(r Report) string {
	var b strings.Builder
	for _, section := range r.Sections() {
		b.WriteString(SectionHTML(section))
	}
	if r.Fingerprint != "" {
		b.WriteString(`<p class="snapshot">Snapshot ` + html.EscapeString(ShortFingerprint(r.Fingerprint)) + "</p>\n")
	}
	return b.String()
}

func SectionHTML(s Section) string {
	var b strings.Builder
	b.WriteString("<section>\n<h2>" + html.EscapeString(s.Title) + "</h2>\n")
	if s.Intro != "" {
		b.Write(markdownToHTML(s.Intro))
	}
	for _, item := range s.Items {
		b.WriteString("<details open>\n<summary>")
		b.Write(inlineHTML(item.Title))
		b.WriteString("</summary>\n")
		b.Write(markdownToHTML(item.Body))
		b.WriteString("</details>\n")
	}
	b.WriteString("</section>\n")
	return b.String()
}

func markdownToHTML(md string) []byte {
	return blackfriday.Run([]byte(md), blackfriday.WithExtensions(blackfriday.CommonExtensions))
}

// inlineHTML drops the paragraph wrapper blackfriday puts around a single line.
func inlineHTML(md string) []byte {
	out := strings.TrimSpace(string(markdownToHTML(md)))
	out = strings.TrimPrefix(out, "<p>")
	out = strings.TrimSuffix(out, "</p>")
	return []byte(out)
}
