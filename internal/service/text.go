package service

import (
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/d60-Lab/recommend-course/internal/model"
)

// DisplayDateLayout 形如 "Mon, 02 Jan 2006, 15:04"
const DisplayDateLayout = "Mon, 02 Jan 2006, 15:04"

func formatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DisplayDateLayout)
}

var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "table": true, "blockquote": true, "pre": true,
}

// summaryText 把课程简介渲染成纯文本，块级元素换行
func summaryText(summary string, format int) string {
	if strings.TrimSpace(summary) == "" {
		return ""
	}
	switch format {
	case model.SummaryFormatPlain, model.SummaryFormatMarkdown:
		return strings.TrimSpace(summary)
	}

	doc, err := html.Parse(strings.NewReader(summary))
	if err != nil {
		return strings.TrimSpace(summary)
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockElements[n.Data] {
			sb.WriteString("\n")
		}
	}
	walk(doc)

	lines := strings.Split(sb.String(), "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.Join(strings.Fields(l), " "); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// plainLabel 去标签、解实体、压缩空白后的单行名称
func plainLabel(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}
	return strings.Join(strings.Fields(summaryText(s, model.SummaryFormatHTML)), " ")
}
