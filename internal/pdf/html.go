// Package pdf renders articles to printable HTML and PDF.
package pdf

import (
	"bytes"
	"html/template"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// Document is the printable view of an article
type Document struct {
	Title     string
	Content   string // markdown
	Author    string
	Category  string
	Tags      []string
	CreatedAt time.Time
}

var policy = bluemonday.UGCPolicy()

var pageTemplate = template.Must(template.New("article").Parse(`<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
  body { font-family: 'Noto Sans KR', 'Malgun Gothic', sans-serif; line-height: 1.6; color: #333; }
  h1 { font-size: 24px; border-bottom: 2px solid #4a90d9; padding-bottom: 10px; }
  .meta { color: #666; font-size: 12px; margin-bottom: 24px; }
  .meta span { margin-right: 16px; }
  .tag { background: #eef4fb; border-radius: 4px; padding: 2px 6px; margin-right: 4px; }
  pre { background: #f5f5f5; padding: 12px; border-radius: 4px; overflow-x: auto; }
  code { font-family: 'D2Coding', monospace; }
  blockquote { border-left: 4px solid #ddd; margin: 0; padding-left: 12px; color: #666; }
  table { border-collapse: collapse; }
  th, td { border: 1px solid #ddd; padding: 6px 10px; }
  img { max-width: 100%; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<div class="meta">
  <span>작성자: {{.Author}}</span>
  <span>작성일: {{.Date}}</span>
  <span>카테고리: {{.Category}}</span>
  {{- if .Tags}}
  <span>태그: {{range .Tags}}<span class="tag">{{.}}</span>{{end}}</span>
  {{- end}}
</div>
<div class="content">{{.Body}}</div>
</body>
</html>
`))

// MarkdownToHTML converts markdown to sanitized HTML
func MarkdownToHTML(markdown string) string {
	unsafe := blackfriday.Run([]byte(markdown))
	return string(policy.SanitizeBytes(unsafe))
}

// RenderHTML builds the full print page for doc
func RenderHTML(doc Document) (string, error) {
	author := doc.Author
	if author == "" {
		author = "알 수 없음"
	}
	category := doc.Category
	if category == "" {
		category = "미분류"
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title    string
		Author   string
		Date     string
		Category string
		Tags     []string
		Body     template.HTML
	}{
		Title:    doc.Title,
		Author:   author,
		Date:     doc.CreatedAt.Format("2006. 1. 2."),
		Category: category,
		Tags:     doc.Tags,
		// Sanitized by bluemonday above.
		Body: template.HTML(MarkdownToHTML(doc.Content)),
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
