package render

import (
	"strings"

	"rsc.io/markdown"
)

// リンク・画像で許可するスキーム（スキームなしの相対URLは許可）
var allowedSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
}

const blockedURL = "#"

// MarkdownToHTML レポート本文（Markdown）をHTML断片に変換する
// モデル出力は信頼しない。生のHTMLはテキストとして表示し、危険なスキームのURLは無効化する
func MarkdownToHTML(text string) string {
	p := &markdown.Parser{
		Table:         true,
		TaskListItems: true,
	}
	doc := p.Parse(text)
	doc.Blocks = sanitizeBlocks(doc.Blocks)
	return markdown.ToHTML(doc)
}

func sanitizeBlocks(blocks []markdown.Block) []markdown.Block {
	for i, block := range blocks {
		switch b := block.(type) {
		case *markdown.HTMLBlock:
			blocks[i] = &markdown.Paragraph{
				Position: b.Position,
				Text: &markdown.Text{
					Position: b.Position,
					Inline:   []markdown.Inline{&markdown.Plain{Text: strings.Join(b.Text, "\n")}},
				},
			}
		case *markdown.Paragraph:
			sanitizeText(b.Text)
		case *markdown.Heading:
			sanitizeText(b.Text)
		case *markdown.List:
			b.Items = sanitizeBlocks(b.Items)
		case *markdown.Item:
			b.Blocks = sanitizeBlocks(b.Blocks)
		case *markdown.Quote:
			b.Blocks = sanitizeBlocks(b.Blocks)
		case *markdown.Table:
			for _, cell := range b.Header {
				sanitizeText(cell)
			}
			for _, row := range b.Rows {
				for _, cell := range row {
					sanitizeText(cell)
				}
			}
		}
	}
	return blocks
}

func sanitizeText(text *markdown.Text) {
	if text == nil {
		return
	}
	text.Inline = sanitizeInlines(text.Inline)
}

func sanitizeInlines(inlines []markdown.Inline) []markdown.Inline {
	for i, inline := range inlines {
		switch x := inline.(type) {
		case *markdown.HTMLTag:
			inlines[i] = &markdown.Plain{Text: x.Text}
		case *markdown.Link:
			x.URL = safeURL(x.URL)
			x.Inner = sanitizeInlines(x.Inner)
		case *markdown.Image:
			x.URL = safeURL(x.URL)
			x.Inner = sanitizeInlines(x.Inner)
		case *markdown.AutoLink:
			x.URL = safeURL(x.URL)
		case *markdown.Strong:
			x.Inner = sanitizeInlines(x.Inner)
		case *markdown.Emph:
			x.Inner = sanitizeInlines(x.Inner)
		case *markdown.Del:
			x.Inner = sanitizeInlines(x.Inner)
		}
	}
	return inlines
}

// safeURL ブラウザは空白・制御文字を無視してスキームを解釈するので、除去してから判定する
func safeURL(raw string) string {
	normalized := strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return -1
		}
		return r
	}, raw)

	end := strings.IndexAny(normalized, "/?#")
	if end < 0 {
		end = len(normalized)
	}
	colon := strings.IndexByte(normalized[:end], ':')
	if colon < 0 {
		return raw
	}
	if allowedSchemes[strings.ToLower(normalized[:colon])] {
		return raw
	}
	return blockedURL
}
