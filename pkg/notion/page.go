package notion

import (
	"context"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
)

// Notion API limits.
const (
	MaxRichTextLen    = 2000
	MaxChildrenPerReq = 100
)

// ParagraphBlocks splits text into paragraph blocks, one per non-blank line,
// with lines longer than MaxRichTextLen split across blocks.
func ParagraphBlocks(text string) []notionapi.Block {
	var blocks []notionapi.Block
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		for _, chunk := range chunkRunes(line, MaxRichTextLen) {
			blocks = append(blocks, paragraph(chunk))
		}
	}
	return blocks
}

func paragraph(s string) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: notionapi.BasicBlock{
			Object: notionapi.ObjectTypeBlock,
			Type:   notionapi.BlockTypeParagraph,
		},
		Paragraph: notionapi.Paragraph{
			RichText: []notionapi.RichText{{
				Type: notionapi.ObjectTypeText,
				Text: &notionapi.Text{Content: s},
			}},
		},
	}
}

// chunkRunes splits s into pieces of at most n runes.
func chunkRunes(s string, n int) []string {
	r := []rune(s)
	chunks := make([]string, 0, len(r)/n+1)
	for len(r) > n {
		chunks = append(chunks, string(r[:n]))
		r = r[n:]
	}
	return append(chunks, string(r))
}

// CreateTextPage creates a page titled title in database dbID whose body is
// text split into paragraphs. Blocks beyond the first request are appended
// in batches of MaxChildrenPerReq.
func CreateTextPage(ctx context.Context, c Client, dbID, title, text string) (*notionapi.Page, error) {
	blocks := ParagraphBlocks(text)
	first := blocks[:min(len(blocks), MaxChildrenPerReq)]

	page, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(dbID),
		},
		Properties: notionapi.Properties{
			"Name": notionapi.TitleProperty{
				Type: notionapi.PropertyTypeTitle,
				Title: []notionapi.RichText{{
					Type: notionapi.ObjectTypeText,
					Text: &notionapi.Text{Content: title},
				}},
			},
		},
		Children: first,
	})
	if err != nil {
		return nil, err
	}

	for rest := blocks[len(first):]; len(rest) > 0; {
		n := min(len(rest), MaxChildrenPerReq)
		if err := c.AppendBlockChildren(ctx, string(page.ID), rest[:n]); err != nil {
			return page, eris.Wrap(err, "notion: append report body")
		}
		rest = rest[n:]
	}
	return page, nil
}
