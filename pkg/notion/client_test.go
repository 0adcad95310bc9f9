package notion

import (
	"context"
	"strings"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func (m *MockClient) AppendBlockChildren(ctx context.Context, blockID string, children []notionapi.Block) error {
	args := m.Called(ctx, blockID, children)
	return args.Error(0)
}

func TestMockClientSatisfiesInterface(t *testing.T) {
	t.Parallel()
	var _ Client = (*MockClient)(nil)
}

func TestNewClient_RateLimit(t *testing.T) {
	c := NewClient("secret").(*notionClient)
	require.NotNil(t, c.limiter)
	assert.InDelta(t, 3.0, float64(c.limiter.Limit()), 0.001)

	c = NewClient("secret", WithRateLimit(10)).(*notionClient)
	assert.InDelta(t, 10.0, float64(c.limiter.Limit()), 0.001)
	assert.Equal(t, 10, c.limiter.Burst())

	c = NewClient("secret", WithRateLimit(0)).(*notionClient)
	assert.Nil(t, c.limiter)
	assert.NoError(t, c.wait(context.Background()))
}

func TestWait_CancelledContext(t *testing.T) {
	c := NewClient("secret", WithRateLimit(0.001)).(*notionClient)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.CreatePage(ctx, &notionapi.PageCreateRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion: rate limit")
}

func paragraphText(t *testing.T, b notionapi.Block) string {
	t.Helper()
	p, ok := b.(*notionapi.ParagraphBlock)
	require.True(t, ok)
	require.Len(t, p.Paragraph.RichText, 1)
	return p.Paragraph.RichText[0].Text.Content
}

func TestParagraphBlocks(t *testing.T) {
	blocks := ParagraphBlocks("first line\n\n   \nsecond line")
	require.Len(t, blocks, 2)
	assert.Equal(t, "first line", paragraphText(t, blocks[0]))
	assert.Equal(t, "second line", paragraphText(t, blocks[1]))
	assert.Equal(t, notionapi.BlockTypeParagraph, blocks[0].GetType())

	assert.Empty(t, ParagraphBlocks(""))
}

func TestParagraphBlocks_SplitsLongLines(t *testing.T) {
	line := strings.Repeat("é", MaxRichTextLen*2+5)
	blocks := ParagraphBlocks(line)
	require.Len(t, blocks, 3)
	assert.Len(t, []rune(paragraphText(t, blocks[0])), MaxRichTextLen)
	assert.Len(t, []rune(paragraphText(t, blocks[1])), MaxRichTextLen)
	assert.Len(t, []rune(paragraphText(t, blocks[2])), 5)
}

func TestCreateTextPage(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("CreatePage", ctx, mock.MatchedBy(func(req *notionapi.PageCreateRequest) bool {
		title, ok := req.Properties["Name"].(notionapi.TitleProperty)
		return ok &&
			req.Parent.DatabaseID == "db-1" &&
			title.Title[0].Text.Content == "Weekly digest" &&
			len(req.Children) == 2
	})).Return(&notionapi.Page{ID: "page-1", URL: "https://notion.so/page-1"}, nil).Once()

	page, err := CreateTextPage(ctx, mc, "db-1", "Weekly digest", "a\nb")
	require.NoError(t, err)
	assert.Equal(t, "https://notion.so/page-1", page.URL)
	mc.AssertExpectations(t)
	mc.AssertNotCalled(t, "AppendBlockChildren", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateTextPage_AppendsOverflow(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	lines := make([]string, MaxChildrenPerReq*2+10)
	for i := range lines {
		lines[i] = "line"
	}

	mc.On("CreatePage", ctx, mock.MatchedBy(func(req *notionapi.PageCreateRequest) bool {
		return len(req.Children) == MaxChildrenPerReq
	})).Return(&notionapi.Page{ID: "page-2"}, nil).Once()
	mc.On("AppendBlockChildren", ctx, "page-2", mock.MatchedBy(func(b []notionapi.Block) bool {
		return len(b) == MaxChildrenPerReq
	})).Return(nil).Once()
	mc.On("AppendBlockChildren", ctx, "page-2", mock.MatchedBy(func(b []notionapi.Block) bool {
		return len(b) == 10
	})).Return(nil).Once()

	_, err := CreateTextPage(ctx, mc, "db-1", "t", strings.Join(lines, "\n"))
	require.NoError(t, err)
	mc.AssertExpectations(t)
}

func TestCreateTextPage_Errors(t *testing.T) {
	ctx := context.Background()

	mc := new(MockClient)
	mc.On("CreatePage", ctx, mock.Anything).Return(nil, assert.AnError).Once()
	_, err := CreateTextPage(ctx, mc, "db-1", "t", "body")
	require.ErrorIs(t, err, assert.AnError)

	lines := strings.Repeat("x\n", MaxChildrenPerReq+1)
	mc = new(MockClient)
	mc.On("CreatePage", ctx, mock.Anything).Return(&notionapi.Page{ID: "p"}, nil).Once()
	mc.On("AppendBlockChildren", ctx, "p", mock.Anything).Return(assert.AnError).Once()
	page, err := CreateTextPage(ctx, mc, "db-1", "t", lines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "notion: append report body")
	assert.NotNil(t, page)
}
