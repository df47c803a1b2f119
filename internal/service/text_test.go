package service

import (
	"encoding/base64"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/recommend-course/internal/model"
)

func TestSummaryText(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		format  int
		want    string
	}{
		{"empty", "   ", model.SummaryFormatHTML, ""},
		{"paragraphs", "<p>Hello <b>world</b></p><p>Second line</p>", model.SummaryFormatHTML, "Hello world\nSecond line"},
		{"entities", "<div>Fish &amp; chips</div>", model.SummaryFormatHTML, "Fish & chips"},
		{"script dropped", "<p>Visible</p><script>alert(1)</script>", model.SummaryFormatHTML, "Visible"},
		{"list items", "<ul><li>one</li><li>two</li></ul>", model.SummaryFormatMoodle, "one\ntwo"},
		{"plain untouched", "  <b>raw</b>  ", model.SummaryFormatPlain, "<b>raw</b>"},
		{"markdown untouched", "# Title\n", model.SummaryFormatMarkdown, "# Title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summaryText(tt.summary, tt.format))
		})
	}
}

func TestPlainLabel(t *testing.T) {
	assert.Equal(t, "Go basics", plainLabel("  Go   basics "))
	assert.Equal(t, "Go & Rust", plainLabel("<span>Go</span> &amp; Rust"))
}

func TestFormatDate(t *testing.T) {
	at := time.Date(2025, 6, 1, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "Sun, 01 Jun 2025, 09:05", formatDate(at, nil))

	loc := time.FixedZone("UTC+8", 8*3600)
	assert.Equal(t, "Sun, 01 Jun 2025, 17:05", formatDate(at, loc))
}

func TestImageChain(t *testing.T) {
	chain := DefaultImageChain(testLinks)

	t.Run("course image wins", func(t *testing.T) {
		got := chain.Resolve(ImageSource{
			Course: &model.Course{ID: 2, ImageURL: "https://cdn.example.com/go.png"},
			Files:  []model.CourseOverviewFile{{FileName: "x.png", MimeType: "image/png"}},
		})
		assert.Equal(t, "https://cdn.example.com/go.png", got)
	})

	t.Run("first valid overview image", func(t *testing.T) {
		got := chain.Resolve(ImageSource{
			Course: &model.Course{ID: 2},
			Files: []model.CourseOverviewFile{
				{FilePath: "/", FileName: "a.pdf", MimeType: "application/pdf"},
				{FilePath: "/", FileName: "b.webp", MimeType: "image/webp"},
				{FilePath: "/", FileName: "c.png", MimeType: "image/png"},
			},
		})
		assert.Equal(t, "https://lms.example.com/pluginfile.php/course/2/overviewfiles/b.webp", got)
	})

	t.Run("generated placeholder", func(t *testing.T) {
		got := chain.Resolve(ImageSource{Course: &model.Course{ID: 12}})
		require.True(t, strings.HasPrefix(got, "data:image/svg+xml;base64,"))

		svg, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(got, "data:image/svg+xml;base64,"))
		require.NoError(t, err)
		assert.Contains(t, string(svg), placeholderColours[2])
		assert.Equal(t, got, generatedImage(2))
	})

	t.Run("placeholder for out of range ids", func(t *testing.T) {
		for _, id := range []int64{-1, -12, math.MinInt64, math.MaxInt64} {
			assert.NotPanics(t, func() {
				assert.True(t, strings.HasPrefix(generatedImage(id), "data:image/svg+xml;base64,"))
			})
		}
	})

	t.Run("custom chain", func(t *testing.T) {
		custom := ImageChain{ImageResolverFunc(func(ImageSource) (string, bool) { return "", false })}
		assert.Empty(t, custom.Resolve(ImageSource{}))
	})
}
