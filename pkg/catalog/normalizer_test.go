package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanTextStripsNoiseAndWhitespace(t *testing.T) {
	n := NewNormalizer()

	out := n.CleanText("iPhone 16   Pro\n\nMàn hình 6.3 inch mình tham khảo")
	assert.Equal(t, "iPhone 16 Pro Màn hình 6.3 inch", out)
}

func TestNormalizePrice(t *testing.T) {
	n := NewNormalizer()

	assert.Equal(t, int64(23990000), n.NormalizePrice("23.990.000₫"))
	assert.Equal(t, int64(1500000), n.NormalizePrice("1,500,000 VND"))
	assert.Equal(t, int64(0), n.NormalizePrice("liên hệ"))
}

func TestSplitListField(t *testing.T) {
	n := NewNormalizer()

	parts := n.SplitListField("đen; trắng / xanh,  ")
	assert.Equal(t, []string{"đen", "trắng", "xanh"}, parts)
}

func TestChunkTextSplitsOnWordBoundaries(t *testing.T) {
	n := NewNormalizer()

	chunks := n.ChunkText("một hai ba bốn năm sáu bảy tám", 10)
	assert.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 10)
		assert.NotEmpty(t, c)
	}
}

func TestChunkTextShortInputStaysWhole(t *testing.T) {
	n := NewNormalizer()

	chunks := n.ChunkText("ngắn gọn", 1000)
	assert.Equal(t, []string{"ngắn gọn"}, chunks)
}
