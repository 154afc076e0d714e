package i18n_test

import (
	"testing"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/ariefcatur/go-bookstore/internal/i18n"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestCatalog_Match(t *testing.T) {
	c := i18n.New("en")

	tests := []struct {
		header string
		want   language.Tag
	}{
		{"", language.English},
		{"en-US,en;q=0.9", language.English},
		{"zh-CN,zh;q=0.9", language.SimplifiedChinese},
		{"not a header;;", language.English},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Match(tt.header))
		})
	}
}

func TestCatalog_DefaultLocale(t *testing.T) {
	c := i18n.New("zh-CN")
	assert.Equal(t, language.SimplifiedChinese, c.Match(""))
}

func TestCatalog_Resolve(t *testing.T) {
	c := i18n.New("en")

	msg := c.Resolve(apperr.CodeCategoryExists, []any{"Fiction"}, language.English)
	assert.Equal(t, "Book category 'Fiction' already exists", msg)

	msg = c.Resolve(apperr.CodeDataNotFound, []any{"bookId=7"}, language.SimplifiedChinese)
	assert.Equal(t, "数据不存在: bookId=7", msg)

	msg = c.Resolve(apperr.CodeMissingRequestParameter, []any{"bookId", "Long"}, language.SimplifiedChinese)
	assert.Equal(t, "缺少类型为 Long 的请求参数 'bookId'", msg)
}

func TestCatalog_ResolveUnknownCode(t *testing.T) {
	c := i18n.New("en")
	assert.Equal(t, "999999", c.Resolve(apperr.Code("999999"), []any{"x"}, language.English))
}
