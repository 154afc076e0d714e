// Package i18n resolves localized messages for response codes.
package i18n

import (
	"time"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Resolver turns a code and its positional arguments into text for a locale.
type Resolver interface {
	Resolve(code apperr.Code, args []any, tag language.Tag) string
}

// Supported locales. The first entry is the fallback.
var supported = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var messages = map[language.Tag]map[apperr.Code]string{
	language.English: {
		apperr.CodeSuccess:                 "success",
		apperr.CodeNotFound:                "%s not found",
		apperr.CodeMethodNotAllowed:        "Request method '%s' is not supported",
		apperr.CodeNotAcceptable:           "No acceptable representation",
		apperr.CodeMediaTypeNotAllowed:     "Content type '%s' is not supported",
		apperr.CodeTooManyRequests:         "Too many requests, please try again later",
		apperr.CodeServerError:             "Server error, please try again later",
		apperr.CodeFailedParameterCheck:    "Parameter check failed: %s",
		apperr.CodeMissingRequestParameter: "Required request parameter '%s' for method parameter type %s is not present",
		apperr.CodeInvalidParameter:        "Invalid parameter: %s",
		apperr.CodeParamTypeMismatch:       "Parameter '%s' with value '%s' cannot be converted to %s",
		apperr.CodeCategoryExists:          "Book category '%s' already exists",
		apperr.CodeDataNotFound:            "Data not found: %s",
	},
	language.SimplifiedChinese: {
		apperr.CodeSuccess:                 "成功",
		apperr.CodeNotFound:                "%s 不存在",
		apperr.CodeMethodNotAllowed:        "不支持的请求方法 '%s'",
		apperr.CodeNotAcceptable:           "无法提供可接受的响应格式",
		apperr.CodeMediaTypeNotAllowed:     "不支持的内容类型 '%s'",
		apperr.CodeTooManyRequests:         "请求过于频繁，请稍后再试",
		apperr.CodeServerError:             "服务器错误，请稍后再试",
		apperr.CodeFailedParameterCheck:    "参数校验失败: %s",
		apperr.CodeMissingRequestParameter: "缺少类型为 %[2]s 的请求参数 '%[1]s'",
		apperr.CodeInvalidParameter:        "非法的参数值: %s",
		apperr.CodeParamTypeMismatch:       "参数 '%s' 的值 '%s' 无法转换为 %s",
		apperr.CodeCategoryExists:          "图书分类 '%s' 已存在",
		apperr.CodeDataNotFound:            "数据不存在: %s",
	},
}

// Catalog is a Resolver backed by an x/text message catalog.
type Catalog struct {
	builder  *catalog.Builder
	matcher  language.Matcher
	fallback language.Tag
	known    map[apperr.Code]bool
}

// New builds the message catalog. defaultLocale is used when a request carries
// no usable Accept-Language; unknown values fall back to English.
func New(defaultLocale string) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(supported[0]))
	known := make(map[apperr.Code]bool)
	for tag, msgs := range messages {
		for code, msg := range msgs {
			// SetString only fails on malformed tags, which cannot happen here.
			_ = b.SetString(tag, string(code), msg)
			known[code] = true
		}
	}

	c := &Catalog{
		builder: b,
		matcher: language.NewMatcher(supported),
		known:   known,
	}
	c.fallback = c.match(defaultLocale, supported[0])
	return c
}

// Match picks the supported locale for an Accept-Language header value.
func (c *Catalog) Match(acceptLanguage string) language.Tag {
	return c.match(acceptLanguage, c.fallback)
}

func (c *Catalog) match(value string, fallback language.Tag) language.Tag {
	if value == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := c.matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supported[idx]
}

// Resolve renders the message for code in the given locale. Codes without a
// catalog entry are returned as-is.
func (c *Catalog) Resolve(code apperr.Code, args []any, tag language.Tag) string {
	if !c.known[code] {
		return string(code)
	}
	p := message.NewPrinter(tag, message.Catalog(c.builder))
	return p.Sprintf(string(code), formatArgs(args)...)
}

const timeLayout = "2006-01-02 15:04:05"

func formatArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case decimal.Decimal:
			out[i] = v.String()
		case time.Time:
			out[i] = v.Format(timeLayout)
		default:
			out[i] = arg
		}
	}
	return out
}
