package service

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"storefront_bot/internal/domain"
)

const (
	entrySeparator  = "\n\n"
	truncatedSuffix = "…"

	firstPageTitle        = "Available Products"
	continuationPageTitle = "Continuation of Available Products"
)

var titleEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

// FormatEntry renders one product as a markdown link followed by its USD
// price.
func FormatEntry(storeURL string, p domain.Product, usd decimal.Decimal) string {
	return fmt.Sprintf("[%s](%s/product/%s) - $%s USD",
		titleEscaper.Replace(p.Title),
		strings.TrimRight(storeURL, "/"),
		p.UniqueID,
		usd.StringFixed(2),
	)
}

// Paginate packs entries, in order, into segments of at most limit runes,
// separated by a blank line. An entry that alone exceeds limit is truncated
// and gets a segment of its own.
func Paginate(entries []string, limit int) []string {
	if len(entries) == 0 {
		return nil
	}

	sepLen := utf8.RuneCountInString(entrySeparator)

	var (
		segments []string
		b        strings.Builder
		length   int
		count    int
	)

	for _, entry := range entries {
		entry = truncate(entry, limit)
		entryLen := utf8.RuneCountInString(entry)

		if count > 0 && length+sepLen+entryLen > limit {
			segments = append(segments, b.String())
			b.Reset()
			length, count = 0, 0
		}

		if count > 0 {
			b.WriteString(entrySeparator)
			length += sepLen
		}
		b.WriteString(entry)
		length += entryLen
		count++
	}

	return append(segments, b.String())
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	keep := limit - utf8.RuneCountInString(truncatedSuffix)
	if keep <= 0 {
		return string([]rune(s)[:limit])
	}
	return string([]rune(s)[:keep]) + truncatedSuffix
}

// buildPages titles segments: the first page stands apart from continuations.
func buildPages(segments []string, footer string) []domain.Page {
	pages := make([]domain.Page, len(segments))
	for i, seg := range segments {
		title := continuationPageTitle
		if i == 0 {
			title = firstPageTitle
		}
		pages[i] = domain.Page{Title: title, Body: seg, Footer: footer}
	}
	return pages
}
