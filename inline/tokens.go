// Package inline handles the chat-specific inline markup that sits inside
// Markdown text: product cards, SKU links and clickable phrases.
//
// Extraction runs before block parsing and swaps each marker for a sentinel
// the block parser treats as ordinary text. Reinsert scans sentinels back out
// of a finished element's text and returns ordered segments.
package inline

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	skuOpen     = "⟪SKU_CARD_"
	productOpen = "⟪PRODUCT_CARD_"
	clickStart  = "⟪CLICK_TEXT_START⟫"
	clickEnd    = "⟪CLICK_TEXT_END⟫"
	sentinelEnd = "⟫"
)

var (
	// [title](<sku_id>ID</sku_id>)[price][imageUrl]
	skuLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(<sku_id>([A-Za-z0-9_]+)</sku_id>\)(?:\[([^\]]+)\])?(?:\[(https?://[^\]]+)\])?`)
	productRe = regexp.MustCompile(`\[product:([A-Za-z0-9_]+)\]`)
	clickRe   = regexp.MustCompile(`<ClickText>(.*?)</ClickText>`)

	sentinelRe = regexp.MustCompile(`⟪SKU_CARD_(\d+)⟫|⟪PRODUCT_CARD_([A-Za-z0-9_]+)⟫|⟪CLICK_TEXT_START⟫(.*?)⟪CLICK_TEXT_END⟫`)
)

// SKURef is a product reference captured from an explicit SKU link.
type SKURef struct {
	ID       string
	Title    string
	Price    string
	ImageURL string
}

// Tokens remembers what ExtractTokens replaced so Reinsert can restore it.
// A nil *Tokens is valid and resolves no SKU links.
type Tokens struct {
	skus []SKURef
}

// SKUs returns the SKU links captured during extraction, in source order.
func (t *Tokens) SKUs() []SKURef {
	if t == nil {
		return nil
	}
	return t.skus
}

// ExtractTokens replaces inline markers with sentinels. SKU links are
// replaced first so a [product:ID] label inside one is not processed twice.
func ExtractTokens(text string) (string, *Tokens) {
	toks := &Tokens{}

	text = skuLinkRe.ReplaceAllStringFunc(text, func(match string) string {
		m := skuLinkRe.FindStringSubmatch(match)
		ref := SKURef{Title: m[1], ID: m[2], Price: m[3], ImageURL: m[4]}
		// A lone [https://...] lands in the price group; move it.
		if ref.ImageURL == "" && isHTTPURL(ref.Price) {
			ref.ImageURL, ref.Price = ref.Price, ""
		}
		toks.skus = append(toks.skus, ref)
		return skuOpen + strconv.Itoa(len(toks.skus)-1) + sentinelEnd
	})

	text = productRe.ReplaceAllString(text, productOpen+"${1}"+sentinelEnd)
	text = clickRe.ReplaceAllString(text, clickStart+"${1}"+clickEnd)
	return text, toks
}

// HasTokens reports whether text contains any sentinel.
func HasTokens(text string) bool {
	return strings.Contains(text, skuOpen) ||
		strings.Contains(text, productOpen) ||
		strings.Contains(text, clickStart)
}

// Reinsert splits text at sentinels into Text, Product and Click segments,
// preserving order. Whitespace-only text between tokens is dropped. Plain
// text segments are styled with Style.
func (t *Tokens) Reinsert(text string) []Segment {
	if !HasTokens(text) {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []Segment{newText(text)}
	}

	var out []Segment
	addText := func(s string) {
		if strings.TrimSpace(s) != "" {
			out = append(out, newText(s))
		}
	}

	last := 0
	for _, loc := range sentinelRe.FindAllStringSubmatchIndex(text, -1) {
		addText(text[last:loc[0]])
		last = loc[1]

		switch {
		case loc[2] >= 0:
			idx, _ := strconv.Atoi(text[loc[2]:loc[3]])
			ref, ok := t.sku(idx)
			if !ok {
				addText(text[loc[0]:loc[1]])
				continue
			}
			out = append(out, &Product{ID: ref.ID, Title: ref.Title, Price: ref.Price, ImageURL: ref.ImageURL, Linked: true})
		case loc[4] >= 0:
			out = append(out, &Product{ID: text[loc[4]:loc[5]]})
		case loc[6] >= 0:
			// click spans are text only; nested product tokens become their title or id
			out = append(out, &Click{Value: t.Plain(text[loc[6]:loc[7]])})
		}
	}
	addText(text[last:])
	return out
}

// Plain returns text with sentinels turned back into readable text: product
// tokens become their title or id and click spans lose their markers.
func (t *Tokens) Plain(text string) string {
	var b strings.Builder
	for _, seg := range t.Reinsert(text) {
		switch s := seg.(type) {
		case *Text:
			b.WriteString(s.Value)
		case *Click:
			b.WriteString(s.Value)
		case *Product:
			if s.Title != "" {
				b.WriteString(s.Title)
			} else {
				b.WriteString(s.ID)
			}
		}
	}
	return b.String()
}

func (t *Tokens) sku(i int) (SKURef, bool) {
	if t == nil || i < 0 || i >= len(t.skus) {
		return SKURef{}, false
	}
	return t.skus[i], true
}

func isHTTPURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
