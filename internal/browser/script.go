package browser

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultLoadMorePrefixes are the leading words of the listing's "load more" control,
// e.g. "Load next 16 results".
var DefaultLoadMorePrefixes = []string{"load next", "load more"}

// loadMoreScript builds a self-contained expression that looks for an enabled, visible
// button whose normalized text starts with one of prefixes. With click set the first
// match is scrolled into view and clicked. The expression evaluates to a boolean.
func loadMoreScript(prefixes []string, click bool) string {
	normalized := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		p = strings.ToLower(strings.Join(strings.Fields(p), " "))
		if p != "" {
			normalized = append(normalized, p)
		}
	}
	encoded, _ := json.Marshal(normalized)

	action := ""
	if click {
		action = "el.scrollIntoView({block: 'center'}); el.click();"
	}

	return fmt.Sprintf(`(() => {
	const prefixes = %s;
	for (const el of document.querySelectorAll('button, [role="button"]')) {
		const text = (el.innerText || el.textContent || '').replace(/\s+/g, ' ').trim().toLowerCase();
		if (!prefixes.some(p => text.startsWith(p))) continue;
		if (el.disabled || el.getAttribute('aria-disabled') === 'true') continue;
		const style = window.getComputedStyle(el);
		if (style.display === 'none' || style.visibility === 'hidden') continue;
		%s
		return true;
	}
	return false;
})()`, encoded, action)
}

// countScript evaluates to the number of event cards on the page, using the same rule as
// extract.Cards: elements matching selector, or when there are none, the outermost divs
// whose class mentions "card" or "event" and which hold at most one heading.
func countScript(selector string) string {
	encoded, _ := json.Marshal(selector)
	return fmt.Sprintf(`(() => {
	const primary = document.querySelectorAll(%s).length;
	if (primary > 0) return primary;
	const isCard = el => /card|event/i.test(el.getAttribute('class') || '') &&
		el.querySelectorAll('h1, h2, h3, h4').length <= 1;
	let n = 0;
	for (const el of document.querySelectorAll('div[class]')) {
		if (!isCard(el)) continue;
		let nested = false;
		for (let p = el.parentElement; p; p = p.parentElement) {
			if (p.tagName === 'DIV' && p.hasAttribute('class') && isCard(p)) {
				nested = true;
				break;
			}
		}
		if (!nested) n++;
	}
	return n;
})()`, encoded)
}

const scrollScript = `window.scrollTo(0, document.body.scrollHeight)`
