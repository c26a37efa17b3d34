// Package resolve matches source-B company records against source A and
// drives the batch that turns matches into golden records.
package resolve

import (
	"net"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// legalSuffixes lists legal-entity tokens dropped during name normalization.
var legalSuffixes = map[string]bool{
	"inc": true, "ltd": true, "llc": true, "corp": true, "co": true,
	"company": true, "limited": true, "gmbh": true, "ag": true, "sa": true,
	"plc": true, "pvt": true, "private": true, "incorporated": true,
	"corporation": true, "holdings": true, "group": true,
	"technologies": true, "technology": true,
}

// yearRe finds a 19xx/20xx year that is not part of a longer digit run.
// "Aug2015" and "Nov30,2016" both yield a year; "120155" does not.
var yearRe = regexp.MustCompile(`(?:^|\D)((?:19|20)\d{2})(?:\D|$)`)

// hostProfile maps hosts to their ASCII (punycode) form. Hyphen placement
// is left unchecked so legacy hosts like "ab--cd.com" still resolve.
var hostProfile = idna.New(idna.MapForLookup(), idna.Transitional(false))

// NormalizeDomain reduces a URL or bare host to its registrable domain
// ("https://www.stripe.com/about" -> "stripe.com"). Internationalized hosts
// come back in punycode. It returns "" for empty or unparseable input, IP
// addresses, bare public suffixes and hosts under an unlisted TLD.
func NormalizeDomain(rawURL string) string {
	s := strings.ToLower(strings.TrimSpace(rawURL))
	s = strings.TrimPrefix(strings.TrimRight(s, "/"), "//")
	if s == "" {
		return ""
	}
	if !strings.Contains(s, "://") {
		s = "http://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	host := strings.TrimSuffix(u.Hostname(), ".")
	if host == "" || !strings.Contains(host, ".") || net.ParseIP(host) != nil {
		return ""
	}
	for _, r := range host {
		if !(r == '.' || r == '-' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return ""
		}
	}
	host, err = hostProfile.ToASCII(host)
	if err != nil || host == "" {
		return ""
	}

	suffix, icann := publicsuffix.PublicSuffix(host)
	if !icann && !strings.Contains(suffix, ".") {
		// Unlisted TLD; publicsuffix falls back to the "*" rule.
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return domain
}

var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeName canonicalizes a company name for comparison:
//  1. Lowercase and fold diacritics
//  2. Strip every rune that is not a letter, digit or space
//  3. Drop legal-entity suffix tokens (inc, llc, gmbh, holdings, ...)
//  4. Rejoin the remaining tokens with single spaces
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}

	folded, _, err := transform.String(foldMarks, strings.ToLower(name))
	if err != nil {
		folded = strings.ToLower(name)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	tokens := strings.Fields(b.String())
	kept := tokens[:0]
	for _, t := range tokens {
		if !legalSuffixes[t] {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, " ")
}

// NamePrefix returns the first one or two normalized tokens of name, the
// coarse filter used for candidate search. Empty when nothing survives
// normalization.
func NamePrefix(name string) string {
	tokens := strings.Fields(NormalizeName(name))
	if len(tokens) > 2 {
		tokens = tokens[:2]
	}
	return strings.Join(tokens, " ")
}

// ExtractYear returns the first founding year found in free text, or "".
func ExtractYear(founded string) string {
	m := yearRe.FindStringSubmatch(founded)
	if m == nil {
		return ""
	}
	return m[1]
}
