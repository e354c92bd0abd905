// Package domains derives plausible web domains for a company name. It is a
// pure function of its input and performs no I/O.
package domains

import (
	"strings"
	"unicode"
)

// legalSuffixes are stripped from the end of a cleaned company name before
// domain variants are generated. Checked in order; each matching suffix is
// removed once.
var legalSuffixes = []string{
	" inc", " corp", " llc", " ltd", " limited", " gmbh", " co", " company", " corporation",
}

var tlds = []string{".com", ".org", ".io", ".co", ".net"}

// Generate returns candidate domains for a company, de-duplicated and in a
// deterministic order. Adapters typically probe only the first few entries,
// so a stable order keeps runs reproducible.
func Generate(companyName string) []string {
	cleanName := strings.ToLower(companyName)

	for _, suffix := range legalSuffixes {
		if strings.HasSuffix(cleanName, suffix) {
			cleanName = strings.TrimSuffix(cleanName, suffix)
		}
	}

	// Drop everything except letters, digits and spaces.
	var b strings.Builder
	for _, r := range cleanName {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	cleanName = b.String()

	parts := strings.Fields(cleanName)

	var baseNames []string
	baseNames = append(baseNames, strings.Join(parts, ""))
	baseNames = append(baseNames, strings.Join(parts, "-"))

	if len(parts) > 1 {
		// Initials of all words but the last, plus the last word.
		var initials strings.Builder
		for _, part := range parts[:len(parts)-1] {
			initials.WriteByte(part[0])
		}
		baseNames = append(baseNames, initials.String()+parts[len(parts)-1])

		// Full acronym.
		var acronym strings.Builder
		for _, part := range parts {
			acronym.WriteByte(part[0])
		}
		baseNames = append(baseNames, acronym.String())
	}

	seen := make(map[string]bool)
	var result []string
	add := func(domain string) {
		if domain == "" || seen[domain] {
			return
		}
		seen[domain] = true
		result = append(result, domain)
	}

	// Well-known companies resolve to their canonical domain first, so
	// adapters that only probe a short prefix of the list still hit it.
	switch {
	case strings.Contains(cleanName, "google"):
		add("google.com")
	case strings.Contains(cleanName, "microsoft"):
		add("microsoft.com")
	case strings.Contains(cleanName, "amazon"):
		add("amazon.com")
	case strings.Contains(cleanName, "facebook"), strings.Contains(cleanName, "meta"):
		add("facebook.com")
		add("meta.com")
	case strings.Contains(cleanName, "apple"):
		add("apple.com")
	}

	for _, base := range baseNames {
		if base == "" {
			continue
		}
		for _, tld := range tlds {
			add(base + tld)
		}
	}

	// The verbatim name is kept as a last-ditch probe.
	add(companyName)

	return result
}
