package jo

// SanitizeTaxID strips every non-digit character from a tax-id-like field
// ("JO-12-345" becomes "12345") and truncates the result to TaxIDMaxDigits.
// Returns "" when the input carries no digits at all.
func SanitizeTaxID(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			out = append(out, raw[i])
		}
	}
	if len(out) > TaxIDMaxDigits {
		out = out[:TaxIDMaxDigits]
	}
	return string(out)
}
