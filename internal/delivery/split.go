package delivery

import "unicode"

// MessageLimit is the platform's maximum message length in characters.
const MessageLimit = 2000

// Split cuts text into chunks of at most limit characters, breaking at
// whitespace where possible. Only whitespace at chunk boundaries is dropped,
// so joining the chunks reproduces the original text up to that whitespace.
func Split(text string, limit int) []string {
	if limit <= 0 {
		limit = MessageLimit
	}

	runes := []rune(text)
	var chunks []string
	for len(runes) > 0 {
		runes = trimLeadingSpace(runes)
		if len(runes) == 0 {
			break
		}
		if len(runes) <= limit {
			chunks = append(chunks, string(trimTrailingSpace(runes)))
			break
		}

		cut := limit
		for i := limit; i > 0; i-- {
			if unicode.IsSpace(runes[i]) {
				cut = i
				break
			}
		}
		chunk := trimTrailingSpace(runes[:cut])
		if len(chunk) > 0 {
			chunks = append(chunks, string(chunk))
		}
		runes = runes[cut:]
	}

	if len(chunks) == 0 {
		return []string{""}
	}
	return chunks
}

func trimLeadingSpace(r []rune) []rune {
	for len(r) > 0 && unicode.IsSpace(r[0]) {
		r = r[1:]
	}
	return r
}

func trimTrailingSpace(r []rune) []rune {
	for len(r) > 0 && unicode.IsSpace(r[len(r)-1]) {
		r = r[:len(r)-1]
	}
	return r
}
