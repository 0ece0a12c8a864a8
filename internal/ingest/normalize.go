package ingest

import "strings"

// normalizeTurkish: Türkçe karakterleri ASCII karşılıklarına çevirir ve
// küçük harfe indirir. Örn: "CADI SÜTLÜ ÇİKOLATA" -> "cadi sutlu cikolata"
func normalizeTurkish(s string) string {
	replacements := map[rune]string{
		'ç': "c", 'Ç': "C",
		'ğ': "g", 'Ğ': "G",
		'ı': "i", 'İ': "I",
		'ö': "o", 'Ö': "O",
		'ş': "s", 'Ş': "S",
		'ü': "u", 'Ü': "U",
	}

	var result strings.Builder
	for _, r := range s {
		if replacement, ok := replacements[r]; ok {
			result.WriteString(replacement)
		} else {
			result.WriteRune(r)
		}
	}
	return strings.ToLower(strings.TrimSpace(result.String()))
}

// normalizeName: Karşılaştırma anahtarı — Türkçe normalize + boşluk sadeleştirme.
// POS dökümündeki "İskender  Kebap" ile tanımdaki "iskender kebap" eşleşmeli.
func normalizeName(s string) string {
	return strings.Join(strings.Fields(normalizeTurkish(s)), " ")
}
