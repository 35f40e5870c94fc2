package scanner

// baseConfidence is the floor assigned when at least one field was derived.
// Extraction that derives nothing yields no entity at all, so a confidence of
// exactly zero never appears on a returned record.
const baseConfidence = 0.25

// FieldConfidence maps which fields an extractor managed to derive to a
// score in (0, 1]. More derived fields raise the score linearly from the
// base toward 1.0; deriving every field scores exactly 1.0.
func FieldConfidence(derived map[string]bool) float64 {
	total := len(derived)
	if total == 0 {
		return baseConfidence
	}

	got := 0
	for _, ok := range derived {
		if ok {
			got++
		}
	}

	score := baseConfidence + (1.0-baseConfidence)*float64(got)/float64(total)
	if score > 1.0 {
		score = 1.0
	}
	return score
}
