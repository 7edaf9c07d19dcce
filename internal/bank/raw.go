package bank

// rawBank is the on-disk shape: level string ("0".."5") -> question records.
type rawBank map[string][]rawQuestion

// rawQuestion mirrors the JSON record described in spec §6. Not every
// field applies to every mechanic; rawToQuestion enforces which fields
// are required for which mechanic.
type rawQuestion struct {
	ID         string  `json:"id"`
	Mechanic   string  `json:"mechanic"`
	Skill      string  `json:"skill"`
	Difficulty float64 `json:"difficulty"`

	// Pronunciation payload.
	TargetWord       string `json:"target_word"`
	Sentence         string `json:"sentence"`
	Phonetic         string `json:"phonetic"`
	ImageDescription string `json:"image_description"`

	// Choice payload (audio-single-choice-from-images,
	// image-single-choice-from-texts, multiple-choice-text-text).
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correct_index"`

	// Scramble payload.
	ScrambledWords []string `json:"scrambled_words"`
	CorrectOrder   []int    `json:"correct_order"`

	// Sort payload.
	Categories []string      `json:"categories"`
	Items      []rawSortItem `json:"items"`
}

type rawSortItem struct {
	ID              string `json:"id"`
	Audio           string `json:"audio"`
	CorrectCategory string `json:"correct_category"`
}
