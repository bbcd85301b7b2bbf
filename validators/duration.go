package validators

import "errors"

var ErrDurationInvalid = errors.New("invalid duration provided")

// durationWords maps a summary length label to its target word count.
var durationWords = map[string]int{
	"1min":  150,
	"10min": 1500,
	"30min": 4500,
}

// DurationWords returns the target word count for a summary duration
// label (1min, 10min or 30min).
func DurationWords(d string) (int, error) {
	words, ok := durationWords[d]
	if !ok {
		return 0, ErrDurationInvalid
	}

	return words, nil
}
