package quiz

import (
	"fmt"

	"github.com/mind-engage/mindengage-quiz/internal/quiztext"
)

const defaultPoints = 1

// Decode turns raw generated blocks into items, one point each. Items are
// numbered q1, q2, ... in block order.
func Decode(kind Kind, raws []string) ([]Item, error) {
	items := make([]Item, 0, len(raws))
	for i, raw := range raws {
		it := Item{ID: fmt.Sprintf("q%d", i+1), Raw: raw, Points: defaultPoints}
		switch kind {
		case KindMCQ:
			q := quiztext.ParseBlock(raw)
			it.Question = &q
		case KindFreeText:
			ft := quiztext.ParseFreeText(raw)
			it.FreeText = &ft
		default:
			return nil, ErrUnknownKind
		}
		items = append(items, it)
	}
	return items, nil
}
