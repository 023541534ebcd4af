package card

import (
	"strings"

	apperrors "github.com/louisbranch/diamond/internal/platform/errors"
)

// PlayCode is the outcome of a chart lookup or an action that bypasses the
// chart (bunts and intentional walks).
type PlayCode string

const (
	PlayBunt            PlayCode = "BUNT"
	PlayGroundBall      PlayCode = "GB"
	PlayFlyBall         PlayCode = "FB"
	PlaySingle          PlayCode = "1B"
	PlaySinglePlus      PlayCode = "1B+"
	PlayDouble          PlayCode = "2B"
	PlayTriple          PlayCode = "3B"
	PlayHomeRun         PlayCode = "HR"
	PlayWalk            PlayCode = "BB"
	PlayIntentionalWalk PlayCode = "IBB"
	PlayStrikeout       PlayCode = "SO"
	PlayPopUp           PlayCode = "PU"
	PlayOut             PlayCode = "OUT"
)

// ErrUnknownPlayCode matches any unrecognized play code error.
var ErrUnknownPlayCode = apperrors.New(apperrors.CodeUnknownPlayCode, "unknown play code")

// aliases maps spellings found in card data onto canonical codes. "GB?" marks
// a ground ball the card author flagged as a possible hole; it resolves as GB.
var aliases = map[string]PlayCode{
	"GB?":    PlayGroundBall,
	"SINGLE": PlaySingle,
}

// ParsePlayCode parses a play code, accepting the known aliases.
func ParsePlayCode(raw string) (PlayCode, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if alias, ok := aliases[value]; ok {
		return alias, nil
	}
	code := PlayCode(value)
	if err := code.Validate(); err != nil {
		return "", err
	}
	return code, nil
}

// Validate reports whether the code is one of the known play codes.
func (c PlayCode) Validate() error {
	switch c {
	case PlayBunt, PlayGroundBall, PlayFlyBall, PlaySingle, PlaySinglePlus,
		PlayDouble, PlayTriple, PlayHomeRun, PlayWalk, PlayIntentionalWalk,
		PlayStrikeout, PlayPopUp, PlayOut:
		return nil
	default:
		return apperrors.WithMetadata(apperrors.CodeUnknownPlayCode, "unknown play code "+string(c), map[string]string{"code": string(c)})
	}
}

// IsOut reports whether the code retires the batter without contact play.
func (c PlayCode) IsOut() bool {
	return c == PlayStrikeout || c == PlayPopUp || c == PlayOut
}
