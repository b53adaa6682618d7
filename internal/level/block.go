// Package level implements the block grid of an Arkanoid level: block
// kinds and their properties, the mutable grid with cardinality
// bookkeeping, neighbourhood operations used by the collision engine,
// random generators and the plain-text level format.
package level

import (
	"fmt"

	"github.com/vovakirdan/arkanoid/internal/core"
)

// Block is the content of one grid cell.
type Block int

// Block kinds. The numbering is stable: ordinary blocks occupy
// OrdinaryOffset..OrdinaryOffset+TotalOrdinary-1.
const (
	None Block = iota
	// Action blocks
	Destroy
	Electro
	Hyper
	KnockVertical
	KnockHorizontal
	Magic
	Network
	Origin
	Quick
	Ultra
	Yogurt
	Zygote
	// Invulnerable blocks
	Titan
	Invul
	Extra
	Midas
	// Auxiliary blocks
	Glass1
	Artificial
	Quick2
	Quick1
	Ultra4
	Ultra3
	Ultra2
	Ultra1
	Yogurt1
	Zygote1
	// Ordinary blocks
	Aluminium
	Brick
	Clay
	Fog
	Glass
	Iron
	Jelly
	Steel
	Plumbum
	Rolling
	Simple
	Water
	ZygoteSpawn
)

// Ordinary block range.
const (
	OrdinaryOffset = int(Aluminium)
	TotalOrdinary  = int(ZygoteSpawn) - int(Aluminium) + 1
)

// RowCol addresses a cell. Block is the block that was hit and selects the
// impact cue; After is what the cell holds once the hit is applied.
type RowCol struct {
	Row   int
	Col   int
	Block Block
	After Block
}

var blockNames = [...]string{
	"none", "destroy", "electro", "hyper", "knock_vertical", "knock_horizontal",
	"magic", "network", "origin", "quick", "ultra", "yogurt", "zygote",
	"titan", "invul", "extra", "midas", "glass_1", "artificial", "quick_2",
	"quick_1", "ultra_4", "ultra_3", "ultra_2", "ultra_1", "yogurt_1",
	"zygote_1", "aluminium", "brick", "clay", "fog", "glass", "iron", "jelly",
	"steel", "plumbum", "rolling", "simple", "water", "zygote_spawn",
}

// String returns the lower-case block name.
func (b Block) String() string {
	if b < 0 || int(b) >= len(blockNames) {
		return fmt.Sprintf("block(%d)", int(b))
	}
	return blockNames[b]
}

// Rune returns the level-file character of b.
func Rune(b Block) rune {
	switch b {
	case Destroy:
		return 'D'
	case Electro:
		return 'E'
	case Hyper:
		return 'H'
	case KnockVertical:
		return 'K'
	case KnockHorizontal:
		return '#'
	case Magic:
		return 'M'
	case Network:
		return 'N'
	case Origin:
		return 'O'
	case Quick:
		return 'Q'
	case Ultra:
		return 'U'
	case Yogurt:
		return 'Y'
	case Zygote:
		return 'Z'
	case Titan:
		return 'T'
	case Invul:
		return 'V'
	case Extra:
		return 'X'
	case Midas:
		return '$'
	case Glass1:
		return '['
	case Artificial:
		return ']'
	case Quick2:
		return '{'
	case Quick1:
		return '}'
	case Ultra4:
		return '%'
	case Ultra3:
		return '^'
	case Ultra2:
		return '&'
	case Ultra1:
		return '*'
	case Yogurt1:
		return '('
	case Zygote1:
		return ')'
	case Aluminium:
		return 'A'
	case Brick:
		return 'B'
	case Clay:
		return 'C'
	case Fog:
		return 'F'
	case Glass:
		return 'G'
	case Iron:
		return 'I'
	case Jelly:
		return 'J'
	case Steel:
		return 'L'
	case Plumbum:
		return 'P'
	case Rolling:
		return 'R'
	case Simple:
		return 'S'
	case Water:
		return 'W'
	case ZygoteSpawn:
		return '@'
	default:
		return ' '
	}
}

// FromRune parses a level-file character. Letters are case-insensitive and
// unknown characters map to None.
func FromRune(r rune) Block {
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	switch r {
	case 'D':
		return Destroy
	case 'E':
		return Electro
	case 'H':
		return Hyper
	case 'K':
		return KnockVertical
	case '#':
		return KnockHorizontal
	case 'M':
		return Magic
	case 'N':
		return Network
	case 'O':
		return Origin
	case 'Q':
		return Quick
	case 'U':
		return Ultra
	case 'Y':
		return Yogurt
	case 'Z':
		return Zygote
	case 'T':
		return Titan
	case 'V':
		return Invul
	case 'X':
		return Extra
	case '$':
		return Midas
	case '[':
		return Glass1
	case ']':
		return Artificial
	case '{':
		return Quick2
	case '}':
		return Quick1
	case '%':
		return Ultra4
	case '^':
		return Ultra3
	case '&':
		return Ultra2
	case '*':
		return Ultra1
	case '(':
		return Yogurt1
	case ')':
		return Zygote1
	case 'A':
		return Aluminium
	case 'B':
		return Brick
	case 'C':
		return Clay
	case 'F':
		return Fog
	case 'G':
		return Glass
	case 'I':
		return Iron
	case 'J':
		return Jelly
	case 'L':
		return Steel
	case 'P':
		return Plumbum
	case 'R':
		return Rolling
	case 'S':
		return Simple
	case 'W':
		return Water
	case '@':
		return ZygoteSpawn
	default:
		return None
	}
}

// Cost returns the cardinality contribution of b.
func Cost(b Block) int {
	switch b {
	case Ultra:
		return 5
	case Plumbum, Ultra4:
		return 4
	case Iron, Steel, Quick, Ultra3:
		return 3
	case Brick, Glass, Zygote, Quick2, Ultra2:
		return 2
	case Electro, Hyper, KnockVertical, KnockHorizontal, Magic, Network, Origin,
		Yogurt, Glass1, Quick1, Ultra1, Yogurt1, Zygote1,
		Aluminium, Clay, Fog, Jelly, Rolling, Simple, Water, ZygoteSpawn:
		return 1
	default:
		return 0
	}
}

// Score returns the points awarded for hitting b.
func Score(b Block) int {
	switch b {
	case Ultra:
		return 585
	case Ultra4:
		return 458
	case Ultra3:
		return 333
	case Ultra2:
		return 211
	case Ultra1:
		return 100
	case Plumbum:
		return 148
	case Steel:
		return 101
	case Quick:
		return 79
	case Iron:
		return 62
	case Quick2:
		return 51
	case Rolling:
		return 28
	case Aluminium:
		return 25
	case Brick, Quick1:
		return 24
	case Jelly:
		return 23
	case Network:
		return 20
	case KnockVertical, KnockHorizontal:
		return 15
	case Zygote:
		return 14
	case Clay:
		return 12
	case Hyper, Zygote1:
		return 11
	case Magic:
		return 10
	case Electro, Water, Yogurt:
		return 9
	case Simple:
		return 4
	case Glass:
		return 3
	case Glass1, Yogurt1, Origin:
		return 2
	case Fog, ZygoteSpawn:
		return 1
	default:
		return 0
	}
}

// Impacted returns what a single hit leaves in a cell holding b.
func Impacted(b Block) Block {
	switch b {
	case Ultra:
		return Ultra4
	case Ultra4:
		return Ultra3
	case Ultra3:
		return Ultra2
	case Ultra2:
		return Ultra1
	case Plumbum:
		return Steel
	case Iron, Steel:
		return Brick
	case Quick:
		return Quick2
	case Quick2:
		return Quick1
	case Brick:
		return Simple
	case Glass:
		return Glass1
	case Zygote:
		return Zygote1
	case Midas:
		return Titan
	case Extra:
		return Invul
	case Titan, Invul, None:
		return b
	default:
		return None
	}
}

// Upgrade returns the stronger counterpart of an ordinary block.
func Upgrade(b Block) Block {
	switch b {
	case Aluminium, Clay, Simple, ZygoteSpawn:
		return Brick
	case Fog:
		return Glass
	case Brick:
		return Iron
	case Iron, Steel:
		return Plumbum
	case Water:
		return Jelly
	case Jelly:
		return Rolling
	default:
		return b
	}
}

// Degrade returns the weaker counterpart of an ordinary block.
func Degrade(b Block) Block {
	switch b {
	case Glass:
		return Fog
	case Brick:
		return Simple
	case Iron, Steel:
		return Brick
	case Plumbum:
		return Iron
	case Rolling:
		return Jelly
	case Jelly:
		return Water
	default:
		return b
	}
}

// IsOrdinary reports whether b is one of the ordinary blocks.
func IsOrdinary(b Block) bool {
	return int(b) >= OrdinaryOffset && int(b) < OrdinaryOffset+TotalOrdinary
}

// IsInvulnerable reports whether b ignores every modification.
func IsInvulnerable(b Block) bool {
	return b == Titan || b == Invul
}

// AffectsCardinality reports whether hitting b counts towards finishing
// the level.
func AffectsCardinality(b Block) bool {
	switch b {
	case None, Artificial, Destroy, Midas, Titan, Invul, Extra:
		return false
	default:
		return true
	}
}

// VisibleNonAffecting reports whether b is drawn but never has to be
// destroyed.
func VisibleNonAffecting(b Block) bool {
	switch b {
	case Artificial, Destroy, Midas, Titan, Invul, Extra:
		return true
	default:
		return false
	}
}

// Texture returns the texture file of b, empty if it has none.
func Texture(b Block) string {
	switch b {
	case KnockVertical, KnockHorizontal:
		return "bl_knock.png"
	case Quick, Quick2, Quick1:
		return "bl_quick.png"
	case Ultra, Ultra4, Ultra3, Ultra2, Ultra1:
		return "bl_ultra.png"
	case Glass, Glass1:
		return "bl_glass.png"
	case Yogurt, Yogurt1:
		return "bl_yogurt.png"
	case Zygote, Zygote1:
		return "bl_zygote.png"
	case None, Artificial:
		return ""
	default:
		return "bl_" + b.String() + ".png"
	}
}

// FillColor returns the body color of b.
func FillColor(b Block) core.Color {
	switch b {
	case Aluminium:
		return core.Gray(0.8509)
	case Artificial:
		return core.RGB(1, 0.0784, 0.5765)
	case Brick:
		return core.RGB(0.8039, 0.149, 0.149)
	case Clay:
		return core.RGB(1, 0.8275, 0.6078)
	case Destroy:
		return core.RGB(0.8039, 0.8039, 0)
	case Electro:
		return core.RGB(1, 0.498, 0)
	case Fog:
		return core.RGB(0.8784, 0.9333, 0.9333)
	case Glass, Glass1:
		return core.RGB(0.498, 1, 0.8314)
	case Hyper:
		return core.RGB(0.6902, 0.8784, 0.902)
	case Iron:
		return core.Gray(0.6902)
	case Jelly:
		return core.RGB(0.9333, 0.0706, 0.5373)
	case KnockVertical, KnockHorizontal:
		return core.RGB(1, 0.549, 0)
	case Steel:
		return core.RGB(0.6902, 0.7686, 0.8706)
	case Magic:
		return core.RGB(0.8157, 0.1255, 0.5647)
	case Midas:
		return core.RGB(0.9333, 0.7882, 0)
	case Network:
		return core.RGB(0, 0.9333, 0)
	case Origin:
		return core.RGB(1, 0.4157, 0.4157)
	case Plumbum:
		return core.RGB(0.7569, 0.8039, 0.8039)
	case Quick, Quick2, Quick1:
		return core.RGB(0, 1, 1)
	case Rolling:
		return core.RGB(0.8039, 0.3569, 0.2706)
	case Simple:
		return core.RGB(0.6353, 0.8039, 0.3529)
	case Titan:
		return core.RGB(1, 0.7567, 0.1451)
	case Ultra, Ultra4, Ultra3, Ultra2, Ultra1:
		return core.RGB(0.749, 0.2431, 1)
	case Invul:
		return core.RGB(0.4118, 0.5451, 0.4118)
	case Water:
		return core.RGB(0.5294, 0.8078, 0.9216)
	case Extra:
		return core.RGB(0.6078, 0.8039, 0.6078)
	case Yogurt, Yogurt1:
		return core.RGB(1, 0.9726, 0.8628)
	case Zygote, Zygote1:
		return core.RGB(0.2628, 0.8039, 0.502)
	case ZygoteSpawn:
		return core.RGB(0.4, 0.8039, 0)
	default:
		return core.Transparent
	}
}

// EdgeColor returns the border color of b.
func EdgeColor(b Block) core.Color {
	switch b {
	case Aluminium:
		return core.Gray(0.65)
	case Artificial:
		return core.Gray(0.2784)
	case Brick:
		return core.RGB(0.5451, 0.102, 0.102)
	case Clay:
		return core.RGB(0.8759, 0.7216, 0.5294)
	case Destroy:
		return core.RGB(0.8039, 0, 0)
	case Electro:
		return core.RGB(0.9333, 0.1726, 0.1726)
	case Fog:
		return core.RGB(0.9412, 0.9726, 1)
	case Glass, Glass1:
		return core.RGB(0.2706, 0.5451, 0.4549)
	case Hyper:
		return core.RGB(0.2824, 0.4628, 1)
	case Iron:
		return core.Gray(0.5412)
	case Jelly:
		return core.RGB(0.5451, 0.0392, 0.3137)
	case KnockVertical, KnockHorizontal:
		return core.RGB(0.5451, 0.2706, 0)
	case Steel:
		return core.RGB(0.4314, 0.4824, 0.5451)
	case Magic:
		return core.RGB(0.4902, 0.149, 0.8039)
	case Midas:
		return core.RGB(0.5451, 0.4118, 0.0784)
	case Network:
		return core.RGB(0.1804, 0.5451, 0.3418)
	case Origin:
		return core.RGB(0.5451, 0.2275, 0.3843)
	case Plumbum:
		return core.RGB(0.5137, 0.5451, 0.5451)
	case Quick, Quick2, Quick1:
		return core.RGB(0, 0.5451, 0.5451)
	case Rolling:
		return core.RGB(0.5451, 0.2431, 0.1843)
	case Simple:
		return core.RGB(0.4314, 0.5451, 0.2392)
	case Titan:
		return core.RGB(0.8039, 0.6078, 0.1137)
	case Ultra, Ultra4, Ultra3, Ultra2, Ultra1:
		return core.RGB(0.4078, 0.1333, 0.5451)
	case Invul:
		return core.RGB(0.1843, 0.3098, 0.3098)
	case Water:
		return core.RGB(0.4941, 0.7529, 0.9333)
	case Extra:
		return core.RGB(0.4118, 0.5451, 0.4118)
	case Yogurt, Yogurt1:
		return core.RGB(0.8039, 0.7843, 0.6941)
	case Zygote, Zygote1:
		return core.RGB(0.1804, 0.5451, 0.3412)
	case ZygoteSpawn:
		return core.RGB(0.2706, 0.5451, 0)
	default:
		return core.Transparent
	}
}
