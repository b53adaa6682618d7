package render

import "github.com/vovakirdan/arkanoid/internal/core"

// BiteColors returns the bite fill and edge for a ball appearance.
func BiteColors(e core.BallEffect) (fill, edge core.Color) {
	switch e {
	case core.EffectGoo:
		return core.RGB(0.4, 0.8039, 0), core.RGB(0.1333, 0.5451, 0.1333)
	case core.EffectMirror:
		return core.Mirror, core.MirrorEdge
	case core.EffectProtect:
		return core.RGB(1, 0.7567, 0.1451), core.RGB(0.8039, 0.6078, 0.1137)
	case core.EffectRandom:
		return core.Magenta, core.Purple
	default:
		return core.Salmon, core.SiennaDark
	}
}

// BallColors returns the ball fill and edge for a ball appearance.
func BallColors(e core.BallEffect) (fill, edge core.Color) {
	switch e {
	case core.EffectEasy, core.EffectEasyT:
		return core.Yellow, core.RGB(0.9333, 0.7882, 0)
	case core.EffectExplode, core.EffectJump:
		return core.RGB(0.5294, 0.8078, 0.9216), core.RGB(0.749, 0.2431, 1)
	case core.EffectGoo, core.EffectUpgrade:
		return core.Green, core.RGB(0.1804, 0.5451, 0.3412)
	case core.EffectPierce:
		return core.Black, core.RGB(0.8039, 0.3569, 0.2706)
	case core.EffectDegrade:
		return core.Red, core.RGB(0.8039, 0.149, 0.149)
	default:
		return core.Orange, core.SiennaDark
	}
}
