package optim

import (
	"math"

	"golang.org/x/exp/constraints"
)

// nextZeta applies the sign-agreement rule to one element.
//
//	grad*prevGrad > 0: zeta * eta_plus
//	grad*prevGrad < 0: zeta * eta_minus
//	otherwise:         zeta unchanged
//
// The result is always clamped to [zeta_min, zeta_max], which is a no-op for
// the unchanged case whenever zeta already satisfies the invariant.
func (h *Hyperparameters) nextZeta(grad, prevGrad, zeta float64) float64 {
	agreement := grad * prevGrad
	switch {
	case agreement > 0:
		zeta *= h.EtaPlus
	case agreement < 0:
		zeta *= h.EtaMinus
	}
	return clamp(zeta, h.ZetaMin, h.ZetaMax)
}

// ema returns decay*prev + (1-decay)*observation.
func ema(decay, prev, observation float64) float64 {
	return decay*prev + (1-decay)*observation
}

// updateElements runs one WAME step over flat, equally sized buffers.
//
// param, grad, prevGrad, zeta, z and theta are read; the next values are
// written to the out* buffers. Input and output slices may not alias.
func (h *Hyperparameters) updateElements(
	param, grad, prevGrad, zeta, z, theta []float64,
	outParam, outZeta, outZ, outTheta []float64,
) {
	d := h.Decay
	for i := range param {
		g := grad[i]

		zetaNew := h.nextZeta(g, prevGrad[i], zeta[i])
		zNew := ema(d, z[i], zetaNew)

		var thetaNew, delta float64
		switch h.Variant {
		case VariantWame:
			// Squared gradient deliberately absent from the observation.
			thetaNew = ema(d, theta[i], 1)
			delta = -wameStepScale / zNew * g * (1 / thetaNew)
		default:
			thetaNew = ema(d, theta[i], g*g)
			delta = -h.LR / zNew * g / (math.Sqrt(thetaNew) + adaptedEpsilon)
		}

		outParam[i] = param[i] + delta
		outZeta[i] = zetaNew
		outZ[i] = zNew
		outTheta[i] = thetaNew
	}
}

func clamp[T constraints.Float](v, lo, hi T) T {
	return min(max(v, lo), hi)
}
