// Package ecgsyn implements the McSharry ECGSYN dynamical model: a point
// circling the unit limit cycle in the (x, y) plane whose angle θ sweeps one
// heartbeat per revolution, and a third state z pushed by five Gaussian wave
// terms (P, Q, R, S, T) placed at fixed angles.
//
// Model evaluation:
//
//	α   = 1 - √(x² + y²)
//	θ   = atan2(y, x)
//	ω   = 2π / (60 / heartRate)
//	ż   = -Σ aᵢ·ω·Δθᵢ·exp(-Δθᵢ² / 2bᵢ²) - (z - z₀(t)),  Δθᵢ = wrap(θ - θᵢ)
//	ẋ   = αx - ωy
//	ẏ   = αy + ωx
//
// z₀(t) is an optional respiratory baseline. The raw z excursion is about 80
// times smaller than the physiological amplitude, so samples are multiplied by
// ScaleFactor on extraction. A wave's rendered height is roughly
// ScaleFactor·a·b².
//
// Pathologies are pure Parameter → Parameter transforms grouped in two
// families, Baseline and Enhanced.
package ecgsyn
