// Package synthesis turns ECGSYN model integrations into finished ECG traces.
//
// One generation call runs, in order:
//
//	options → parameters (defaults, custom overrides, jitter, pathology transform)
//	        → adaptive integration of the model, sampled on a uniform grid
//	        → ×ecgsyn.ScaleFactor
//	        → pathology post-processing (ST elevation, U waves, fibrillatory
//	          baseline, RR irregularization, AV dissociation placeholder)
//	        → additive noise
//
// GenerateMultiLead fans the resulting Lead II trace out through a
// LeadDeriver, and Stream repeats the whole pipeline per time chunk.
//
// Every random draw comes from a per-call *rand.Rand seeded from
// GenerateOptions.Seed or, when absent, from the generator's seed source. The
// seed used is reported in the result metadata.
package synthesis
