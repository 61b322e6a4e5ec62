package synth

// Note range covered by NoteIncrements (C1 to C7)
const (
	MinNote   = 24
	MaxNote   = 96
	NoteCount = MaxNote - MinNote + 1
)

// Sine256 is one full sine cycle pre-scaled to 0-255, indexed by the high
// byte of a phase accumulator.
var Sine256 = [256]uint8{
	0, 0, 0, 0, 0, 0, 1, 1, 1, 2, 2, 3, 4, 5, 5, 6, 7, 9, 10, 11, 12, 14, 15, 17, 18, 20, 21, 23, 25, 27, 29, 31,
	33, 35, 37, 40, 42, 44, 47, 49, 52, 54, 57, 59, 62, 65, 67, 70, 73, 76, 79, 82, 85, 88, 90, 93, 97, 100, 103, 106, 109, 112, 115, 118,
	121, 124, 128, 128, 131, 134, 137, 140, 143, 146, 149, 152, 155, 158, 162, 165, 167, 170, 173, 176, 179, 182, 185, 188, 190, 193, 196, 198, 201, 203, 206, 208,
	211, 213, 215, 218, 220, 222, 224, 226, 228, 230, 232, 234, 235, 237, 238, 240, 241, 243, 244, 245, 246, 248, 249, 250, 250, 251, 252, 253, 253, 254, 254, 254,
	255, 255, 255, 255, 255, 255, 255, 254, 254, 254, 253, 253, 252, 251, 250, 250, 249, 248, 246, 245, 244, 243, 241, 240, 238, 237, 235, 234, 232, 230, 228, 226,
	224, 222, 220, 218, 215, 213, 211, 208, 206, 203, 201, 198, 196, 193, 190, 188, 185, 182, 179, 176, 173, 170, 167, 165, 162, 158, 155, 152, 149, 146, 143, 140,
	137, 134, 131, 128, 124, 121, 118, 115, 112, 109, 106, 103, 100, 97, 93, 90, 88, 85, 82, 79, 76, 73, 70, 67, 65, 62, 59, 57, 54, 52, 49, 47,
	44, 42, 40, 37, 35, 33, 31, 29, 27, 25, 23, 21, 20, 18, 17, 15, 14, 12, 11, 10, 9, 7, 6, 5, 5, 4, 3, 2, 2, 1, 1, 1,
}

// NoteIncrements holds phase increments for MIDI notes MinNote..MaxNote at a
// 10 kHz tick rate: freq * 65536 / 10000.
var NoteIncrements = [NoteCount]uint16{
	214, 227, 241, 255, 270, 286, 303, 321, 340, 361, 382, 405, // C1
	429, 455, 482, 510, 541, 573, 607, 643, 681, 722, 764, 810, // C2
	858, 909, 963, 1021, 1081, 1146, 1214, 1286, 1363, 1444, 1530, 1621, // C3
	1717, 1819, 1927, 2042, 2163, 2292, 2428, 2573, 2726, 2888, 3060, 3242, // C4
	3434, 3639, 3855, 4084, 4327, 4584, 4857, 5146, 5452, 5776, 6119, 6483, // C5
	6869, 7277, 7710, 8169, 8654, 9169, 9714, 10292, 10904, 11552, 12239, 12967, // C6
	13738, // C7
}

// Detune curve knots: x^2 over 0-1023 sampled every 32 steps
const (
	DetuneKnots    = 33
	DetuneKnotBits = 5
)

// DetuneCurve is a non-decreasing quadratic response used to make the detune
// knob feel logarithmic.
var DetuneCurve = [DetuneKnots]uint16{
	0, 1, 4, 9, 16, 25, 36, 49, 64, 81,
	100, 121, 144, 169, 196, 225, 256, 289, 324, 361,
	400, 441, 484, 529, 576, 625, 676, 729, 784, 841,
	900, 961, 1023,
}
