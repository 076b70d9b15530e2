package lighting

import "math"

// Rec. 709 luma weights used by the saturate() display filter.
const (
	lumaR = 0.2126
	lumaG = 0.7152
	lumaB = 0.0722
)

// SaturationMatrix returns the column-major 3x3 color matrix of the
// saturate(s) filter. s = 1 is identity, s = 0 is grayscale, s > 1 oversaturates.
func SaturationMatrix(s float64) [9]float32 {
	if math.IsNaN(s) || s < 0 {
		s = 0
	}
	r := lumaR * (1 - s)
	g := lumaG * (1 - s)
	b := lumaB * (1 - s)

	// Row-major rows, transposed on return.
	rows := [3][3]float64{
		{r + s, g, b},
		{r, g + s, b},
		{r, g, b + s},
	}
	var m [9]float32
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			m[col*3+row] = float32(rows[row][col])
		}
	}
	return m
}

// Saturate applies SaturationMatrix(s) to an RGB color. It mirrors the present shader.
func Saturate(c [3]float32, s float64) [3]float32 {
	m := SaturationMatrix(s)
	var out [3]float32
	for row := 0; row < 3; row++ {
		out[row] = m[row]*c[0] + m[3+row]*c[1] + m[6+row]*c[2]
	}
	return out
}

// ACESFilmic is the Narkowicz fit of the ACES filmic curve, applied per channel
// after exposure. It mirrors the scene shader.
func ACESFilmic(x float64) float64 {
	const (
		a = 2.51
		b = 0.03
		c = 2.43
		d = 0.59
		e = 0.14
	)
	if x <= 0 {
		return 0
	}
	return math.Min(1, math.Max(0, (x*(a*x+b))/(x*(c*x+d)+e)))
}
