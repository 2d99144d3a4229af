package analysis

import (
	"math"
	"math/cmplx"
)

// FFT returns the discrete Fourier transform of data, zero-padded to the
// next power of two.
func FFT(data []float64) []complex128 {
	n := nextPow2(len(data))
	in := make([]complex128, n)
	for i, v := range data {
		in[i] = complex(v, 0)
	}
	return fft(in)
}

func fft(data []complex128) []complex128 {
	n := len(data)
	if n <= 1 {
		return append([]complex128(nil), data...)
	}

	even := make([]complex128, n/2)
	odd := make([]complex128, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := fft(even)
	fodd := fft(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}
	return result
}

// PowerSpectrum returns the magnitudes of the first half of the spectrum.
func PowerSpectrum(data []float64) []float64 {
	spectrum := FFT(data)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p *= 2
	}
	return p
}
