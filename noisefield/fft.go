package noisefield

import "gonum.org/v1/gonum/dsp/fourier"

// fft2 transforms a row-major m-by-n complex field in place, applying the
// 1D transform along every row and then every column. The inverse pass is
// unnormalized, matching [fourier.CmplxFFT].
func fft2(a []complex128, m, n int, inverse bool) {
	rowT := fourier.NewCmplxFFT(n)
	colT := fourier.NewCmplxFFT(m)
	rowBuf := make([]complex128, n)
	for i := 0; i < m; i++ {
		row := a[i*n : (i+1)*n]
		if inverse {
			rowT.Sequence(rowBuf, row)
		} else {
			rowT.Coefficients(rowBuf, row)
		}
		copy(row, rowBuf)
	}
	colIn := make([]complex128, m)
	colOut := make([]complex128, m)
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			colIn[i] = a[i*n+j]
		}
		if inverse {
			colT.Sequence(colOut, colIn)
		} else {
			colT.Coefficients(colOut, colIn)
		}
		for i := 0; i < m; i++ {
			a[i*n+j] = colOut[i]
		}
	}
}
