package jpeg

import "github.com/deepteams/imgdecode/internal/sample"

// colorConvert assembles the final RGBA8 output buffer from the
// frame's reconstructed component planes (spec.md §4.F "Color
// conversion"). Single-component frames are grayscale; three-component
// frames are YCbCr with nearest-neighbor chroma upsampling.
func colorConvert(f *frame, out []byte) {
	if len(f.components) == 1 {
		y := f.components[0]
		for i := 0; i < f.height; i++ {
			for j := 0; j < f.width; j++ {
				v := y.plane[i*y.planeW+j]
				pi := (i*f.width + j) * 4
				out[pi+0], out[pi+1], out[pi+2], out[pi+3] = v, v, v, 255
			}
		}
		return
	}

	yc, cb, cr := f.components[0], f.components[1], f.components[2]
	for i := 0; i < f.height; i++ {
		yRow := i / yc.vs
		cbRow := i / cb.vs
		crRow := i / cr.vs
		for j := 0; j < f.width; j++ {
			Y := int(yc.plane[yRow*yc.planeW+j/yc.hs])
			Cb := int(cb.plane[cbRow*cb.planeW+j/cb.hs])
			Cr := int(cr.plane[crRow*cr.planeW+j/cr.hs])

			r := float64(Y) + 1.402*float64(Cr-128)
			g := float64(Y) - 0.34414*float64(Cb-128) - 0.71414*float64(Cr-128)
			b := float64(Y) + 1.772*float64(Cb-128)

			pi := (i*f.width + j) * 4
			out[pi+0] = sample.Clamp(int(r + 0.5))
			out[pi+1] = sample.Clamp(int(g + 0.5))
			out[pi+2] = sample.Clamp(int(b + 0.5))
			out[pi+3] = 255
		}
	}
}
