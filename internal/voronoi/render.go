package voronoi

import "image"

// Render flattens a Result into an RGBA raster by mapping every pixel's
// cell index to that cell's average color.
func (r *Result) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))

	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			cell := r.CellOf[y*r.Width+x]
			color := grayCell
			if cell >= 0 && int(cell) < len(r.CellColors) {
				color = r.CellColors[cell]
			}

			i := img.PixOffset(x, y)
			img.Pix[i+0] = color[0]
			img.Pix[i+1] = color[1]
			img.Pix[i+2] = color[2]
			img.Pix[i+3] = 255
		}
	}

	return img
}
