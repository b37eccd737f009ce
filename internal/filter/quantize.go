package filter

import (
	"sort"

	"github.com/inkbrush/cartoonize/internal/imaging"
)

const (
	// quantizeMaxSamples bounds the number of pixels fed to the clustering
	// loop. Sampling uses a fixed stride over scan order, so the same image
	// always yields the same sample set.
	quantizeMaxSamples = 1 << 16

	// quantizeMaxIterations caps the Lloyd iterations. Convergence is
	// usually much earlier; the cap keeps worst-case cost bounded.
	quantizeMaxIterations = 20
)

// Quantize clusters the image's colors into k centroids and remaps every
// pixel to its nearest centroid, producing the flat color regions of the
// cartoon look.
//
// The clustering is fully deterministic: no RNG is involved anywhere.
// Initial centroids are picked evenly along the sampled colors ordered by
// luminance (then R, G, B as tie breakers), assignment ties break toward
// the lower centroid index, and iteration order is scan order. Identical
// inputs therefore always produce byte-identical outputs.
//
// Degenerate inputs are fine: an image with fewer distinct colors than k
// simply converges to duplicate centroids and maps back to itself.
func Quantize(src *imaging.Buffer, k int) *imaging.Buffer {
	if k < 1 {
		k = 1
	}

	samples := samplePixels(src)
	if k > len(samples) {
		k = len(samples)
	}

	centroids := initialCentroids(samples, k)
	assign := make([]int, len(samples))

	for iter := 0; iter < quantizeMaxIterations; iter++ {
		changed := false
		for i, s := range samples {
			best := nearestCentroid(centroids, s)
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute means; a cluster that lost all members keeps its
		// previous centroid instead of collapsing.
		sums := make([][3]float64, len(centroids))
		counts := make([]int, len(centroids))
		for i, s := range samples {
			c := assign[i]
			sums[c][0] += s[0]
			sums[c][1] += s[1]
			sums[c][2] += s[2]
			counts[c]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			n := float64(counts[c])
			centroids[c] = [3]float64{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
		}
	}

	// Remap every pixel (not only the samples) to its nearest centroid.
	palette := make([][3]uint8, len(centroids))
	for c, cen := range centroids {
		palette[c] = [3]uint8{uint8(cen[0] + 0.5), uint8(cen[1] + 0.5), uint8(cen[2] + 0.5)}
	}

	out := imaging.New(src.Width, src.Height)
	for i := 0; i < len(src.Pix); i += 3 {
		s := [3]float64{float64(src.Pix[i]), float64(src.Pix[i+1]), float64(src.Pix[i+2])}
		p := palette[nearestCentroid(centroids, s)]
		out.Pix[i] = p[0]
		out.Pix[i+1] = p[1]
		out.Pix[i+2] = p[2]
	}
	return out
}

func samplePixels(src *imaging.Buffer) [][3]float64 {
	total := src.Width * src.Height
	stride := 1
	if total > quantizeMaxSamples {
		stride = total / quantizeMaxSamples
	}

	samples := make([][3]float64, 0, total/stride+1)
	for i := 0; i < total; i += stride {
		o := i * 3
		samples = append(samples, [3]float64{
			float64(src.Pix[o]),
			float64(src.Pix[o+1]),
			float64(src.Pix[o+2]),
		})
	}
	return samples
}

// initialCentroids seeds the clustering with k colors evenly spaced through
// the samples sorted by luminance. Spreading the seeds along the brightness
// axis converges quickly on photographic content and needs no RNG.
func initialCentroids(samples [][3]float64, k int) [][3]float64 {
	sorted := make([][3]float64, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		li := 0.299*sorted[i][0] + 0.587*sorted[i][1] + 0.114*sorted[i][2]
		lj := 0.299*sorted[j][0] + 0.587*sorted[j][1] + 0.114*sorted[j][2]
		if li != lj {
			return li < lj
		}
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		if sorted[i][1] != sorted[j][1] {
			return sorted[i][1] < sorted[j][1]
		}
		return sorted[i][2] < sorted[j][2]
	})

	centroids := make([][3]float64, k)
	if k == 1 {
		centroids[0] = sorted[len(sorted)/2]
		return centroids
	}
	for c := 0; c < k; c++ {
		centroids[c] = sorted[c*(len(sorted)-1)/(k-1)]
	}
	return centroids
}

// nearestCentroid returns the index of the closest centroid by squared
// euclidean distance, breaking ties toward the lower index.
func nearestCentroid(centroids [][3]float64, s [3]float64) int {
	best := 0
	bestDist := sqDist(centroids[0], s)
	for c := 1; c < len(centroids); c++ {
		if d := sqDist(centroids[c], s); d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

func sqDist(a, b [3]float64) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return dr*dr + dg*dg + db*db
}
