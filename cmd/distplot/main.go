// Command distplot samples the uniform, bounded and centered binomial
// distributions and the challenge weight, and renders coefficient
// histograms to an HTML page for eyeballing sampler behavior.
package main

import (
	crand "crypto/rand"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"pqlattice/ring"
	"pqlattice/sample"
	"pqlattice/sign"
	"pqlattice/xof"
)

func main() {
	out := flag.String("out", "distributions.html", "output HTML file")
	n := flag.Int("n", 256, "ring degree")
	q := flag.Uint("q", 8380417, "modulus")
	draws := flag.Int("draws", 200, "polynomials per distribution")
	eta := flag.Int("eta", 2, "centered binomial parameter")
	bound := flag.Uint("bound", 131071, "uniform bound")
	tau := flag.Int("tau", 39, "challenge weight")
	signRuns := flag.Int("signruns", 50, "signatures to collect rejection counts from (0 disables)")
	flag.Parse()

	r, err := ring.NewRing(*n, uint32(*q))
	if err != nil {
		log.Fatal(err)
	}

	page := components.NewPage()
	page.SetPageTitle("sampler distributions")

	cbd, err := collect(r, *draws, func() (*ring.Poly, error) {
		return sample.CenteredBinomial(r, crand.Reader, *eta)
	})
	if err != nil {
		log.Fatal(err)
	}
	page.AddCharts(histogram(fmt.Sprintf("centered binomial eta=%d", *eta), cbd))

	bnd, err := collect(r, *draws, func() (*ring.Poly, error) {
		return sample.BoundedPoly(r, crand.Reader, uint32(*bound))
	})
	if err != nil {
		log.Fatal(err)
	}
	page.AddCharts(histogram(fmt.Sprintf("uniform bounded +/-%d", *bound), bnd))

	chal := map[int32]int{}
	for i := 0; i < *draws; i++ {
		seed := make([]byte, xof.SeedLen)
		if _, err := crand.Read(seed); err != nil {
			log.Fatal(err)
		}
		c, err := sample.ChallengeInBall(r, seed, *tau)
		if err != nil {
			log.Fatal(err)
		}
		for _, v := range c.Coeffs {
			chal[r.Field().Center(v)]++
		}
	}
	page.AddCharts(histogram(fmt.Sprintf("challenge coefficients tau=%d", *tau), chal))

	if *signRuns > 0 {
		attempts, err := signAttempts(*signRuns)
		if err != nil {
			log.Fatal(err)
		}
		page.AddCharts(histogram(fmt.Sprintf("signing iterations over %d runs", *signRuns), attempts))
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", *out)
}

// signAttempts signs fresh random messages under one key and counts the
// rejection iterations each signature took.
func signAttempts(runs int) (map[int32]int, error) {
	s, err := sign.NewScheme(sign.Dilithium2)
	if err != nil {
		return nil, err
	}
	seed := make([]byte, xof.SeedLen)
	if _, err := crand.Read(seed); err != nil {
		return nil, err
	}
	_, sk, err := s.KeyGen(seed)
	if err != nil {
		return nil, err
	}
	counts := map[int32]int{}
	msg := make([]byte, 32)
	for i := 0; i < runs; i++ {
		if _, err := crand.Read(msg); err != nil {
			return nil, err
		}
		sig, err := s.Sign(sk, msg)
		if err != nil {
			return nil, err
		}
		counts[int32(sig.Attempts)]++
	}
	return counts, nil
}

// collect accumulates centered coefficient counts over repeated draws.
func collect(r *ring.Ring, draws int, draw func() (*ring.Poly, error)) (map[int32]int, error) {
	counts := map[int32]int{}
	for i := 0; i < draws; i++ {
		p, err := draw()
		if err != nil {
			return nil, err
		}
		for _, v := range p.Coeffs {
			counts[r.Field().Center(v)]++
		}
	}
	return counts, nil
}

func histogram(title string, counts map[int32]int) *charts.Bar {
	min, max := int32(0), int32(0)
	for v := range counts {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	// Wide supports get bucketed so the chart stays readable.
	span := int64(max) - int64(min) + 1
	buckets := span
	if buckets > 201 {
		buckets = 201
	}
	width := (span + buckets - 1) / buckets

	labels := make([]string, buckets)
	data := make([]opts.BarData, buckets)
	totals := make([]int, buckets)
	for v, c := range counts {
		totals[(int64(v)-int64(min))/width] += c
	}
	for i := range labels {
		lo := int64(min) + int64(i)*width
		if width == 1 {
			labels[i] = fmt.Sprintf("%d", lo)
		} else {
			labels[i] = fmt.Sprintf("%d..%d", lo, lo+width-1)
		}
		data[i] = opts.BarData{Value: totals[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "coefficient"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "count"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(labels).AddSeries("count", data)
	return bar
}
