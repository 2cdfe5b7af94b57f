// Command demo builds the same synthetic stream into this package's
// digest, veneur's merging t-digest and perks' targeted GK estimator, and
// prints their percentile estimates side by side.
package main

import (
	"fmt"
	"math/rand"

	"github.com/axiomhq/tdigest"
	"github.com/beorn7/perks/quantile"
	veneurtd "github.com/stripe/veneur/tdigest"
)

var percentiles = []float64{0.5, 0.9, 0.99, 0.999}

func main() {
	rng := rand.New(rand.NewSource(42))

	shardA := tdigest.NewDefault()
	shardB := tdigest.NewDefault()
	veneur := veneurtd.NewMerging(100, false)
	perks := quantile.NewTargeted(map[float64]float64{
		0.5: 0.005, 0.9: 0.001, 0.99: 0.0005, 0.999: 0.0001,
	})

	for i := 0; i < 1_000_000; i++ {
		v := rng.NormFloat64()*250 + 1000
		shard := shardA
		if i%2 == 1 {
			shard = shardB
		}
		if err := shard.Add(v); err != nil {
			panic(err)
		}
		veneur.Add(v, 1)
		perks.Insert(v)
	}

	merged := tdigest.MergeDigests(shardA, shardB)

	fmt.Printf("observations: %.0f, centroids: %d\n", merged.Count(), len(merged.Centroids()))
	fmt.Printf("%8s %12s %12s %12s\n", "q", "tdigest", "veneur", "perks")
	for _, q := range percentiles {
		mine, err := merged.Quantile(q)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%8.3f %12.3f %12.3f %12.3f\n", q, mine, veneur.Quantile(q), perks.Query(q))
	}
}
