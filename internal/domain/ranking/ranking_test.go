package ranking_test

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/okian/contestcorr/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompactRank(t *testing.T) {
	Convey("Given values with ties", t, func() {
		values := []float64{30, 10, 20, 10, 30}

		Convey("When ranking compactly", func() {
			ranks := ranking.CompactRank(values)

			Convey("Then ranks should be dense and parallel to the input", func() {
				So(ranks, ShouldResemble, []int{3, 1, 2, 1, 3})
			})
		})
	})

	Convey("Given strings", t, func() {
		ranks := ranking.CompactRank([]string{"b", "a", "c", "a"})

		Convey("Then ordering should follow the natural order", func() {
			So(ranks, ShouldResemble, []int{2, 1, 3, 1})
		})
	})

	Convey("Given NaN among the values", t, func() {
		nan := math.NaN()
		ranks := ranking.CompactRank([]float64{2, nan, 1, nan, 2})

		Convey("Then NaNs share the lowest rank and ranks stay dense", func() {
			So(ranks, ShouldResemble, []int{3, 1, 2, 1, 3})
		})
	})

	Convey("Given edge inputs", t, func() {
		So(ranking.CompactRank([]int{7}), ShouldResemble, []int{1})
		So(ranking.CompactRank([]int{}), ShouldBeEmpty)
		So(ranking.CompactRank[int](nil), ShouldBeEmpty)
	})

	Convey("Given random inputs", t, func() {
		rng := rand.New(rand.NewPCG(1, 2))
		for trial := 0; trial < 50; trial++ {
			values := make([]int, rng.IntN(40)+1)
			for i := range values {
				values[i] = rng.IntN(10)
			}
			ranks := ranking.CompactRank(values)

			distinct := slices.Clone(values)
			slices.Sort(distinct)
			distinct = slices.Compact(distinct)

			got := slices.Clone(ranks)
			slices.Sort(got)
			got = slices.Compact(got)

			want := make([]int, len(distinct))
			for i := range want {
				want[i] = i + 1
			}
			So(cmp.Diff(want, got), ShouldBeEmpty)

			for i := range values {
				for j := range values {
					So(values[i] == values[j], ShouldEqual, ranks[i] == ranks[j])
				}
			}
		}
	})
}

func TestAverageRank(t *testing.T) {
	Convey("Given values with a tie", t, func() {
		values := []float64{10, 20, 20, 30}

		Convey("Then tied values should share the midpoint rank", func() {
			So(ranking.AverageRank(values), ShouldResemble, []float64{1, 2.5, 2.5, 4})
		})
	})

	Convey("Given a three-way tie at the top", t, func() {
		values := []int{5, 1, 5, 5}

		Convey("Then all tied values get (2+4)/2", func() {
			So(ranking.AverageRank(values), ShouldResemble, []float64{3, 1, 3, 3})
		})
	})

	Convey("Given a single value", t, func() {
		So(ranking.AverageRank([]float64{42}), ShouldResemble, []float64{1})
	})

	Convey("Given random inputs", t, func() {
		rng := rand.New(rand.NewPCG(3, 4))
		for trial := 0; trial < 50; trial++ {
			n := rng.IntN(60) + 1
			values := make([]int, n)
			for i := range values {
				values[i] = rng.IntN(8)
			}

			sum := 0.0
			for _, r := range ranking.AverageRank(values) {
				sum += r
			}
			So(sum, ShouldEqual, float64(n*(n+1))/2)
		}
	})
}
