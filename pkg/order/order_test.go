package order_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"

	"vectorlayers/pkg/geometry"
	"vectorlayers/pkg/order"
)

func TestNearest(t *testing.T) {
	starts := []geometry.Point{
		{X: 10, Y: 10},
		{X: 1, Y: 1},
		{X: 2, Y: 2},
		{X: 1, Y: 1},
	}
	got := order.Nearest(starts, geometry.Point{})
	if diff := cmp.Diff([]int{1, 3, 2, 0}, got); diff != "" {
		t.Errorf("unexpected order:\n%s\n", diff)
	}
}

func TestNearestFarOrigin(t *testing.T) {
	starts := []geometry.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 50, Y: 0}}
	got := order.Nearest(starts, geometry.Point{X: 120, Y: 0})
	if diff := cmp.Diff([]int{1, 2, 0}, got); diff != "" {
		t.Errorf("unexpected order:\n%s\n", diff)
	}
}

func TestNearestIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var starts []geometry.Point
	for i := 0; i < 200; i++ {
		starts = append(starts, geometry.Point{X: float64(rng.Intn(300)), Y: float64(rng.Intn(200))})
	}
	got := order.Nearest(starts, geometry.Point{})
	sort.Ints(got)
	for i, index := range got {
		if index != i {
			t.Fatalf("order is not a permutation at %d: %d", i, index)
		}
	}
}

func TestNearestEmpty(t *testing.T) {
	if got := order.Nearest(nil, geometry.Point{}); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

func TestTravel(t *testing.T) {
	starts := []geometry.Point{{X: 3, Y: 4}, {X: 0, Y: 1}}
	sequence := order.Nearest(starts, geometry.Point{})
	if got := order.Travel(starts, sequence, geometry.Point{}); math.Abs(got-(1+math.Sqrt(18))) > 1e-9 {
		t.Errorf("travel %g", got)
	}
	if got := order.Travel(starts, []int{0, 1}, geometry.Point{}); math.Abs(got-(5+math.Sqrt(18))) > 1e-9 {
		t.Errorf("travel %g", got)
	}
}
