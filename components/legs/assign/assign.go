package assign

import (
	"fmt"
	"math"

	"github.com/adammck/walker"
	"github.com/adammck/walker/math3d"
	"gonum.org/v1/gonum/stat/combin"
)

// Above this many legs, enumerating every permutation gets silly, so the
// Hungarian algorithm is used instead.
const maxBruteForce = 6

// Mappings which cost no more than this over the best are considered ties.
const tolerance = 1e-9

// Solver decides which physical leg fills which slot, by minimizing the total
// angle between each slot's desired direction and its leg's current
// direction. It's deterministic: given the same inputs, it always returns the
// same mapping.
type Solver struct {
	n     int
	perms [][]int
}

// New returns a solver for n legs.
func New(n int) *Solver {
	if n < 1 {
		panic(fmt.Sprintf("can't assign %d legs", n))
	}

	s := &Solver{n: n}
	if n <= maxBruteForce {
		s.perms = combin.Permutations(n, n)
	}

	return s
}

// Solve returns the mapping from slot index to leg index which minimizes the
// total angular travel. desired is indexed by slot and current by leg; both
// must have n elements. If prev (the mapping in use) is valid and costs the
// same as the best, it's kept, so legs don't swap slots for nothing.
func (s *Solver) Solve(desired, current []math3d.Vector3, prev []int) []int {
	if len(desired) != s.n || len(current) != s.n {
		panic(fmt.Sprintf("expected %d directions, got %d desired and %d current", s.n, len(desired), len(current)))
	}

	cost := costMatrix(desired, current)

	var best []int
	if s.perms != nil {
		best = bruteForce(cost, s.perms)
	} else {
		best = hungarian(cost)
	}

	if Valid(prev, s.n) && sum(cost, prev) <= sum(cost, best)+tolerance {
		best = prev
	}

	out := make([]int, s.n)
	copy(out, best)
	return out
}

// Cost returns the total angle (in radians) between each slot's desired
// direction and the current direction of the leg mapped to it.
func Cost(desired, current []math3d.Vector3, mapping []int) float64 {
	return sum(costMatrix(desired, current), mapping)
}

// Valid returns true if m is a permutation of 0..n-1.
func Valid(m []int, n int) bool {
	if len(m) != n {
		return false
	}

	seen := make([]bool, n)
	for _, v := range m {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}

	return true
}

// Identity returns the mapping which puts leg i in slot i.
func Identity(n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = i
	}

	return m
}

// Facing returns the heading (in degrees) which the legs should be arranged
// around: the direction of travel if the host is moving faster than speed on
// the ground plane, otherwise the direction the host is facing.
func Facing(host walker.Host, speed float64) float64 {
	v := host.Velocity()
	if v.MagnitudeSquared2D() > speed*speed {
		return math3d.HeadingOf(v)
	}

	return host.Pose().Heading
}

// Directions returns the unit vectors on the ground plane of each of the given
// local headings, rotated by heading.
func Directions(heading float64, local []float64) []math3d.Vector3 {
	rot := math3d.Pose{Heading: heading}
	out := make([]math3d.Vector3, len(local))
	for i, h := range local {
		out[i] = rot.Rotate(math3d.HeadingVector(h))
	}

	return out
}

func costMatrix(desired, current []math3d.Vector3) [][]float64 {
	c := make([][]float64, len(desired))
	for i, d := range desired {
		du := d.Unit()
		c[i] = make([]float64, len(current))
		for j, cur := range current {
			c[i][j] = du.Angle(cur.Unit())
		}
	}

	return c
}

func sum(cost [][]float64, m []int) float64 {
	t := 0.0
	for slot, leg := range m {
		t += cost[slot][leg]
	}

	return t
}

// bruteForce returns the cheapest permutation. The first one found wins ties.
func bruteForce(cost [][]float64, perms [][]int) []int {
	var best []int
	bestCost := math.Inf(1)

	for _, p := range perms {
		c := sum(cost, p)
		if c < bestCost-tolerance {
			best = p
			bestCost = c
		}
	}

	return best
}

// hungarian solves the assignment problem in O(n^3), via the shortest
// augmenting path formulation with row and column potentials. Rows are slots
// and columns are legs.
func hungarian(cost [][]float64) []int {
	n := len(cost)
	inf := math.Inf(1)

	// 1-indexed; row/column zero is a sentinel.
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1) // column -> row
	way := make([]int, n+1)

	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}

		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}

				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}

				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}

			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}

			j0 = j1
			if p[j0] == 0 {
				break
			}
		}

		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}

	m := make([]int, n)
	for j := 1; j <= n; j++ {
		m[p[j]-1] = j - 1
	}

	return m
}
