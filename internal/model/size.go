package model

import (
	"strconv"
	"strings"
)

// Size is an immutable multi-dimensional integer demand or capacity vector.
// Dimensions that were never set read as zero.
type Size struct {
	dims []int
}

// NewSize returns a size with one dimension per value.
func NewSize(values ...int) Size {
	if len(values) == 0 {
		return Size{}
	}
	d := make([]int, len(values))
	copy(d, values)
	return Size{dims: d}
}

// WithDimension returns a copy of s with dimension i set to v, growing s as needed.
func (s Size) WithDimension(i, v int) Size {
	if i < 0 {
		return s
	}
	n := len(s.dims)
	if i >= n {
		n = i + 1
	}
	d := make([]int, n)
	copy(d, s.dims)
	d[i] = v
	return Size{dims: d}
}

func (s Size) Get(i int) int {
	if i < 0 || i >= len(s.dims) {
		return 0
	}
	return s.dims[i]
}

func (s Size) NumDimensions() int { return len(s.dims) }

func (s Size) Values() []int {
	out := make([]int, len(s.dims))
	copy(out, s.dims)
	return out
}

func maxDims(a, b Size) int {
	if len(a.dims) > len(b.dims) {
		return len(a.dims)
	}
	return len(b.dims)
}

func (s Size) combine(o Size, f func(x, y int) int) Size {
	n := maxDims(s, o)
	if n == 0 {
		return Size{}
	}
	d := make([]int, n)
	for i := range d {
		d[i] = f(s.Get(i), o.Get(i))
	}
	return Size{dims: d}
}

func (s Size) Add(o Size) Size {
	return s.combine(o, func(x, y int) int { return x + y })
}

func (s Size) Subtract(o Size) Size {
	return s.combine(o, func(x, y int) int { return x - y })
}

// Max returns the component-wise maximum.
func (s Size) Max(o Size) Size {
	return s.combine(o, func(x, y int) int {
		if x > y {
			return x
		}
		return y
	})
}

func (s Size) Abs() Size {
	return s.combine(Size{}, func(x, _ int) int {
		if x < 0 {
			return -x
		}
		return x
	})
}

func (s Size) Negate() Size {
	return s.combine(Size{}, func(x, _ int) int { return -x })
}

// IsLessOrEqual reports whether every dimension of s is <= the matching dimension of o.
func (s Size) IsLessOrEqual(o Size) bool {
	for i, n := 0, maxDims(s, o); i < n; i++ {
		if s.Get(i) > o.Get(i) {
			return false
		}
	}
	return true
}

func (s Size) IsGreaterOrEqual(o Size) bool { return o.IsLessOrEqual(s) }

// IsNegative reports whether any dimension is below zero.
func (s Size) IsNegative() bool {
	for _, v := range s.dims {
		if v < 0 {
			return true
		}
	}
	return false
}

func (s Size) IsZero() bool {
	for _, v := range s.dims {
		if v != 0 {
			return false
		}
	}
	return true
}

// Equal compares component-wise with missing dimensions treated as zero.
func (s Size) Equal(o Size) bool {
	return s.IsLessOrEqual(o) && o.IsLessOrEqual(s)
}

// Ratio averages s[i]/capacity[i] over dimensions with a non-zero capacity.
func (s Size) Ratio(capacity Size) float64 {
	var (
		r float64
		n int
	)
	for i, dims := 0, maxDims(s, capacity); i < dims; i++ {
		if c := capacity.Get(i); c != 0 {
			r += float64(s.Get(i)) / float64(c)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return r / float64(n)
}

func (s Size) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range s.dims {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(v))
	}
	b.WriteByte(']')
	return b.String()
}
