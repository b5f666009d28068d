package stability

// Rating is the verdict for a safety factor.
type Rating string

const (
	Safe     Rating = "safe"
	Marginal Rating = "marginal"
	Unsafe   Rating = "unsafe"
)

const (
	// SafeFactor is the conventional minimum for a safe section.
	SafeFactor = 1.5
	// MarginalFactor separates marginal from unsafe.
	MarginalFactor = 1.0
)

// Classify rates a safety factor: ≥1.5 safe, 1.0–1.5 marginal, <1.0 unsafe.
func Classify(fs float64) Rating {
	switch {
	case fs >= SafeFactor:
		return Safe
	case fs >= MarginalFactor:
		return Marginal
	}
	return Unsafe
}

// Verdict is the worse of the sliding and overturning ratings.
func (r *Results) Verdict() Rating {
	v := r.OverturningRating
	if r.SlidingRating == Unsafe || (r.SlidingRating == Marginal && v == Safe) {
		v = r.SlidingRating
	}
	return v
}
