package engine

// CaptureProbability returns the probability of being captured after n
// encounters with bounty hunters: sum over k < n of 9^k / 10^(k+1), i.e.
// 1 - 0.9^n. The sum is accumulated term by term so that small n give
// exactly 0.1, 0.19, 0.271.
//
// Accumulation stops once a term no longer changes the sum. Past that point
// 10^k overflows and 9^k/10^k would turn into NaN.
func CaptureProbability(n uint64) float64 {
	num, den := 1.0, 10.0
	r := 0.0
	for i := uint64(0); i < n; i++ {
		t := num / den
		if r+t == r {
			break
		}
		r += t
		num *= 9
		den *= 10
	}
	return r
}
