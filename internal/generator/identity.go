package generator

import "math/rand"

// Synthetic filler codes for payment detail rows.  These are arbitrary
// reference codes of the target schema, not business rules.
const (
	bankCode    = "01201"
	carrierCode = "00901"
)

// holderNames is a small pool of plausible account holder names for bank
// transfer rows.
var holderNames = []string{
	"Kim Minjun", "Lee Seoyeon", "Park Jihoo", "Choi Haeun",
	"Jung Woojin", "Kang Yuna", "Cho Eunwoo", "Yoon Dain",
}

// numerify returns n random decimal digits, standing in for card numbers,
// approval codes and account numbers.
func numerify(rng *rand.Rand, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = byte('0' + rng.Intn(10))
	}
	return string(buf)
}

// phoneNumber returns a synthetic Korean mobile number.
func phoneNumber(rng *rand.Rand) string {
	return "010-" + numerify(rng, 4) + "-" + numerify(rng, 4)
}

// holderName picks an account holder name from the fixed pool.
func holderName(rng *rand.Rand) string {
	return holderNames[rng.Intn(len(holderNames))]
}
