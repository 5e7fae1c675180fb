package storefront_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"Storefront/pkg/kit"
)

func kitLimiter(n int) *kit.IPRateLimiter {
	return kit.NewIPRateLimiter(n, time.Minute)
}

// gathered returns the samples of a counter or gauge family keyed by its
// single label value, or by "" when the family is unlabelled.
func gathered(t *testing.T, reg *prometheus.Registry, name string) map[string]float64 {
	t.Helper()

	mfs, err := reg.Gather()
	require.NoError(t, err)

	out := map[string]float64{}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			key := ""
			if ls := m.GetLabel(); len(ls) > 0 {
				key = ls[0].GetValue()
			}
			switch {
			case m.GetCounter() != nil:
				out[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				out[key] = m.GetGauge().GetValue()
			}
		}
	}
	return out
}
