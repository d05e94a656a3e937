package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// counterValue sums the counter samples of a family, filtered by label value.
func counterValue(t *testing.T, m *Metrics, name, labelValue string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			if labelValue != "" {
				matched := false
				for _, l := range metric.GetLabel() {
					if l.GetValue() == labelValue {
						matched = true
					}
				}
				if !matched {
					continue
				}
			}
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}

func TestRecorder(t *testing.T) {
	m := New()

	m.SettlementOpened("h1", 2)
	m.SettlementOpened("h1", 0)
	m.SettlementFinalized("h1")
	m.SettlementRejected("conflict")
	m.SettlementRejected("conflict")
	m.SettlementRejected("nothing_to_settle")
	m.ExpenseChanged("create")

	assert.Equal(t, 2.0, counterValue(t, m, "hearth_settlements_opened_total", ""))
	assert.Equal(t, 1.0, counterValue(t, m, "hearth_settlements_finalized_total", ""))
	assert.Equal(t, 2.0, counterValue(t, m, "hearth_settlement_rejections_total", "conflict"))
	assert.Equal(t, 1.0, counterValue(t, m, "hearth_expense_changes_total", "create"))
}

func TestHandler(t *testing.T) {
	m := New()
	m.SettlementFinalized("h1")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "hearth_settlements_finalized_total 1"))
}
