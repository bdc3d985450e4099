package session

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegressor_JSON(t *testing.T) {
	t.Run("Should encode missing samples as null", func(t *testing.T) {
		r := Regressor{Name: "framewise_displacement", Val: []float64{math.NaN(), 0.12, 0.3}}

		data, err := json.Marshal(r)

		require.NoError(t, err)
		assert.JSONEq(t, `{"name": "framewise_displacement", "val": [null, 0.12, 0.3]}`, string(data))

		var decoded Regressor
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.True(t, math.IsNaN(decoded.Val[0]))
		assert.Equal(t, 0.12, decoded.Val[1])
	})

	t.Run("Should encode an empty run block with empty lists", func(t *testing.T) {
		info := RunInfo{Scans: "run-1", Cond: []Condition{}, Regress: []Regressor{}}

		data, err := json.Marshal(info)

		require.NoError(t, err)
		assert.JSONEq(t, `{"scans": "run-1", "cond": [], "regress": []}`, string(data))
	})
}
