package session

import (
	"encoding/json"
	"math"
)

type regressorJSON struct {
	Name string     `json:"name"`
	Val  []*float64 `json:"val"`
}

// MarshalJSON writes non-finite samples as null, since JSON has no NaN.
func (r Regressor) MarshalJSON() ([]byte, error) {
	out := regressorJSON{Name: r.Name, Val: make([]*float64, len(r.Val))}
	for i := range r.Val {
		if math.IsNaN(r.Val[i]) || math.IsInf(r.Val[i], 0) {
			continue
		}
		v := r.Val[i]
		out.Val[i] = &v
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads null samples back as NaN.
func (r *Regressor) UnmarshalJSON(data []byte) error {
	var in regressorJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Name = in.Name
	r.Val = make([]float64, len(in.Val))
	for i, v := range in.Val {
		if v == nil {
			r.Val[i] = math.NaN()
			continue
		}
		r.Val[i] = *v
	}
	return nil
}
