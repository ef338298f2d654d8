package domain

import "encoding/json"

// Instance is one unit of input within a batched inference request. Data
// carries a base64-encoded image on the way in and the decoded tensor after
// preprocessing. Keys other than "data" are not interpreted and pass through
// in Extra.
type Instance struct {
	Data  any
	Extra map[string]any
}

func (i *Instance) UnmarshalJSON(b []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	i.Data = fields["data"]
	delete(fields, "data")

	if len(fields) > 0 {
		i.Extra = fields
	}

	return nil
}

func (i Instance) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(i.Extra)+1)
	for k, v := range i.Extra {
		fields[k] = v
	}
	fields["data"] = i.Data

	return json.Marshal(fields)
}

// Request is a batched inference request. Instance order is preserved
// end to end.
type Request struct {
	Instances []Instance
	Extra     map[string]any
}

func (r *Request) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	if raw, ok := fields["instances"]; ok {
		if err := json.Unmarshal(raw, &r.Instances); err != nil {
			return err
		}
		delete(fields, "instances")
	}

	if len(fields) > 0 {
		r.Extra = make(map[string]any, len(fields))
		for k, raw := range fields {
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			r.Extra[k] = v
		}
	}

	return nil
}

func (r Request) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(r.Extra)+1)
	for k, v := range r.Extra {
		fields[k] = v
	}

	instances := r.Instances
	if instances == nil {
		instances = []Instance{}
	}
	fields["instances"] = instances

	return json.Marshal(fields)
}

// Response is a backend reply. Predict replies carry "predictions", explain
// replies carry their payload in Extra; either way the body round-trips
// unchanged.
type Response struct {
	Predictions []any
	Extra       map[string]any
}

func (r *Response) UnmarshalJSON(b []byte) error {
	var fields map[string]any
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	if raw, ok := fields["predictions"]; ok {
		preds, ok := raw.([]any)
		if !ok {
			return errPredictionsNotArray
		}
		r.Predictions = preds
		delete(fields, "predictions")
	}

	if len(fields) > 0 {
		r.Extra = fields
	}

	return nil
}

func (r Response) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, len(r.Extra)+1)
	for k, v := range r.Extra {
		fields[k] = v
	}
	if r.Predictions != nil {
		fields["predictions"] = r.Predictions
	}

	return json.Marshal(fields)
}
