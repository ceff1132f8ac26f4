// README: Tool call result envelope, {ok,data} or {ok,error} on the wire.
package tools

import "encoding/json"

// Result is what every tool returns. Tools never return Go errors or panic
// outward; failures are a reason string in Error.
type Result[T any] struct {
	OK    bool
	Data  T
	Error string
}

func Ok[T any](v T) Result[T] {
	return Result[T]{OK: true, Data: v}
}

func Err[T any](reason string) Result[T] {
	return Result[T]{Error: reason}
}

type okEnvelope[T any] struct {
	OK   bool `json:"ok"`
	Data T    `json:"data"`
}

type errEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (r Result[T]) MarshalJSON() ([]byte, error) {
	if r.OK {
		return json.Marshal(okEnvelope[T]{OK: true, Data: r.Data})
	}
	return json.Marshal(errEnvelope{OK: false, Error: r.Error})
}

func (r *Result[T]) UnmarshalJSON(b []byte) error {
	var w struct {
		OK    bool   `json:"ok"`
		Data  T      `json:"data"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = Result[T]{OK: w.OK, Data: w.Data, Error: w.Error}
	return nil
}
